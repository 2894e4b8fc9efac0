package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Subscribe creates or reactivates the subscription identified by
// (document, person), replacing its event type list. One row per pair.
func (s *Service) Subscribe(ctx context.Context, in UpsertSubscriptionInput) (subscription DocumentSubscription, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"document_id": in.DocumentID,
		"person_id":   in.PersonID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "subscribe", err, fields)
	}()

	if s == nil || s.subscriptionStore == nil {
		err = s.mapError(fmt.Errorf("core: subscription store is required"))
		return DocumentSubscription{}, err
	}
	in.DocumentID = strings.TrimSpace(in.DocumentID)
	in.PersonID = strings.TrimSpace(in.PersonID)
	if in.DocumentID == "" || in.PersonID == "" {
		err = s.mapError(fmt.Errorf("core: document id and person id are required"))
		return DocumentSubscription{}, err
	}
	in.EventTypes = normalizeEventTypes(in.EventTypes)
	in.IsActive = true

	subscription, err = s.subscriptionStore.Upsert(ctx, in)
	if err != nil {
		err = s.mapError(err)
		return DocumentSubscription{}, err
	}
	return subscription, nil
}

// Unsubscribe deactivates the (document, person) subscription. The row is
// kept so a later subscribe reuses it.
func (s *Service) Unsubscribe(ctx context.Context, documentID string, personID string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"document_id": documentID,
		"person_id":   personID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "unsubscribe", err, fields)
	}()

	if s == nil || s.subscriptionStore == nil {
		err = s.mapError(fmt.Errorf("core: subscription store is required"))
		return err
	}
	documentID = strings.TrimSpace(documentID)
	personID = strings.TrimSpace(personID)
	if documentID == "" || personID == "" {
		err = s.mapError(fmt.Errorf("core: document id and person id are required"))
		return err
	}

	subscription, getErr := s.subscriptionStore.GetByDocumentAndPerson(ctx, documentID, personID)
	if getErr != nil {
		err = s.mapError(getErr)
		return err
	}
	if err = s.subscriptionStore.SetActive(ctx, subscription.ID, false); err != nil {
		err = s.mapError(err)
		return err
	}
	return nil
}

// ListDocumentSubscribers returns the active subscriptions for one document.
func (s *Service) ListDocumentSubscribers(ctx context.Context, documentID string) ([]DocumentSubscription, error) {
	if s == nil || s.subscriptionStore == nil {
		return nil, s.mapError(fmt.Errorf("core: subscription store is required"))
	}
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, s.mapError(fmt.Errorf("core: document id is required"))
	}
	subscriptions, err := s.subscriptionStore.ListActiveByDocument(ctx, documentID)
	if err != nil {
		return nil, s.mapError(err)
	}
	return subscriptions, nil
}

func normalizeEventTypes(eventTypes []string) []string {
	out := make([]string, 0, len(eventTypes))
	seen := map[string]struct{}{}
	for _, eventType := range eventTypes {
		eventType = strings.TrimSpace(eventType)
		if eventType == "" {
			continue
		}
		if _, ok := seen[eventType]; ok {
			continue
		}
		seen[eventType] = struct{}{}
		out = append(out, eventType)
	}
	return out
}
