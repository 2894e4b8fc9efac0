package core

import (
	"context"
	"fmt"
	"strings"
)

// fanOutNotifications creates one in-app notification per active subscriber
// of the event's document. The actor never receives a notification for their
// own action, and a subscription only matches when its event type list
// explicitly covers the event, exactly or by hierarchy prefix.
func (s *Service) fanOutNotifications(ctx context.Context, event Envelope) (int, error) {
	if s == nil || s.subscriptionStore == nil || s.notificationStore == nil {
		return 0, nil
	}
	documentID := strings.TrimSpace(event.DocumentID)
	if documentID == "" {
		return 0, nil
	}

	subscriptions, err := s.subscriptionStore.ListActiveByDocument(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("core: list subscriptions for document %s: %w", documentID, err)
	}

	created := 0
	var failures []string
	for _, subscription := range subscriptions {
		if strings.TrimSpace(event.ActorID) != "" && subscription.PersonID == event.ActorID {
			continue
		}
		// Empty subscription lists match nothing, unlike webhook endpoints
		// where an empty list is a wildcard.
		if !MatchesEventType(subscription.EventTypes, event.EventType) {
			continue
		}
		_, createErr := s.notificationStore.Create(ctx, CreateNotificationInput{
			PersonID:   subscription.PersonID,
			Title:      NotificationTitle(event.EventType),
			Body:       NotificationBody(event),
			EventType:  event.EventType,
			EntityType: event.EntityType,
			EntityID:   event.EntityID,
			Metadata:   cloneFields(event.Payload),
		})
		if createErr != nil {
			failures = append(failures, subscription.PersonID)
			s.logError(ctx, "notification create failed", map[string]any{
				"person_id":  subscription.PersonID,
				"event_type": event.EventType,
				"error":      createErr.Error(),
			})
			continue
		}
		created++
	}

	if len(failures) > 0 {
		return created, fmt.Errorf("core: notification fan-out failed for %d of %d subscribers", len(failures), len(subscriptions))
	}
	return created, nil
}
