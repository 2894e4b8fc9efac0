package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type memorySubscriptionStore struct {
	mu            sync.Mutex
	subscriptions map[string]DocumentSubscription
	nextID        int

	listErr error
}

func newMemorySubscriptionStore() *memorySubscriptionStore {
	return &memorySubscriptionStore{subscriptions: map[string]DocumentSubscription{}}
}

func (s *memorySubscriptionStore) Upsert(_ context.Context, in UpsertSubscriptionInput) (DocumentSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for id, existing := range s.subscriptions {
		if existing.DocumentID == in.DocumentID && existing.PersonID == in.PersonID {
			existing.EventTypes = append([]string(nil), in.EventTypes...)
			existing.IsActive = in.IsActive
			existing.UpdatedAt = now
			s.subscriptions[id] = existing
			return existing, nil
		}
	}
	s.nextID++
	subscription := DocumentSubscription{
		ID:         fmt.Sprintf("sub_%d", s.nextID),
		DocumentID: in.DocumentID,
		PersonID:   in.PersonID,
		EventTypes: append([]string(nil), in.EventTypes...),
		IsActive:   in.IsActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.subscriptions[subscription.ID] = subscription
	return subscription, nil
}

func (s *memorySubscriptionStore) Get(_ context.Context, id string) (DocumentSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subscription, ok := s.subscriptions[id]
	if !ok {
		return DocumentSubscription{}, ErrSubscriptionNotFound
	}
	return subscription, nil
}

func (s *memorySubscriptionStore) GetByDocumentAndPerson(_ context.Context, documentID string, personID string) (DocumentSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, subscription := range s.subscriptions {
		if subscription.DocumentID == documentID && subscription.PersonID == personID {
			return subscription, nil
		}
	}
	return DocumentSubscription{}, ErrSubscriptionNotFound
}

func (s *memorySubscriptionStore) ListActiveByDocument(_ context.Context, documentID string) ([]DocumentSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []DocumentSubscription
	for _, subscription := range s.subscriptions {
		if subscription.DocumentID == documentID && subscription.IsActive {
			out = append(out, subscription)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memorySubscriptionStore) SetActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	subscription, ok := s.subscriptions[id]
	if !ok {
		return ErrSubscriptionNotFound
	}
	subscription.IsActive = active
	subscription.UpdatedAt = time.Now().UTC()
	s.subscriptions[id] = subscription
	return nil
}

type memoryNotificationStore struct {
	mu            sync.Mutex
	notifications map[string]Notification
	nextID        int

	createErr       error
	failForPersonID string
}

func newMemoryNotificationStore() *memoryNotificationStore {
	return &memoryNotificationStore{notifications: map[string]Notification{}}
}

func (s *memoryNotificationStore) Create(_ context.Context, in CreateNotificationInput) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil && (s.failForPersonID == "" || s.failForPersonID == in.PersonID) {
		return Notification{}, s.createErr
	}
	s.nextID++
	notification := Notification{
		ID:         fmt.Sprintf("ntf_%d", s.nextID),
		PersonID:   in.PersonID,
		Title:      in.Title,
		Body:       in.Body,
		EventType:  in.EventType,
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		Metadata:   in.Metadata,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	s.notifications[notification.ID] = notification
	return notification, nil
}

func (s *memoryNotificationStore) Get(_ context.Context, id string) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification, ok := s.notifications[id]
	if !ok {
		return Notification{}, ErrNotificationNotFound
	}
	return notification, nil
}

func (s *memoryNotificationStore) List(_ context.Context, filter NotificationFilter) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Notification
	for _, notification := range s.notifications {
		if filter.PersonID != "" && notification.PersonID != filter.PersonID {
			continue
		}
		if filter.EventType != "" && notification.EventType != filter.EventType {
			continue
		}
		if filter.IsRead != nil && notification.IsRead != *filter.IsRead {
			continue
		}
		if filter.IsActive != nil && notification.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, notification)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryNotificationStore) MarkRead(_ context.Context, ids []string, readAt time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for _, id := range ids {
		notification, ok := s.notifications[id]
		if !ok || notification.IsRead {
			continue
		}
		notification.IsRead = true
		at := readAt
		notification.ReadAt = &at
		s.notifications[id] = notification
		updated++
	}
	return updated, nil
}

func (s *memoryNotificationStore) MarkAllRead(_ context.Context, personID string, readAt time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for id, notification := range s.notifications {
		if notification.PersonID != personID || notification.IsRead || !notification.IsActive {
			continue
		}
		notification.IsRead = true
		at := readAt
		notification.ReadAt = &at
		s.notifications[id] = notification
		updated++
	}
	return updated, nil
}

func (s *memoryNotificationStore) UnreadCount(_ context.Context, personID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, notification := range s.notifications {
		if notification.PersonID == personID && !notification.IsRead && notification.IsActive {
			count++
		}
	}
	return count, nil
}

func (s *memoryNotificationStore) Dismiss(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification, ok := s.notifications[id]
	if !ok {
		return ErrNotificationNotFound
	}
	notification.IsActive = false
	s.notifications[id] = notification
	return nil
}

type memoryEndpointStore struct {
	mu        sync.Mutex
	endpoints map[string]WebhookEndpoint
	nextID    int

	listErr error
}

func newMemoryEndpointStore() *memoryEndpointStore {
	return &memoryEndpointStore{endpoints: map[string]WebhookEndpoint{}}
}

func (s *memoryEndpointStore) Create(_ context.Context, in RegisterEndpointInput) (WebhookEndpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now().UTC()
	endpoint := WebhookEndpoint{
		ID:         fmt.Sprintf("ep_%d", s.nextID),
		Name:       in.Name,
		URL:        in.URL,
		Secret:     in.Secret,
		EventTypes: append([]string(nil), in.EventTypes...),
		CreatedBy:  in.CreatedBy,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.endpoints[endpoint.ID] = endpoint
	return endpoint, nil
}

func (s *memoryEndpointStore) Get(_ context.Context, id string) (WebhookEndpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	endpoint, ok := s.endpoints[id]
	if !ok {
		return WebhookEndpoint{}, ErrEndpointNotFound
	}
	return endpoint, nil
}

func (s *memoryEndpointStore) Update(_ context.Context, id string, in UpdateEndpointInput) (WebhookEndpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	endpoint, ok := s.endpoints[id]
	if !ok {
		return WebhookEndpoint{}, ErrEndpointNotFound
	}
	if in.Name != nil {
		endpoint.Name = *in.Name
	}
	if in.URL != nil {
		endpoint.URL = *in.URL
	}
	if in.Secret != nil {
		endpoint.Secret = *in.Secret
	}
	if in.EventTypes != nil {
		endpoint.EventTypes = append([]string(nil), in.EventTypes...)
	}
	if in.IsActive != nil {
		endpoint.IsActive = *in.IsActive
	}
	endpoint.UpdatedAt = time.Now().UTC()
	s.endpoints[id] = endpoint
	return endpoint, nil
}

func (s *memoryEndpointStore) Deactivate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	endpoint, ok := s.endpoints[id]
	if !ok {
		return ErrEndpointNotFound
	}
	endpoint.IsActive = false
	s.endpoints[id] = endpoint
	return nil
}

func (s *memoryEndpointStore) ListActive(_ context.Context) ([]WebhookEndpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []WebhookEndpoint
	for _, endpoint := range s.endpoints {
		if endpoint.IsActive {
			out = append(out, endpoint)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryEndpointStore) List(_ context.Context, filter EndpointFilter) ([]WebhookEndpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []WebhookEndpoint
	for _, endpoint := range s.endpoints {
		if filter.CreatedBy != "" && endpoint.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.IsActive != nil && endpoint.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, endpoint)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memoryDeliveryStore struct {
	mu         sync.Mutex
	deliveries map[string]WebhookDelivery
	nextID     int

	createErr error
}

func newMemoryDeliveryStore() *memoryDeliveryStore {
	return &memoryDeliveryStore{deliveries: map[string]WebhookDelivery{}}
}

func (s *memoryDeliveryStore) CreatePending(_ context.Context, endpointID string, eventType string, payload []byte) (WebhookDelivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return WebhookDelivery{}, s.createErr
	}
	s.nextID++
	now := time.Now().UTC()
	delivery := WebhookDelivery{
		ID:         fmt.Sprintf("dlv_%d", s.nextID),
		EndpointID: endpointID,
		EventType:  eventType,
		Payload:    append([]byte(nil), payload...),
		Status:     DeliveryStatusPending,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.deliveries[delivery.ID] = delivery
	return delivery, nil
}

func (s *memoryDeliveryStore) Get(_ context.Context, id string) (WebhookDelivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delivery, ok := s.deliveries[id]
	if !ok {
		return WebhookDelivery{}, ErrDeliveryNotFound
	}
	return delivery, nil
}

func (s *memoryDeliveryStore) List(_ context.Context, filter DeliveryFilter) ([]WebhookDelivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []WebhookDelivery
	for _, delivery := range s.deliveries {
		if filter.EndpointID != "" && delivery.EndpointID != filter.EndpointID {
			continue
		}
		if filter.EventType != "" && delivery.EventType != filter.EventType {
			continue
		}
		if filter.Status != "" && delivery.Status != filter.Status {
			continue
		}
		out = append(out, delivery)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryDeliveryStore) RecordAttempt(_ context.Context, id string, outcome AttemptOutcome) (WebhookDelivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delivery, ok := s.deliveries[id]
	if !ok {
		return WebhookDelivery{}, ErrDeliveryNotFound
	}
	if delivery.Status != DeliveryStatusSuccess {
		delivery.Attempts++
		at := outcome.At
		delivery.LastAttemptAt = &at
		delivery.Status = outcome.Status
		delivery.ResponseStatusCode = outcome.ResponseStatusCode
		delivery.ResponseBody = outcome.ResponseBody
		delivery.UpdatedAt = at
		s.deliveries[id] = delivery
	}
	return delivery, nil
}

type captureEnqueuer struct {
	mu       sync.Mutex
	messages []*TaskMessage
	err      error
}

func (e *captureEnqueuer) Enqueue(_ context.Context, msg *TaskMessage) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.messages = append(e.messages, msg)
	return nil
}

type captureIndexer struct {
	mu        sync.Mutex
	documents []string
	err       error
}

func (i *captureIndexer) Update(_ context.Context, documentID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.err != nil {
		return i.err
	}
	i.documents = append(i.documents, documentID)
	return nil
}

func newTestService(t interface{ Fatalf(string, ...any) }, options ...Option) *Service {
	svc, err := NewService(Config{}, options...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}
