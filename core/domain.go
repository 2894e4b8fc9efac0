package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidEventType                = errors.New("core: invalid event type")
	ErrInvalidDeliveryStatusTransition = errors.New("core: invalid delivery status transition")
	ErrDeliveryNotFound                = errors.New("core: webhook delivery not found")
	ErrEndpointNotFound                = errors.New("core: webhook endpoint not found")
	ErrNotificationNotFound            = errors.New("core: notification not found")
	ErrSubscriptionNotFound            = errors.New("core: document subscription not found")
	ErrEnqueuerUnavailable             = errors.New("core: task enqueuer unavailable")
)

// Envelope is the transient description of one domain occurrence. It is
// created by a mutation, consumed once by the dispatcher, and discarded.
type Envelope struct {
	EventType  string
	EntityType string
	EntityID   string
	ActorID    string
	DocumentID string
	Payload    map[string]any
	OccurredAt time.Time
}

func (e Envelope) Validate() error {
	if strings.TrimSpace(e.EventType) == "" {
		return fmt.Errorf("%w: empty event type", ErrInvalidEventType)
	}
	if strings.TrimSpace(e.EntityType) == "" {
		return fmt.Errorf("core: entity type is required")
	}
	if strings.TrimSpace(e.EntityID) == "" {
		return fmt.Errorf("core: entity id is required")
	}
	return nil
}

// DocumentSubscription is a person's opt-in to notifications about one
// document's events. Unique per (document, person).
type DocumentSubscription struct {
	ID         string
	DocumentID string
	PersonID   string
	EventTypes []string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Notification struct {
	ID         string
	PersonID   string
	Title      string
	Body       string
	EventType  string
	EntityType string
	EntityID   string
	IsRead     bool
	ReadAt     *time.Time
	Metadata   map[string]any
	IsActive   bool
	CreatedAt  time.Time
}

// WebhookEndpoint is a registered external HTTP URL that receives signed
// event payloads. An empty EventTypes set matches every event.
type WebhookEndpoint struct {
	ID         string
	Name       string
	URL        string
	Secret     string
	EventTypes []string
	CreatedBy  string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSuccess DeliveryStatus = "success"
	DeliveryStatusFailed  DeliveryStatus = "failed"
)

// WebhookDelivery is one attempted transmission of an event to one endpoint.
// The payload snapshot is frozen at creation time; the source entity may
// change afterwards without affecting the audit record.
type WebhookDelivery struct {
	ID                 string
	EndpointID         string
	EventType          string
	Payload            []byte
	Status             DeliveryStatus
	ResponseStatusCode *int
	ResponseBody       string
	Attempts           int
	LastAttemptAt      *time.Time
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (d *WebhookDelivery) TransitionTo(status DeliveryStatus, now time.Time) error {
	if d == nil {
		return nil
	}
	if d.Status == status {
		d.UpdatedAt = now
		return nil
	}
	if !deliveryTransitionAllowed(d.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidDeliveryStatusTransition, d.Status, status)
	}
	d.Status = status
	d.UpdatedAt = now
	return nil
}

func deliveryTransitionAllowed(current, next DeliveryStatus) bool {
	allowed := map[DeliveryStatus]map[DeliveryStatus]struct{}{
		DeliveryStatusPending: {
			DeliveryStatusSuccess: {},
			DeliveryStatusFailed:  {},
		},
		// failed stays retryable until the attempt budget is exhausted;
		// the worker enforces the cap, not the state machine.
		DeliveryStatusFailed: {
			DeliveryStatusSuccess: {},
			DeliveryStatusFailed:  {},
		},
		DeliveryStatusSuccess: {},
	}
	_, ok := allowed[current][next]
	return ok
}

// NotificationTitle renders "workflow.task_completed" as
// "Workflow Task_Completed". Dots split words; each word segment,
// including the ones behind underscores, gets an uppercase first letter.
func NotificationTitle(eventType string) string {
	words := strings.Split(strings.ReplaceAll(strings.TrimSpace(eventType), ".", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		segments := strings.Split(word, "_")
		for j, segment := range segments {
			if segment == "" {
				continue
			}
			segments[j] = strings.ToUpper(segment[:1]) + segment[1:]
		}
		words[i] = strings.Join(segments, "_")
	}
	return strings.Join(words, " ")
}

func NotificationBody(event Envelope) string {
	return fmt.Sprintf("Event %s on %s %s", event.EventType, event.EntityType, event.EntityID)
}
