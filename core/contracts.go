package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

// Task names understood by the queue consumers shipped with this module.
const (
	TaskProcessEvent   = "ecm.events.process"
	TaskDeliverWebhook = "ecm.webhooks.deliver"
)

// TaskMessage is the unit of work handed to the at-least-once task queue.
// MaxRetries and RetryDelay are per-task retry configuration consumed by the
// queue transport; the concrete broker is external to this module.
type TaskMessage struct {
	Name       string
	Args       map[string]any
	MaxRetries int
	RetryDelay time.Duration
}

type TaskNackOptions struct {
	Delay      time.Duration
	Requeue    bool
	DeadLetter bool
	Reason     string
}

type TaskEnqueuer interface {
	Enqueue(ctx context.Context, msg *TaskMessage) error
}

type TaskDelivery interface {
	Message() *TaskMessage
	Ack(ctx context.Context) error
	Nack(ctx context.Context, opts TaskNackOptions) error
}

type TaskDequeuer interface {
	Dequeue(ctx context.Context) (TaskDelivery, error)
}

// SearchIndexer is the external search collaborator. Invoked fire-and-forget;
// failures are logged by the caller and never propagate.
type SearchIndexer interface {
	Update(ctx context.Context, documentID string) error
}

type DispatchStats struct {
	Notified         int
	DeliveriesQueued int
	ChannelErrors    int
}

type UpsertSubscriptionInput struct {
	DocumentID string
	PersonID   string
	EventTypes []string
	IsActive   bool
}

type SubscriptionStore interface {
	Upsert(ctx context.Context, in UpsertSubscriptionInput) (DocumentSubscription, error)
	Get(ctx context.Context, id string) (DocumentSubscription, error)
	GetByDocumentAndPerson(ctx context.Context, documentID string, personID string) (DocumentSubscription, error)
	ListActiveByDocument(ctx context.Context, documentID string) ([]DocumentSubscription, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type CreateNotificationInput struct {
	PersonID   string
	Title      string
	Body       string
	EventType  string
	EntityType string
	EntityID   string
	Metadata   map[string]any
}

type NotificationFilter struct {
	PersonID  string
	EventType string
	IsRead    *bool
	IsActive  *bool
	Limit     int
	Offset    int
}

type NotificationStore interface {
	Create(ctx context.Context, in CreateNotificationInput) (Notification, error)
	Get(ctx context.Context, id string) (Notification, error)
	List(ctx context.Context, filter NotificationFilter) ([]Notification, error)
	MarkRead(ctx context.Context, ids []string, readAt time.Time) (int, error)
	MarkAllRead(ctx context.Context, personID string, readAt time.Time) (int, error)
	UnreadCount(ctx context.Context, personID string) (int, error)
	Dismiss(ctx context.Context, id string) error
}

type RegisterEndpointInput struct {
	Name       string
	URL        string
	Secret     string
	EventTypes []string
	CreatedBy  string
}

type UpdateEndpointInput struct {
	Name       *string
	URL        *string
	Secret     *string
	EventTypes []string
	IsActive   *bool
}

type EndpointFilter struct {
	CreatedBy string
	IsActive  *bool
	Limit     int
	Offset    int
}

type EndpointStore interface {
	Create(ctx context.Context, in RegisterEndpointInput) (WebhookEndpoint, error)
	Get(ctx context.Context, id string) (WebhookEndpoint, error)
	Update(ctx context.Context, id string, in UpdateEndpointInput) (WebhookEndpoint, error)
	Deactivate(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]WebhookEndpoint, error)
	List(ctx context.Context, filter EndpointFilter) ([]WebhookEndpoint, error)
}

// AttemptOutcome is what the delivery worker learned from one attempt. The
// store applies it together with the attempt-counter increment in a single
// statement so duplicate scheduling cannot lose an increment.
type AttemptOutcome struct {
	Status             DeliveryStatus
	ResponseStatusCode *int
	ResponseBody       string
	At                 time.Time
}

type DeliveryFilter struct {
	EndpointID string
	EventType  string
	Status     DeliveryStatus
	IsActive   *bool
	Limit      int
	Offset     int
}

type DeliveryStore interface {
	CreatePending(ctx context.Context, endpointID string, eventType string, payload []byte) (WebhookDelivery, error)
	Get(ctx context.Context, id string) (WebhookDelivery, error)
	List(ctx context.Context, filter DeliveryFilter) ([]WebhookDelivery, error)
	RecordAttempt(ctx context.Context, id string, outcome AttemptOutcome) (WebhookDelivery, error)
}

type StoreProvider interface {
	SubscriptionStore() SubscriptionStore
	NotificationStore() NotificationStore
	EndpointStore() EndpointStore
	DeliveryStore() DeliveryStore
}

type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (StoreProvider, error)
}
