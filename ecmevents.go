package ecmevents

import "github.com/goliatone/go-ecm-events/core"

type Config = core.Config

type DeliveryConfig = core.DeliveryConfig

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies

type Envelope = core.Envelope
type DispatchStats = core.DispatchStats
type DocumentSubscription = core.DocumentSubscription
type Notification = core.Notification
type WebhookEndpoint = core.WebhookEndpoint
type WebhookDelivery = core.WebhookDelivery
type DeliveryStatus = core.DeliveryStatus

type TaskEnqueuer = core.TaskEnqueuer
type TaskDequeuer = core.TaskDequeuer
type SearchIndexer = core.SearchIndexer
type SubscriptionStore = core.SubscriptionStore
type NotificationStore = core.NotificationStore
type EndpointStore = core.EndpointStore
type DeliveryStore = core.DeliveryStore

var (
	WithLogger            = core.WithLogger
	WithLoggerProvider    = core.WithLoggerProvider
	WithMetricsRecorder   = core.WithMetricsRecorder
	WithErrorFactory      = core.WithErrorFactory
	WithErrorMapper       = core.WithErrorMapper
	WithPersistenceClient = core.WithPersistenceClient
	WithRepositoryFactory = core.WithRepositoryFactory
	WithConfigProvider    = core.WithConfigProvider
	WithOptionsResolver   = core.WithOptionsResolver
	WithTaskEnqueuer      = core.WithTaskEnqueuer
	WithSearchIndexer     = core.WithSearchIndexer
	WithSubscriptionStore = core.WithSubscriptionStore
	WithNotificationStore = core.WithNotificationStore
	WithEndpointStore     = core.WithEndpointStore
	WithDeliveryStore     = core.WithDeliveryStore
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
