package core

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Service is the event fan-out engine. It publishes envelopes onto the task
// queue, dispatches them to the notification, webhook and search channels,
// and exposes the subscription, notification, endpoint and delivery
// operations backed by the configured stores.
type Service struct {
	observer
	config            Config
	loggerProvider    LoggerProvider
	errorFactory      ErrorFactory
	errorMapper       ErrorMapper
	persistenceClient any
	repositoryFactory any
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	enqueuer          TaskEnqueuer
	searchIndexer     SearchIndexer
	subscriptionStore SubscriptionStore
	notificationStore NotificationStore
	endpointStore     EndpointStore
	deliveryStore     DeliveryStore
}

type ServiceDependencies struct {
	Logger            Logger
	LoggerProvider    LoggerProvider
	MetricsRecorder   MetricsRecorder
	ErrorFactory      ErrorFactory
	ErrorMapper       ErrorMapper
	PersistenceClient any
	RepositoryFactory any
	ConfigProvider    ConfigProvider
	OptionsResolver   OptionsResolver
	TaskEnqueuer      TaskEnqueuer
	SearchIndexer     SearchIndexer
	SubscriptionStore SubscriptionStore
	NotificationStore NotificationStore
	EndpointStore     EndpointStore
	DeliveryStore     DeliveryStore
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("ecm-events", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("ecm-events"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if builder.repositoryFactory != nil && missingAnyStore(builder) {
		var storeProvider StoreProvider
		if storeFactory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			built, buildErr := storeFactory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			storeProvider = built
		} else if asProvider, ok := builder.repositoryFactory.(StoreProvider); ok {
			storeProvider = asProvider
		}
		if storeProvider != nil {
			if builder.subscriptionStore == nil {
				builder.subscriptionStore = storeProvider.SubscriptionStore()
			}
			if builder.notificationStore == nil {
				builder.notificationStore = storeProvider.NotificationStore()
			}
			if builder.endpointStore == nil {
				builder.endpointStore = storeProvider.EndpointStore()
			}
			if builder.deliveryStore == nil {
				builder.deliveryStore = storeProvider.DeliveryStore()
			}
		}
	}

	return &Service{
		observer: observer{
			logger:  logger,
			metrics: builder.metricsRecorder,
		},
		config:            finalConfig,
		loggerProvider:    provider,
		errorFactory:      builder.errorFactory,
		errorMapper:       builder.errorMapper,
		persistenceClient: builder.persistenceClient,
		repositoryFactory: builder.repositoryFactory,
		configProvider:    builder.configProvider,
		optionsResolver:   builder.optionsResolver,
		enqueuer:          builder.enqueuer,
		searchIndexer:     builder.searchIndexer,
		subscriptionStore: builder.subscriptionStore,
		notificationStore: builder.notificationStore,
		endpointStore:     builder.endpointStore,
		deliveryStore:     builder.deliveryStore,
	}, nil
}

func Setup(cfg Config, options ...Option) (*Service, error) {
	return NewService(cfg, options...)
}

func missingAnyStore(builder serviceBuilder) bool {
	return builder.subscriptionStore == nil ||
		builder.notificationStore == nil ||
		builder.endpointStore == nil ||
		builder.deliveryStore == nil
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:            s.logger,
		LoggerProvider:    s.loggerProvider,
		MetricsRecorder:   s.metrics,
		ErrorFactory:      s.errorFactory,
		ErrorMapper:       s.errorMapper,
		PersistenceClient: s.persistenceClient,
		RepositoryFactory: s.repositoryFactory,
		ConfigProvider:    s.configProvider,
		OptionsResolver:   s.optionsResolver,
		TaskEnqueuer:      s.enqueuer,
		SearchIndexer:     s.searchIndexer,
		SubscriptionStore: s.subscriptionStore,
		NotificationStore: s.notificationStore,
		EndpointStore:     s.endpointStore,
		DeliveryStore:     s.deliveryStore,
	}
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return err
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}
