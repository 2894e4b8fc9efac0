package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-ecm-events/core"
)

const endpointCacheKeyPrefix = "ecm-events::webhook_endpoints::v1"

// CachedEndpointStore wraps an endpoint store with a read-through cache on
// the active endpoint listing and single-endpoint reads. The dispatcher
// lists active endpoints once per published event, which makes these the
// hottest reads in the module. Every mutation invalidates.
type CachedEndpointStore struct {
	base  core.EndpointStore
	cache repositorycache.CacheService
}

func NewCachedEndpointStore(base core.EndpointStore, cacheService repositorycache.CacheService) (*CachedEndpointStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base endpoint store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: endpoint cache service is required")
	}
	return &CachedEndpointStore{base: base, cache: cacheService}, nil
}

func activeEndpointsCacheKey() string {
	return endpointCacheKeyPrefix + "::active"
}

func endpointCacheKey(id string) string {
	return endpointCacheKeyPrefix + "::id::" + url.PathEscape(strings.TrimSpace(id))
}

func (s *CachedEndpointStore) Create(ctx context.Context, in core.RegisterEndpointInput) (core.WebhookEndpoint, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.WebhookEndpoint{}, fmt.Errorf("sqlstore: cached endpoint store is not configured")
	}
	endpoint, err := s.base.Create(ctx, in)
	if err != nil {
		return core.WebhookEndpoint{}, err
	}
	if err := s.cache.Delete(ctx, activeEndpointsCacheKey()); err != nil {
		return core.WebhookEndpoint{}, err
	}
	return endpoint, nil
}

func (s *CachedEndpointStore) Get(ctx context.Context, id string) (core.WebhookEndpoint, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.WebhookEndpoint{}, fmt.Errorf("sqlstore: cached endpoint store is not configured")
	}
	endpoint, err := repositorycache.GetOrFetch(ctx, s.cache, endpointCacheKey(id), func(ctx context.Context) (core.WebhookEndpoint, error) {
		return s.base.Get(ctx, id)
	})
	if err != nil {
		return core.WebhookEndpoint{}, err
	}
	return endpoint, nil
}

func (s *CachedEndpointStore) Update(ctx context.Context, id string, in core.UpdateEndpointInput) (core.WebhookEndpoint, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.WebhookEndpoint{}, fmt.Errorf("sqlstore: cached endpoint store is not configured")
	}
	endpoint, err := s.base.Update(ctx, id, in)
	if err != nil {
		return core.WebhookEndpoint{}, err
	}
	if err := s.invalidate(ctx, id); err != nil {
		return core.WebhookEndpoint{}, err
	}
	return endpoint, nil
}

func (s *CachedEndpointStore) Deactivate(ctx context.Context, id string) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached endpoint store is not configured")
	}
	if err := s.base.Deactivate(ctx, id); err != nil {
		return err
	}
	return s.invalidate(ctx, id)
}

func (s *CachedEndpointStore) ListActive(ctx context.Context) ([]core.WebhookEndpoint, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return nil, fmt.Errorf("sqlstore: cached endpoint store is not configured")
	}
	endpoints, err := repositorycache.GetOrFetch(ctx, s.cache, activeEndpointsCacheKey(), func(ctx context.Context) ([]core.WebhookEndpoint, error) {
		return s.base.ListActive(ctx)
	})
	if err != nil {
		return nil, err
	}
	return append([]core.WebhookEndpoint(nil), endpoints...), nil
}

// List bypasses the cache; filtered listings are admin surface, not the
// dispatch hot path.
func (s *CachedEndpointStore) List(ctx context.Context, filter core.EndpointFilter) ([]core.WebhookEndpoint, error) {
	if s == nil || s.base == nil {
		return nil, fmt.Errorf("sqlstore: cached endpoint store is not configured")
	}
	return s.base.List(ctx, filter)
}

func (s *CachedEndpointStore) invalidate(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, endpointCacheKey(id)); err != nil {
		return err
	}
	return s.cache.Delete(ctx, activeEndpointsCacheKey())
}

var _ core.EndpointStore = (*CachedEndpointStore)(nil)
