package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-ecm-events/core"
)

type EndpointStore struct {
	db   *bun.DB
	repo repository.Repository[*endpointRecord]
}

func NewEndpointStore(db *bun.DB) (*EndpointStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*endpointRecord](db, endpointHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid endpoint repository wiring: %w", err)
		}
	}
	return &EndpointStore{
		db:   db,
		repo: repo,
	}, nil
}

func (s *EndpointStore) Create(ctx context.Context, in core.RegisterEndpointInput) (core.WebhookEndpoint, error) {
	if s == nil || s.db == nil {
		return core.WebhookEndpoint{}, fmt.Errorf("sqlstore: endpoint store is not configured")
	}
	now := time.Now().UTC()
	record := &endpointRecord{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(in.Name),
		URL:        strings.TrimSpace(in.URL),
		Secret:     in.Secret,
		EventTypes: cloneStrings(in.EventTypes),
		CreatedBy:  strings.TrimSpace(in.CreatedBy),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return core.WebhookEndpoint{}, err
	}
	return endpointToDomain(record), nil
}

func (s *EndpointStore) Get(ctx context.Context, id string) (core.WebhookEndpoint, error) {
	if s == nil || s.repo == nil {
		return core.WebhookEndpoint{}, fmt.Errorf("sqlstore: endpoint store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("id", "=", strings.TrimSpace(id)),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return core.WebhookEndpoint{}, err
	}
	if len(records) == 0 {
		return core.WebhookEndpoint{}, core.ErrEndpointNotFound
	}
	return endpointToDomain(records[0]), nil
}

// Update applies only the set fields of the patch. A non-nil empty event
// type slice clears the list.
func (s *EndpointStore) Update(ctx context.Context, id string, in core.UpdateEndpointInput) (core.WebhookEndpoint, error) {
	if s == nil || s.db == nil {
		return core.WebhookEndpoint{}, fmt.Errorf("sqlstore: endpoint store is not configured")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return core.WebhookEndpoint{}, err
	}

	record := &endpointRecord{
		ID:         existing.ID,
		Name:       existing.Name,
		URL:        existing.URL,
		Secret:     existing.Secret,
		EventTypes: cloneStrings(existing.EventTypes),
		CreatedBy:  existing.CreatedBy,
		IsActive:   existing.IsActive,
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  time.Now().UTC(),
	}
	if in.Name != nil {
		record.Name = *in.Name
	}
	if in.URL != nil {
		record.URL = *in.URL
	}
	if in.Secret != nil {
		record.Secret = *in.Secret
	}
	if in.EventTypes != nil {
		record.EventTypes = cloneStrings(in.EventTypes)
	}
	if in.IsActive != nil {
		record.IsActive = *in.IsActive
	}

	if _, err = s.repo.Update(ctx, record, repository.UpdateByID(existing.ID)); err != nil {
		return core.WebhookEndpoint{}, err
	}
	return endpointToDomain(record), nil
}

func (s *EndpointStore) Deactivate(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: endpoint store is not configured")
	}
	result, err := s.db.NewUpdate().
		Model((*endpointRecord)(nil)).
		Set("is_active = ?", false).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", strings.TrimSpace(id)).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, affectedErr := result.RowsAffected(); affectedErr == nil && affected == 0 {
		return core.ErrEndpointNotFound
	}
	return nil
}

func (s *EndpointStore) ListActive(ctx context.Context) ([]core.WebhookEndpoint, error) {
	active := true
	return s.List(ctx, core.EndpointFilter{IsActive: &active})
}

func (s *EndpointStore) List(ctx context.Context, filter core.EndpointFilter) ([]core.WebhookEndpoint, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: endpoint store is not configured")
	}
	selectors := []repository.SelectCriteria{
		repository.OrderBy("created_at ASC"),
	}
	if createdBy := strings.TrimSpace(filter.CreatedBy); createdBy != "" {
		selectors = append(selectors, repository.SelectBy("created_by", "=", createdBy))
	}
	active := true
	if filter.IsActive != nil {
		active = *filter.IsActive
	}
	selectors = append(selectors, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.is_active = ?", active)
	}))
	if filter.Limit > 0 {
		selectors = append(selectors, repository.SelectPaginate(filter.Limit, filter.Offset))
	}

	records, _, err := s.repo.List(ctx, selectors...)
	if err != nil {
		return nil, err
	}
	endpoints := make([]core.WebhookEndpoint, 0, len(records))
	for _, record := range records {
		endpoints = append(endpoints, endpointToDomain(record))
	}
	return endpoints, nil
}

func endpointToDomain(record *endpointRecord) core.WebhookEndpoint {
	if record == nil {
		return core.WebhookEndpoint{}
	}
	return core.WebhookEndpoint{
		ID:         record.ID,
		Name:       record.Name,
		URL:        record.URL,
		Secret:     record.Secret,
		EventTypes: cloneStrings(record.EventTypes),
		CreatedBy:  record.CreatedBy,
		IsActive:   record.IsActive,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

var _ core.EndpointStore = (*EndpointStore)(nil)
