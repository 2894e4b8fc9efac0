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

type DeliveryStore struct {
	db   *bun.DB
	repo repository.Repository[*deliveryRecord]
}

func NewDeliveryStore(db *bun.DB) (*DeliveryStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*deliveryRecord](db, deliveryHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid delivery repository wiring: %w", err)
		}
	}
	return &DeliveryStore{
		db:   db,
		repo: repo,
	}, nil
}

func (s *DeliveryStore) CreatePending(ctx context.Context, endpointID string, eventType string, payload []byte) (core.WebhookDelivery, error) {
	if s == nil || s.db == nil {
		return core.WebhookDelivery{}, fmt.Errorf("sqlstore: delivery store is not configured")
	}
	endpointID = strings.TrimSpace(endpointID)
	eventType = strings.TrimSpace(eventType)
	if endpointID == "" || eventType == "" {
		return core.WebhookDelivery{}, fmt.Errorf("sqlstore: endpoint id and event type are required")
	}

	now := time.Now().UTC()
	record := &deliveryRecord{
		ID:         uuid.NewString(),
		EndpointID: endpointID,
		EventType:  eventType,
		Payload:    append([]byte(nil), payload...),
		Status:     string(core.DeliveryStatusPending),
		Attempts:   0,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return core.WebhookDelivery{}, err
	}
	return deliveryToDomain(record), nil
}

func (s *DeliveryStore) Get(ctx context.Context, id string) (core.WebhookDelivery, error) {
	if s == nil || s.repo == nil {
		return core.WebhookDelivery{}, fmt.Errorf("sqlstore: delivery store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("id", "=", strings.TrimSpace(id)),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return core.WebhookDelivery{}, err
	}
	if len(records) == 0 {
		return core.WebhookDelivery{}, core.ErrDeliveryNotFound
	}
	return deliveryToDomain(records[0]), nil
}

func (s *DeliveryStore) List(ctx context.Context, filter core.DeliveryFilter) ([]core.WebhookDelivery, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: delivery store is not configured")
	}
	selectors := []repository.SelectCriteria{
		repository.OrderBy("created_at DESC"),
	}
	if endpointID := strings.TrimSpace(filter.EndpointID); endpointID != "" {
		selectors = append(selectors, repository.SelectBy("endpoint_id", "=", endpointID))
	}
	if eventType := strings.TrimSpace(filter.EventType); eventType != "" {
		selectors = append(selectors, repository.SelectBy("event_type", "=", eventType))
	}
	if filter.Status != "" {
		selectors = append(selectors, repository.SelectBy("status", "=", string(filter.Status)))
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
	deliveries := make([]core.WebhookDelivery, 0, len(records))
	for _, record := range records {
		deliveries = append(deliveries, deliveryToDomain(record))
	}
	return deliveries, nil
}

// RecordAttempt applies the outcome of one attempt. The attempt counter is
// incremented inside the statement rather than read-modify-write in Go, so
// two workers racing on the same delivery cannot lose an increment. A
// delivery that already reached success stays success.
func (s *DeliveryStore) RecordAttempt(ctx context.Context, id string, outcome core.AttemptOutcome) (core.WebhookDelivery, error) {
	if s == nil || s.db == nil {
		return core.WebhookDelivery{}, fmt.Errorf("sqlstore: delivery store is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return core.WebhookDelivery{}, fmt.Errorf("sqlstore: delivery id is required")
	}
	at := outcome.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	query := s.db.NewUpdate().
		Model((*deliveryRecord)(nil)).
		Set("attempts = attempts + 1").
		Set("last_attempt_at = ?", at.UTC()).
		Set("status = ?", string(outcome.Status)).
		Set("response_body = ?", outcome.ResponseBody).
		Set("updated_at = ?", at.UTC()).
		Where("id = ?", id).
		Where("status <> ?", string(core.DeliveryStatusSuccess))
	if outcome.ResponseStatusCode != nil {
		query = query.Set("response_status_code = ?", *outcome.ResponseStatusCode)
	} else {
		query = query.Set("response_status_code = NULL")
	}

	if _, err := query.Exec(ctx); err != nil {
		return core.WebhookDelivery{}, err
	}
	return s.Get(ctx, id)
}

func deliveryToDomain(record *deliveryRecord) core.WebhookDelivery {
	if record == nil {
		return core.WebhookDelivery{}
	}
	delivery := core.WebhookDelivery{
		ID:           record.ID,
		EndpointID:   record.EndpointID,
		EventType:    record.EventType,
		Payload:      append([]byte(nil), record.Payload...),
		Status:       core.DeliveryStatus(record.Status),
		ResponseBody: record.ResponseBody,
		Attempts:     record.Attempts,
		IsActive:     record.IsActive,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
	if record.ResponseStatusCode != nil {
		value := *record.ResponseStatusCode
		delivery.ResponseStatusCode = &value
	}
	if record.LastAttemptAt != nil {
		value := *record.LastAttemptAt
		delivery.LastAttemptAt = &value
	}
	return delivery
}

var _ core.DeliveryStore = (*DeliveryStore)(nil)
