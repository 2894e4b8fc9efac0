package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-ecm-events/core"
)

type SubscriptionStore struct {
	db   *bun.DB
	repo repository.Repository[*subscriptionRecord]
}

func NewSubscriptionStore(db *bun.DB) (*SubscriptionStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*subscriptionRecord](db, subscriptionHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid subscription repository wiring: %w", err)
		}
	}
	return &SubscriptionStore{
		db:   db,
		repo: repo,
	}, nil
}

// Upsert keeps one row per (document, person). An existing row, active or
// not, is updated in place with the new event type list.
func (s *SubscriptionStore) Upsert(ctx context.Context, in core.UpsertSubscriptionInput) (core.DocumentSubscription, error) {
	if s == nil || s.db == nil {
		return core.DocumentSubscription{}, fmt.Errorf("sqlstore: subscription store is not configured")
	}
	documentID := strings.TrimSpace(in.DocumentID)
	personID := strings.TrimSpace(in.PersonID)
	if documentID == "" || personID == "" {
		return core.DocumentSubscription{}, fmt.Errorf("sqlstore: document id and person id are required")
	}

	now := time.Now().UTC()
	existing, err := s.GetByDocumentAndPerson(ctx, documentID, personID)
	if err == nil {
		updated := &subscriptionRecord{
			ID:         existing.ID,
			DocumentID: existing.DocumentID,
			PersonID:   existing.PersonID,
			EventTypes: cloneStrings(in.EventTypes),
			IsActive:   in.IsActive,
			CreatedAt:  existing.CreatedAt,
			UpdatedAt:  now,
		}
		_, updateErr := s.db.NewUpdate().
			Model(updated).
			Column("event_types", "is_active", "updated_at").
			WherePK().
			Exec(ctx)
		if updateErr != nil {
			return core.DocumentSubscription{}, updateErr
		}
		return subscriptionToDomain(updated), nil
	}
	if !errors.Is(err, core.ErrSubscriptionNotFound) {
		return core.DocumentSubscription{}, err
	}

	record := &subscriptionRecord{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		PersonID:   personID,
		EventTypes: cloneStrings(in.EventTypes),
		IsActive:   in.IsActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			// A concurrent upsert won the race; retry as an update.
			return s.Upsert(ctx, in)
		}
		return core.DocumentSubscription{}, err
	}
	return subscriptionToDomain(record), nil
}

func (s *SubscriptionStore) Get(ctx context.Context, id string) (core.DocumentSubscription, error) {
	if s == nil || s.repo == nil {
		return core.DocumentSubscription{}, fmt.Errorf("sqlstore: subscription store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("id", "=", strings.TrimSpace(id)),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return core.DocumentSubscription{}, err
	}
	if len(records) == 0 {
		return core.DocumentSubscription{}, core.ErrSubscriptionNotFound
	}
	return subscriptionToDomain(records[0]), nil
}

func (s *SubscriptionStore) GetByDocumentAndPerson(ctx context.Context, documentID string, personID string) (core.DocumentSubscription, error) {
	if s == nil || s.repo == nil {
		return core.DocumentSubscription{}, fmt.Errorf("sqlstore: subscription store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("document_id", "=", strings.TrimSpace(documentID)),
		repository.SelectBy("person_id", "=", strings.TrimSpace(personID)),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return core.DocumentSubscription{}, err
	}
	if len(records) == 0 {
		return core.DocumentSubscription{}, core.ErrSubscriptionNotFound
	}
	return subscriptionToDomain(records[0]), nil
}

func (s *SubscriptionStore) ListActiveByDocument(ctx context.Context, documentID string) ([]core.DocumentSubscription, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: subscription store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("document_id", "=", strings.TrimSpace(documentID)),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.is_active = ?", true)
		}),
		repository.OrderBy("created_at ASC"),
	)
	if err != nil {
		return nil, err
	}
	subscriptions := make([]core.DocumentSubscription, 0, len(records))
	for _, record := range records {
		subscriptions = append(subscriptions, subscriptionToDomain(record))
	}
	return subscriptions, nil
}

func (s *SubscriptionStore) SetActive(ctx context.Context, id string, active bool) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: subscription store is not configured")
	}
	result, err := s.db.NewUpdate().
		Model((*subscriptionRecord)(nil)).
		Set("is_active = ?", active).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", strings.TrimSpace(id)).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, affectedErr := result.RowsAffected(); affectedErr == nil && affected == 0 {
		return core.ErrSubscriptionNotFound
	}
	return nil
}

func subscriptionToDomain(record *subscriptionRecord) core.DocumentSubscription {
	if record == nil {
		return core.DocumentSubscription{}
	}
	return core.DocumentSubscription{
		ID:         record.ID,
		DocumentID: record.DocumentID,
		PersonID:   record.PersonID,
		EventTypes: cloneStrings(record.EventTypes),
		IsActive:   record.IsActive,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

func cloneStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return append([]string(nil), values...)
}

func isUniqueViolation(err error) bool {
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	return strings.Contains(message, "unique constraint failed") ||
		strings.Contains(message, "duplicate key value violates unique constraint")
}

var _ core.SubscriptionStore = (*SubscriptionStore)(nil)
