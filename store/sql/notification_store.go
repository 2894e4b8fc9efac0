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

type NotificationStore struct {
	db   *bun.DB
	repo repository.Repository[*notificationRecord]
}

func NewNotificationStore(db *bun.DB) (*NotificationStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*notificationRecord](db, notificationHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid notification repository wiring: %w", err)
		}
	}
	return &NotificationStore{
		db:   db,
		repo: repo,
	}, nil
}

func (s *NotificationStore) Create(ctx context.Context, in core.CreateNotificationInput) (core.Notification, error) {
	if s == nil || s.db == nil {
		return core.Notification{}, fmt.Errorf("sqlstore: notification store is not configured")
	}
	personID := strings.TrimSpace(in.PersonID)
	if personID == "" {
		return core.Notification{}, fmt.Errorf("sqlstore: person id is required")
	}

	metadata := in.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	record := &notificationRecord{
		ID:         uuid.NewString(),
		PersonID:   personID,
		Title:      strings.TrimSpace(in.Title),
		Body:       in.Body,
		EventType:  strings.TrimSpace(in.EventType),
		EntityType: strings.TrimSpace(in.EntityType),
		EntityID:   strings.TrimSpace(in.EntityID),
		IsRead:     false,
		Metadata:   metadata,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return core.Notification{}, err
	}
	return notificationToDomain(record), nil
}

func (s *NotificationStore) Get(ctx context.Context, id string) (core.Notification, error) {
	if s == nil || s.repo == nil {
		return core.Notification{}, fmt.Errorf("sqlstore: notification store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("id", "=", strings.TrimSpace(id)),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return core.Notification{}, err
	}
	if len(records) == 0 {
		return core.Notification{}, core.ErrNotificationNotFound
	}
	return notificationToDomain(records[0]), nil
}

// List filters notifications. A nil IsActive defaults to active rows only,
// matching the read API surface.
func (s *NotificationStore) List(ctx context.Context, filter core.NotificationFilter) ([]core.Notification, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: notification store is not configured")
	}
	selectors := []repository.SelectCriteria{
		repository.OrderBy("created_at DESC"),
	}
	if personID := strings.TrimSpace(filter.PersonID); personID != "" {
		selectors = append(selectors, repository.SelectBy("person_id", "=", personID))
	}
	if eventType := strings.TrimSpace(filter.EventType); eventType != "" {
		selectors = append(selectors, repository.SelectBy("event_type", "=", eventType))
	}
	active := true
	if filter.IsActive != nil {
		active = *filter.IsActive
	}
	isRead := filter.IsRead
	selectors = append(selectors, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("?TableAlias.is_active = ?", active)
		if isRead != nil {
			q = q.Where("?TableAlias.is_read = ?", *isRead)
		}
		return q
	}))
	if filter.Limit > 0 {
		selectors = append(selectors, repository.SelectPaginate(filter.Limit, filter.Offset))
	}

	records, _, err := s.repo.List(ctx, selectors...)
	if err != nil {
		return nil, err
	}
	notifications := make([]core.Notification, 0, len(records))
	for _, record := range records {
		notifications = append(notifications, notificationToDomain(record))
	}
	return notifications, nil
}

// MarkRead flips the given notifications to read and reports how many rows
// changed. Already-read and unknown ids count as zero.
func (s *NotificationStore) MarkRead(ctx context.Context, ids []string, readAt time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: notification store is not configured")
	}
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := s.db.NewUpdate().
		Model((*notificationRecord)(nil)).
		Set("is_read = ?", true).
		Set("read_at = ?", readAt.UTC()).
		Where("id IN (?)", bun.In(ids)).
		Where("is_read = ?", false).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (s *NotificationStore) MarkAllRead(ctx context.Context, personID string, readAt time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: notification store is not configured")
	}
	result, err := s.db.NewUpdate().
		Model((*notificationRecord)(nil)).
		Set("is_read = ?", true).
		Set("read_at = ?", readAt.UTC()).
		Where("person_id = ?", strings.TrimSpace(personID)).
		Where("is_read = ?", false).
		Where("is_active = ?", true).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (s *NotificationStore) UnreadCount(ctx context.Context, personID string) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: notification store is not configured")
	}
	count, err := s.db.NewSelect().
		Model((*notificationRecord)(nil)).
		Where("?TableAlias.person_id = ?", strings.TrimSpace(personID)).
		Where("?TableAlias.is_read = ?", false).
		Where("?TableAlias.is_active = ?", true).
		Count(ctx)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *NotificationStore) Dismiss(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: notification store is not configured")
	}
	result, err := s.db.NewUpdate().
		Model((*notificationRecord)(nil)).
		Set("is_active = ?", false).
		Where("id = ?", strings.TrimSpace(id)).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, affectedErr := result.RowsAffected(); affectedErr == nil && affected == 0 {
		return core.ErrNotificationNotFound
	}
	return nil
}

func notificationToDomain(record *notificationRecord) core.Notification {
	if record == nil {
		return core.Notification{}
	}
	notification := core.Notification{
		ID:         record.ID,
		PersonID:   record.PersonID,
		Title:      record.Title,
		Body:       record.Body,
		EventType:  record.EventType,
		EntityType: record.EntityType,
		EntityID:   record.EntityID,
		IsRead:     record.IsRead,
		Metadata:   record.Metadata,
		IsActive:   record.IsActive,
		CreatedAt:  record.CreatedAt,
	}
	if record.ReadAt != nil {
		value := *record.ReadAt
		notification.ReadAt = &value
	}
	return notification
}

var _ core.NotificationStore = (*NotificationStore)(nil)
