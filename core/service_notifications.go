package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

func (s *Service) GetNotification(ctx context.Context, id string) (Notification, error) {
	if s == nil || s.notificationStore == nil {
		return Notification{}, s.mapError(fmt.Errorf("core: notification store is required"))
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Notification{}, s.mapError(fmt.Errorf("core: notification id is required"))
	}
	notification, err := s.notificationStore.Get(ctx, id)
	if err != nil {
		return Notification{}, s.mapError(err)
	}
	return notification, nil
}

func (s *Service) ListNotifications(ctx context.Context, filter NotificationFilter) ([]Notification, error) {
	if s == nil || s.notificationStore == nil {
		return nil, s.mapError(fmt.Errorf("core: notification store is required"))
	}
	notifications, err := s.notificationStore.List(ctx, filter)
	if err != nil {
		return nil, s.mapError(err)
	}
	return notifications, nil
}

// MarkNotificationsRead marks the given notifications as read and returns
// how many actually flipped. Already-read notifications are skipped and
// unknown ids are ignored.
func (s *Service) MarkNotificationsRead(ctx context.Context, ids []string) (updated int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"requested": len(ids)}
	defer func() {
		fields["updated"] = updated
		s.observeOperation(ctx, startedAt, "mark_notifications_read", err, fields)
	}()

	if s == nil || s.notificationStore == nil {
		err = s.mapError(fmt.Errorf("core: notification store is required"))
		return 0, err
	}
	trimmed := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			trimmed = append(trimmed, id)
		}
	}
	if len(trimmed) == 0 {
		return 0, nil
	}

	updated, err = s.notificationStore.MarkRead(ctx, trimmed, time.Now().UTC())
	if err != nil {
		err = s.mapError(err)
		return 0, err
	}
	return updated, nil
}

// MarkAllNotificationsRead marks every unread active notification of the
// person as read and returns the count.
func (s *Service) MarkAllNotificationsRead(ctx context.Context, personID string) (updated int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"person_id": personID}
	defer func() {
		fields["updated"] = updated
		s.observeOperation(ctx, startedAt, "mark_all_notifications_read", err, fields)
	}()

	if s == nil || s.notificationStore == nil {
		err = s.mapError(fmt.Errorf("core: notification store is required"))
		return 0, err
	}
	personID = strings.TrimSpace(personID)
	if personID == "" {
		err = s.mapError(fmt.Errorf("core: person id is required"))
		return 0, err
	}

	updated, err = s.notificationStore.MarkAllRead(ctx, personID, time.Now().UTC())
	if err != nil {
		err = s.mapError(err)
		return 0, err
	}
	return updated, nil
}

func (s *Service) UnreadNotificationCount(ctx context.Context, personID string) (int, error) {
	if s == nil || s.notificationStore == nil {
		return 0, s.mapError(fmt.Errorf("core: notification store is required"))
	}
	personID = strings.TrimSpace(personID)
	if personID == "" {
		return 0, s.mapError(fmt.Errorf("core: person id is required"))
	}
	count, err := s.notificationStore.UnreadCount(ctx, personID)
	if err != nil {
		return 0, s.mapError(err)
	}
	return count, nil
}

// DismissNotification soft-deletes a notification. Dismissed notifications
// drop out of default listings and unread counts but remain in storage.
func (s *Service) DismissNotification(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"notification_id": id}
	defer func() {
		s.observeOperation(ctx, startedAt, "dismiss_notification", err, fields)
	}()

	if s == nil || s.notificationStore == nil {
		err = s.mapError(fmt.Errorf("core: notification store is required"))
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		err = s.mapError(fmt.Errorf("core: notification id is required"))
		return err
	}
	if err = s.notificationStore.Dismiss(ctx, id); err != nil {
		err = s.mapError(err)
		return err
	}
	return nil
}
