package core

import (
	"context"
	"fmt"
	"time"
)

// Dispatch routes one envelope through the three processing channels:
// notification fan-out, webhook fan-out and the search index trigger.
// Channels are isolated from each other; a failing channel is logged and
// counted in the returned stats while the remaining channels still run.
func (s *Service) Dispatch(ctx context.Context, event Envelope) (stats DispatchStats, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"event_type":  event.EventType,
		"entity_type": event.EntityType,
		"entity_id":   event.EntityID,
	}
	defer func() {
		fields["notified"] = stats.Notified
		fields["deliveries_queued"] = stats.DeliveriesQueued
		fields["channel_errors"] = stats.ChannelErrors
		s.observeOperation(ctx, startedAt, "dispatch", err, fields)
	}()

	if err = event.Validate(); err != nil {
		err = s.mapError(err)
		return DispatchStats{}, err
	}

	notified, notifyErr := s.fanOutNotifications(ctx, event)
	stats.Notified = notified
	if notifyErr != nil {
		stats.ChannelErrors++
		s.logError(ctx, "notification fan-out failed", map[string]any{
			"event_type": event.EventType,
			"error":      notifyErr.Error(),
		})
	}

	queued, webhookErr := s.fanOutWebhooks(ctx, event)
	stats.DeliveriesQueued = queued
	if webhookErr != nil {
		stats.ChannelErrors++
		s.logError(ctx, "webhook fan-out failed", map[string]any{
			"event_type": event.EventType,
			"error":      webhookErr.Error(),
		})
	}

	if searchErr := s.triggerSearchIndex(ctx, event); searchErr != nil {
		stats.ChannelErrors++
		s.logError(ctx, "search index trigger failed", map[string]any{
			"event_type":  event.EventType,
			"document_id": event.DocumentID,
			"error":       searchErr.Error(),
		})
	}

	return stats, nil
}

// HandleProcessEventTask decodes a queued event task body and dispatches it.
// It is the handler bound to the event processing task name.
func (s *Service) HandleProcessEventTask(ctx context.Context, args map[string]any) (DispatchStats, error) {
	raw, ok := args["body"]
	if !ok {
		return DispatchStats{}, s.mapError(fmt.Errorf("core: event task args missing body"))
	}
	body, ok := raw.(string)
	if !ok {
		return DispatchStats{}, s.mapError(fmt.Errorf("core: event task body must be a string"))
	}
	event, err := DecodeBody([]byte(body))
	if err != nil {
		return DispatchStats{}, s.mapError(err)
	}
	return s.Dispatch(ctx, event)
}
