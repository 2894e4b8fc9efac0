package core

import (
	"context"
	"strings"
	"time"
)

// Publish enqueues the envelope for asynchronous processing. It never
// returns an error: enqueue failures are logged and swallowed so that the
// originating write path is never disturbed by fan-out problems.
func (s *Service) Publish(ctx context.Context, event Envelope) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"event_type":  event.EventType,
		"entity_type": event.EntityType,
		"entity_id":   event.EntityID,
	}
	if strings.TrimSpace(event.DocumentID) != "" {
		fields["document_id"] = event.DocumentID
	}

	var err error
	defer func() {
		s.observeOperation(ctx, startedAt, "publish", err, fields)
	}()

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err = event.Validate(); err != nil {
		return
	}
	if s == nil || s.enqueuer == nil {
		err = ErrEnqueuerUnavailable
		return
	}

	body, encodeErr := EncodeBody(event)
	if encodeErr != nil {
		err = encodeErr
		return
	}
	err = s.enqueuer.Enqueue(ctx, &TaskMessage{
		Name: TaskProcessEvent,
		Args: map[string]any{"body": string(body)},
	})
}
