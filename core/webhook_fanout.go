package core

import (
	"context"
	"fmt"
)

// fanOutWebhooks creates one pending delivery per matching active endpoint
// and enqueues a delivery task for each. The payload snapshot is encoded
// once and frozen on the delivery row, so later changes to the source
// entity never alter what the endpoint receives.
func (s *Service) fanOutWebhooks(ctx context.Context, event Envelope) (int, error) {
	if s == nil || s.endpointStore == nil || s.deliveryStore == nil {
		return 0, nil
	}

	endpoints, err := s.endpointStore.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("core: list active endpoints: %w", err)
	}

	var payload []byte
	queued := 0
	failed := 0
	for _, endpoint := range endpoints {
		if !MatchesEventTypeOrAll(endpoint.EventTypes, event.EventType) {
			continue
		}
		if payload == nil {
			payload, err = EncodeBody(event)
			if err != nil {
				return 0, fmt.Errorf("core: encode webhook payload: %w", err)
			}
		}

		delivery, createErr := s.deliveryStore.CreatePending(ctx, endpoint.ID, event.EventType, payload)
		if createErr != nil {
			failed++
			s.logError(ctx, "pending delivery create failed", map[string]any{
				"endpoint_id": endpoint.ID,
				"event_type":  event.EventType,
				"error":       createErr.Error(),
			})
			continue
		}

		if s.enqueuer == nil {
			failed++
			s.logError(ctx, "delivery task enqueue skipped", map[string]any{
				"delivery_id": delivery.ID,
				"error":       ErrEnqueuerUnavailable.Error(),
			})
			continue
		}
		enqueueErr := s.enqueuer.Enqueue(ctx, &TaskMessage{
			Name:       TaskDeliverWebhook,
			Args:       map[string]any{"delivery_id": delivery.ID},
			MaxRetries: s.config.Delivery.MaxAttempts,
			RetryDelay: s.config.Delivery.BaseDelay,
		})
		if enqueueErr != nil {
			// The pending row survives for a later requeue sweep.
			failed++
			s.logError(ctx, "delivery task enqueue failed", map[string]any{
				"delivery_id": delivery.ID,
				"endpoint_id": endpoint.ID,
				"error":       enqueueErr.Error(),
			})
			continue
		}
		queued++
	}

	if failed > 0 {
		return queued, fmt.Errorf("core: webhook fan-out failed for %d endpoint(s)", failed)
	}
	return queued, nil
}
