package webhooks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-ecm-events/core"
)

// DeliveryWorker consumes delivery tasks from the queue and drives the
// deliverer. A failed attempt with remaining budget is nacked back onto the
// queue with the backoff delay; a terminal failure or a success is acked.
type DeliveryWorker struct {
	Dequeuer  core.TaskDequeuer
	Deliverer *Deliverer
	Policy    RetryPolicy
	Logger    core.Logger
}

func NewDeliveryWorker(dequeuer core.TaskDequeuer, deliverer *Deliverer, policy RetryPolicy) *DeliveryWorker {
	return &DeliveryWorker{
		Dequeuer:  dequeuer,
		Deliverer: deliverer,
		Policy:    policy,
		Logger:    glog.Ensure(nil),
	}
}

// Run consumes tasks until the context is cancelled.
func (w *DeliveryWorker) Run(ctx context.Context) error {
	if w == nil || w.Dequeuer == nil || w.Deliverer == nil {
		return fmt.Errorf("webhooks: worker requires dequeuer and deliverer")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		task, err := w.Dequeuer.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			w.logError(ctx, "task dequeue failed", map[string]any{"error": err.Error()})
			continue
		}
		if task == nil {
			continue
		}
		w.handle(ctx, task)
	}
}

func (w *DeliveryWorker) handle(ctx context.Context, task core.TaskDelivery) {
	msg := task.Message()
	if msg == nil || msg.Name != core.TaskDeliverWebhook {
		_ = task.Nack(ctx, core.TaskNackOptions{
			DeadLetter: true,
			Reason:     "unexpected task",
		})
		return
	}

	deliveryID := argString(msg.Args, "delivery_id")
	if deliveryID == "" {
		_ = task.Nack(ctx, core.TaskNackOptions{
			DeadLetter: true,
			Reason:     "missing delivery_id",
		})
		return
	}

	delivery, err := w.Deliverer.Deliver(ctx, deliveryID)
	if err != nil {
		// Store or lookup trouble, not an endpoint failure. Requeue after
		// the base delay without burning delivery attempts.
		w.logError(ctx, "delivery attempt errored", map[string]any{
			"delivery_id": deliveryID,
			"error":       err.Error(),
		})
		_ = task.Nack(ctx, core.TaskNackOptions{
			Requeue: true,
			Delay:   w.Policy.NextDelay(1),
			Reason:  err.Error(),
		})
		return
	}

	if delivery.Status == core.DeliveryStatusSuccess {
		_ = task.Ack(ctx)
		return
	}

	if w.Policy.Exhausted(delivery.Attempts) {
		w.logError(ctx, "delivery exhausted retries", map[string]any{
			"delivery_id": delivery.ID,
			"endpoint_id": delivery.EndpointID,
			"attempts":    delivery.Attempts,
		})
		_ = task.Ack(ctx)
		return
	}

	delay := w.Policy.NextDelay(delivery.Attempts)
	w.logInfo(ctx, "delivery rescheduled", map[string]any{
		"delivery_id": delivery.ID,
		"attempts":    delivery.Attempts,
		"delay_ms":    delay.Milliseconds(),
	})
	_ = task.Nack(ctx, core.TaskNackOptions{
		Requeue: true,
		Delay:   delay,
		Reason:  "delivery failed",
	})
}

func (w *DeliveryWorker) logInfo(ctx context.Context, message string, fields map[string]any) {
	w.log(ctx, false, message, fields)
}

func (w *DeliveryWorker) logError(ctx context.Context, message string, fields map[string]any) {
	w.log(ctx, true, message, fields)
}

func (w *DeliveryWorker) log(ctx context.Context, isError bool, message string, fields map[string]any) {
	if w == nil || w.Logger == nil {
		return
	}
	logger := w.Logger.WithContext(ctx)
	if fieldsLogger, ok := logger.(core.FieldsLogger); ok {
		logger = fieldsLogger.WithFields(fields)
	}
	if isError {
		logger.Error(message)
		return
	}
	logger.Info(message)
}

func argString(args map[string]any, key string) string {
	if len(args) == 0 {
		return ""
	}
	value, ok := args[key]
	if !ok {
		return ""
	}
	text, ok := value.(string)
	if !ok {
		text = fmt.Sprint(value)
	}
	return strings.TrimSpace(text)
}
