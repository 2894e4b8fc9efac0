package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	EventsErrorBadInput       = "EVENTS_BAD_INPUT"
	EventsErrorNotFound       = "EVENTS_NOT_FOUND"
	EventsErrorEnqueueFailed  = "EVENTS_ENQUEUE_FAILED"
	EventsErrorDeliveryFailed = "EVENTS_DELIVERY_FAILED"
	EventsErrorRetryExhausted = "EVENTS_RETRY_EXHAUSTED"
	EventsErrorConflict       = "EVENTS_CONFLICT"
	EventsErrorInternal       = "EVENTS_INTERNAL_ERROR"
)

func eventsErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureEventsErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "not found"):
		return newEventsError(err.Error(), goerrors.CategoryNotFound, EventsErrorNotFound)
	case strings.Contains(msg, "enqueue"):
		return newEventsError(err.Error(), goerrors.CategoryExternal, EventsErrorEnqueueFailed)
	case strings.Contains(msg, "retries exhausted"), strings.Contains(msg, "attempt budget"):
		return newEventsError(err.Error(), goerrors.CategoryOperation, EventsErrorRetryExhausted)
	case strings.Contains(msg, "delivery") && strings.Contains(msg, "failed"):
		return newEventsError(err.Error(), goerrors.CategoryExternal, EventsErrorDeliveryFailed)
	case strings.Contains(msg, "duplicate"), strings.Contains(msg, "already exists"):
		return newEventsError(err.Error(), goerrors.CategoryConflict, EventsErrorConflict)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newEventsError(err.Error(), goerrors.CategoryBadInput, EventsErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureEventsErrorEnvelope(mapped)
}

func newEventsError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureEventsErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureEventsErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = eventsHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultEventsTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultEventsTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return EventsErrorBadInput
	case goerrors.CategoryNotFound:
		return EventsErrorNotFound
	case goerrors.CategoryConflict:
		return EventsErrorConflict
	case goerrors.CategoryExternal:
		return EventsErrorDeliveryFailed
	case goerrors.CategoryOperation:
		return EventsErrorRetryExhausted
	default:
		return EventsErrorInternal
	}
}

func eventsHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
