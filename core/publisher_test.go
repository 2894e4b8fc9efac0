package core

import (
	"context"
	"errors"
	"testing"
)

func TestService_Publish_EnqueuesProcessTask(t *testing.T) {
	ctx := context.Background()
	enqueuer := &captureEnqueuer{}
	svc := newTestService(t, WithTaskEnqueuer(enqueuer))

	svc.Publish(ctx, Envelope{
		EventType:  EventDocumentCreated,
		EntityType: "document",
		EntityID:   "doc_1",
		DocumentID: "doc_1",
	})

	if len(enqueuer.messages) != 1 {
		t.Fatalf("expected one enqueued task, got %d", len(enqueuer.messages))
	}
	msg := enqueuer.messages[0]
	if msg.Name != TaskProcessEvent {
		t.Fatalf("expected task %q, got %q", TaskProcessEvent, msg.Name)
	}
	body, ok := msg.Args["body"].(string)
	if !ok || body == "" {
		t.Fatalf("expected encoded body in task args")
	}
	decoded, err := DecodeBody([]byte(body))
	if err != nil {
		t.Fatalf("decode queued body: %v", err)
	}
	if decoded.EventType != EventDocumentCreated || decoded.DocumentID != "doc_1" {
		t.Fatalf("expected envelope fields to survive the queue hop")
	}
}

func TestService_Publish_SwallowsEnqueueFailure(t *testing.T) {
	ctx := context.Background()
	enqueuer := &captureEnqueuer{err: errors.New("broker down")}
	svc := newTestService(t, WithTaskEnqueuer(enqueuer))

	// Must not panic and must not surface the broker failure to the caller.
	svc.Publish(ctx, Envelope{
		EventType:  EventDocumentDeleted,
		EntityType: "document",
		EntityID:   "doc_2",
	})

	if len(enqueuer.messages) != 0 {
		t.Fatalf("expected no recorded messages on broker failure")
	}
}

func TestService_Publish_SkipsInvalidEnvelope(t *testing.T) {
	ctx := context.Background()
	enqueuer := &captureEnqueuer{}
	svc := newTestService(t, WithTaskEnqueuer(enqueuer))

	svc.Publish(ctx, Envelope{EntityType: "document", EntityID: "doc_3"})

	if len(enqueuer.messages) != 0 {
		t.Fatalf("expected invalid envelope to be dropped, got %d messages", len(enqueuer.messages))
	}
}

func TestService_Publish_WithoutEnqueuerDoesNotPanic(t *testing.T) {
	svc := newTestService(t)
	svc.Publish(context.Background(), Envelope{
		EventType:  EventCommentCreated,
		EntityType: "comment",
		EntityID:   "cmt_1",
	})
}
