package core

import "strings"

// Event type taxonomy. Types are dotted, two levels deep; the segment before
// the first dot is the category a subscription can match as a prefix.
const (
	EventDocumentCreated       = "document.created"
	EventDocumentUpdated       = "document.updated"
	EventDocumentDeleted       = "document.deleted"
	EventDocumentStatusChanged = "document.status_changed"
	EventDocumentCheckedOut    = "document.checked_out"
	EventDocumentCheckedIn     = "document.checked_in"

	EventVersionCreated = "version.created"
	EventVersionDeleted = "version.deleted"

	EventCommentCreated = "comment.created"
	EventCommentUpdated = "comment.updated"
	EventCommentDeleted = "comment.deleted"

	EventWorkflowStarted       = "workflow.started"
	EventWorkflowCompleted     = "workflow.completed"
	EventWorkflowCancelled     = "workflow.cancelled"
	EventWorkflowTaskCreated   = "workflow.task_created"
	EventWorkflowTaskCompleted = "workflow.task_completed"

	EventRetentionApplied  = "retention.applied"
	EventRetentionExpired  = "retention.expired"
	EventRetentionDisposed = "retention.disposed"

	EventLegalHoldCreated         = "legal_hold.created"
	EventLegalHoldReleased        = "legal_hold.released"
	EventLegalHoldDocumentAdded   = "legal_hold.document_added"
	EventLegalHoldDocumentRemoved = "legal_hold.document_removed"

	EventACLGranted = "acl.granted"
	EventACLRevoked = "acl.revoked"
)

// EventTypePrefix returns the substring before the first dot. A single-level
// type is its own prefix.
func EventTypePrefix(eventType string) string {
	eventType = strings.TrimSpace(eventType)
	if idx := strings.Index(eventType, "."); idx >= 0 {
		return eventType[:idx]
	}
	return eventType
}

// MatchesEventType reports whether the subscribed set contains the event type
// verbatim or its first-dot prefix. Exactly one level of hierarchy:
// "document" matches "document.created" but not "document.version.created"
// unless that type is listed literally.
func MatchesEventType(subscribed []string, eventType string) bool {
	eventType = strings.TrimSpace(eventType)
	prefix := EventTypePrefix(eventType)
	for _, candidate := range subscribed {
		candidate = strings.TrimSpace(candidate)
		if candidate == eventType || candidate == prefix {
			return true
		}
	}
	return false
}

// MatchesEventTypeOrAll is the endpoint variant: an empty subscribed set is a
// wildcard that matches every event.
func MatchesEventTypeOrAll(subscribed []string, eventType string) bool {
	if len(subscribed) == 0 {
		return true
	}
	return MatchesEventType(subscribed, eventType)
}
