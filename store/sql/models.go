package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type subscriptionRecord struct {
	bun.BaseModel `bun:"table:document_subscriptions,alias:ds"`

	ID         string    `bun:"id,pk"`
	DocumentID string    `bun:"document_id,notnull"`
	PersonID   string    `bun:"person_id,notnull"`
	EventTypes []string  `bun:"event_types,type:jsonb,notnull"`
	IsActive   bool      `bun:"is_active,notnull"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type notificationRecord struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID         string         `bun:"id,pk"`
	PersonID   string         `bun:"person_id,notnull"`
	Title      string         `bun:"title,notnull"`
	Body       string         `bun:"body"`
	EventType  string         `bun:"event_type,notnull"`
	EntityType string         `bun:"entity_type,notnull"`
	EntityID   string         `bun:"entity_id,notnull"`
	IsRead     bool           `bun:"is_read,notnull"`
	ReadAt     *time.Time     `bun:"read_at,nullzero"`
	Metadata   map[string]any `bun:"metadata,type:jsonb,notnull"`
	IsActive   bool           `bun:"is_active,notnull"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type endpointRecord struct {
	bun.BaseModel `bun:"table:webhook_endpoints,alias:we"`

	ID         string    `bun:"id,pk"`
	Name       string    `bun:"name,notnull"`
	URL        string    `bun:"url,notnull"`
	Secret     string    `bun:"secret"`
	EventTypes []string  `bun:"event_types,type:jsonb,notnull"`
	CreatedBy  string    `bun:"created_by,notnull"`
	IsActive   bool      `bun:"is_active,notnull"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type deliveryRecord struct {
	bun.BaseModel `bun:"table:webhook_deliveries,alias:wd"`

	ID                 string     `bun:"id,pk"`
	EndpointID         string     `bun:"endpoint_id,notnull"`
	EventType          string     `bun:"event_type,notnull"`
	Payload            []byte     `bun:"payload,notnull"`
	Status             string     `bun:"status,notnull"`
	ResponseStatusCode *int       `bun:"response_status_code,nullzero"`
	ResponseBody       string     `bun:"response_body"`
	Attempts           int        `bun:"attempts,notnull"`
	LastAttemptAt      *time.Time `bun:"last_attempt_at,nullzero"`
	IsActive           bool       `bun:"is_active,notnull"`
	CreatedAt          time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt          time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
