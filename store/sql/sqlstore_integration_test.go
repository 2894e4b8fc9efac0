package sqlstore_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"testing"
	"time"

	ecmevents "github.com/goliatone/go-ecm-events"
	"github.com/goliatone/go-ecm-events/core"
	ecmmigrations "github.com/goliatone/go-ecm-events/migrations"
	sqlstore "github.com/goliatone/go-ecm-events/store/sql"
	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

type testPersistenceConfig struct {
	driver string
	server string
}

func (c testPersistenceConfig) GetDebug() bool {
	return false
}

func (c testPersistenceConfig) GetDriver() string {
	return c.driver
}

func (c testPersistenceConfig) GetServer() string {
	return c.server
}

func (c testPersistenceConfig) GetPingTimeout() time.Duration {
	return time.Second
}

func (c testPersistenceConfig) GetOtelIdentifier() string {
	return "go-ecm-events-tests"
}

func newSQLiteClient(t *testing.T) (*persistence.Client, func()) {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:ecm-events-test-%d?mode=memory&cache=shared&_foreign_keys=on",
		time.Now().UnixNano(),
	)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := testPersistenceConfig{
		driver: "sqlite3",
		server: dsn,
	}
	client, err := persistence.New(cfg, sqlDB, sqlitedialect.New())
	if err != nil {
		_ = sqlDB.Close()
		t.Fatalf("new persistence client: %v", err)
	}

	ctx := context.Background()
	_, err = ecmmigrations.Register(ctx, func(_ context.Context, dialect string, _ string, fsys fs.FS) error {
		if dialect != ecmmigrations.DialectSQLite {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, ecmmigrations.WithValidationTargets(ecmmigrations.DialectSQLite))
	if err != nil {
		_ = client.Close()
		t.Fatalf("register migrations: %v", err)
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		t.Fatalf("migrate: %v", err)
	}

	return client, func() {
		_ = client.Close()
	}
}

func newTestFactory(t *testing.T) (*sqlstore.RepositoryFactory, func()) {
	t.Helper()
	client, cleanup := newSQLiteClient(t)
	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		cleanup()
		t.Fatalf("new repository factory: %v", err)
	}
	return factory, cleanup
}

func TestMigrationSmokeApplySQLite(t *testing.T) {
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	for _, table := range []string{
		"document_subscriptions",
		"notifications",
		"webhook_endpoints",
		"webhook_deliveries",
	} {
		var tableName string
		if err := client.DB().NewRaw(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
			table,
		).Scan(context.Background(), &tableName); err != nil {
			t.Fatalf("query sqlite master for %s: %v", table, err)
		}
		if tableName != table {
			t.Fatalf("expected %s table, got %q", table, tableName)
		}
	}
}

func TestSubscriptionStore_UpsertIsUniquePerDocumentAndPerson(t *testing.T) {
	ctx := context.Background()
	factory, cleanup := newTestFactory(t)
	defer cleanup()

	store := factory.SubscriptionStore()

	first, err := store.Upsert(ctx, core.UpsertSubscriptionInput{
		DocumentID: "doc_1",
		PersonID:   "usr_1",
		EventTypes: []string{"document"},
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	second, err := store.Upsert(ctx, core.UpsertSubscriptionInput{
		DocumentID: "doc_1",
		PersonID:   "usr_1",
		EventTypes: []string{"workflow", "comment.created"},
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected one row per (document, person), got %s and %s", first.ID, second.ID)
	}
	if len(second.EventTypes) != 2 || second.EventTypes[0] != "workflow" {
		t.Fatalf("expected replaced event types, got %v", second.EventTypes)
	}

	active, err := store.ListActiveByDocument(ctx, "doc_1")
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected one active subscription, got %d", len(active))
	}

	if err := store.SetActive(ctx, first.ID, false); err != nil {
		t.Fatalf("set inactive: %v", err)
	}
	active, err = store.ListActiveByDocument(ctx, "doc_1")
	if err != nil {
		t.Fatalf("list active after deactivate: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active subscriptions, got %d", len(active))
	}
}

func TestStores_MissingRowsMapToNotFound(t *testing.T) {
	ctx := context.Background()
	factory, cleanup := newTestFactory(t)
	defer cleanup()

	if _, err := factory.SubscriptionStore().Get(ctx, "sub_missing"); !errors.Is(err, core.ErrSubscriptionNotFound) {
		t.Fatalf("expected subscription not found, got %v", err)
	}
	if _, err := factory.SubscriptionStore().GetByDocumentAndPerson(ctx, "doc_missing", "usr_missing"); !errors.Is(err, core.ErrSubscriptionNotFound) {
		t.Fatalf("expected subscription not found by document and person, got %v", err)
	}
	if _, err := factory.NotificationStore().Get(ctx, "ntf_missing"); !errors.Is(err, core.ErrNotificationNotFound) {
		t.Fatalf("expected notification not found, got %v", err)
	}
	if _, err := factory.EndpointStore().Get(ctx, "wh_missing"); !errors.Is(err, core.ErrEndpointNotFound) {
		t.Fatalf("expected endpoint not found, got %v", err)
	}
	if _, err := factory.DeliveryStore().Get(ctx, "dlv_missing"); !errors.Is(err, core.ErrDeliveryNotFound) {
		t.Fatalf("expected delivery not found, got %v", err)
	}
}

func TestNotificationStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	factory, cleanup := newTestFactory(t)
	defer cleanup()

	store := factory.NotificationStore()

	var ids []string
	for i := 0; i < 3; i++ {
		notification, err := store.Create(ctx, core.CreateNotificationInput{
			PersonID:   "usr_1",
			Title:      "Document Updated",
			Body:       "Event document.updated on document doc_1",
			EventType:  "document.updated",
			EntityType: "document",
			EntityID:   "doc_1",
			Metadata:   map[string]any{"version": float64(i + 1)},
		})
		if err != nil {
			t.Fatalf("create notification: %v", err)
		}
		ids = append(ids, notification.ID)
	}

	count, err := store.UnreadCount(ctx, "usr_1")
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected three unread, got %d", count)
	}

	updated, err := store.MarkRead(ctx, ids[:2], time.Now().UTC())
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if updated != 2 {
		t.Fatalf("expected two rows marked, got %d", updated)
	}

	// Already-read rows do not flip again.
	updated, err = store.MarkRead(ctx, ids[:2], time.Now().UTC())
	if err != nil {
		t.Fatalf("mark read again: %v", err)
	}
	if updated != 0 {
		t.Fatalf("expected no repeated updates, got %d", updated)
	}

	if err := store.Dismiss(ctx, ids[2]); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	count, err = store.UnreadCount(ctx, "usr_1")
	if err != nil {
		t.Fatalf("unread count after dismiss: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected dismissed row out of the unread count, got %d", count)
	}

	stored, err := store.Get(ctx, ids[0])
	if err != nil {
		t.Fatalf("get notification: %v", err)
	}
	if !stored.IsRead || stored.ReadAt == nil {
		t.Fatalf("expected read flag and timestamp, got %+v", stored)
	}
	if stored.Metadata["version"] != float64(1) {
		t.Fatalf("expected metadata round trip, got %v", stored.Metadata)
	}
}

func TestEndpointStore_CRUDAndSoftDelete(t *testing.T) {
	ctx := context.Background()
	factory, cleanup := newTestFactory(t)
	defer cleanup()

	store := factory.EndpointStore()

	endpoint, err := store.Create(ctx, core.RegisterEndpointInput{
		Name:       "audit",
		URL:        "https://hooks.example/audit",
		Secret:     "s3cret",
		EventTypes: []string{"document"},
		CreatedBy:  "usr_admin",
	})
	if err != nil {
		t.Fatalf("create endpoint: %v", err)
	}
	if !endpoint.IsActive {
		t.Fatalf("expected new endpoint to be active")
	}

	newURL := "https://hooks.example/audit-v2"
	updated, err := store.Update(ctx, endpoint.ID, core.UpdateEndpointInput{URL: &newURL, EventTypes: []string{}})
	if err != nil {
		t.Fatalf("update endpoint: %v", err)
	}
	if updated.URL != newURL {
		t.Fatalf("expected updated url, got %q", updated.URL)
	}
	if len(updated.EventTypes) != 0 {
		t.Fatalf("expected cleared event types, got %v", updated.EventTypes)
	}
	if updated.Secret != "s3cret" {
		t.Fatalf("expected untouched secret")
	}

	if err := store.Deactivate(ctx, endpoint.ID); err != nil {
		t.Fatalf("deactivate endpoint: %v", err)
	}
	active, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active endpoints, got %d", len(active))
	}

	stored, err := store.Get(ctx, endpoint.ID)
	if err != nil {
		t.Fatalf("get endpoint after soft delete: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("expected soft-deleted endpoint to stay reachable but inactive")
	}
}

func TestDeliveryStore_RecordAttemptSemantics(t *testing.T) {
	ctx := context.Background()
	factory, cleanup := newTestFactory(t)
	defer cleanup()

	endpoints := factory.EndpointStore()
	deliveries := factory.DeliveryStore()

	endpoint, err := endpoints.Create(ctx, core.RegisterEndpointInput{
		Name:      "audit",
		URL:       "https://hooks.example/audit",
		CreatedBy: "usr_admin",
	})
	if err != nil {
		t.Fatalf("create endpoint: %v", err)
	}

	payload := []byte(`{"event_type":"document.created","entity_type":"document","entity_id":"doc_1","actor_id":null,"document_id":null,"payload":{}}`)
	delivery, err := deliveries.CreatePending(ctx, endpoint.ID, "document.created", payload)
	if err != nil {
		t.Fatalf("create pending: %v", err)
	}
	if delivery.Status != core.DeliveryStatusPending || delivery.Attempts != 0 {
		t.Fatalf("unexpected pending delivery %+v", delivery)
	}

	statusCode := 503
	failed, err := deliveries.RecordAttempt(ctx, delivery.ID, core.AttemptOutcome{
		Status:             core.DeliveryStatusFailed,
		ResponseStatusCode: &statusCode,
		ResponseBody:       "unavailable",
		At:                 time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("record failed attempt: %v", err)
	}
	if failed.Attempts != 1 || failed.Status != core.DeliveryStatusFailed {
		t.Fatalf("expected first failed attempt, got %+v", failed)
	}
	if failed.LastAttemptAt == nil {
		t.Fatalf("expected last attempt timestamp")
	}
	if failed.ResponseStatusCode == nil || *failed.ResponseStatusCode != 503 {
		t.Fatalf("expected recorded status code, got %v", failed.ResponseStatusCode)
	}

	okCode := 200
	succeeded, err := deliveries.RecordAttempt(ctx, delivery.ID, core.AttemptOutcome{
		Status:             core.DeliveryStatusSuccess,
		ResponseStatusCode: &okCode,
		ResponseBody:       "ok",
		At:                 time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("record success attempt: %v", err)
	}
	if succeeded.Attempts != 2 || succeeded.Status != core.DeliveryStatusSuccess {
		t.Fatalf("expected second successful attempt, got %+v", succeeded)
	}

	// A duplicate task execution after success must not regress the row.
	badCode := 500
	final, err := deliveries.RecordAttempt(ctx, delivery.ID, core.AttemptOutcome{
		Status:             core.DeliveryStatusFailed,
		ResponseStatusCode: &badCode,
		ResponseBody:       "late duplicate",
		At:                 time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("record duplicate attempt: %v", err)
	}
	if final.Status != core.DeliveryStatusSuccess || final.Attempts != 2 {
		t.Fatalf("expected success to stick, got %+v", final)
	}

	listed, err := deliveries.List(ctx, core.DeliveryFilter{EndpointID: endpoint.ID, Status: core.DeliveryStatusSuccess})
	if err != nil {
		t.Fatalf("list deliveries: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected one successful delivery, got %d", len(listed))
	}
	if string(listed[0].Payload) != string(payload) {
		t.Fatalf("expected frozen payload on the row")
	}
}

func TestServiceWiring_BuildsStoresFromFactory(t *testing.T) {
	ctx := context.Background()
	factory, cleanup := newTestFactory(t)
	defer cleanup()

	svc, err := ecmevents.NewService(ecmevents.DefaultConfig(),
		ecmevents.WithRepositoryFactory(factory),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	subscription, err := svc.Subscribe(ctx, core.UpsertSubscriptionInput{
		DocumentID: "doc_1",
		PersonID:   "usr_1",
		EventTypes: []string{"document"},
	})
	if err != nil {
		t.Fatalf("subscribe through wired service: %v", err)
	}
	if subscription.ID == "" {
		t.Fatalf("expected persisted subscription")
	}

	subscribers, err := svc.ListDocumentSubscribers(ctx, "doc_1")
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	if len(subscribers) != 1 {
		t.Fatalf("expected one subscriber, got %d", len(subscribers))
	}
}
