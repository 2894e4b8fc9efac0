package migrations

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	ecmevents "github.com/goliatone/go-ecm-events"
	_ "github.com/mattn/go-sqlite3"
)

func TestFilesystems_ReturnsPostgresAndSQLite(t *testing.T) {
	filesystems, err := Filesystems()
	if err != nil {
		t.Fatalf("filesystems: %v", err)
	}
	if len(filesystems) != 2 {
		t.Fatalf("expected 2 filesystems, got %d", len(filesystems))
	}

	var postgresFound bool
	var sqliteFound bool
	for _, entry := range filesystems {
		matches, globErr := fs.Glob(entry.FS, "*.up.sql")
		if globErr != nil {
			t.Fatalf("glob %s: %v", entry.Dialect, globErr)
		}
		if len(matches) == 0 {
			t.Fatalf("expected %s migration files, got none", entry.Dialect)
		}
		switch entry.Dialect {
		case DialectPostgres:
			postgresFound = true
		case DialectSQLite:
			sqliteFound = true
		}
	}

	if !postgresFound {
		t.Fatalf("expected postgres filesystem")
	}
	if !sqliteFound {
		t.Fatalf("expected sqlite filesystem")
	}
}

func TestFilesystems_RejectsIncompleteSchemaTree(t *testing.T) {
	incomplete := fstest.MapFS{
		"data/sql/migrations/0001_document_subscriptions.up.sql":          {Data: []byte("CREATE TABLE document_subscriptions (id TEXT);")},
		"data/sql/migrations/0001_document_subscriptions.down.sql":        {Data: []byte("DROP TABLE document_subscriptions;")},
		"data/sql/migrations/sqlite/0001_document_subscriptions.up.sql":   {Data: []byte("CREATE TABLE document_subscriptions (id TEXT);")},
		"data/sql/migrations/sqlite/0001_document_subscriptions.down.sql": {Data: []byte("DROP TABLE document_subscriptions;")},
	}

	_, err := Filesystems(incomplete)
	if err == nil {
		t.Fatalf("expected incomplete schema tree to be rejected")
	}
	if !strings.Contains(err.Error(), "0002_notifications") {
		t.Fatalf("expected the missing migration to be named, got %v", err)
	}
}

func TestRegister_UsesValidationTargets(t *testing.T) {
	var calls []string
	_, err := Register(context.Background(), func(_ context.Context, dialect string, _ string, _ fs.FS) error {
		calls = append(calls, dialect)
		return nil
	}, WithValidationTargets(DialectSQLite))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if len(calls) != 1 {
		t.Fatalf("expected 1 registration call, got %d", len(calls))
	}
	if calls[0] != DialectSQLite {
		t.Fatalf("expected sqlite registration, got %q", calls[0])
	}
}

func TestSchemaMigrationPairs_ExistForBothDialects(t *testing.T) {
	root := ecmevents.GetMigrationsFS()
	names := []string{
		"0001_document_subscriptions",
		"0002_notifications",
		"0003_webhook_endpoints",
		"0004_webhook_deliveries",
	}
	for _, name := range names {
		paths := []string{
			"data/sql/migrations/" + name + ".up.sql",
			"data/sql/migrations/" + name + ".down.sql",
			"data/sql/migrations/sqlite/" + name + ".up.sql",
			"data/sql/migrations/sqlite/" + name + ".down.sql",
		}
		for _, migrationPath := range paths {
			content, err := fs.ReadFile(root, migrationPath)
			if err != nil {
				t.Fatalf("read migration %s: %v", migrationPath, err)
			}
			if strings.TrimSpace(string(content)) == "" {
				t.Fatalf("expected migration %s to have SQL content", migrationPath)
			}
		}
	}
}

func TestSQLiteSchemaMigrations_ApplyAndRollback(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:migrations-schema?mode=memory&cache=shared&_foreign_keys=on")
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	defer func() { _ = db.Close() }()

	root := ecmevents.GetMigrationsFS()
	sqliteMigrations, err := fs.Sub(root, "data/sql/migrations/sqlite")
	if err != nil {
		t.Fatalf("resolve sqlite migrations: %v", err)
	}

	ups := []string{
		"0001_document_subscriptions.up.sql",
		"0002_notifications.up.sql",
		"0003_webhook_endpoints.up.sql",
		"0004_webhook_deliveries.up.sql",
	}
	for _, migration := range ups {
		if err := execSQLMigration(context.Background(), db, sqliteMigrations, migration); err != nil {
			t.Fatalf("apply migration %s: %v", migration, err)
		}
	}

	insertSubscription := `
		INSERT INTO document_subscriptions
			(id, document_id, person_id, event_types, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := db.ExecContext(
		context.Background(),
		insertSubscription,
		"sub_1", "doc_1", "usr_1", `["document"]`, 1,
		"2026-08-01T00:00:00Z", "2026-08-01T00:00:00Z",
	); err != nil {
		t.Fatalf("insert subscription: %v", err)
	}
	if _, err := db.ExecContext(
		context.Background(),
		insertSubscription,
		"sub_2", "doc_1", "usr_1", `["workflow"]`, 1,
		"2026-08-01T00:01:00Z", "2026-08-01T00:01:00Z",
	); err == nil {
		t.Fatalf("expected unique (document_id, person_id) violation")
	}

	downs := []string{
		"0004_webhook_deliveries.down.sql",
		"0003_webhook_endpoints.down.sql",
		"0002_notifications.down.sql",
		"0001_document_subscriptions.down.sql",
	}
	for _, migration := range downs {
		if err := execSQLMigration(context.Background(), db, sqliteMigrations, migration); err != nil {
			t.Fatalf("apply down migration %s: %v", migration, err)
		}
	}

	var count int
	if err := db.QueryRowContext(
		context.Background(),
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`,
		"document_subscriptions",
	).Scan(&count); err != nil {
		t.Fatalf("query sqlite_master after down migrations: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected document_subscriptions to be dropped")
	}
}

func execSQLMigration(ctx context.Context, db *sql.DB, fsys fs.FS, filename string) error {
	content, err := fs.ReadFile(fsys, filepath.Clean(filename))
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, string(content))
	return err
}
