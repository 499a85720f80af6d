package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-while/go-pugtodo/internal/config"
)

func newTestSQLiteStore(t *testing.T) (*SQLiteStore, *config.DatabaseConfig) {
	t.Helper()
	dbconfig := config.NewDefaultConfig().Database
	dbconfig.ConnectString = filepath.Join(t.TempDir(), "data", "todo.sq3")
	store, err := OpenSQLite(context.Background(), &dbconfig)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, &dbconfig
}

func TestSQLiteStoreContract(t *testing.T) {
	store, _ := newTestSQLiteStore(t)
	runStoreContract(t, store, "00000000-0000-4000-8000-000000000000")
}

func TestSQLiteMemoryStore(t *testing.T) {
	dbconfig := config.NewDefaultConfig().Database
	dbconfig.ConnectString = ":memory:"
	store, err := Open(context.Background(), &dbconfig)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*SQLiteStore); !ok {
		t.Fatalf("expected *SQLiteStore, got %T", store)
	}
	runStoreContract(t, store, "00000000-0000-4000-8000-000000000000")
}

func TestSQLiteReopenKeepsItems(t *testing.T) {
	store, dbconfig := newTestSQLiteStore(t)
	ctx := context.Background()
	created, err := store.Create(ctx, "survives restart")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLite(ctx, dbconfig)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(ctx, strings.ToUpper(created.ID))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Text != "survives restart" {
		t.Fatalf("Get after reopen = %+v", got)
	}

	var applied int
	if err := reopened.mainDB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	migrations, err := getEmbeddedMigrationFiles()
	if err != nil {
		t.Fatalf("getEmbeddedMigrationFiles: %v", err)
	}
	if applied != len(migrations) {
		t.Errorf("schema_migrations has %d rows, want %d", applied, len(migrations))
	}
}

func TestSQLiteCheckConstraint(t *testing.T) {
	store, _ := newTestSQLiteStore(t)
	_, err := store.mainDB.Exec(query_CreateItem, "00000000-0000-4000-8000-000000000001", strings.Repeat("x", 256))
	if err == nil {
		t.Fatal("expected CHECK constraint to reject 256 characters")
	}
	if kind := classifySQLiteError("create", err); kind == nil || !strings.Contains(kind.Error(), "invalid input") {
		t.Errorf("classifySQLiteError = %v, want invalid input", kind)
	}
}

func TestSQLiteDSN(t *testing.T) {
	dir := t.TempDir()
	testCases := []struct {
		name    string
		connect string
		wal     bool
		want    string
	}{
		{"plain path", filepath.Join(dir, "a.sq3"), true, filepath.Join(dir, "a.sq3") + "?_busy_timeout=30000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL"},
		{"scheme prefix", "sqlite://" + filepath.Join(dir, "b.sq3"), false, filepath.Join(dir, "b.sq3") + "?_busy_timeout=30000&_foreign_keys=on&_synchronous=NORMAL"},
		{"file dsn with query", "file:todo.db?cache=shared", false, "file:todo.db?cache=shared&_busy_timeout=30000&_foreign_keys=on&_synchronous=NORMAL"},
		{"memory skips wal", ":memory:", true, ":memory:?_busy_timeout=30000&_foreign_keys=on&_synchronous=NORMAL"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dbconfig := config.NewDefaultConfig().Database
			dbconfig.ConnectString = tc.connect
			dbconfig.WALMode = tc.wal
			got, err := sqliteDSN(&dbconfig)
			if err != nil {
				t.Fatalf("sqliteDSN: %v", err)
			}
			if got != tc.want {
				t.Errorf("sqliteDSN(%q) = %q, want %q", tc.connect, got, tc.want)
			}
		})
	}
}

func TestParseMigrationFileName(t *testing.T) {
	m, err := parseMigrationFileName("0001_main_items.sql")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Version != 1 || m.Type != MigrationTypeMain || m.Description != "items" || m.FilePath != "migrations/0001_main_items.sql" {
		t.Errorf("unexpected migration metadata: %+v", m)
	}
	for _, bad := range []string{"0001_main_items.txt", "0001_items.sql", "abcd_main_items.sql", "0002_group_x.sql"} {
		if _, err := parseMigrationFileName(bad); err == nil {
			t.Errorf("expected error for %s", bad)
		}
	}
}

func TestEmbeddedMigrationFiles(t *testing.T) {
	migrations, err := getEmbeddedMigrationFiles()
	if err != nil {
		t.Fatalf("getEmbeddedMigrationFiles: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("no embedded migrations")
	}
	for i, m := range migrations {
		if m.Type != MigrationTypeMain {
			t.Errorf("%s: unexpected type %q", m.FileName, m.Type)
		}
		if i > 0 && migrations[i-1].Version >= m.Version {
			t.Errorf("migrations not ordered by version: %s before %s", migrations[i-1].FileName, m.FileName)
		}
		if _, err := readEmbeddedMigrationContent(m); err != nil {
			t.Errorf("read %s: %v", m.FileName, err)
		}
	}
}
