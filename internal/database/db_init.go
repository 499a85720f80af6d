package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/go-while/go-pugtodo/internal/config"
	_ "github.com/mattn/go-sqlite3" // SQLite3 driver
)

// SQLiteStore keeps items in a single SQLite database file
type SQLiteStore struct {
	mainDB   *sql.DB
	dbconfig *config.DatabaseConfig
	dsn      string
}

// OpenSQLite opens (and creates if needed) the SQLite database and applies migrations
func OpenSQLite(ctx context.Context, dbconfig *config.DatabaseConfig) (*SQLiteStore, error) {
	dsn, err := sqliteDSN(dbconfig)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{dbconfig: dbconfig, dsn: dsn}

	if err := s.initMainDB(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize main database: %w", err)
	}

	// Run migrations to ensure all tables exist
	if err := s.Migrate(ctx); err != nil {
		if cerr := s.mainDB.Close(); cerr != nil {
			return nil, fmt.Errorf("failed to run database migrations: %w; also failed to close mainDB: %v", err, cerr)
		}
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	log.Printf("[DB]: SQLite store ready at %s", truncateString(dsn, 120))
	return s, nil
}

// sqliteDSN turns the configured connect string into a go-sqlite3 DSN with
// the per-connection pragmas appended as query parameters.
func sqliteDSN(dbconfig *config.DatabaseConfig) (string, error) {
	dsn := strings.TrimSpace(dbconfig.ConnectString)
	dsn = strings.TrimPrefix(dsn, "sqlite3://")
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	if dsn == "" {
		return "", fmt.Errorf("empty sqlite connect string")
	}

	if !strings.HasPrefix(dsn, "file:") && !isMemoryDSN(dsn) {
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := createDirIfNotExists(dir); err != nil {
				return "", fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	params := []string{"_busy_timeout=30000", "_foreign_keys=on"}
	if dbconfig.WALMode && !isMemoryDSN(dsn) {
		params = append(params, "_journal_mode=WAL")
	}
	if dbconfig.SyncMode != "" {
		params = append(params, "_synchronous="+dbconfig.SyncMode)
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&"), nil
}

// initMainDB initializes the main database connection
func (s *SQLiteStore) initMainDB(ctx context.Context) error {
	mainDB, err := sql.Open("sqlite3", s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open main database: %w", err)
	}

	// Configure connection pool
	if isMemoryDSN(s.dsn) {
		// every connection to :memory: is a separate database
		mainDB.SetMaxOpenConns(1)
	} else {
		mainDB.SetMaxOpenConns(s.dbconfig.MaxOpenConns)
		mainDB.SetMaxIdleConns(s.dbconfig.MaxIdleConns)
	}

	timeout := s.dbconfig.ConnectTimeout
	if timeout <= 0 {
		timeout = config.DefaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := mainDB.PingContext(pingCtx); err != nil {
		if cerr := mainDB.Close(); cerr != nil {
			return fmt.Errorf("failed to ping main database: %w; also failed to close mainDB: %v", err, cerr)
		}
		return fmt.Errorf("failed to ping main database: %w", err)
	}

	s.mainDB = mainDB
	return nil
}

// Close closes the database connection pool
func (s *SQLiteStore) Close() error {
	if s.mainDB == nil {
		return nil
	}
	log.Printf("[DB]: Closing SQLite store")
	return s.mainDB.Close()
}
