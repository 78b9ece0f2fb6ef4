package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"gwconsole/internal/platform/config"
)

// MemoryPath opens a private in-memory database; used by tests and by the
// terminal console when no session file is wanted.
const MemoryPath = ":memory:"

// Open connects to the local session database described by cfg. A "file:"
// prefix is accepted and the parent directory is created when missing.
func Open(cfg config.SessionConfig) (*sql.DB, error) {
	dsn := strings.TrimPrefix(cfg.Path, "file:")
	if dsn == "" {
		return nil, fmt.Errorf("session path is empty")
	}

	if dsn != MemoryPath {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("create session directory: %w", err)
			}
		}
		dsn += "?_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	maxConns := cfg.MaxConnections
	if maxConns <= 0 || dsn == MemoryPath {
		// every pooled connection to :memory: would see its own database
		maxConns = 1
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(time.Hour)
	if dsn == MemoryPath {
		db.SetConnMaxLifetime(0)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
