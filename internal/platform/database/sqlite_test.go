package database

import (
	"path/filepath"
	"testing"

	"gwconsole/internal/platform/config"
)

func TestOpen_Memory(t *testing.T) {
	db, err := Open(config.SessionConfig{Path: MemoryPath, MaxConnections: 4})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 1 {
		t.Errorf("Expected in-memory pool capped at 1, got %d", got)
	}
}

func TestOpen_FileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	db, err := Open(config.SessionConfig{Path: "file:" + path, MaxConnections: 2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE scratch (id INTEGER)"); err != nil {
		t.Fatalf("Expected writable database, got %v", err)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(config.SessionConfig{}); err == nil {
		t.Fatal("Expected error for empty path")
	}
}
