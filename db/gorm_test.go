package db

import (
	"path/filepath"
	"testing"

	"github.com/nemopss/fin-records/service"
)

func setupGormStorage(t *testing.T) service.Repository {
	t.Helper()
	store, err := NewGormStorage(filepath.Join(t.TempDir(), "fin.db"))
	if err != nil {
		t.Fatalf("Failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGormStorage(t *testing.T) {
	runRepositorySuite(t, setupGormStorage)
}
