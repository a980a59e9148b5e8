// Package testutil provides shared test helpers for setting up vaults and databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/eihwaz/internal/index"
	"github.com/starford/eihwaz/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "eihwaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault directory with a storage provider.
func TestVault(t *testing.T) (string, *storage.FS) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// TestEnv creates a vault and an index together.
func TestEnv(t *testing.T) (string, *storage.FS, *index.DB) {
	t.Helper()
	dir, store := TestVault(t)
	return dir, store, TestDB(t)
}

// WriteNote writes a note to the vault and indexes it, so that
// resolution and backlinks see it immediately.
func WriteNote(t *testing.T, vault *storage.FS, db *index.DB, path, content string) {
	t.Helper()
	if err := vault.Write(path, []byte(content)); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := index.IndexFile(db, path, []byte(content)); err != nil {
		t.Fatalf("index %s: %v", path, err)
	}
}
