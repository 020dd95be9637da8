package state

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	dbMu.Lock()
	if db != nil {
		_ = db.Close()
		db = nil
	}
	configured = false
	dbMu.Unlock()

	Configure(filepath.Join(tempDir, "tonekit.db"))
	require.NoError(t, initDB())
	t.Cleanup(CloseDB)
	return tempDir
}

func TestDBLifecycle(t *testing.T) {
	setupTestDB(t)

	d, err := GetDB()
	require.NoError(t, err)
	require.NotNil(t, d)

	d2, err := GetDB()
	require.NoError(t, err)
	assert.Same(t, d, d2, "GetDB should return the same instance")

	CloseDB()
	assert.Nil(t, db)

	d3, err := GetDB()
	require.NoError(t, err)
	_, err = d3.Exec("SELECT * FROM overrides LIMIT 1")
	assert.NoError(t, err)
	_, err = d3.Exec("SELECT * FROM base_hsl LIMIT 1")
	assert.NoError(t, err)
}

func TestGetDB_NotConfigured(t *testing.T) {
	dbMu.Lock()
	if db != nil {
		_ = db.Close()
		db = nil
	}
	configured = false
	dbPath = ""
	dbMu.Unlock()

	_, err := GetDB()
	assert.Error(t, err)
}

func TestInitDB_CreatesDir(t *testing.T) {
	tempDir := t.TempDir()
	CloseDB()
	path := filepath.Join(tempDir, "nested", "state", "tonekit.db")
	Configure(path)
	t.Cleanup(CloseDB)

	_, err := GetDB()
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWithTx_Rollback(t *testing.T) {
	setupTestDB(t)

	expected := errors.New("intentional error")
	err := withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO base_hsl (family, h, s, l) VALUES (?, ?, ?, ?)", "primary", 1, 2, 3); err != nil {
			return err
		}
		return expected
	})
	assert.ErrorIs(t, err, expected)

	bases, err := LoadBases()
	require.NoError(t, err)
	assert.Empty(t, bases)
}
