package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bizdesk/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add users table", "add_users_table"},
		{"Add-Users-Table", "add_users_table"},
		{"add__users__table", "add_users_table"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add clients index", "Speed up client search")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.Equal(t, "000001_add_clients_index.up.sql", filepath.Base(first.UpPath))
	assert.Equal(t, "000001_add_clients_index.down.sql", filepath.Base(first.DownPath))

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Speed up client search")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "000001 add clients index (rollback)")
	assert.Contains(t, string(down), "-- Reverts: Speed up client search")

	second, err := CreateMigration(dir, "Add Stock", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)

	_, err = CreateMigration(dir, "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		list, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("sorted base names", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"000002_b.up.sql", "000002_b.down.sql", "000001_a.up.sql", "000001_a.down.sql", "README.md"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}
		list, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_a", "000002_b"}, list)
	})
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Positive(t, ups)
	assert.Equal(t, ups, downs)

	initUp, err := migrations.FS.ReadFile("000001_init.up.sql")
	require.NoError(t, err)
	for _, table := range []string{"users", "clients", "products", "sales", "purchases", "warehouses", "warehouse_stock", "bank_operations", "chart_of_accounts", "doc_settlements"} {
		assert.Contains(t, string(initUp), "CREATE TABLE "+table+" ", table)
	}
}

func TestMigrateLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &migrateLogger{logger: zap.New(core)}

	l.Printf("applied %d\n", 3)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "applied 3", logs.All()[0].Message)
	assert.False(t, l.Verbose())
}
