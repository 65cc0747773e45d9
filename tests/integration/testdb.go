// Package integration runs the repositories and SQL migrations against a
// real PostgreSQL started with testcontainers.
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/bizdesk/backend/internal/infrastructure/config"
	"github.com/bizdesk/backend/internal/infrastructure/migration"
	"github.com/bizdesk/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// TestDB is a migrated PostgreSQL database in its own container
type TestDB struct {
	*persistence.Database
	DSN       string
	Container testcontainers.Container
}

// NewTestDB starts PostgreSQL, applies the embedded migrations and opens the
// application's database layer on it. Skipped with -short.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test requires docker")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("bizdesk_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	migrateUp(t, dsn)

	db, err := persistence.NewDatabase(config.DatabaseConfig{
		Driver:       "postgres",
		URL:          dsn,
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	})
	require.NoError(t, err, "Failed to open database")
	t.Cleanup(func() { _ = db.Close() })

	return &TestDB{Database: db, DSN: dsn, Container: container}
}

func migrateUp(t *testing.T, dsn string) {
	t.Helper()

	sqlDB, err := migration.Open(dsn)
	require.NoError(t, err)
	m, err := migration.New(sqlDB, "", zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = m.Close() }()
	require.NoError(t, m.Up(), "Failed to apply migrations")
}
