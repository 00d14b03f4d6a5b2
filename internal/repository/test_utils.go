package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/portal/pkg/config"
	"github.com/samandr77/microservices/portal/pkg/postgres"
)

var (
	testDB     *pgxpool.Pool
	testDBOnce sync.Once
)

// SetupTestDatabase connects to TEST_POSTGRES_DSN, applies migrations and
// empties the tables. Tests are skipped when the variable is not set.
func SetupTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN is not set")
	}

	testDBOnce.Do(func() {
		cfg := config.Postgres{
			DSN:             dsn,
			MaxConn:         4,
			ConnectAttempts: 3,
			ConnectDelay:    200 * time.Millisecond,
		}

		require.NoError(t, postgres.UpMigrations(context.Background(), cfg))

		db, err := postgres.Connect(context.Background(), cfg)
		require.NoError(t, err)

		testDB = db
	})

	require.NotNil(t, testDB)

	CleanupDatabase(t, testDB)

	return testDB
}

func CleanupDatabase(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	for _, table := range []string{"org_contexts"} {
		_, err := db.Exec(context.Background(), "DELETE FROM "+table)
		if err != nil {
			t.Logf("Warning: failed to cleanup table %s: %v", table, err)
		}
	}
}
