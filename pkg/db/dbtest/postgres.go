// Package dbtest starts throwaway PostgreSQL containers for integration tests.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const EnvIntegration = "INTEGRATION_TESTS"

// PostgresDSN skips the test unless INTEGRATION_TESTS is set. The container is
// terminated on test cleanup.
func PostgresDSN(t *testing.T) string {
	t.Helper()

	if os.Getenv(EnvIntegration) == "" {
		t.Skipf("%s is required for container tests", EnvIntegration)
	}

	ctx := context.Background()
	pg, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(pg) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}
