//go:build integration

package mysql

import (
	"context"
	"path/filepath"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

// startDatabase runs MySQL with db/schema.sql applied at init and returns a
// DSN for it.
func startDatabase(t *testing.T, ctx context.Context) string {
	t.Helper()

	schema, err := filepath.Abs(filepath.Join("..", "..", "..", "db", "schema.sql"))
	require.NoError(t, err)

	container, err := mysql.RunContainer(ctx,
		mysql.WithDatabase("wallet_live_test"),
		mysql.WithUsername("wallet"),
		mysql.WithPassword("wallet"),
		mysql.WithScripts(schema),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "parseTime=true", "loc=UTC")
	require.NoError(t, err)
	return dsn
}
