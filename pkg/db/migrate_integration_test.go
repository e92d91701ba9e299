package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/product_catalog/pkg/db/dbtest"
)

func TestMigrate_Postgres(t *testing.T) {
	dsn := dbtest.PostgresDSN(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, dsn))
	// second run is a no-op
	require.NoError(t, Migrate(ctx, dsn))

	gdb, err := Open(ctx, DriverPostgres, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	assert.True(t, gdb.Migrator().HasTable("accounts"))
	assert.True(t, gdb.Migrator().HasTable("products"))

	err = gdb.Exec(`INSERT INTO accounts (id, email, password_hash) VALUES (gen_random_uuid(), 'a@example.com', 'x')`).Error
	require.NoError(t, err)
	err = gdb.Exec(`INSERT INTO accounts (id, email, password_hash) VALUES (gen_random_uuid(), 'a@example.com', 'x')`).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	err = gdb.Exec(`INSERT INTO products (id, name, category, price) VALUES (gen_random_uuid(), 'Pen', 'Stationery', -1)`).Error
	require.Error(t, err)
}
