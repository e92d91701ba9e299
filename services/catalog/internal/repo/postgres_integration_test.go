package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgdb "github.com/Skotchmaster/product_catalog/pkg/db"
	"github.com/Skotchmaster/product_catalog/pkg/db/dbtest"
	"github.com/Skotchmaster/product_catalog/services/catalog/internal/models"
)

func TestGormRepo_Postgres(t *testing.T) {
	dsn := dbtest.PostgresDSN(t)
	ctx := context.Background()

	require.NoError(t, pkgdb.Migrate(ctx, dsn))
	gdb, err := pkgdb.Open(ctx, pkgdb.DriverPostgres, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(gdb) })

	r := &GormRepo{DB: gdb}
	pen := seed(t, r, "Pen", "Blue INK", "Stationery", 10, 4, 0)
	seed(t, r, "Mug", "50% off", "Kitchen", 7, 2, 1)

	items, err := r.Filter(ctx, models.ProductFilter{Category: "Stationery", MinPrice: f64(5), MaxPrice: f64(20)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pen"}, names(items))

	items, err = r.Search(ctx, "ink")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pen"}, names(items))

	items, err = r.Search(ctx, "%")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mug"}, names(items))

	require.NoError(t, r.Delete(ctx, pen.ID))
	assert.ErrorIs(t, r.Delete(ctx, pen.ID), ErrNotFound)
}
