package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/plantnet-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1, "expected one %s migration", suffix)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}

func TestMigrationsContainSchemas(t *testing.T) {
	cases := map[string][]string{
		"create_users_table": {
			"CREATE TABLE IF NOT EXISTS users",
			"CONSTRAINT users_email_key UNIQUE (email)",
			"role text NOT NULL DEFAULT 'customer'",
		},
		"create_products_table": {
			"CREATE TABLE IF NOT EXISTS products",
			"price numeric(12,2)",
			"CREATE INDEX IF NOT EXISTS idx_products_category",
		},
		"create_cart_items_table": {
			"CREATE TABLE IF NOT EXISTS cart_items",
			"CHECK (cart_quantity >= 1)",
		},
		"create_wishlist_items_table": {
			"CONSTRAINT wishlist_items_user_product_key UNIQUE (user_email, product_id)",
		},
		"create_orders_table": {
			"items jsonb NOT NULL",
			"order_timestamp bigint NOT NULL",
			"'pending', 'processing', 'delivered', 'returned', 'cancelled'",
		},
	}

	for suffix, checks := range cases {
		content := readMigration(t, suffix)
		for _, sub := range checks {
			assert.Contains(t, content, sub, suffix)
		}
		assert.True(t, strings.Contains(content, "DROP TABLE IF EXISTS"), suffix)
	}
}

func TestEmbeddedMigrationsMatchDisk(t *testing.T) {
	embedded, err := migrate.Source("")
	require.NoError(t, err)
	require.NoError(t, migrate.Validate(embedded))

	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	require.NoError(t, err)
	inBinary, err := fs.Glob(embedded, "*.sql")
	require.NoError(t, err)
	assert.Len(t, inBinary, len(onDisk))
}

func TestValidateRejectsBadNames(t *testing.T) {
	fsys := fstest.MapFS{"001_init.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")}}
	assert.Error(t, migrate.Validate(fsys))

	fsys = fstest.MapFS{"20260101000000_init.sql": {Data: []byte("-- +goose Up\n")}}
	assert.ErrorContains(t, migrate.Validate(fsys), "+goose Down")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	stamp := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	path, err := migrate.CreateSQLMigration(dir, "Add Product Tags!", stamp)
	require.NoError(t, err)
	assert.Equal(t, "20260302100000_add_product_tags.sql", filepath.Base(path))

	source, err := migrate.Source(dir)
	require.NoError(t, err)
	assert.NoError(t, migrate.Validate(source))

	_, err = migrate.CreateSQLMigration(dir, "another", stamp)
	assert.ErrorContains(t, err, "already used")

	_, err = migrate.CreateSQLMigration(dir, "!!!", stamp.Add(time.Second))
	assert.Error(t, err)
}
