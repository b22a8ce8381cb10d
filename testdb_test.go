package membership_test

import (
	"database/sql"
	"io/fs"
	"sort"
	"strings"
	"testing"

	"github.com/damoti/go-membership"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// setupTestDB opens an in-memory sqlite database and applies the
// package's embedded migrations.
func setupTestDB(t *testing.T) (*bun.DB, membership.RepositoryManager) {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	migrations := membership.GetMigrationsFS()
	entries, err := fs.ReadDir(migrations, "data/sql/migrations")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := fs.ReadFile(migrations, "data/sql/migrations/"+name)
		require.NoError(t, err)
		_, err = bunDB.Exec(string(content))
		require.NoErrorf(t, err, "migration %s", name)
	}

	t.Cleanup(func() {
		bunDB.Close()
	})

	return bunDB, membership.NewRepositoryManager(bunDB)
}
