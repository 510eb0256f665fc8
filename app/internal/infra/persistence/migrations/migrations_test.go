package migrations

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/localspark/app/internal/infra/persistence/sqlstore"
)

func TestSource_EveryUpHasDown(t *testing.T) {
	for _, dialect := range []string{"postgres", "mysql"} {
		t.Run(dialect, func(t *testing.T) {
			src, err := Source(dialect)
			require.NoError(t, err)
			defer src.Close()

			version, err := src.First()
			require.NoError(t, err)
			for {
				up, _, err := src.ReadUp(version)
				require.NoError(t, err)
				body, err := io.ReadAll(up)
				require.NoError(t, err)
				up.Close()
				require.Contains(t, string(body), "CREATE TABLE")

				down, _, err := src.ReadDown(version)
				require.NoError(t, err)
				down.Close()

				next, err := src.Next(version)
				if errors.Is(err, fs.ErrNotExist) {
					break
				}
				require.NoError(t, err)
				version = next
			}
		})
	}
}

func TestSource_DialectsDefineSameTables(t *testing.T) {
	tables := func(dialect string) []string {
		body, err := fs.ReadFile(files, dialect+"/000001_init.up.sql")
		require.NoError(t, err)
		var out []string
		for _, line := range strings.Split(string(body), "\n") {
			if rest, ok := strings.CutPrefix(line, "CREATE TABLE IF NOT EXISTS "); ok {
				out = append(out, strings.Fields(rest)[0])
			}
		}
		return out
	}

	require.Equal(t, tables("postgres"), tables("mysql"))
	require.Contains(t, tables("postgres"), "registrations")
}

func TestSource_UnknownDialect(t *testing.T) {
	_, err := Source("sqlite")
	require.Error(t, err)
}

func TestMigrator_PostgresRoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set")
	}

	store, err := sqlstore.Open(context.Background(), sqlstore.DialectPostgres, dsn)
	require.NoError(t, err)

	mg, err := New(store.DB().DB, "postgres")
	require.NoError(t, err)
	defer mg.Close()

	require.NoError(t, mg.Up())
	require.NoError(t, mg.Up())

	version, dirty, err := mg.Version()
	require.NoError(t, err)
	require.False(t, dirty)
	require.EqualValues(t, 1, version)
}
