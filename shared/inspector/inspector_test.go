package inspector_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MahdiMohammadiha/CRUD/shared/inspector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestInspector opens a SQLite inspector over a fresh database file with
// a few tables of known shape.
func newTestInspector(t *testing.T) *inspector.SQLiteInspector {
	t.Helper()

	insp := inspector.NewSQLite(inspector.ConnectionConfig{
		Driver: "sqlite",
		DBName: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, insp.Connect())
	t.Cleanup(func() { insp.Close() })

	db, err := insp.DB()
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, age INTEGER)`,
		`CREATE TABLE notes (body TEXT)`,
		`CREATE TABLE pairs (a INTEGER, b INTEGER, weight REAL, PRIMARY KEY (a, b))`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return insp
}

func TestSQLiteInspector_Tables(t *testing.T) {
	insp := newTestInspector(t)

	tables, err := insp.Tables(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"notes", "pairs", "users"}, tables)
}

func TestSQLiteInspector_Columns(t *testing.T) {
	insp := newTestInspector(t)

	t.Run("ordinal order preserved", func(t *testing.T) {
		columns, err := insp.Columns(context.Background(), "users", "")
		require.NoError(t, err)

		names := make([]string, 0, len(columns))
		for _, c := range columns {
			names = append(names, c.Name)
		}
		assert.Equal(t, []string{"id", "name", "age"}, names)
	})

	t.Run("missing table yields empty list", func(t *testing.T) {
		columns, err := insp.Columns(context.Background(), "nope", "")
		require.NoError(t, err)
		assert.Empty(t, columns)
	})

	t.Run("hostile table name yields empty list", func(t *testing.T) {
		columns, err := insp.Columns(context.Background(), `users"); DROP TABLE users;--`, "")
		require.NoError(t, err)
		assert.Empty(t, columns)
	})
}

func TestSQLiteInspector_PrimaryKeyColumns(t *testing.T) {
	insp := newTestInspector(t)
	ctx := context.Background()

	t.Run("single", func(t *testing.T) {
		pk, err := insp.PrimaryKeyColumns(ctx, "users", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"id"}, pk)
	})

	t.Run("none", func(t *testing.T) {
		pk, err := insp.PrimaryKeyColumns(ctx, "notes", "")
		require.NoError(t, err)
		assert.Empty(t, pk)
	})

	t.Run("composite in key order", func(t *testing.T) {
		pk, err := insp.PrimaryKeyColumns(ctx, "pairs", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, pk)
	})
}

func TestSQLiteInspector_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifecycle.db")
	insp := inspector.NewSQLite(inspector.ConnectionConfig{Driver: "sqlite", DBName: path})

	t.Run("queries before connect fail", func(t *testing.T) {
		_, err := insp.Tables(context.Background(), "")
		assert.ErrorIs(t, err, inspector.ErrNotConnected)

		_, err = insp.DB()
		assert.ErrorIs(t, err, inspector.ErrNotConnected)
	})

	t.Run("close before connect is a no-op", func(t *testing.T) {
		assert.NoError(t, insp.Close())
	})

	t.Run("connect twice replaces the handle", func(t *testing.T) {
		require.NoError(t, insp.Connect())
		require.NoError(t, insp.Connect())

		_, err := insp.Tables(context.Background(), "")
		assert.NoError(t, err)
	})

	t.Run("close twice", func(t *testing.T) {
		assert.NoError(t, insp.Close())
		assert.NoError(t, insp.Close())

		_, err := insp.Tables(context.Background(), "")
		assert.ErrorIs(t, err, inspector.ErrNotConnected)
	})
}

func TestOpen(t *testing.T) {
	tests := []struct {
		driver  string
		wantErr bool
		want    string
	}{
		{driver: "postgres", want: "postgres"},
		{driver: "postgresql", want: "postgres"},
		{driver: "sqlite3", want: "sqlite"},
		{driver: "oracle", wantErr: true},
		{driver: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("driver "+tt.driver, func(t *testing.T) {
			insp, err := inspector.Open(inspector.ConnectionConfig{Driver: tt.driver})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, insp.Driver())
		})
	}
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"users"`, inspector.QuoteIdent("users"))
	assert.Equal(t, `"we""ird"`, inspector.QuoteIdent(`we"ird`))
}

func TestValidIdent(t *testing.T) {
	assert.True(t, inspector.ValidIdent("users"))
	assert.True(t, inspector.ValidIdent("_tmp2"))
	assert.False(t, inspector.ValidIdent("2users"))
	assert.False(t, inspector.ValidIdent("users; drop"))
	assert.False(t, inspector.ValidIdent(""))
}

func TestNormalizeDriver(t *testing.T) {
	assert.Equal(t, "postgres", inspector.NormalizeDriver("PostgreSQL"))
	assert.Equal(t, "postgres", inspector.NormalizeDriver("pgx"))
	assert.Equal(t, "sqlite", inspector.NormalizeDriver("sqlite3"))
	assert.Equal(t, "mysql", inspector.NormalizeDriver("mysql"))
}

func TestSQLiteInspector_ConnectBadPath(t *testing.T) {
	insp := inspector.NewSQLite(inspector.ConnectionConfig{
		Driver: "sqlite",
		DBName: filepath.Join(t.TempDir(), "missing", "nested", "test.db"),
	})
	err := insp.Connect()
	assert.Error(t, err)

	_, dbErr := insp.DB()
	assert.ErrorIs(t, dbErr, inspector.ErrNotConnected)
}
