package api_row_insert_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MahdiMohammadiha/CRUD/api/api_row_insert"
	"github.com/MahdiMohammadiha/CRUD/shared/inspector"
	"github.com/MahdiMohammadiha/CRUD/shared/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(t *testing.T) *query.Builder {
	t.Helper()

	insp := inspector.NewSQLite(inspector.ConnectionConfig{
		Driver: "sqlite",
		DBName: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, insp.Connect())
	t.Cleanup(func() { insp.Close() })

	db, err := insp.DB()
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)`).Error)

	return query.New(insp, "", 0)
}

func doInsert(t *testing.T, handler *api_row_insert.RowInsert, table, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/tables/"+table, strings.NewReader(body))
	req.SetPathValue("table", table)
	w := httptest.NewRecorder()
	handler.Handle(w, req)
	return w
}

func TestRowInsert_Handle(t *testing.T) {
	t.Run("returns the inserted row with generated id", func(t *testing.T) {
		handler := api_row_insert.New(newTestBuilder(t))

		w := doInsert(t, handler, "users", `{"name":"Ann"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var row map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &row))
		assert.EqualValues(t, 1, row["id"])
		assert.Equal(t, "Ann", row["name"])
	})

	t.Run("non-object body is a bad request", func(t *testing.T) {
		handler := api_row_insert.New(newTestBuilder(t))

		for _, body := range []string{`[1,2]`, `"text"`, `null`, ``} {
			w := doInsert(t, handler, "users", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		}
	})

	t.Run("unknown column is a bad request", func(t *testing.T) {
		handler := api_row_insert.New(newTestBuilder(t))

		w := doInsert(t, handler, "users", `{"nickname":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unknown column")
	})

	t.Run("unknown table is not found", func(t *testing.T) {
		handler := api_row_insert.New(newTestBuilder(t))

		w := doInsert(t, handler, "nope", `{"name":"x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
