package api_row_update_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MahdiMohammadiha/CRUD/api/api_row_update"
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
	require.NoError(t, db.Exec(`CREATE TABLE notes (body TEXT)`).Error)

	return query.New(insp, "", 0)
}

func doUpdate(t *testing.T, handler *api_row_update.RowUpdate, table, rowID, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("PUT", "/api/tables/"+table+"/"+rowID, strings.NewReader(body))
	req.SetPathValue("table", table)
	req.SetPathValue("row_id", rowID)
	w := httptest.NewRecorder()
	handler.Handle(w, req)
	return w
}

func TestRowUpdate_Handle(t *testing.T) {
	t.Run("returns the updated row", func(t *testing.T) {
		builder := newTestBuilder(t)
		_, err := builder.Insert(context.Background(), "users", map[string]any{"name": "Ann"})
		require.NoError(t, err)

		handler := api_row_update.New(builder)
		w := doUpdate(t, handler, "users", "1", `{"name":"Anna"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var row map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &row))
		assert.EqualValues(t, 1, row["id"])
		assert.Equal(t, "Anna", row["name"])
	})

	t.Run("missing row is not found", func(t *testing.T) {
		handler := api_row_update.New(newTestBuilder(t))

		w := doUpdate(t, handler, "users", "99", `{"name":"x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "row not found")
	})

	t.Run("table without primary key is a bad request", func(t *testing.T) {
		handler := api_row_update.New(newTestBuilder(t))

		w := doUpdate(t, handler, "notes", "1", `{"body":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "primary key")
	})
}
