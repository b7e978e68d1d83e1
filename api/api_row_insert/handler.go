package api_row_insert

import (
	"net/http"

	"github.com/MahdiMohammadiha/CRUD/api"
	"github.com/MahdiMohammadiha/CRUD/shared/query"
)

// RowInsert handles row insertion requests.
type RowInsert struct {
	builder *query.Builder
}

// New creates a new RowInsert handler.
func New(builder *query.Builder) *RowInsert {
	return &RowInsert{builder: builder}
}

// Handle answers POST /api/tables/{table}. The body is a JSON object of
// column to value; the response is the inserted row as stored, including
// server-generated defaults.
func (h *RowInsert) Handle(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")

	fields, err := api.DecodeFields(r)
	if err != nil {
		api.Fail(w, err)
		return
	}

	row, err := h.builder.Insert(r.Context(), table, fields)
	if err != nil {
		api.Fail(w, err)
		return
	}
	api.Respond(w, http.StatusOK, row)
}
