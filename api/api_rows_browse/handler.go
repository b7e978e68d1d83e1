package api_rows_browse

import (
	"net/http"

	"github.com/MahdiMohammadiha/CRUD/api"
	"github.com/MahdiMohammadiha/CRUD/shared/query"
)

// RowsBrowse serves the first rows of a table, tuple-shaped.
type RowsBrowse struct {
	builder *query.Builder
}

// New creates a new RowsBrowse handler.
func New(builder *query.Builder) *RowsBrowse {
	return &RowsBrowse{builder: builder}
}

// Handle answers GET /api/tables/{table} with up to 100 value tuples in
// column declaration order. The client zips them with the column list from
// the schema endpoint.
func (h *RowsBrowse) Handle(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")

	result, err := h.builder.Rows(r.Context(), table)
	if err != nil {
		api.Fail(w, err)
		return
	}
	api.Respond(w, http.StatusOK, result.Rows)
}
