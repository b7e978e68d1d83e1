package api_table_pk

import (
	"net/http"

	"github.com/MahdiMohammadiha/CRUD/api"
	"github.com/MahdiMohammadiha/CRUD/shared/query"
)

// TablePK serves a table's primary-key column name.
type TablePK struct {
	builder *query.Builder
}

// New creates a new TablePK handler.
func New(builder *query.Builder) *TablePK {
	return &TablePK{builder: builder}
}

// Handle answers GET /api/tables/{table}/pk with the column name, or null
// when the table has no single-column primary key.
func (h *TablePK) Handle(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")

	name, ok, err := h.builder.PrimaryKey(r.Context(), table)
	if err != nil {
		api.Fail(w, err)
		return
	}
	if !ok {
		api.Respond(w, http.StatusOK, nil)
		return
	}
	api.Respond(w, http.StatusOK, name)
}
