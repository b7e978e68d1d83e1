package api_table_columns

import (
	"net/http"

	"github.com/MahdiMohammadiha/CRUD/api"
	"github.com/MahdiMohammadiha/CRUD/shared/inspector"
	"github.com/MahdiMohammadiha/CRUD/shared/query"
)

// TableColumns serves the ordered column list of a single table.
type TableColumns struct {
	builder *query.Builder
}

// New creates a new TableColumns handler.
func New(builder *query.Builder) *TableColumns {
	return &TableColumns{builder: builder}
}

// Handle answers GET /api/tables/{table}/schema.
func (h *TableColumns) Handle(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")

	columns, err := h.builder.Columns(r.Context(), table)
	if err != nil {
		api.Fail(w, err)
		return
	}
	if columns == nil {
		columns = []inspector.Column{}
	}
	api.Respond(w, http.StatusOK, columns)
}
