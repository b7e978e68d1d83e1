package api_row_delete

import (
	"net/http"

	"github.com/MahdiMohammadiha/CRUD/api"
	"github.com/MahdiMohammadiha/CRUD/shared/query"
)

// RowDelete handles row deletion requests.
type RowDelete struct {
	builder *query.Builder
}

// New creates a new RowDelete handler.
func New(builder *query.Builder) *RowDelete {
	return &RowDelete{builder: builder}
}

// Handle answers DELETE /api/tables/{table}/{row_id} with the deleted row,
// or 404 when no row carries that primary-key value.
func (h *RowDelete) Handle(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	rowID := r.PathValue("row_id")

	row, err := h.builder.Delete(r.Context(), table, rowID)
	if err != nil {
		api.Fail(w, err)
		return
	}
	api.Respond(w, http.StatusOK, row)
}
