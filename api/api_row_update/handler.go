package api_row_update

import (
	"net/http"

	"github.com/MahdiMohammadiha/CRUD/api"
	"github.com/MahdiMohammadiha/CRUD/shared/query"
)

// RowUpdate handles row update requests.
type RowUpdate struct {
	builder *query.Builder
}

// New creates a new RowUpdate handler.
func New(builder *query.Builder) *RowUpdate {
	return &RowUpdate{builder: builder}
}

// Handle answers PUT /api/tables/{table}/{row_id} with the updated row, or
// 404 when no row carries that primary-key value.
func (h *RowUpdate) Handle(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	rowID := r.PathValue("row_id")

	fields, err := api.DecodeFields(r)
	if err != nil {
		api.Fail(w, err)
		return
	}

	row, err := h.builder.Update(r.Context(), table, rowID, fields)
	if err != nil {
		api.Fail(w, err)
		return
	}
	api.Respond(w, http.StatusOK, row)
}
