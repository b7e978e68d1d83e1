package api_tables_list

import (
	"net/http"

	"github.com/MahdiMohammadiha/CRUD/api"
	"github.com/MahdiMohammadiha/CRUD/shared/query"
)

// TablesList serves the table index of the target schema.
type TablesList struct {
	builder *query.Builder
}

// New creates a new TablesList handler.
func New(builder *query.Builder) *TablesList {
	return &TablesList{builder: builder}
}

type tableEntry struct {
	Table string `json:"table"`
	API   string `json:"api"`
}

// Handle answers GET /api/tables with every table and its rows endpoint.
func (h *TablesList) Handle(w http.ResponseWriter, r *http.Request) {
	tables, err := h.builder.Tables(r.Context())
	if err != nil {
		api.Fail(w, err)
		return
	}

	entries := make([]tableEntry, 0, len(tables))
	for _, t := range tables {
		entries = append(entries, tableEntry{Table: t, API: "/api/tables/" + t})
	}
	api.Respond(w, http.StatusOK, entries)
}
