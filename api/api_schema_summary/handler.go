package api_schema_summary

import (
	"net/http"

	"github.com/MahdiMohammadiha/CRUD/api"
	"github.com/MahdiMohammadiha/CRUD/shared/inspector"
	"github.com/MahdiMohammadiha/CRUD/shared/query"
)

// SchemaSummary serves the full table-to-columns map of the target schema.
type SchemaSummary struct {
	builder *query.Builder
}

// New creates a new SchemaSummary handler.
func New(builder *query.Builder) *SchemaSummary {
	return &SchemaSummary{builder: builder}
}

// Handle answers GET /api/tables/schema. The summary is recomputed from the
// catalog on every request, so it tracks live schema changes.
func (h *SchemaSummary) Handle(w http.ResponseWriter, r *http.Request) {
	summary, err := h.builder.Summary(r.Context())
	if err != nil {
		api.Fail(w, err)
		return
	}
	if summary == nil {
		summary = []inspector.TableSummary{}
	}
	api.Respond(w, http.StatusOK, summary)
}
