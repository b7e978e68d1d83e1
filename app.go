// Package crud exposes a relational database's schema and generic CRUD
// access to any of its tables through a small JSON API. Structure is
// discovered at runtime by an inspector; statements are built per request
// from that metadata, so no compile-time data model exists.
package crud

import (
	"net/http"

	"github.com/MahdiMohammadiha/CRUD/api/api_row_delete"
	"github.com/MahdiMohammadiha/CRUD/api/api_row_insert"
	"github.com/MahdiMohammadiha/CRUD/api/api_row_update"
	"github.com/MahdiMohammadiha/CRUD/api/api_rows_browse"
	"github.com/MahdiMohammadiha/CRUD/api/api_schema_summary"
	"github.com/MahdiMohammadiha/CRUD/api/api_table_columns"
	"github.com/MahdiMohammadiha/CRUD/api/api_table_pk"
	"github.com/MahdiMohammadiha/CRUD/api/api_tables_list"
	"github.com/MahdiMohammadiha/CRUD/shared/inspector"
	"github.com/MahdiMohammadiha/CRUD/shared/query"
)

// App owns the inspector handle and wires it into the request handlers.
// Every request path borrows the connection through this one explicitly
// injected instance.
type App struct {
	config  Config
	insp    inspector.Inspector
	builder *query.Builder
}

// New creates an App for the given configuration. The database is not
// touched until Connect.
func New(cfg Config) (*App, error) {
	insp, err := inspector.Open(cfg.connectionConfig())
	if err != nil {
		return nil, err
	}
	return &App{
		config:  cfg,
		insp:    insp,
		builder: query.New(insp, cfg.Schema, cfg.timeout()),
	}, nil
}

// Connect establishes the bounded connection pool. Safe to call again; a
// prior pool is released first.
func (a *App) Connect() error { return a.insp.Connect() }

// Close releases the database connection. No-op when already closed.
func (a *App) Close() error { return a.insp.Close() }

// Handler returns the API surface consumed by the desktop client.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/tables", api_tables_list.New(a.builder).Handle)
	mux.HandleFunc("GET /api/tables/schema", api_schema_summary.New(a.builder).Handle)
	mux.HandleFunc("GET /api/tables/{table}", api_rows_browse.New(a.builder).Handle)
	mux.HandleFunc("GET /api/tables/{table}/schema", api_table_columns.New(a.builder).Handle)
	mux.HandleFunc("GET /api/tables/{table}/pk", api_table_pk.New(a.builder).Handle)
	mux.HandleFunc("POST /api/tables/{table}", api_row_insert.New(a.builder).Handle)
	mux.HandleFunc("PUT /api/tables/{table}/{row_id}", api_row_update.New(a.builder).Handle)
	mux.HandleFunc("DELETE /api/tables/{table}/{row_id}", api_row_delete.New(a.builder).Handle)

	return CORS(mux)
}
