// Package api holds the JSON response helpers shared by the endpoint
// handler packages.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MahdiMohammadiha/CRUD/shared/inspector"
	"github.com/MahdiMohammadiha/CRUD/shared/query"
)

// Respond writes v as a JSON body with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RespondError writes the error body the desktop client displays.
func RespondError(w http.ResponseWriter, status int, detail string) {
	Respond(w, status, map[string]string{"detail": detail})
}

// Fail maps a builder or inspector error to its HTTP status and writes it.
func Fail(w http.ResponseWriter, err error) {
	var execErr *query.ExecError

	switch {
	case errors.Is(err, inspector.ErrNotConnected):
		RespondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, query.ErrNotFound), errors.Is(err, query.ErrUnknownTable):
		RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, query.ErrInvalidPayload),
		errors.Is(err, query.ErrUnknownColumn),
		errors.Is(err, query.ErrNoPrimaryKey):
		RespondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &execErr):
		// Constraint violations, type mismatches and the like: the database
		// message goes through, the statement was already rolled back.
		RespondError(w, http.StatusUnprocessableEntity, execErr.Err.Error())
	default:
		RespondError(w, http.StatusInternalServerError, err.Error())
	}
}

// DecodeFields reads a JSON object of column to value from the request body.
func DecodeFields(r *http.Request) (map[string]any, error) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, query.ErrInvalidPayload
	}
	if fields == nil {
		return nil, query.ErrInvalidPayload
	}
	return fields, nil
}
