package query

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by builder operations. The HTTP layer maps these
// to status codes with errors.Is.
var (
	// ErrInvalidPayload means the caller-supplied fields were not a usable
	// column-to-value mapping.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrUnknownTable means the requested table is not present in the target
	// schema. Table names are checked against the inspector's table list
	// before they ever reach statement text.
	ErrUnknownTable = errors.New("unknown table")

	// ErrUnknownColumn means a payload key does not name a column of the
	// target table.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNoPrimaryKey means the table lacks the single-column primary key
	// that update and delete require. Composite-key tables are rejected
	// explicitly rather than silently truncated to their first key column.
	ErrNoPrimaryKey = errors.New("table has no single-column primary key")

	// ErrNotFound means no row matched the supplied primary-key value.
	ErrNotFound = errors.New("row not found")
)

// ExecError wraps a database error raised while executing a built statement.
// By the time it surfaces, the enclosing transaction has been rolled back.
type ExecError struct {
	Op    string
	Table string
	Err   error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }
