// Package query builds and executes parameterized SQL for arbitrary tables,
// using metadata from an inspector instead of a compile-time data model.
// Identifiers are only ever spliced into statement text after validation
// against a prior inspector lookup; values are always bound parameters.
package query

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MahdiMohammadiha/CRUD/shared/inspector"
	"gorm.io/gorm"
)

// RowLimit caps every SELECT. Fixed, not paginated.
const RowLimit = 100

// Builder constructs and runs statements against one inspector's connection,
// always within a single target schema.
type Builder struct {
	insp    inspector.Inspector
	schema  string
	timeout time.Duration
}

// New returns a Builder for the given inspector and schema. A zero timeout
// falls back to the inspector default.
func New(insp inspector.Inspector, schema string, timeout time.Duration) *Builder {
	if timeout <= 0 {
		timeout = inspector.DefaultStatementTimeout
	}
	return &Builder{insp: insp, schema: schema, timeout: timeout}
}

// ResultSet is a tuple-shaped SELECT result: column names in ordinal order
// and one value tuple per row in the same order.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Tables lists the tables of the target schema.
func (b *Builder) Tables(ctx context.Context) ([]string, error) {
	return b.insp.Tables(ctx, b.schema)
}

// Columns lists the columns of table, erroring on tables outside the schema.
func (b *Builder) Columns(ctx context.Context, table string) ([]inspector.Column, error) {
	if err := b.resolveTable(ctx, table); err != nil {
		return nil, err
	}
	return b.insp.Columns(ctx, table, b.schema)
}

// PrimaryKey reports the table's sole primary-key column. ok is false when
// the table has no primary key or a composite one.
func (b *Builder) PrimaryKey(ctx context.Context, table string) (name string, ok bool, err error) {
	if err := b.resolveTable(ctx, table); err != nil {
		return "", false, err
	}
	pk, err := b.insp.PrimaryKeyColumns(ctx, table, b.schema)
	if err != nil {
		return "", false, err
	}
	if len(pk) != 1 {
		return "", false, nil
	}
	return pk[0], true, nil
}

// Summary attaches the ordered column list to every table of the schema.
// Recomputed on each call so it always reflects live schema state.
func (b *Builder) Summary(ctx context.Context) ([]inspector.TableSummary, error) {
	tables, err := b.insp.Tables(ctx, b.schema)
	if err != nil {
		return nil, err
	}

	summaries := make([]inspector.TableSummary, 0, len(tables))
	for _, table := range tables {
		columns, err := b.insp.Columns(ctx, table, b.schema)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, inspector.TableSummary{Table: table, Columns: columns})
	}
	return summaries, nil
}

// Rows returns up to RowLimit rows of table in declaration order.
func (b *Builder) Rows(ctx context.Context, table string) (*ResultSet, error) {
	if err := b.resolveTable(ctx, table); err != nil {
		return nil, err
	}
	db, err := b.insp.DB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	stmt := fmt.Sprintf("SELECT * FROM %s LIMIT %d", b.qualify(table), RowLimit)
	rows, err := db.WithContext(ctx).Raw(stmt).Rows()
	if err != nil {
		return nil, &ExecError{Op: "select", Table: table, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &ExecError{Op: "select", Table: table, Err: err}
	}

	result := &ResultSet{Columns: cols, Rows: [][]any{}}
	for rows.Next() {
		tuple, err := scanTuple(rows, len(cols))
		if err != nil {
			return nil, &ExecError{Op: "select", Table: table, Err: err}
		}
		result.Rows = append(result.Rows, tuple)
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecError{Op: "select", Table: table, Err: err}
	}
	return result, nil
}

// Insert writes one row and returns it as stored, server-generated defaults
// included. An empty mapping inserts a row of defaults.
func (b *Builder) Insert(ctx context.Context, table string, fields map[string]any) (map[string]any, error) {
	if fields == nil {
		return nil, ErrInvalidPayload
	}
	if err := b.resolveTable(ctx, table); err != nil {
		return nil, err
	}
	cols, err := b.resolveColumns(ctx, table, fields)
	if err != nil {
		return nil, err
	}

	var stmt string
	args := make([]any, 0, len(cols))
	if len(cols) == 0 {
		stmt = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING *", b.qualify(table))
	} else {
		quoted := make([]string, len(cols))
		placeholders := make([]string, len(cols))
		for i, c := range cols {
			quoted[i] = inspector.QuoteIdent(c)
			placeholders[i] = "?"
			args = append(args, fields[c])
		}
		stmt = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
			b.qualify(table),
			strings.Join(quoted, ", "),
			strings.Join(placeholders, ", "),
		)
	}

	return b.execReturning(ctx, "insert", table, stmt, args)
}

// Update modifies the row whose primary key equals rowID and returns the
// updated row. ErrNotFound when no row matches.
func (b *Builder) Update(ctx context.Context, table, rowID string, fields map[string]any) (map[string]any, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidPayload)
	}
	if err := b.resolveTable(ctx, table); err != nil {
		return nil, err
	}
	cols, err := b.resolveColumns(ctx, table, fields)
	if err != nil {
		return nil, err
	}
	pk, err := b.singlePrimaryKey(ctx, table)
	if err != nil {
		return nil, err
	}

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = inspector.QuoteIdent(c) + " = ?"
		args = append(args, fields[c])
	}
	args = append(args, rowID)

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ? RETURNING *",
		b.qualify(table),
		strings.Join(sets, ", "),
		inspector.QuoteIdent(pk),
	)

	return b.execReturning(ctx, "update", table, stmt, args)
}

// Delete removes the row whose primary key equals rowID and returns it.
// ErrNotFound when no row matches.
func (b *Builder) Delete(ctx context.Context, table, rowID string) (map[string]any, error) {
	if err := b.resolveTable(ctx, table); err != nil {
		return nil, err
	}
	pk, err := b.singlePrimaryKey(ctx, table)
	if err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = ? RETURNING *",
		b.qualify(table),
		inspector.QuoteIdent(pk),
	)

	return b.execReturning(ctx, "delete", table, stmt, []any{rowID})
}

// resolveTable checks the table against the inspector's live table list, the
// allow-list that keeps client input out of identifier positions.
func (b *Builder) resolveTable(ctx context.Context, table string) error {
	tables, err := b.insp.Tables(ctx, b.schema)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownTable, table)
}

// resolveColumns checks every payload key against the table's live column
// list and returns the keys sorted, for deterministic statement text.
func (b *Builder) resolveColumns(ctx context.Context, table string, fields map[string]any) ([]string, error) {
	columns, err := b.insp.Columns(ctx, table, b.schema)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c.Name] = true
	}

	cols := make([]string, 0, len(fields))
	for name := range fields {
		if !known[name] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols, nil
}

// singlePrimaryKey resolves the one primary-key column mutations require.
func (b *Builder) singlePrimaryKey(ctx context.Context, table string) (string, error) {
	pk, err := b.insp.PrimaryKeyColumns(ctx, table, b.schema)
	if err != nil {
		return "", err
	}
	switch len(pk) {
	case 1:
		return pk[0], nil
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNoPrimaryKey, table)
	default:
		return "", fmt.Errorf("%w: %s has a composite primary key", ErrNoPrimaryKey, table)
	}
}

// qualify renders the schema-qualified, quoted table identifier. SQLite has
// no schemas, so the table stands alone there.
func (b *Builder) qualify(table string) string {
	if b.schema == "" || b.insp.Driver() == "sqlite" {
		return inspector.QuoteIdent(table)
	}
	return inspector.QuoteIdent(b.schema) + "." + inspector.QuoteIdent(table)
}

// execReturning runs one RETURNING statement inside a transaction and scans
// the single returned row. Any error rolls the transaction back; commit only
// happens after the result has been read successfully.
func (b *Builder) execReturning(ctx context.Context, op, table, stmt string, args []any) (map[string]any, error) {
	db, err := b.insp.DB()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var row map[string]any
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := tx.Raw(stmt, args...).Rows()
		if err != nil {
			return &ExecError{Op: op, Table: table, Err: err}
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return &ExecError{Op: op, Table: table, Err: err}
		}
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return &ExecError{Op: op, Table: table, Err: err}
			}
			return ErrNotFound
		}

		tuple, err := scanTuple(rows, len(cols))
		if err != nil {
			return &ExecError{Op: op, Table: table, Err: err}
		}
		row = make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = tuple[i]
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// scanTuple reads the current row as an ordered value tuple, converting
// []byte to string for JSON friendliness.
func scanTuple(rows interface{ Scan(...any) error }, n int) ([]any, error) {
	values := make([]any, n)
	ptrs := make([]any, n)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values, nil
}
