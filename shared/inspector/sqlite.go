package inspector

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteInspector inspects a SQLite database through sqlite_master and the
// table_info pragma. SQLite has no schemas, so the schema argument of the
// structural queries is ignored.
type SQLiteInspector struct {
	cfg ConnectionConfig
	conn
}

// NewSQLite returns an unconnected SQLite inspector. ConnectionConfig.DBName
// is the database file path (":memory:" works).
func NewSQLite(cfg ConnectionConfig) *SQLiteInspector {
	return &SQLiteInspector{cfg: cfg, conn: conn{timeout: cfg.StatementTimeout}}
}

func (s *SQLiteInspector) Driver() string { return "sqlite" }

func (s *SQLiteInspector) Connect() error {
	if err := s.close(); err != nil {
		return err
	}

	db, err := gorm.Open(sqlite.Open(s.cfg.DBName), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to sqlite %s: %w", s.cfg.DBName, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	// One handle only: in-memory databases live and die with their
	// connection, and a single writer avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	ctx, cancel := s.opCtx(context.Background())
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("connect to sqlite %s: %w", s.cfg.DBName, err)
	}

	s.set(db)
	return nil
}

func (s *SQLiteInspector) Close() error { return s.close() }

func (s *SQLiteInspector) Tables(ctx context.Context, _ string) ([]string, error) {
	db, err := s.get()
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	return stringList(ctx, db, query)
}

func (s *SQLiteInspector) Columns(ctx context.Context, table, _ string) ([]Column, error) {
	info, err := s.tableInfo(ctx, table)
	if err != nil {
		return nil, err
	}
	var columns []Column
	for _, ci := range info {
		columns = append(columns, Column{Name: ci.name, DataType: ci.dataType})
	}
	return columns, nil
}

func (s *SQLiteInspector) PrimaryKeyColumns(ctx context.Context, table, _ string) ([]string, error) {
	info, err := s.tableInfo(ctx, table)
	if err != nil {
		return nil, err
	}

	var pk []columnInfo
	for _, ci := range info {
		if ci.pk > 0 {
			pk = append(pk, ci)
		}
	}
	// table_info reports the 1-based position of each column within the key.
	sort.Slice(pk, func(i, j int) bool { return pk[i].pk < pk[j].pk })

	var names []string
	for _, ci := range pk {
		names = append(names, ci.name)
	}
	return names, nil
}

func (s *SQLiteInspector) DB() (*gorm.DB, error) { return s.get() }

type columnInfo struct {
	name     string
	dataType string
	pk       int
}

// tableInfo reads the table_info pragma, which yields rows in ordinal column
// order. The pragma cannot bind the table name, so anything that is not a
// plain identifier is treated as a table that does not exist.
func (s *SQLiteInspector) tableInfo(ctx context.Context, table string) ([]columnInfo, error) {
	db, err := s.get()
	if err != nil {
		return nil, err
	}
	if !ValidIdent(table) {
		return nil, nil
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	rows, err := db.WithContext(ctx).Raw("PRAGMA table_info(" + QuoteIdent(table) + ")").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var info []columnInfo
	for rows.Next() {
		var (
			cid        int
			name       string
			dataType   string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		info = append(info, columnInfo{name: name, dataType: dataType, pk: pk})
	}
	return info, rows.Err()
}
