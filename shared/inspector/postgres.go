package inspector

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresInspector inspects a PostgreSQL database through the
// information_schema catalog views.
type PostgresInspector struct {
	cfg ConnectionConfig
	conn
}

// NewPostgres returns an unconnected PostgreSQL inspector.
func NewPostgres(cfg ConnectionConfig) *PostgresInspector {
	return &PostgresInspector{cfg: cfg, conn: conn{timeout: cfg.StatementTimeout}}
}

func (p *PostgresInspector) Driver() string { return "postgres" }

// Connect opens a bounded connection pool. Any previously held connection is
// released first so repeated calls never leak handles.
func (p *PostgresInspector) Connect() error {
	if err := p.close(); err != nil {
		return err
	}

	sslmode := p.cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		p.cfg.Host,
		p.cfg.User,
		p.cfg.Password,
		p.cfg.DBName,
		p.cfg.Port,
		sslmode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to %s:%s/%s: %w", p.cfg.Host, p.cfg.Port, p.cfg.DBName, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	maxConns := p.cfg.PoolMaxConns
	if maxConns <= 0 {
		maxConns = DefaultPoolMaxConns
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(maxConns)

	ctx, cancel := p.opCtx(context.Background())
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("connect to %s:%s/%s: %w", p.cfg.Host, p.cfg.Port, p.cfg.DBName, err)
	}

	p.set(db)
	return nil
}

func (p *PostgresInspector) Close() error { return p.close() }

func (p *PostgresInspector) Tables(ctx context.Context, schema string) ([]string, error) {
	db, err := p.get()
	if err != nil {
		return nil, err
	}
	ctx, cancel := p.opCtx(ctx)
	defer cancel()

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ?
		ORDER BY table_name`

	return stringList(ctx, db, query, schema)
}

func (p *PostgresInspector) Columns(ctx context.Context, table, schema string) ([]Column, error) {
	db, err := p.get()
	if err != nil {
		return nil, err
	}
	ctx, cancel := p.opCtx(ctx)
	defer cancel()

	query := `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_name = ? AND table_schema = ?
		ORDER BY ordinal_position`

	rows, err := db.WithContext(ctx).Raw(query, table, schema).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		if err := rows.Scan(&col.Name, &col.DataType); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (p *PostgresInspector) PrimaryKeyColumns(ctx context.Context, table, schema string) ([]string, error) {
	db, err := p.get()
	if err != nil {
		return nil, err
	}
	ctx, cancel := p.opCtx(ctx)
	defer cancel()

	query := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_name = ?
			AND tc.table_schema = ?
		ORDER BY kcu.ordinal_position`

	return stringList(ctx, db, query, table, schema)
}

func (p *PostgresInspector) DB() (*gorm.DB, error) { return p.get() }
