package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"trustscore/models"
)

var _ SnapshotSource = (*PostgresSource)(nil)

// PostgresSource reads the sellers, orders and reviews tables from
// PostgreSQL. Optional columns that do not exist are read as NULL.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource opens a connection pool. No connection is made until
// the first Load.
func NewPostgresSource(dsn string) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	return &PostgresSource{db: db}, nil
}

// Load fetches the full snapshot inside a read-only transaction so the three
// tables are read consistently.
func (ps *PostgresSource) Load(ctx context.Context) (*models.RawSnapshot, error) {
	if err := ps.db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	tx, err := ps.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	available, err := ps.columns(ctx, tx)
	if err != nil {
		return nil, err
	}

	snap := &models.RawSnapshot{}

	sellerRows, err := ps.fetch(ctx, tx, "sellers", sellerColumns, available["sellers"], "seller_id")
	if err != nil {
		return nil, err
	}
	for _, r := range sellerRows {
		snap.Sellers = append(snap.Sellers, sellerFromRow(r))
	}

	orderRows, err := ps.fetch(ctx, tx, "orders", orderColumns, available["orders"], "seller_id")
	if err != nil {
		return nil, err
	}
	for _, r := range orderRows {
		snap.Orders = append(snap.Orders, orderFromRow(r))
	}

	reviewRows, err := ps.fetch(ctx, tx, "reviews", reviewColumns, available["reviews"], "review_id", "seller_id")
	if err != nil {
		return nil, err
	}
	for _, r := range reviewRows {
		snap.Reviews = append(snap.Reviews, reviewFromRow(r))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("postgres: commit: %w", err)
	}
	return snap, nil
}

// columns returns the existing columns of each snapshot table.
func (ps *PostgresSource) columns(ctx context.Context, tx *sql.Tx) (map[string]map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT table_name, column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		  AND table_name = ANY($1)
	`, pq.Array([]string{"sellers", "orders", "reviews"}))
	if err != nil {
		return nil, fmt.Errorf("postgres: list columns: %w", err)
	}
	defer rows.Close()

	out := make(map[string]map[string]bool)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, fmt.Errorf("postgres: scan column: %w", err)
		}
		if out[table] == nil {
			out[table] = make(map[string]bool)
		}
		out[table][column] = true
	}
	return out, rows.Err()
}

func (ps *PostgresSource) fetch(ctx context.Context, tx *sql.Tx, table string, cols []string, available map[string]bool, required ...string) ([]pgRow, error) {
	if available == nil {
		return nil, fmt.Errorf("postgres: table %q not found", table)
	}
	for _, col := range required {
		if !available[col] {
			return nil, fmt.Errorf("postgres: table %q lacks required column %q", table, col)
		}
	}

	rows, err := tx.QueryContext(ctx, selectQuery(table, cols, available))
	if err != nil {
		return nil, fmt.Errorf("postgres: query %s: %w", table, err)
	}
	defer rows.Close()

	var out []pgRow
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		dest := make([]interface{}, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("postgres: scan %s row: %w", table, err)
		}
		out = append(out, pgRow{cols: cols, values: values})
	}
	return out, rows.Err()
}

func (ps *PostgresSource) Close() error {
	return ps.db.Close()
}

// selectQuery casts every column to text so parsing happens in one place.
// Missing optional columns are selected as typed NULLs.
func selectQuery(table string, cols []string, available map[string]bool) string {
	exprs := make([]string, len(cols))
	for i, col := range cols {
		if available[col] {
			exprs[i] = fmt.Sprintf("%s::text", pq.QuoteIdentifier(col))
		} else {
			exprs[i] = fmt.Sprintf("NULL::text AS %s", pq.QuoteIdentifier(col))
		}
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), pq.QuoteIdentifier(table))
}

type pgRow struct {
	cols   []string
	values []sql.NullString
}

func (r pgRow) get(col string) *string {
	for i, c := range r.cols {
		if c == col {
			if !r.values[i].Valid {
				return nil
			}
			v := r.values[i].String
			return &v
		}
	}
	return nil
}
