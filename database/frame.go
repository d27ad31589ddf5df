package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lib/pq"

	"timeless/pivot"
)

// QueryTable runs sql and returns its result as a completed table with one
// field per result column.
func QueryTable(ctx context.Context, q Querier, sql string, args ...any) (*pivot.Table, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	descriptions := rows.FieldDescriptions()
	fields := make([]pivot.Field, len(descriptions))
	for i, fd := range descriptions {
		fields[i].Name = fd.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		for i := range fields {
			var v any
			if i < len(values) {
				v = scalar(values[i])
			}
			fields[i].Values = append(fields[i].Values, v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return pivot.NewTable(fields...), nil
}

// QueryTableReadOnly runs QueryTable inside a read-only transaction that is
// always rolled back, so the statement cannot write even when it slips past
// validation.
func QueryTableReadOnly(ctx context.Context, db Beginner, sql string, args ...any) (*pivot.Table, error) {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("starting read-only transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	return QueryTable(ctx, tx, sql, args...)
}

// SelectTable reads columns from table, all columns when none are given.
// A positive limit caps the row count.
func SelectTable(ctx context.Context, q Querier, table string, columns []string, limit int) (*pivot.Table, error) {
	return QueryTable(ctx, q, SelectSQL(table, columns, limit))
}

// SelectSQL builds the statement used by SelectTable. table may be schema
// qualified.
func SelectSQL(table string, columns []string, limit int) string {
	cols := "*"
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, c := range columns {
			quoted[i] = pq.QuoteIdentifier(c)
		}
		cols = strings.Join(quoted, ", ")
	}
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	sql := fmt.Sprintf("SELECT %s FROM %s", cols, strings.Join(parts, "."))
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", limit)
	}
	return sql
}

// scalar converts a decoded postgres value to a pivot scalar.
func scalar(v any) any {
	switch x := v.(type) {
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(x).String()
	}
	return pivot.Normalize(v)
}
