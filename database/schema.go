package database

import (
	"context"
	"fmt"
	"strings"
)

type TableSchema struct {
	Name        string         `json:"name"`
	Columns     []ColumnSchema `json:"columns"`
	Description string         `json:"description,omitempty"`
}

type ColumnSchema struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Nullable    bool   `json:"nullable"`
	Description string `json:"description,omitempty"`
}

const schemaQuery = `SELECT table_name, column_name, data_type, is_nullable = 'YES'
FROM information_schema.columns
WHERE table_schema = $1
ORDER BY table_name, ordinal_position`

// LoadSchema lists the tables and columns of a database schema.
func LoadSchema(ctx context.Context, q Querier, schema string) ([]TableSchema, error) {
	if schema == "" {
		schema = "public"
	}
	rows, err := q.Query(ctx, schemaQuery, schema)
	if err != nil {
		return nil, fmt.Errorf("loading schema %q: %w", schema, err)
	}
	defer rows.Close()

	var tables []TableSchema
	for rows.Next() {
		var table string
		var col ColumnSchema
		if err := rows.Scan(&table, &col.Name, &col.Type, &col.Nullable); err != nil {
			return nil, fmt.Errorf("scanning schema row: %w", err)
		}
		if n := len(tables); n == 0 || tables[n-1].Name != table {
			tables = append(tables, TableSchema{Name: table})
		}
		last := &tables[len(tables)-1]
		last.Columns = append(last.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading schema %q: %w", schema, err)
	}
	return tables, nil
}

// Describe renders schema as prompt text, one table per line.
func Describe(schema []TableSchema) string {
	var b strings.Builder
	for _, table := range schema {
		b.WriteString("- ")
		b.WriteString(table.Name)
		if table.Description != "" {
			b.WriteString(": ")
			b.WriteString(table.Description)
		}
		b.WriteString("\n  Columns: ")
		for i, col := range table.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s (%s", col.Name, col.Type)
			if !col.Nullable {
				b.WriteString(" NOT NULL")
			}
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return b.String()
}
