package source

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/flavono123/peek/internal/value"
)

// DefaultRowLimit bounds how many rows are read from one table.
const DefaultRowLimit = 1000

// LoadSQLite reads rows of a SQLite table as objects keyed by column.
// With an empty table it reads every user table into an object keyed by
// table name. Text and blob cells holding JSON are decoded in place.
func LoadSQLite(ctx context.Context, path, table string, limit int) (any, error) {
	if limit <= 0 {
		limit = DefaultRowLimit
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	if table != "" {
		return readTable(ctx, db, table, limit)
	}

	tables, err := listTables(ctx, db)
	if err != nil {
		return nil, err
	}
	obj := value.NewObject()
	for _, t := range tables {
		rows, err := readTable(ctx, db, t, limit)
		if err != nil {
			return nil, err
		}
		obj.Set(t, rows)
	}
	return obj, nil
}

func listTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func readTable(ctx context.Context, db *sql.DB, table string, limit int) ([]any, error) {
	query := fmt.Sprintf(`SELECT * FROM %s LIMIT ?`, quoteIdent(table))
	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []any{}
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}

		obj := value.NewObject()
		for i, col := range cols {
			obj.Set(col, cellValue(cells[i]))
		}
		out = append(out, obj)
	}
	return out, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func cellValue(cell any) any {
	var text []byte
	switch c := cell.(type) {
	case []byte:
		text = c
	case string:
		text = []byte(c)
	default:
		return cell
	}

	trimmed := bytes.TrimSpace(text)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		if v, err := DecodeJSON(trimmed); err == nil {
			return v
		}
	}
	return string(text)
}
