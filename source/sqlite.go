// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: source/sqlite.go
// Summary: Turns the result set of a SQLite query into rows.
//
// Each result row becomes one text row with columns joined by a separator;
// the column names become the banner. The database is opened read-only.

package source

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// ColumnSeparator joins column values within a row.
const ColumnSeparator = " │ "

// LoadSQLite runs query against the database at dbPath and returns its rows.
func LoadSQLite(ctx context.Context, dbPath, query string) (*Lines, error) {
	dsn := "file:" + dbPath +
		"?mode=ro" +
		"&_pragma=query_only(1)" +
		"&_pragma=busy_timeout(2000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	vals := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	var lines []string
	parts := make([]string, len(cols))
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(lines), err)
		}
		for i, v := range vals {
			if v.Valid {
				parts[i] = cleanLine(v.String)
			} else {
				parts[i] = "NULL"
			}
		}
		lines = append(lines, strings.Join(parts, ColumnSeparator))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	l := NewLines(filepath.Base(dbPath), lines)
	l.SetTitle(strings.Join(cols, ColumnSeparator))
	return l, nil
}
