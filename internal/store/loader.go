package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// loadAllJSONL reads each JSONL file of dir into its SQLite table inside one
// transaction: either every file loads or the database stays empty.
// Malformed lines, records violating constraints and unknown fields are
// skipped.
func loadAllJSONL(db *sql.DB, dir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range tableMappings {
		records, err := readJSONL(filepath.Join(dir, m.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", m.file, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, m, records); err != nil {
			return fmt.Errorf("loading %s into %s: %w", m.file, m.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts records into the mapped table. The line position
// becomes the ordinal.
func insertRecords(tx *sql.Tx, m tableMapping, records []json.RawMessage) error {
	names := columnNames(m.columns)
	insertSQL := fmt.Sprintf("INSERT INTO %s (%s, ordinal) VALUES (%s, ?)",
		m.table, strings.Join(names, ", "), placeholders(len(names)))

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", m.table, err)
	}
	defer stmt.Close()

	for i, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			continue
		}
		args := append(rowValues(m.columns, obj), i)
		if _, err := stmt.Exec(args...); err != nil {
			continue
		}
	}
	return nil
}

// rowValues extracts the column values of obj. Missing keys become NULL,
// arrays and objects are stored as JSON text, booleans as 0 or 1.
func rowValues(cols []column, obj map[string]any) []any {
	args := make([]any, len(cols))
	for i, col := range cols {
		val, ok := obj[col.name]
		if !ok || val == nil {
			if col.kind == colBool {
				args[i] = 0
			}
			continue
		}
		switch v := val.(type) {
		case map[string]any, []any:
			b, err := json.Marshal(v)
			if err != nil {
				continue
			}
			args[i] = string(b)
		case bool:
			if v {
				args[i] = 1
			} else {
				args[i] = 0
			}
		default:
			args[i] = val
		}
	}
	return args
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// scanRows reads every row of the mapped table in ordinal order and returns
// each as a JSON record with the same keys as the JSONL file.
func scanRows(q querier, m tableMapping) ([]json.RawMessage, error) {
	names := columnNames(m.columns)
	rows, err := q.Query(fmt.Sprintf("SELECT %s FROM %s ORDER BY ordinal", strings.Join(names, ", "), m.table))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", m.table, err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		vals := make([]sql.NullString, len(m.columns))
		ptrs := make([]any, len(vals))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", m.table, err)
		}

		obj := make(map[string]any, len(m.columns))
		for i, col := range m.columns {
			if !vals[i].Valid {
				continue
			}
			switch col.kind {
			case colBool:
				obj[col.name] = vals[i].String == "1"
			case colJSON:
				if json.Valid([]byte(vals[i].String)) {
					obj[col.name] = json.RawMessage(vals[i].String)
				}
			default:
				obj[col.name] = vals[i].String
			}
		}
		rec, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("encoding %s row: %w", m.table, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func columnNames(cols []column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
