package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Exporter dumps every table of the target database to one record file per
// table, named after the table. The JSON form matches the fixture format the
// alerting service loads: a pretty-printed array of row objects.
type Exporter struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExporter creates an exporter over an open connection.
func NewExporter(db *sql.DB, logger *zap.Logger) *Exporter {
	return &Exporter{
		db:     db,
		logger: logger,
	}
}

// ListTables returns the names of all base tables in the public schema.
func (e *Exporter) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tables: %w", err)
	}

	return tables, nil
}

// DumpTable reads every row of one table. Columns come back in their table
// order; row values are decoded to JSON-friendly types ([]byte to string).
func (e *Exporter) DumpTable(ctx context.Context, table string) ([]string, []map[string]interface{}, error) {
	query := fmt.Sprintf(`SELECT * FROM %s`, pq.QuoteIdentifier(table))

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dump table %q: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns of %q: %w", table, err)
	}

	var records []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row of %q: %w", table, err)
		}

		record := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate rows of %q: %w", table, err)
	}

	return columns, records, nil
}

// Run exports every table into outDir. format is "json" or "xlsx".
// Stops at the first failing table.
func (e *Exporter) Run(ctx context.Context, outDir, format string) error {
	if format != "json" && format != "xlsx" {
		return fmt.Errorf("unsupported export format %q", format)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tables, err := e.ListTables(ctx)
	if err != nil {
		return err
	}

	for _, table := range tables {
		columns, records, err := e.DumpTable(ctx, table)
		if err != nil {
			return err
		}

		var path string
		switch format {
		case "json":
			path = filepath.Join(outDir, table+".json")
			err = writeJSON(path, records)
		case "xlsx":
			path = filepath.Join(outDir, table+".xlsx")
			err = writeXLSX(path, table, columns, records)
		}
		if err != nil {
			return fmt.Errorf("failed to write export of %q: %w", table, err)
		}

		e.logger.Info("table exported",
			zap.String("table", table),
			zap.Int("records", len(records)),
			zap.String("file", path),
		)
	}

	return nil
}

// writeJSON writes records as a pretty-printed, array-wrapped file. An empty
// table still produces a valid empty array.
func writeJSON(path string, records []map[string]interface{}) error {
	if records == nil {
		records = []map[string]interface{}{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
