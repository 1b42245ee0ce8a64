package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		nickname TEXT NOT NULL,
		avatar_emoji TEXT NOT NULL DEFAULT '',
		join_date TEXT NOT NULL,
		test_count INTEGER NOT NULL DEFAULT 0,
		test_days INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS test_records (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		test_type_id TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT,
		total_score INTEGER,
		result_summary TEXT,
		improvement_suggestions TEXT,
		reference_materials TEXT,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_answers (
		id TEXT PRIMARY KEY,
		record_id TEXT NOT NULL,
		question_id TEXT NOT NULL,
		question_text TEXT NOT NULL DEFAULT '',
		question_type TEXT NOT NULL DEFAULT '',
		options_json TEXT NOT NULL DEFAULT '',
		user_choice TEXT NOT NULL,
		user_choice_text TEXT NOT NULL DEFAULT '',
		score_obtained INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS llm_requests (
		id TEXT PRIMARY KEY,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_test_records_user_id ON test_records(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_user_answers_record_id ON user_answers(record_id)`,
}

// column is a column added by a later schema revision. Added columns are
// nullable so existing rows stay valid.
type column struct {
	table string
	name  string
	decl  string
}

var migrations = []column{
	{"users", "gender", "TEXT"},
	{"users", "age", "INTEGER"},
	{"users", "occupation", "TEXT"},
	{"users", "selected_model", "TEXT"},
	{"test_records", "ai_analysis_result", "TEXT"},
	{"test_records", "max_score", "INTEGER"},
}

func createSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range createStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// migrate adds every missing column and returns the ones it added as
// "table.column".
func migrate(ctx context.Context, db *sqlx.DB) ([]string, error) {
	existing := map[string]map[string]bool{}
	var added []string
	for _, c := range migrations {
		cols, ok := existing[c.table]
		if !ok {
			var err error
			cols, err = tableColumns(ctx, db, c.table)
			if err != nil {
				return nil, err
			}
			existing[c.table] = cols
		}
		if cols[c.name] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", c.table, c.name, c.decl)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("add column %s.%s: %w", c.table, c.name, err)
		}
		cols[c.name] = true
		added = append(added, c.table+"."+c.name)
	}
	return added, nil
}

func tableColumns(ctx context.Context, db *sqlx.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryxContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("inspect %s: %w", table, err)
		}
		switch name := row["name"].(type) {
		case string:
			cols[name] = true
		case []byte:
			cols[string(name)] = true
		}
	}
	return cols, rows.Err()
}
