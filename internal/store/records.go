package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
)

// SaveTestRecord inserts or replaces a test record.
func (s *Store) SaveTestRecord(ctx context.Context, rec domain.TestRecord) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	if _, err := db.NamedExecContext(ctx, `INSERT OR REPLACE INTO test_records`+recordValues, recordToRow(rec)); err != nil {
		return fmt.Errorf("save test record %s: %w", rec.ID, err)
	}
	return nil
}

// SaveUserAnswer inserts or replaces one answer.
func (s *Store) SaveUserAnswer(ctx context.Context, a domain.UserAnswer) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	if _, err := db.NamedExecContext(ctx, `INSERT OR REPLACE INTO user_answers`+answerValues, answerToRow(a)); err != nil {
		return fmt.Errorf("save user answer %s: %w", a.ID, err)
	}
	return nil
}

// SaveTestRecordWithAnswers writes a record and all of its answers in one
// transaction. Either every row is committed or none is.
func (s *Store) SaveTestRecordWithAnswers(ctx context.Context, rec domain.TestRecord, answers []domain.UserAnswer) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	return withTx(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO test_records`+recordValues, recordToRow(rec)); err != nil {
			return fmt.Errorf("insert test record %s: %w", rec.ID, err)
		}
		for _, a := range answers {
			if _, err := tx.NamedExecContext(ctx, `INSERT INTO user_answers`+answerValues, answerToRow(a)); err != nil {
				return fmt.Errorf("insert user answer %s: %w", a.ID, err)
			}
		}
		return nil
	})
}

// GetTestRecordByID returns the record, or nil when it does not exist.
func (s *Store) GetTestRecordByID(ctx context.Context, id string) (*domain.TestRecord, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var row testRecordRow
	err = db.GetContext(ctx, &row, `SELECT `+recordColumns+` FROM test_records WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query test record %s: %w", id, err)
	}
	rec, err := rowToRecord(row)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetAllTestRecords returns every record, newest first.
func (s *Store) GetAllTestRecords(ctx context.Context) ([]domain.TestRecord, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var rows []testRecordRow
	if err := db.SelectContext(ctx, &rows, `SELECT `+recordColumns+` FROM test_records ORDER BY created_at DESC, id`); err != nil {
		return nil, fmt.Errorf("query test records: %w", err)
	}
	out := make([]domain.TestRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := rowToRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// GetUserAnswersByRecordID returns a record's answers in insertion order.
func (s *Store) GetUserAnswersByRecordID(ctx context.Context, recordID string) ([]domain.UserAnswer, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var rows []userAnswerRow
	if err := db.SelectContext(ctx, &rows, `SELECT `+answerColumns+` FROM user_answers WHERE record_id = ? ORDER BY rowid`, recordID); err != nil {
		return nil, fmt.Errorf("query answers for %s: %w", recordID, err)
	}
	out := make([]domain.UserAnswer, 0, len(rows))
	for _, r := range rows {
		a, err := rowToAnswer(r)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// UpdateAIAnalysis stores an AI analysis on an existing record by rewriting
// the whole row.
func (s *Store) UpdateAIAnalysis(ctx context.Context, recordID string, result domain.AIAnalysisResult) error {
	rec, err := s.GetTestRecordByID(ctx, recordID)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrRecordNotFound
	}
	encoded, err := domain.EncodeAIAnalysisResult(result)
	if err != nil {
		return err
	}
	rec.AIAnalysisResult = encoded
	return s.SaveTestRecord(ctx, *rec)
}

// DeleteTestRecord removes a record and its answers.
func (s *Store) DeleteTestRecord(ctx context.Context, id string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	return withTx(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_answers WHERE record_id = ?`, id); err != nil {
			return fmt.Errorf("delete answers of %s: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM test_records WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete test record %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}

// withTx runs fn in a transaction, rolling back when it fails.
func withTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
