// Package questionbank reads the separately packaged question database in
// batches. Category ids in the bank use the CAT-xxx scheme; they are mapped to
// canonical test type ids at this boundary.
package questionbank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/mod/semver"

	"github.com/wayss000/Inner-See-sub000/internal/cache"
	"github.com/wayss000/Inner-See-sub000/internal/domain"
	"github.com/wayss000/Inner-See-sub000/internal/logger"

	_ "modernc.org/sqlite"
)

const (
	// DefaultMinVersion is the oldest bank format this build can read.
	DefaultMinVersion = "v1.0.0"

	// DefaultBatchSize is used when a non-positive limit is requested.
	DefaultBatchSize = 10
)

var (
	ErrBankNotFound = errors.New("question bank not found")
	ErrBankVersion  = errors.New("unsupported question bank version")
)

// Bank is a read-only handle on a question bank file.
type Bank struct {
	db      *sqlx.DB
	cache   *cache.Manager
	log     *logger.Logger
	version string
}

type options struct {
	minVersion string
	log        *logger.Logger
}

// Option configures Open.
type Option func(*options)

// WithMinVersion rejects banks older than v.
func WithMinVersion(v string) Option {
	return func(o *options) { o.minVersion = v }
}

func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// Open opens the bank at path and checks its format version. Loaded batches
// are memoised in cm.
func Open(ctx context.Context, path string, cm *cache.Manager, opts ...Option) (*Bank, error) {
	o := options{minVersion: DefaultMinVersion}
	for _, opt := range opts {
		opt(&o)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBankNotFound, path)
		}
		return nil, fmt.Errorf("stat question bank: %w", err)
	}

	db, err := sqlx.Open("sqlite", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}

	var raw string
	if err := db.GetContext(ctx, &raw, `SELECT value FROM meta WHERE key = 'version'`); err != nil {
		db.Close()
		return nil, fmt.Errorf("read question bank version: %w", err)
	}
	version := canonicalVersion(raw)
	if !semver.IsValid(version) {
		db.Close()
		return nil, fmt.Errorf("%w: %q is not a semantic version", ErrBankVersion, raw)
	}
	if floor := canonicalVersion(o.minVersion); semver.Compare(version, floor) < 0 {
		db.Close()
		return nil, fmt.Errorf("%w: %s is older than %s", ErrBankVersion, version, floor)
	}

	if cm == nil {
		cm = cache.New()
	}
	b := &Bank{db: db, cache: cm, log: logger.OrNop(o.log), version: version}
	b.log.Debug("question bank opened", "path", path, "version", version)
	return b, nil
}

// readOnlyDSN is the SQLite URI opening path without write access.
func readOnlyDSN(path string) string {
	return "file:" + path + "?mode=ro"
}

func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// Version returns the bank's format version.
func (b *Bank) Version() string { return b.version }

func (b *Bank) Close() error {
	return b.db.Close()
}

type categoryRow struct {
	ID                string         `db:"id"`
	Name              string         `db:"name"`
	Description       sql.NullString `db:"description"`
	Icon              sql.NullString `db:"icon"`
	EstimatedDuration int            `db:"estimated_duration"`
	QuestionCount     int            `db:"question_count"`
}

type questionRow struct {
	ID              string         `db:"id"`
	CategoryID      string         `db:"category_id"`
	QuestionType    string         `db:"question_type"`
	QuestionText    string         `db:"question_text"`
	Options         string         `db:"options"`
	ScoreMapping    string         `db:"score_mapping"`
	SourceReference sql.NullString `db:"source_reference"`
	SortOrder       int            `db:"sort_order"`
}

const questionColumns = `id, category_id, question_type, question_text, options, score_mapping, source_reference, sort_order`

func (r questionRow) toDomain() domain.Question {
	return domain.Question{
		ID:              r.ID,
		QuestionID:      r.ID,
		TestTypeID:      domain.CanonicalTestTypeID(r.CategoryID),
		QuestionType:    r.QuestionType,
		QuestionText:    r.QuestionText,
		Options:         r.Options,
		ScoreMapping:    r.ScoreMapping,
		SourceReference: r.SourceReference.String,
		AIReviewStatus:  "approved",
		SortOrder:       r.SortOrder,
	}
}

// Categories lists the bank's test types with their question counts.
func (b *Bank) Categories(ctx context.Context) ([]domain.TestType, error) {
	const key = "questionbank:categories"
	if cached, ok := cache.GetAs[[]domain.TestType](b.cache, key); ok {
		return append([]domain.TestType(nil), cached...), nil
	}

	var rows []categoryRow
	err := b.db.SelectContext(ctx, &rows, `SELECT c.id, c.name, c.description, c.icon, c.estimated_duration,
		(SELECT COUNT(*) FROM questions q WHERE q.category_id = c.id) AS question_count
		FROM categories c ORDER BY c.sort_order, c.id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}

	out := make([]domain.TestType, 0, len(rows))
	for _, r := range rows {
		id := domain.CanonicalTestTypeID(r.ID)
		out = append(out, domain.TestType{
			ID:                id,
			Name:              r.Name,
			Description:       r.Description.String,
			EstimatedDuration: r.EstimatedDuration,
			QuestionCount:     r.QuestionCount,
			Category:          id,
			Icon:              r.Icon.String,
		})
	}
	b.cache.Set(key, out, 0)
	return append([]domain.TestType(nil), out...), nil
}

// Count returns the number of questions of a test type.
func (b *Bank) Count(ctx context.Context, testTypeID string) (int, error) {
	var n int
	err := b.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM questions WHERE category_id = ?`, domain.BankCategoryID(testTypeID))
	if err != nil {
		return 0, fmt.Errorf("count questions of %s: %w", testTypeID, err)
	}
	return n, nil
}

// Batch is one slice of a test type's questions.
type Batch struct {
	Questions []domain.Question
	Total     int
	HasMore   bool
}

// LoadBatch returns up to limit questions starting at offset, in sort order.
// Batches are memoised in the cache.
func (b *Bank) LoadBatch(ctx context.Context, testTypeID string, offset, limit int) (Batch, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultBatchSize
	}
	testTypeID = domain.CanonicalTestTypeID(testTypeID)

	key := fmt.Sprintf("questionbank:batch:%s:%d:%d", testTypeID, offset, limit)
	if cached, ok := cache.GetAs[Batch](b.cache, key); ok {
		cached.Questions = append([]domain.Question(nil), cached.Questions...)
		return cached, nil
	}

	total, err := b.Count(ctx, testTypeID)
	if err != nil {
		return Batch{}, err
	}

	var rows []questionRow
	err = b.db.SelectContext(ctx, &rows, `SELECT `+questionColumns+` FROM questions
		WHERE category_id = ? ORDER BY sort_order, id LIMIT ? OFFSET ?`,
		domain.BankCategoryID(testTypeID), limit, offset)
	if err != nil {
		return Batch{}, fmt.Errorf("load questions of %s: %w", testTypeID, err)
	}

	batch := Batch{
		Questions: make([]domain.Question, 0, len(rows)),
		Total:     total,
		HasMore:   offset+len(rows) < total,
	}
	for _, r := range rows {
		batch.Questions = append(batch.Questions, r.toDomain())
	}
	b.cache.Set(key, batch, 0)
	b.log.Debug("question batch loaded", "test_type", testTypeID, "offset", offset, "count", len(rows), "total", total)

	out := batch
	out.Questions = append([]domain.Question(nil), batch.Questions...)
	return out, nil
}

// Question returns one question, or nil when the bank has no such id.
func (b *Bank) Question(ctx context.Context, id string) (*domain.Question, error) {
	var row questionRow
	err := b.db.GetContext(ctx, &row, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query question %s: %w", id, err)
	}
	q := row.toDomain()
	return &q, nil
}
