package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wayss000/Inner-See-sub000/internal/analysis"
	"github.com/wayss000/Inner-See-sub000/internal/domain"
	"github.com/wayss000/Inner-See-sub000/internal/fallback"
	"github.com/wayss000/Inner-See-sub000/internal/logger"
)

// ErrRecordNotFound is returned by Enrich for an unknown record id.
var ErrRecordNotFound = errors.New("test record not found")

// RecordStore is the persistence the quiz flow needs.
type RecordStore interface {
	Initialize(ctx context.Context) error
	SaveTestRecordWithAnswers(ctx context.Context, rec domain.TestRecord, answers []domain.UserAnswer) error
	RefreshUserStats(ctx context.Context, userID string) error
	GetCurrentUser(ctx context.Context) (*domain.User, error)
	GetTestRecordByID(ctx context.Context, id string) (*domain.TestRecord, error)
	GetUserAnswersByRecordID(ctx context.Context, recordID string) ([]domain.UserAnswer, error)
	UpdateAIAnalysis(ctx context.Context, recordID string, result domain.AIAnalysisResult) error
}

// Analyzer produces the AI narrative for a record.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (string, error)
}

// Submission is a finished questionnaire.
type Submission struct {
	UserID     string
	TestTypeID string
	StartTime  time.Time
	Questions  []domain.Question
	Choices    map[string]string // question id -> option value
}

// Submitter persists submissions and enriches them with AI analysis.
type Submitter struct {
	store    RecordStore
	analyzer Analyzer
	log      *logger.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures a Submitter.
type Option func(*Submitter)

func WithLogger(l *logger.Logger) Option {
	return func(s *Submitter) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Submitter) { s.now = now }
}

// WithIDs replaces the uuid generator.
func WithIDs(newID func() string) Option {
	return func(s *Submitter) { s.newID = newID }
}

// NewSubmitter creates a Submitter. analyzer may be nil when no AI provider
// is configured; Enrich then fails.
func NewSubmitter(store RecordStore, analyzer Analyzer, opts ...Option) *Submitter {
	s := &Submitter{
		store:    store,
		analyzer: analyzer,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = logger.OrNop(s.log)
	return s
}

// Submit scores sub, stores the record with all its answers in one
// transaction and refreshes the user's statistics. A failed save
// re-initializes the store and is retried once.
func (s *Submitter) Submit(ctx context.Context, sub Submission) (*domain.TestRecord, []domain.UserAnswer, error) {
	outcome := Score(sub.Questions, sub.Choices, func(err error) {
		s.log.Warn("corrupt question payload", "test_type", sub.TestTypeID, "error", err.Error())
	})
	testTypeID := domain.CanonicalTestTypeID(sub.TestTypeID)
	assessment := Assess(testTypeID, outcome.TotalScore, outcome.MaxScore)

	userID := sub.UserID
	if userID == "" {
		userID = domain.DefaultUserID
	}

	now := s.now()
	start := sub.StartTime
	if start.IsZero() {
		start = now
	}
	total, maxScore := outcome.TotalScore, outcome.MaxScore
	rec := domain.TestRecord{
		ID:                     s.newID(),
		UserID:                 userID,
		TestTypeID:             testTypeID,
		StartTime:              start,
		EndTime:                &now,
		TotalScore:             &total,
		MaxScore:               &maxScore,
		ResultSummary:          assessment.Label + ": " + assessment.Summary,
		ImprovementSuggestions: assessment.Suggestions,
		ReferenceMaterials:     assessment.References,
		CreatedAt:              now,
	}

	answers := outcome.Answers
	for i := range answers {
		answers[i].ID = s.newID()
		answers[i].RecordID = rec.ID
		answers[i].CreatedAt = now
	}

	if err := s.save(ctx, rec, answers); err != nil {
		return nil, nil, err
	}

	if err := s.store.RefreshUserStats(ctx, userID); err != nil {
		s.log.Warn("refresh user stats failed", "user_id", userID, "error", err.Error())
	}

	s.log.Info("test record saved", "record_id", rec.ID, "test_type", testTypeID, "answers", len(answers))
	return &rec, answers, nil
}

func (s *Submitter) save(ctx context.Context, rec domain.TestRecord, answers []domain.UserAnswer) error {
	err := s.store.SaveTestRecordWithAnswers(ctx, rec, answers)
	if err == nil {
		return nil
	}

	s.log.Warn("save failed, re-initializing store", "record_id", rec.ID, "error", err.Error())
	if initErr := s.store.Initialize(ctx); initErr != nil {
		s.log.Error("store re-initialization failed", "error", initErr.Error())
		return fmt.Errorf("save test record: %w", errors.Join(err, initErr))
	}
	if err := s.store.SaveTestRecordWithAnswers(ctx, rec, answers); err != nil {
		s.log.Error("save retry failed", "record_id", rec.ID, "error", err.Error())
		return fmt.Errorf("save test record: %w", err)
	}
	return nil
}

// Enrich runs the AI analysis of a stored record, with the user's own words
// in supplement, and stores the parsed result on the record.
func (s *Submitter) Enrich(ctx context.Context, recordID, supplement string) (*domain.AIAnalysisResult, error) {
	if s.analyzer == nil {
		return nil, errors.New("no AI provider configured")
	}

	rec, err := s.store.GetTestRecordByID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("load record: %w", err)
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}
	answers, err := s.store.GetUserAnswersByRecordID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}

	testType, ok := fallback.TestType(rec.TestTypeID)
	if !ok {
		testType = domain.TestType{ID: rec.TestTypeID, Name: rec.TestTypeID}
	}
	req := analysis.NewRequest(testType, *rec, answers, supplement)

	if user, err := s.store.GetCurrentUser(ctx); err == nil && user != nil {
		req.Model = user.SelectedModel
	}

	text, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	result := analysis.Parse(text)
	result.GeneratedAt = s.now()
	if err := s.store.UpdateAIAnalysis(ctx, recordID, result); err != nil {
		return nil, fmt.Errorf("store analysis: %w", err)
	}
	return &result, nil
}
