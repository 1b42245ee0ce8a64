package quiz

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayss000/Inner-See-sub000/internal/analysis"
	"github.com/wayss000/Inner-See-sub000/internal/domain"
	"github.com/wayss000/Inner-See-sub000/internal/fallback"
	"github.com/wayss000/Inner-See-sub000/internal/llm"
	"github.com/wayss000/Inner-See-sub000/internal/store"
)

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(filepath.Join(t.TempDir(), "quiz.db"), nil)
	require.NoError(t, s.Initialize(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func mentalHealthSubmission() Submission {
	return Submission{
		TestTypeID: "CAT-001",
		StartTime:  fixedNow.Add(-5 * time.Minute),
		Questions:  fallback.Questions("mental-health"),
		Choices: map[string]string{
			"fallback-mh-001": "3",
			"fallback-mh-002": "1",
		},
	}
}

func TestScore(t *testing.T) {
	sub := mentalHealthSubmission()
	out := Score(sub.Questions, sub.Choices, nil)

	assert.Equal(t, 4, out.TotalScore)
	assert.Equal(t, 6, out.MaxScore)
	require.Len(t, out.Answers, 2)
	assert.Equal(t, "fallback-mh-001", out.Answers[0].QuestionID)
	assert.Equal(t, "Nearly every day", out.Answers[0].UserChoiceText)
	assert.Equal(t, 3, out.Answers[0].ScoreObtained)
	assert.Equal(t, "Several days", out.Answers[1].UserChoiceText)

	opts, err := domain.ParseOptions(out.Answers[0].OptionsJSON)
	require.NoError(t, err)
	assert.Len(t, opts, 4)
}

func TestScore_CorruptPayloadDegrades(t *testing.T) {
	q := domain.Question{
		ID:           "broken",
		QuestionText: "?",
		Options:      "not json",
		ScoreMapping: "also not json",
	}
	var reported []error
	out := Score([]domain.Question{q}, map[string]string{"broken": "A"}, func(err error) {
		reported = append(reported, err)
	})

	assert.Equal(t, 0, out.TotalScore)
	require.Len(t, out.Answers, 1)
	assert.Equal(t, "Option A", out.Answers[0].UserChoiceText)
	require.Len(t, reported, 2)
	var corrupt *domain.CorruptRecordError
	assert.True(t, errors.As(reported[0], &corrupt))
}

func TestAssess(t *testing.T) {
	tests := []struct {
		score, max int
		want       string
	}{
		{0, 0, "Low"},
		{1, 6, "Low"},
		{3, 6, "Mild"},
		{4, 6, "Moderate"},
		{6, 6, "High"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			a := Assess("mental-health", tt.score, tt.max)
			assert.Equal(t, tt.want, a.Label)
			assert.NotEmpty(t, a.Summary)
			assert.NotEmpty(t, a.Suggestions)
		})
	}

	assert.Contains(t, Assess("mental-health", 0, 0).References, "Feeling Good")
	assert.Contains(t, Assess("unknown", 0, 0).References, "counselling")
}

func TestSubmit_PersistsRecordAndAnswers(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	sub := NewSubmitter(s, nil, WithClock(func() time.Time { return fixedNow }), WithIDs(sequentialIDs()))

	rec, answers, err := sub.Submit(ctx, mentalHealthSubmission())
	require.NoError(t, err)
	assert.Equal(t, "id-1", rec.ID)
	assert.Equal(t, "mental-health", rec.TestTypeID)
	assert.Equal(t, domain.DefaultUserID, rec.UserID)
	require.NotNil(t, rec.TotalScore)
	assert.Equal(t, 4, *rec.TotalScore)
	require.NotNil(t, rec.MaxScore)
	assert.Equal(t, 6, *rec.MaxScore)
	assert.Contains(t, rec.ResultSummary, "Moderate")
	require.Len(t, answers, 2)
	assert.Equal(t, "id-2", answers[0].ID)
	assert.Equal(t, "id-1", answers[0].RecordID)

	stored, err := s.GetTestRecordByID(ctx, "id-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, rec.ResultSummary, stored.ResultSummary)
	require.NotNil(t, stored.MaxScore)
	assert.Equal(t, 6, *stored.MaxScore)

	storedAnswers, err := s.GetUserAnswersByRecordID(ctx, "id-1")
	require.NoError(t, err)
	assert.Len(t, storedAnswers, 2)

	user, err := s.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, user.TestCount)
	assert.Equal(t, 1, user.TestDays)
}

func TestSubmit_ReinitializesUninitializedStore(t *testing.T) {
	ctx := context.Background()
	s := store.New(filepath.Join(t.TempDir(), "lazy.db"), nil)
	t.Cleanup(func() { s.Close() })

	sub := NewSubmitter(s, nil, WithIDs(sequentialIDs()))
	rec, _, err := sub.Submit(ctx, mentalHealthSubmission())
	require.NoError(t, err)

	stored, err := s.GetTestRecordByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

type failingStore struct {
	RecordStore
	saves int
	inits int
}

func (f *failingStore) Initialize(context.Context) error {
	f.inits++
	return nil
}

func (f *failingStore) SaveTestRecordWithAnswers(context.Context, domain.TestRecord, []domain.UserAnswer) error {
	f.saves++
	return errors.New("disk I/O error")
}

func TestSubmit_RetriesOnceThenFails(t *testing.T) {
	fs := &failingStore{}
	sub := NewSubmitter(fs, nil)

	_, _, err := sub.Submit(context.Background(), mentalHealthSubmission())
	require.Error(t, err)
	assert.Equal(t, 2, fs.saves)
	assert.Equal(t, 1, fs.inits)
}

func TestEnrich(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	model := "gpt-4o"
	require.NoError(t, s.UpdateUser(ctx, domain.DefaultUserID, store.UserUpdate{SelectedModel: &model}))

	mock := llm.NewMockProvider(llm.MockResponse{
		Text: "1. Summary\nYou carry some low mood.\n2. Suggestions\nWalk daily.\n3. Resources\nA CBT workbook.",
	})
	sub := NewSubmitter(s, analysis.NewService(mock, analysis.DefaultConfig()),
		WithClock(func() time.Time { return fixedNow }), WithIDs(sequentialIDs()))

	rec, _, err := sub.Submit(ctx, mentalHealthSubmission())
	require.NoError(t, err)

	result, err := sub.Enrich(ctx, rec.ID, "I have been tired.")
	require.NoError(t, err)
	assert.Equal(t, "Summary\nYou carry some low mood.", result.Summary)
	assert.Equal(t, "Resources\nA CBT workbook.", result.References)
	assert.Equal(t, analysis.Disclaimer, result.Disclaimer)
	assert.True(t, result.GeneratedAt.Equal(fixedNow))

	require.Equal(t, 1, mock.CallCount())
	assert.Equal(t, "gpt-4o", mock.Calls[0].Model)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Mental Health Check")
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "I have been tired.")
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Score: 4 / 6")

	stored, err := s.GetTestRecordByID(ctx, rec.ID)
	require.NoError(t, err)
	parsed, err := domain.ParseAIAnalysisResult(stored.AIAnalysisResult)
	require.NoError(t, err)
	assert.Equal(t, result.Suggestions, parsed.Suggestions)
}

func TestEnrich_UnknownRecord(t *testing.T) {
	s := openStore(t)
	sub := NewSubmitter(s, analysis.NewService(llm.NewMockProvider(), analysis.DefaultConfig()))

	_, err := sub.Enrich(context.Background(), "missing", "")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestEnrich_AIFailureLeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRequestFailed{StatusCode: 500, Err: errors.New("boom")}})
	sub := NewSubmitter(s, analysis.NewService(mock, analysis.DefaultConfig()))

	rec, _, err := sub.Submit(ctx, mentalHealthSubmission())
	require.NoError(t, err)

	_, err = sub.Enrich(ctx, rec.ID, "")
	require.Error(t, err)
	assert.EqualError(t, err, "AI request failed with status 500")

	stored, err := s.GetTestRecordByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.AIAnalysisResult)
}

func TestEnrich_NoAnalyzer(t *testing.T) {
	sub := NewSubmitter(openStore(t), nil)
	_, err := sub.Enrich(context.Background(), "any", "")
	assert.Error(t, err)
}
