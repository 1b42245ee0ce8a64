package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
)

// Rows mirror the snake_case columns. Callers only ever see domain types;
// the mapping functions below translate in both directions.

type userRow struct {
	ID            string         `db:"id"`
	Nickname      string         `db:"nickname"`
	AvatarEmoji   string         `db:"avatar_emoji"`
	JoinDate      string         `db:"join_date"`
	TestCount     int            `db:"test_count"`
	TestDays      int            `db:"test_days"`
	Gender        sql.NullString `db:"gender"`
	Age           sql.NullInt64  `db:"age"`
	Occupation    sql.NullString `db:"occupation"`
	SelectedModel sql.NullString `db:"selected_model"`
	CreatedAt     string         `db:"created_at"`
	UpdatedAt     string         `db:"updated_at"`
}

type testRecordRow struct {
	ID                     string         `db:"id"`
	UserID                 string         `db:"user_id"`
	TestTypeID             string         `db:"test_type_id"`
	StartTime              string         `db:"start_time"`
	EndTime                sql.NullString `db:"end_time"`
	TotalScore             sql.NullInt64  `db:"total_score"`
	MaxScore               sql.NullInt64  `db:"max_score"`
	ResultSummary          sql.NullString `db:"result_summary"`
	ImprovementSuggestions sql.NullString `db:"improvement_suggestions"`
	ReferenceMaterials     sql.NullString `db:"reference_materials"`
	AIAnalysisResult       sql.NullString `db:"ai_analysis_result"`
	CreatedAt              string         `db:"created_at"`
}

type userAnswerRow struct {
	ID             string `db:"id"`
	RecordID       string `db:"record_id"`
	QuestionID     string `db:"question_id"`
	QuestionText   string `db:"question_text"`
	QuestionType   string `db:"question_type"`
	OptionsJSON    string `db:"options_json"`
	UserChoice     string `db:"user_choice"`
	UserChoiceText string `db:"user_choice_text"`
	ScoreObtained  int    `db:"score_obtained"`
	CreatedAt      string `db:"created_at"`
}

const (
	userColumns = `id, nickname, avatar_emoji, join_date, test_count, test_days,
		gender, age, occupation, selected_model, created_at, updated_at`
	recordColumns = `id, user_id, test_type_id, start_time, end_time, total_score, max_score,
		result_summary, improvement_suggestions, reference_materials, ai_analysis_result, created_at`
	answerColumns = `id, record_id, question_id, question_text, question_type, options_json,
		user_choice, user_choice_text, score_obtained, created_at`
)

const insertUserSQL = `INSERT INTO users (` + userColumns + `) VALUES (
	:id, :nickname, :avatar_emoji, :join_date, :test_count, :test_days,
	:gender, :age, :occupation, :selected_model, :created_at, :updated_at)`

const recordValues = ` (` + recordColumns + `) VALUES (
	:id, :user_id, :test_type_id, :start_time, :end_time, :total_score, :max_score,
	:result_summary, :improvement_suggestions, :reference_materials, :ai_analysis_result, :created_at)`

const answerValues = ` (` + answerColumns + `) VALUES (
	:id, :record_id, :question_id, :question_text, :question_type, :options_json,
	:user_choice, :user_choice_text, :score_obtained, :created_at)`

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func userToRow(u domain.User, now time.Time) userRow {
	r := userRow{
		ID:            u.ID,
		Nickname:      u.Nickname,
		AvatarEmoji:   u.AvatarEmoji,
		JoinDate:      formatTime(u.JoinDate),
		TestCount:     u.TestCount,
		TestDays:      u.TestDays,
		Gender:        nullString(u.Gender),
		Occupation:    nullString(u.Occupation),
		SelectedModel: nullString(u.SelectedModel),
		CreatedAt:     formatTime(now),
		UpdatedAt:     formatTime(now),
	}
	if u.Age != nil {
		r.Age = sql.NullInt64{Int64: int64(*u.Age), Valid: true}
	}
	return r
}

func rowToUser(r userRow) (domain.User, error) {
	join, err := parseTime("join_date", r.JoinDate)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		ID:            r.ID,
		Nickname:      r.Nickname,
		AvatarEmoji:   r.AvatarEmoji,
		JoinDate:      join,
		TestCount:     r.TestCount,
		TestDays:      r.TestDays,
		Gender:        r.Gender.String,
		Occupation:    r.Occupation.String,
		SelectedModel: r.SelectedModel.String,
	}
	if r.Age.Valid {
		age := int(r.Age.Int64)
		u.Age = &age
	}
	return u, nil
}

func recordToRow(rec domain.TestRecord) testRecordRow {
	r := testRecordRow{
		ID:                     rec.ID,
		UserID:                 rec.UserID,
		TestTypeID:             rec.TestTypeID,
		StartTime:              formatTime(rec.StartTime),
		ResultSummary:          nullString(rec.ResultSummary),
		ImprovementSuggestions: nullString(rec.ImprovementSuggestions),
		ReferenceMaterials:     nullString(rec.ReferenceMaterials),
		AIAnalysisResult:       nullString(rec.AIAnalysisResult),
		CreatedAt:              formatTime(rec.CreatedAt),
	}
	if rec.EndTime != nil {
		r.EndTime = sql.NullString{String: formatTime(*rec.EndTime), Valid: true}
	}
	if rec.TotalScore != nil {
		r.TotalScore = sql.NullInt64{Int64: int64(*rec.TotalScore), Valid: true}
	}
	if rec.MaxScore != nil {
		r.MaxScore = sql.NullInt64{Int64: int64(*rec.MaxScore), Valid: true}
	}
	return r
}

func rowToRecord(r testRecordRow) (domain.TestRecord, error) {
	start, err := parseTime("start_time", r.StartTime)
	if err != nil {
		return domain.TestRecord{}, err
	}
	created, err := parseTime("created_at", r.CreatedAt)
	if err != nil {
		return domain.TestRecord{}, err
	}
	rec := domain.TestRecord{
		ID:                     r.ID,
		UserID:                 r.UserID,
		TestTypeID:             r.TestTypeID,
		StartTime:              start,
		ResultSummary:          r.ResultSummary.String,
		ImprovementSuggestions: r.ImprovementSuggestions.String,
		ReferenceMaterials:     r.ReferenceMaterials.String,
		AIAnalysisResult:       r.AIAnalysisResult.String,
		CreatedAt:              created,
	}
	if r.EndTime.Valid {
		end, err := parseTime("end_time", r.EndTime.String)
		if err != nil {
			return domain.TestRecord{}, err
		}
		rec.EndTime = &end
	}
	if r.TotalScore.Valid {
		score := int(r.TotalScore.Int64)
		rec.TotalScore = &score
	}
	if r.MaxScore.Valid {
		maxScore := int(r.MaxScore.Int64)
		rec.MaxScore = &maxScore
	}
	return rec, nil
}

func answerToRow(a domain.UserAnswer) userAnswerRow {
	return userAnswerRow{
		ID:             a.ID,
		RecordID:       a.RecordID,
		QuestionID:     a.QuestionID,
		QuestionText:   a.QuestionText,
		QuestionType:   a.QuestionType,
		OptionsJSON:    a.OptionsJSON,
		UserChoice:     a.UserChoice,
		UserChoiceText: a.UserChoiceText,
		ScoreObtained:  a.ScoreObtained,
		CreatedAt:      formatTime(a.CreatedAt),
	}
}

func rowToAnswer(r userAnswerRow) (domain.UserAnswer, error) {
	created, err := parseTime("created_at", r.CreatedAt)
	if err != nil {
		return domain.UserAnswer{}, err
	}
	return domain.UserAnswer{
		ID:             r.ID,
		RecordID:       r.RecordID,
		QuestionID:     r.QuestionID,
		QuestionText:   r.QuestionText,
		QuestionType:   r.QuestionType,
		OptionsJSON:    r.OptionsJSON,
		UserChoice:     r.UserChoice,
		UserChoiceText: r.UserChoiceText,
		ScoreObtained:  r.ScoreObtained,
		CreatedAt:      created,
	}, nil
}
