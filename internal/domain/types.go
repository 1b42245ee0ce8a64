// Package domain holds the assessment data model shared by the API service,
// the local store, the question bank and the quiz flow.
package domain

import "time"

// CustomTestTypeID is the reserved id of the user-defined test. It is never
// fetched remotely.
const CustomTestTypeID = "custom"

// TestType is a static catalogue entry.
type TestType struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	EstimatedDuration int    `json:"estimatedDuration"` // minutes
	QuestionCount     int    `json:"questionCount"`
	Category          string `json:"category"`
	Icon              string `json:"icon"`
}

// CustomTestType is the synthesized entry for CustomTestTypeID. Duration and
// question count are personalised later, so both are zero placeholders.
func CustomTestType() TestType {
	return TestType{
		ID:          CustomTestTypeID,
		Name:        "Custom Test",
		Description: "A personalised assessment tailored to your goals.",
		Category:    "custom",
		Icon:        "✨",
	}
}

// Question is a bank or API question. Options and ScoreMapping are JSON
// strings; use ParseOptions / ParseScoreMapping to read them.
type Question struct {
	ID              string `json:"id"`
	QuestionID      string `json:"questionId"`
	TestTypeID      string `json:"testTypeId"`
	QuestionType    string `json:"questionType"`
	QuestionText    string `json:"questionText"`
	Options         string `json:"options"`
	ScoreMapping    string `json:"scoreMapping"`
	SourceReference string `json:"sourceReference"`
	AIReviewStatus  string `json:"aiReviewStatus"`
	SortOrder       int    `json:"sortOrder"`
}

// QuestionOption is one selectable answer.
type QuestionOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TestRecord is a completed test. Scoring fields are populated before the
// record is first persisted; AIAnalysisResult is the only field written later.
type TestRecord struct {
	ID                     string     `json:"id"`
	UserID                 string     `json:"userId"`
	TestTypeID             string     `json:"testTypeId"`
	StartTime              time.Time  `json:"startTime"`
	EndTime                *time.Time `json:"endTime,omitempty"`
	TotalScore             *int       `json:"totalScore,omitempty"`
	MaxScore               *int       `json:"maxScore,omitempty"` // highest score the answered questions allow
	ResultSummary          string     `json:"resultSummary,omitempty"`
	ImprovementSuggestions string     `json:"improvementSuggestions,omitempty"`
	ReferenceMaterials     string     `json:"referenceMaterials,omitempty"`
	AIAnalysisResult       string     `json:"aiAnalysisResult,omitempty"` // JSON-encoded AIAnalysisResult
	CreatedAt              time.Time  `json:"createdAt"`
}

// UserAnswer is one answered question of a record. It keeps a snapshot of
// the question so history renders without the question bank.
type UserAnswer struct {
	ID             string    `json:"id"`
	RecordID       string    `json:"recordId"`
	QuestionID     string    `json:"questionId"`
	QuestionText   string    `json:"questionText"`
	QuestionType   string    `json:"questionType"`
	OptionsJSON    string    `json:"optionsJson"`
	UserChoice     string    `json:"userChoice"`
	UserChoiceText string    `json:"userChoiceText"`
	ScoreObtained  int       `json:"scoreObtained"`
	CreatedAt      time.Time `json:"createdAt"`
}

// User is the single profile of an install.
type User struct {
	ID            string    `json:"id"`
	Nickname      string    `json:"nickname"`
	AvatarEmoji   string    `json:"avatarEmoji"`
	JoinDate      time.Time `json:"joinDate"`
	TestCount     int       `json:"testCount"`
	TestDays      int       `json:"testDays"`
	Gender        string    `json:"gender,omitempty"`
	Age           *int      `json:"age,omitempty"`
	Occupation    string    `json:"occupation,omitempty"`
	SelectedModel string    `json:"selectedModel"`
}

// DefaultUserID is the id of the synthesized profile.
const DefaultUserID = "default-user"

// DefaultUser returns the profile created when none exists.
func DefaultUser(now time.Time) User {
	return User{
		ID:            DefaultUserID,
		Nickname:      "Explorer",
		AvatarEmoji:   "🙂",
		JoinDate:      now,
		SelectedModel: "gpt-4o-mini",
	}
}

// AIAnalysisResult is the parsed AI narrative stored on a record.
type AIAnalysisResult struct {
	Summary     string    `json:"summary"`
	Suggestions string    `json:"suggestions"`
	References  string    `json:"references"`
	Disclaimer  string    `json:"disclaimer"`
	RawText     string    `json:"rawText"`
	GeneratedAt time.Time `json:"generatedAt"`
}
