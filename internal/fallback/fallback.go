// Package fallback is the static data set served when the API is offline or
// failing. Every accessor returns fresh copies so callers cannot mutate the
// set, and results are deterministic for identical arguments.
package fallback

import (
	"strings"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
)

var frequencyOptions = domain.EncodeOptions([]domain.QuestionOption{
	{Value: "0", Label: "Not at all"},
	{Value: "1", Label: "Several days"},
	{Value: "2", Label: "More than half the days"},
	{Value: "3", Label: "Nearly every day"},
})

var frequencyScores = domain.EncodeScoreMapping(map[string]int{"0": 0, "1": 1, "2": 2, "3": 3})

var agreementOptions = domain.EncodeOptions([]domain.QuestionOption{
	{Value: "1", Label: "Strongly disagree"},
	{Value: "2", Label: "Disagree"},
	{Value: "3", Label: "Neutral"},
	{Value: "4", Label: "Agree"},
	{Value: "5", Label: "Strongly agree"},
})

var agreementScores = domain.EncodeScoreMapping(map[string]int{"1": 1, "2": 2, "3": 3, "4": 4, "5": 5})

var testTypes = []domain.TestType{
	{
		ID:                "mental-health",
		Name:              "Mental Health Check",
		Description:       "A short screening of mood, energy and sleep over the last two weeks.",
		EstimatedDuration: 5,
		QuestionCount:     20,
		Category:          "mental-health",
		Icon:              "🧠",
	},
	{
		ID:                "personality",
		Name:              "Personality Traits",
		Description:       "Explore how you relate to people, plans and new experiences.",
		EstimatedDuration: 10,
		QuestionCount:     30,
		Category:          "personality",
		Icon:              "🎭",
	},
	{
		ID:                "emotional-intelligence",
		Name:              "Emotional Intelligence",
		Description:       "How well you notice, understand and manage emotions.",
		EstimatedDuration: 8,
		QuestionCount:     25,
		Category:          "emotion",
		Icon:              "💡",
	},
	{
		ID:                "stress-assessment",
		Name:              "Stress Assessment",
		Description:       "Measure perceived stress and how you cope with it.",
		EstimatedDuration: 6,
		QuestionCount:     15,
		Category:          "stress",
		Icon:              "🌊",
	},
	{
		ID:                "relationship",
		Name:              "Relationship Patterns",
		Description:       "Understand your attachment and communication habits.",
		EstimatedDuration: 8,
		QuestionCount:     20,
		Category:          "relationship",
		Icon:              "🤝",
	},
}

type seed struct {
	id    string
	text  string
	scale string // "frequency" or "agreement"
	ref   string
}

var seeds = map[string][]seed{
	"mental-health": {
		{"mh-001", "Little interest or pleasure in doing things.", "frequency", "PHQ-9"},
		{"mh-002", "Feeling down, depressed, or hopeless.", "frequency", "PHQ-9"},
		{"mh-003", "Trouble falling or staying asleep, or sleeping too much.", "frequency", "PHQ-9"},
	},
	"personality": {
		{"pe-001", "I enjoy meeting new people and starting conversations.", "agreement", "Big Five Inventory"},
		{"pe-002", "I make plans and stick to them.", "agreement", "Big Five Inventory"},
		{"pe-003", "I am curious about many different things.", "agreement", "Big Five Inventory"},
	},
	"emotional-intelligence": {
		{"ei-001", "I can name what I am feeling when it happens.", "agreement", "TEIQue-SF"},
		{"ei-002", "I can calm myself down after I get upset.", "agreement", "TEIQue-SF"},
		{"ei-003", "I notice how other people feel from their tone of voice.", "agreement", "TEIQue-SF"},
	},
	"stress-assessment": {
		{"st-001", "Feeling nervous, anxious, or on edge.", "frequency", "GAD-7"},
		{"st-002", "Not being able to stop or control worrying.", "frequency", "GAD-7"},
		{"st-003", "Feeling that difficulties are piling up too high to overcome.", "frequency", "PSS-10"},
	},
	"relationship": {
		{"re-001", "I find it easy to depend on people close to me.", "agreement", "ECR-R"},
		{"re-002", "I tell my partner or friends when something bothers me.", "agreement", "ECR-R"},
		{"re-003", "I worry that people I care about will leave me.", "agreement", "ECR-R"},
	},
}

var questions = buildQuestions()

func buildQuestions() map[string][]domain.Question {
	out := make(map[string][]domain.Question, len(seeds))
	for typeID, list := range seeds {
		qs := make([]domain.Question, 0, len(list))
		for i, s := range list {
			opts, scores := frequencyOptions, frequencyScores
			if s.scale == "agreement" {
				opts, scores = agreementOptions, agreementScores
			}
			qs = append(qs, domain.Question{
				ID:              "fallback-" + s.id,
				QuestionID:      s.id,
				TestTypeID:      typeID,
				QuestionType:    "single_choice",
				QuestionText:    s.text,
				Options:         opts,
				ScoreMapping:    scores,
				SourceReference: s.ref,
				AIReviewStatus:  "approved",
				SortOrder:       i + 1,
			})
		}
		out[typeID] = qs
	}
	return out
}

// TestTypes returns every fallback test type in catalogue order.
func TestTypes() []domain.TestType {
	return append([]domain.TestType(nil), testTypes...)
}

// TestType returns the fallback entry for id. The custom test type is always
// found.
func TestType(id string) (domain.TestType, bool) {
	id = domain.CanonicalTestTypeID(id)
	if id == domain.CustomTestTypeID {
		return domain.CustomTestType(), true
	}
	for _, tt := range testTypes {
		if tt.ID == id {
			return tt, true
		}
	}
	return domain.TestType{}, false
}

// Questions returns the sample questions of a test type, in sort order.
func Questions(testTypeID string) []domain.Question {
	return append([]domain.Question(nil), questions[domain.CanonicalTestTypeID(testTypeID)]...)
}

// Question finds a sample question by id or question id.
func Question(id string) (domain.Question, bool) {
	for _, tt := range testTypes {
		for _, q := range questions[tt.ID] {
			if q.ID == id || q.QuestionID == id {
				return q, true
			}
		}
	}
	return domain.Question{}, false
}

// Page returns one page of a test type's questions. page is 1-based; a
// non-positive pageSize returns every question.
func Page(testTypeID string, page, pageSize int) []domain.Question {
	all := Questions(testTypeID)
	if pageSize <= 0 {
		return all
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []domain.Question{}
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// HasMore reports whether a page after the given one exists.
func HasMore(testTypeID string, page, pageSize int) bool {
	if pageSize <= 0 {
		return false
	}
	if page < 1 {
		page = 1
	}
	return page*pageSize < len(questions[domain.CanonicalTestTypeID(testTypeID)])
}

// Count returns the number of sample questions of a test type.
func Count(testTypeID string) int {
	return len(questions[domain.CanonicalTestTypeID(testTypeID)])
}

// Search matches keyword case-insensitively against question text. An empty
// testTypeID searches every test type.
func Search(keyword, testTypeID string) []domain.Question {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	out := []domain.Question{}
	for _, tt := range testTypes {
		if testTypeID != "" && tt.ID != domain.CanonicalTestTypeID(testTypeID) {
			continue
		}
		for _, q := range questions[tt.ID] {
			if kw == "" || strings.Contains(strings.ToLower(q.QuestionText), kw) {
				out = append(out, q)
			}
		}
	}
	return out
}

// Recommended returns the first count questions of a test type.
func Recommended(testTypeID string, count int) []domain.Question {
	all := Questions(testTypeID)
	if count <= 0 || count >= len(all) {
		return all
	}
	return all[:count]
}
