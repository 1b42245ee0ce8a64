// Package quiz turns a finished questionnaire into a persisted test record
// and runs the optional AI enrichment of that record.
package quiz

import (
	"github.com/wayss000/Inner-See-sub000/internal/domain"
)

// Outcome is the scored result of a questionnaire. Answers carry the
// question snapshot but no ids yet.
type Outcome struct {
	TotalScore int
	MaxScore   int
	Answers    []domain.UserAnswer
}

// Score sums the score mapping of every answered question. choices maps
// question id to the chosen option value; unanswered questions are skipped
// and count toward neither score. onCorrupt receives payload errors of
// questions whose options or score mapping cannot be read.
func Score(questions []domain.Question, choices map[string]string, onCorrupt func(error)) Outcome {
	var out Outcome
	for _, q := range questions {
		value, ok := choices[q.ID]
		if !ok {
			continue
		}
		opts := q.OptionsOrPlaceholder(onCorrupt)
		score := q.ScoreFor(value, onCorrupt)

		out.TotalScore += score
		out.MaxScore += q.MaxScore()
		out.Answers = append(out.Answers, domain.UserAnswer{
			QuestionID:     q.ID,
			QuestionText:   q.QuestionText,
			QuestionType:   q.QuestionType,
			OptionsJSON:    domain.EncodeOptions(opts),
			UserChoice:     value,
			UserChoiceText: domain.LabelFor(opts, value),
			ScoreObtained:  score,
		})
	}
	return out
}
