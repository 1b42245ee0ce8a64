package analysis

import (
	"fmt"
	"strings"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
)

const systemPrompt = `You are a warm, professional psychological counsellor. You read the result of a self-assessment questionnaire and give the user a supportive, practical interpretation. You never diagnose.`

// Disclaimer is appended to every analysis that does not already carry
// disclaimerMarker.
const Disclaimer = "Disclaimer: this analysis is for self-reflection only and is not a medical diagnosis. If you are in distress, please contact a qualified mental health professional."

const disclaimerMarker = "not a medical diagnosis"

// Answer is one question and the option the user chose.
type Answer struct {
	Question string
	Choice   string
}

// Request carries everything the analysis prompt embeds.
type Request struct {
	TestType    string
	Score       int
	MaxScore    int
	ResultLabel string
	Answers     []Answer
	Supplement  string

	// Model overrides the provider's configured model when set.
	Model string
}

// NewRequest builds a Request from a persisted record and its answers.
func NewRequest(testType domain.TestType, rec domain.TestRecord, answers []domain.UserAnswer, supplement string) Request {
	req := Request{
		TestType:    testType.Name,
		ResultLabel: rec.ResultSummary,
		Supplement:  supplement,
	}
	if req.TestType == "" {
		req.TestType = rec.TestTypeID
	}
	if rec.TotalScore != nil {
		req.Score = *rec.TotalScore
	}
	if rec.MaxScore != nil {
		req.MaxScore = *rec.MaxScore
	}
	for _, a := range answers {
		choice := a.UserChoiceText
		if choice == "" {
			choice = a.UserChoice
		}
		req.Answers = append(req.Answers, Answer{Question: a.QuestionText, Choice: choice})
	}
	return req
}

func buildUserMessage(req Request) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Test: %s\n", req.TestType))
	if req.MaxScore > 0 {
		b.WriteString(fmt.Sprintf("Score: %d / %d\n", req.Score, req.MaxScore))
	} else {
		b.WriteString(fmt.Sprintf("Score: %d\n", req.Score))
	}
	if req.ResultLabel != "" {
		b.WriteString(fmt.Sprintf("Result: %s\n", req.ResultLabel))
	}

	b.WriteString("\nAnswers:\n")
	if len(req.Answers) == 0 {
		b.WriteString("None\n")
	} else {
		for i, a := range req.Answers {
			b.WriteString(fmt.Sprintf("%d. Q: %s\n   A: %s\n", i+1, a.Question, a.Choice))
		}
	}

	b.WriteString("\nIn the user's own words:\n")
	if s := strings.TrimSpace(req.Supplement); s != "" {
		b.WriteString(s + "\n")
	} else {
		b.WriteString("Nothing added.\n")
	}

	b.WriteString(`
Instructions:
Reply in exactly three numbered sections:
1. Result summary: what the score and answers suggest about the user's current state, in 3-5 sentences.
2. Improvement suggestions: 3-5 concrete, gentle actions the user can take this week.
3. Recommended resources: 2-4 books, exercises or kinds of professional support worth exploring.
End with a one-sentence reminder that this is not a medical diagnosis.`)

	return b.String()
}

// ensureDisclaimer appends Disclaimer unless the text already carries it.
func ensureDisclaimer(text string) string {
	if strings.Contains(strings.ToLower(text), disclaimerMarker) {
		return text
	}
	return strings.TrimRight(text, "\n") + "\n\n" + Disclaimer
}
