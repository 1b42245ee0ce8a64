package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
	"github.com/wayss000/Inner-See-sub000/internal/llm"
)

func sampleRequest() Request {
	return Request{
		TestType:    "Stress Assessment",
		Score:       12,
		MaxScore:    20,
		ResultLabel: "Moderate",
		Answers: []Answer{
			{Question: "How often do you feel overwhelmed?", Choice: "Often"},
			{Question: "How well do you sleep?", Choice: "Poorly"},
		},
		Supplement: "Work has been hectic lately.",
		Model:      "gpt-4o",
	}
}

func TestAnalyze_BuildsRequest(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "1. Summary\nYou are under some pressure."})
	svc := NewService(mock, DefaultConfig())

	if _, err := svc.Analyze(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected a single call, got %d", mock.CallCount())
	}

	call := mock.Calls[0]
	if call.System != systemPrompt {
		t.Fatalf("unexpected system prompt %q", call.System)
	}
	if call.Temperature != 0.7 {
		t.Fatalf("expected temperature 0.7, got %v", call.Temperature)
	}
	if call.Model != "gpt-4o" {
		t.Fatalf("expected model override, got %q", call.Model)
	}
	if len(call.Messages) != 1 || call.Messages[0].Role != llm.RoleUser {
		t.Fatalf("expected one user message, got %+v", call.Messages)
	}

	msg := call.Messages[0].Content
	for _, want := range []string{
		"Test: Stress Assessment",
		"Score: 12 / 20",
		"Result: Moderate",
		"1. Q: How often do you feel overwhelmed?\n   A: Often",
		"2. Q: How well do you sleep?\n   A: Poorly",
		"Work has been hectic lately.",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestAnalyze_AppendsDisclaimer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "1. Summary\nAll good."})
	svc := NewService(mock, DefaultConfig())

	text, err := svc.Analyze(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(text, Disclaimer) {
		t.Fatalf("disclaimer not appended:\n%s", text)
	}
	if !strings.HasPrefix(text, "1. Summary\nAll good.") {
		t.Fatalf("model text altered:\n%s", text)
	}
}

func TestAnalyze_KeepsExistingDisclaimer(t *testing.T) {
	reply := "1. Summary\nAll good.\n\nThis is Not A Medical Diagnosis."
	mock := llm.NewMockProvider(llm.MockResponse{Text: reply})
	svc := NewService(mock, DefaultConfig())

	text, err := svc.Analyze(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != reply {
		t.Fatalf("expected reply unchanged, got:\n%s", text)
	}
}

func TestAnalyze_StatusError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrRequestFailed{StatusCode: 401, Err: errors.New("invalid api key")},
	})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Analyze(context.Background(), sampleRequest())
	if err == nil {
		t.Fatal("expected error")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if se.StatusCode != 401 {
		t.Fatalf("expected status 401, got %d", se.StatusCode)
	}
	if err.Error() != "AI request failed with status 401" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAnalyze_EmptyResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Analyze(context.Background(), sampleRequest())
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("expected the provider error to be wrapped, got %v", err)
	}
}

func TestAnalyze_NetworkFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Err: errors.New("dial tcp: connection refused")},
	})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Analyze(context.Background(), sampleRequest())
	if err == nil {
		t.Fatal("expected error")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Fatalf("network failure should not carry a status, got %v", err)
	}
}

func TestNewRequest(t *testing.T) {
	score, maxScore := 7, 12
	end := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := domain.TestRecord{
		ID:            "r1",
		TestTypeID:    "mental-health",
		EndTime:       &end,
		TotalScore:    &score,
		MaxScore:      &maxScore,
		ResultSummary: "Mild",
	}
	answers := []domain.UserAnswer{
		{QuestionText: "Q1", UserChoice: "2", UserChoiceText: "Sometimes"},
		{QuestionText: "Q2", UserChoice: "B"},
	}

	req := NewRequest(domain.TestType{Name: "Mental Health"}, rec, answers, "tired")
	if req.TestType != "Mental Health" || req.Score != 7 || req.ResultLabel != "Mild" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Answers[0].Choice != "Sometimes" || req.Answers[1].Choice != "B" {
		t.Fatalf("unexpected answers: %+v", req.Answers)
	}
	if req.Supplement != "tired" {
		t.Fatalf("unexpected supplement %q", req.Supplement)
	}
	if req.MaxScore != 12 {
		t.Fatalf("max score = %d, want 12", req.MaxScore)
	}
	if msg := buildUserMessage(req); !strings.Contains(msg, "Score: 7 / 12") {
		t.Fatalf("prompt missing score with maximum:\n%s", msg)
	}

	req = NewRequest(domain.TestType{}, rec, nil, "")
	if req.TestType != "mental-health" {
		t.Fatalf("expected test type id fallback, got %q", req.TestType)
	}
}
