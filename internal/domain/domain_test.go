package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions(`[{"value":"0","label":"Never"},{"value":"3","label":"Nearly every day"}]`)
	require.NoError(t, err)
	assert.Equal(t, []QuestionOption{{"0", "Never"}, {"3", "Nearly every day"}}, opts)
}

func TestParseOptions_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `[{"value":`},
		{"empty string", ``},
		{"wrong shape", `{"value":"a"}`},
		{"missing label", `[{"value":"a"}]`},
		{"empty array", `[]`},
		{"numeric value", `[{"value":1,"label":"x"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOptions(tt.raw)
			var corrupt *CorruptRecordError
			require.True(t, errors.As(err, &corrupt), "got %v", err)
			assert.Equal(t, "options", corrupt.Field)
			assert.Equal(t, tt.raw, corrupt.Raw)
		})
	}
}

func TestOptionsOrPlaceholder(t *testing.T) {
	var reported error
	q := Question{Options: "not-json"}
	opts := q.OptionsOrPlaceholder(func(err error) { reported = err })

	assert.Equal(t, PlaceholderOptions(), opts)
	assert.Len(t, opts, 2)
	assert.Error(t, reported)
}

func TestScoreFor(t *testing.T) {
	q := Question{ScoreMapping: `{"0":0,"1":1,"2":2,"3":3}`}
	assert.Equal(t, 2, q.ScoreFor("2", nil))
	assert.Equal(t, 0, q.ScoreFor("9", nil))
	assert.Equal(t, 3, q.MaxScore())

	var reported error
	bad := Question{ScoreMapping: `{"a":"high"}`}
	assert.Equal(t, 0, bad.ScoreFor("a", func(err error) { reported = err }))
	assert.Error(t, reported)
	assert.Equal(t, 0, bad.MaxScore())
}

func TestAIAnalysisResultRoundTrip(t *testing.T) {
	raw, err := EncodeAIAnalysisResult(AIAnalysisResult{Summary: "s", Disclaimer: "d"})
	require.NoError(t, err)

	got, err := ParseAIAnalysisResult(raw)
	require.NoError(t, err)
	assert.Equal(t, "s", got.Summary)

	_, err = ParseAIAnalysisResult(`{"summary":"s","disclaimer":""}`)
	assert.Error(t, err)
}

func TestEncodeScoreMappingIsStable(t *testing.T) {
	assert.Equal(t, `{"a":1,"b":2}`, EncodeScoreMapping(map[string]int{"b": 2, "a": 1}))
}

func TestLabelFor(t *testing.T) {
	opts := []QuestionOption{{"1", "Sometimes"}}
	assert.Equal(t, "Sometimes", LabelFor(opts, "1"))
	assert.Equal(t, "7", LabelFor(opts, "7"))
}

func TestTestTypeIDMapping(t *testing.T) {
	assert.Equal(t, "mental-health", CanonicalTestTypeID("CAT-001"))
	assert.Equal(t, "mental-health", CanonicalTestTypeID("mental-health"))
	assert.Equal(t, "CAT-002", BankCategoryID("personality"))
	assert.Equal(t, "unknown", BankCategoryID("unknown"))
	assert.Equal(t, "CAT-999", CanonicalTestTypeID("CAT-999"))
}

func TestCustomTestType(t *testing.T) {
	ct := CustomTestType()
	assert.Equal(t, CustomTestTypeID, ct.ID)
	assert.Zero(t, ct.QuestionCount)
}
