package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
)

func TestTestTypesHaveUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, tt := range TestTypes() {
		assert.False(t, seen[tt.ID], "duplicate id %s", tt.ID)
		seen[tt.ID] = true
	}
}

func TestEverySampleQuestionPayloadParses(t *testing.T) {
	for _, tt := range TestTypes() {
		qs := Questions(tt.ID)
		require.NotEmpty(t, qs, tt.ID)
		for _, q := range qs {
			_, err := domain.ParseOptions(q.Options)
			assert.NoError(t, err, q.ID)
			_, err = domain.ParseScoreMapping(q.ScoreMapping)
			assert.NoError(t, err, q.ID)
			assert.Equal(t, tt.ID, q.TestTypeID)
		}
	}
}

func TestTestType(t *testing.T) {
	tt, ok := TestType("mental-health")
	require.True(t, ok)
	assert.Equal(t, "Mental Health Check", tt.Name)

	tt, ok = TestType("CAT-002")
	require.True(t, ok)
	assert.Equal(t, "personality", tt.ID)

	tt, ok = TestType(domain.CustomTestTypeID)
	require.True(t, ok)
	assert.Equal(t, domain.CustomTestTypeID, tt.ID)

	_, ok = TestType("nope")
	assert.False(t, ok)
}

func TestPage(t *testing.T) {
	assert.Len(t, Page("mental-health", 1, 2), 2)
	assert.Len(t, Page("mental-health", 2, 2), 1)
	assert.Empty(t, Page("mental-health", 3, 2))
	assert.Len(t, Page("mental-health", 1, 0), 3)

	assert.True(t, HasMore("mental-health", 1, 2))
	assert.False(t, HasMore("mental-health", 2, 2))
	assert.Equal(t, 3, Count("mental-health"))
	assert.Equal(t, 0, Count("unknown"))
}

func TestSearch(t *testing.T) {
	got := Search("SLEEP", "")
	require.Len(t, got, 1)
	assert.Equal(t, "mh-003", got[0].QuestionID)

	assert.Empty(t, Search("sleep", "personality"))
	assert.Len(t, Search("", "stress-assessment"), 3)
}

func TestRecommendedIsDeterministic(t *testing.T) {
	assert.Equal(t, Recommended("personality", 2), Recommended("personality", 2))
	assert.Len(t, Recommended("personality", 2), 2)
	assert.Len(t, Recommended("personality", 10), 3)
}

func TestAccessorsReturnCopies(t *testing.T) {
	qs := Questions("relationship")
	qs[0].QuestionText = "mutated"
	assert.NotEqual(t, "mutated", Questions("relationship")[0].QuestionText)

	types := TestTypes()
	types[0].Name = "mutated"
	assert.NotEqual(t, "mutated", TestTypes()[0].Name)
}

func TestQuestionLookup(t *testing.T) {
	q, ok := Question("st-002")
	require.True(t, ok)
	assert.Equal(t, "stress-assessment", q.TestTypeID)

	q2, ok := Question("fallback-st-002")
	require.True(t, ok)
	assert.Equal(t, q, q2)
}
