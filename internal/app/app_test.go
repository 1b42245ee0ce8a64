package app

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayss000/Inner-See-sub000/internal/apiclient"
	"github.com/wayss000/Inner-See-sub000/internal/apiservice"
	"github.com/wayss000/Inner-See-sub000/internal/config"
	"github.com/wayss000/Inner-See-sub000/internal/domain"
	"github.com/wayss000/Inner-See-sub000/internal/llm"
)

// offlineConfig points the API at a closed server so every call fails fast.
func offlineConfig(t *testing.T) config.Config {
	t.Helper()
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	api := apiclient.DefaultConfig()
	api.BaseURL = url
	api.RetryCount = 0
	api.Timeout = 500 * time.Millisecond
	api.HealthTimeout = 200 * time.Millisecond

	return config.Config{
		API:     api,
		LLM:     llm.Config{Provider: "mock"},
		DBPath:  filepath.Join(t.TempDir(), "nested", "app.db"),
		LogMode: "dev",
	}
}

func TestNew_WiresComponents(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, offlineConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	assert.NotNil(t, a.Store)
	assert.NotNil(t, a.Service)
	assert.NotNil(t, a.LLM)
	assert.NotNil(t, a.Analysis)
	assert.Nil(t, a.Bank)

	res := a.Service.GetTestTypes(ctx)
	assert.Equal(t, apiservice.SourceFallback, res.Source)
	assert.NotEmpty(t, res.Data)

	user, err := a.Store.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestWriteMetrics_ReportsDataSource(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, offlineConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	a.Service.GetTestTypes(ctx)
	a.Service.CreateUserAnswer(ctx, domain.UserAnswer{})

	var buf bytes.Buffer
	require.NoError(t, a.WriteMetrics(&buf))
	out := buf.String()
	assert.Contains(t, out, `innersee_data_source_total{operation="GetTestTypes",source="fallback"} 1`)
	assert.Contains(t, out, `source="local"`)
}

func TestNew_WithoutAIProvider(t *testing.T) {
	cfg := offlineConfig(t)
	cfg.LLM = llm.Config{Provider: "openai"}

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	assert.Nil(t, a.LLM)
	assert.Nil(t, a.Analysis)
	_, err = a.Quiz.Enrich(context.Background(), "any", "")
	assert.Error(t, err)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := offlineConfig(t)
	cfg.API.RetryCount = -1
	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNew_MissingQuestionBank(t *testing.T) {
	cfg := offlineConfig(t)
	cfg.QuestionBankPath = filepath.Join(t.TempDir(), "missing-bank.db")
	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestForwardResume_SweepsCache(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := New(ctx, offlineConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	a.Cache.Set("stale", "value", time.Millisecond)
	a.Cache.Set("fresh", "value", time.Hour)
	time.Sleep(5 * time.Millisecond)

	sigs := make(chan os.Signal, 1)
	go a.forwardResume(ctx, sigs)
	sigs <- os.Interrupt

	require.Eventually(t, func() bool { return a.Cache.Len() == 1 }, time.Second, 10*time.Millisecond)
	_, ok := a.Cache.Get("fresh")
	assert.True(t, ok)
}
