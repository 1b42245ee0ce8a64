// Package app wires every component once per process and owns their
// lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wayss000/Inner-See-sub000/internal/analysis"
	"github.com/wayss000/Inner-See-sub000/internal/apiclient"
	"github.com/wayss000/Inner-See-sub000/internal/apiservice"
	"github.com/wayss000/Inner-See-sub000/internal/cache"
	"github.com/wayss000/Inner-See-sub000/internal/config"
	"github.com/wayss000/Inner-See-sub000/internal/llm"
	"github.com/wayss000/Inner-See-sub000/internal/logger"
	"github.com/wayss000/Inner-See-sub000/internal/metrics"
	"github.com/wayss000/Inner-See-sub000/internal/questionbank"
	"github.com/wayss000/Inner-See-sub000/internal/quiz"
	"github.com/wayss000/Inner-See-sub000/internal/store"
)

// App holds the shared instances. Bank and Analysis are nil when their
// backing resource is not configured.
type App struct {
	Config   config.Config
	Log      *logger.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Cache    *cache.Manager
	Client   *apiclient.Client
	Service  *apiservice.Service
	Store    *store.Store
	Bank     *questionbank.Bank
	LLM      llm.Provider
	Analysis *analysis.Service
	Quiz     *quiz.Submitter
}

// New builds and initializes every component from cfg.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log = logger.OrNop(log)

	a := &App{
		Config:   cfg,
		Log:      log,
		Registry: prometheus.NewRegistry(),
	}
	a.Metrics = metrics.New(a.Registry)
	a.Cache = cache.New(cache.WithDefaultTTL(cfg.API.CacheTTL))
	a.Client = apiclient.New(cfg.API, a.Cache,
		apiclient.WithLogger(log.With("component", "apiclient")),
		apiclient.WithMetrics(a.Metrics),
	)
	a.Service = apiservice.New(a.Client, a.Client,
		apiservice.WithLogger(log.With("component", "apiservice")),
		apiservice.WithMetrics(a.Metrics),
	)

	if err := store.EnsureDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	a.Store = store.New(cfg.DBPath, log.With("component", "store"))
	if err := a.Store.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	if cfg.QuestionBankPath != "" {
		bank, err := questionbank.Open(ctx, cfg.QuestionBankPath, a.Cache,
			questionbank.WithLogger(log.With("component", "questionbank")))
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open question bank: %w", err)
		}
		a.Bank = bank
	}

	// AI analysis is optional; the rest of the app works without it.
	var analyzer quiz.Analyzer
	if err := cfg.LLM.Validate(); err != nil {
		log.Info("AI analysis unavailable", "reason", err.Error())
	} else {
		provider, err := llm.NewProvider(ctx, cfg.LLM, a.Store, log.With("component", "llm"))
		if err != nil {
			log.Warn("AI provider setup failed", "provider", cfg.LLM.Provider, "error", err.Error())
		} else {
			a.LLM = provider
			a.Analysis = analysis.NewService(provider, analysis.DefaultConfig(),
				analysis.WithLogger(log.With("component", "analysis")),
				analysis.WithMetrics(a.Metrics),
			)
			analyzer = a.Analysis
		}
	}

	a.Quiz = quiz.NewSubmitter(a.Store, analyzer, quiz.WithLogger(log.With("component", "quiz")))
	return a, nil
}

// Close releases the store and the question bank.
func (a *App) Close() error {
	var errs []error
	if a.Bank != nil {
		errs = append(errs, a.Bank.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	a.Log.Sync()
	return errors.Join(errs...)
}

// WriteMetrics writes the metrics collected so far in the Prometheus text
// format.
func (a *App) WriteMetrics(w io.Writer) error {
	return metrics.WriteText(w, a.Registry)
}

// forwardResume turns process resume signals into foreground notifications
// for the API client until ctx is done.
func (a *App) forwardResume(ctx context.Context, sigs <-chan os.Signal) {
	foreground := make(chan struct{}, 1)
	go a.Client.WatchForeground(ctx, foreground)
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigs:
			a.Log.Debug("process resumed, sweeping expired cache entries")
			select {
			case foreground <- struct{}{}:
			default:
			}
		}
	}
}
