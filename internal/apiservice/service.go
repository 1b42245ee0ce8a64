// Package apiservice is the per-feature façade over the REST API. Every
// method succeeds: when the API is unreachable or a call fails for any
// reason, reads are served from the fallback data set and writes return a
// locally generated id. Each result carries the Source that served it.
package apiservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/wayss000/Inner-See-sub000/internal/apiclient"
	"github.com/wayss000/Inner-See-sub000/internal/logger"
	"github.com/wayss000/Inner-See-sub000/internal/metrics"
)

// Source identifies which path served a result.
type Source int

const (
	SourceRemote   Source = iota // live API response
	SourceCached                 // API response served from the cache
	SourceFallback               // static fallback data
	SourceLocal                  // value synthesized locally (custom test type, offline ids)
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceCached:
		return "cached"
	case SourceFallback:
		return "fallback"
	case SourceLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Result is a value together with the source that served it.
type Result[T any] struct {
	Data   T
	Source Source
}

// API is the subset of the HTTP client the service uses.
type API interface {
	Get(ctx context.Context, path string, params map[string]any, opts ...apiclient.CallOption) (*apiclient.Response, error)
	Post(ctx context.Context, path string, body any, opts ...apiclient.CallOption) (*apiclient.Response, error)
}

// Pinger reports whether the API is reachable.
type Pinger interface {
	Ping(ctx context.Context) bool
}

// Cache TTLs per resource. Test types change rarely; question lists more often.
const (
	testTypesTTL = time.Hour
	questionsTTL = 30 * time.Minute
	countTTL     = 10 * time.Minute
)

// Service is the domain API façade.
type Service struct {
	api     API
	pinger  Pinger
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	seq atomic.Uint64 // suffix keeping offline ids unique within a millisecond
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = logger.OrNop(l) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source used for offline ids.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service. The pinger is usually the same *apiclient.Client as api.
func New(api API, pinger Pinger, opts ...Option) *Service {
	s := &Service{
		api:    api,
		pinger: pinger,
		log:    logger.Nop(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) online(ctx context.Context) bool {
	if s.api == nil || s.pinger == nil {
		return false
	}
	return s.pinger.Ping(ctx)
}

// fetch performs a GET and decodes the envelope data into out. It reports
// whether the result came from the cache.
func (s *Service) fetch(ctx context.Context, path string, params map[string]any, out any, opts ...apiclient.CallOption) (Source, error) {
	resp, err := s.api.Get(ctx, path, params, opts...)
	if err != nil {
		return 0, err
	}
	if err := resp.Decode(out); err != nil {
		return 0, err
	}
	if resp.Cached {
		return SourceCached, nil
	}
	return SourceRemote, nil
}

func (s *Service) served(op string, src Source) {
	s.metrics.ObserveSource(op, src.String())
}

func (s *Service) fellBack(op string, err error) {
	if err != nil {
		s.log.Debug("serving fallback data", "operation", op, "error", err.Error())
	} else {
		s.log.Debug("serving fallback data", "operation", op, "reason", "offline")
	}
	s.served(op, SourceFallback)
}

func escape(id string) string {
	return url.PathEscape(id)
}

// offlineID builds a placeholder id "<prefix>_<unix-ms>_<seq>" for a write
// accepted while offline.
func (s *Service) offlineID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, s.now().UnixMilli(), s.seq.Add(1))
}

// idPayload is the data of a create response.
type idPayload struct {
	ID string `json:"id"`
}

func (s *Service) create(ctx context.Context, op, path, prefix string, body any) Result[string] {
	if !s.online(ctx) {
		s.log.Debug("offline write accepted locally", "operation", op)
		s.served(op, SourceLocal)
		return Result[string]{Data: s.offlineID(prefix), Source: SourceLocal}
	}

	resp, err := s.api.Post(ctx, path, body)
	if err == nil {
		var out idPayload
		if err = resp.Decode(&out); err == nil && out.ID != "" {
			s.served(op, SourceRemote)
			return Result[string]{Data: out.ID, Source: SourceRemote}
		}
		if err == nil {
			err = fmt.Errorf("create response has no id")
		}
	}

	s.log.Debug("write failed, using local id", "operation", op, "error", err.Error())
	s.served(op, SourceLocal)
	return Result[string]{Data: s.offlineID(prefix), Source: SourceLocal}
}

// decodeList guards against a null list decoding into a nil slice.
func decodeList[T any](raw json.RawMessage) []T {
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []T{}
	}
	return out
}
