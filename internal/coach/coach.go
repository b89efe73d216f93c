// Package coach turns dataset statistics into a structured coaching report,
// either through an LLM provider or a deterministic fallback, with a TTL
// cache so repeated dashboard loads do not re-bill the model.
package coach

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"forex-journal/internal/interfaces"
	"forex-journal/internal/logger"
	"forex-journal/internal/metrics"
	"forex-journal/internal/types"
)

// Service caches advisor output per dataset. Reports are versioned so a
// prompt change invalidates everything previously cached.
type Service struct {
	advisor interfaces.Advisor
	cache   *ristretto.Cache
	ttl     time.Duration
	version int
}

// NewService builds the coaching service around an advisor.
func NewService(advisor interfaces.Advisor, ttl time.Duration, version int) (*Service, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("init coaching cache: %w", err)
	}
	return &Service{advisor: advisor, cache: c, ttl: ttl, version: version}, nil
}

func (s *Service) cacheKey(dataset string) string {
	return fmt.Sprintf("coaching:v%d:%s", s.version, dataset)
}

// Report returns the coaching report for a dataset, serving a cached copy
// when one is fresh. The bool reports whether the result came from cache.
func (s *Service) Report(ctx context.Context, dataset string, trades []types.Trade) (types.CoachingReport, bool, error) {
	key := s.cacheKey(dataset)
	if v, ok := s.cache.Get(key); ok {
		if report, ok := v.(types.CoachingReport); ok {
			logger.Coaching(ctx, dataset, report.Provider, true)
			return report, true, nil
		}
	}

	summary := metrics.Summarize(trades)
	report, err := s.advisor.Advise(ctx, summary, trades)
	if err != nil {
		return types.CoachingReport{}, false, err
	}
	report.GeneratedAt = time.Now().UTC().Format(time.RFC3339)

	s.cache.SetWithTTL(key, report, 1, s.ttl)
	// Ristretto admits writes asynchronously; wait so the very next request
	// already hits the cache.
	s.cache.Wait()
	logger.Coaching(ctx, dataset, report.Provider, false)
	return report, false, nil
}

// Invalidate drops the cached report for a dataset, called after an import
// replaces the partition.
func (s *Service) Invalidate(dataset string) {
	s.cache.Del(s.cacheKey(dataset))
}
