package tools

import (
	"context"

	"github.com/jonwraymond/ghtools/cache"
	"github.com/jonwraymond/ghtools/observe"
	"github.com/jonwraymond/ghtools/resilience"
)

// Stats is the cache_stats response.
type Stats struct {
	Cache   cache.Stats              `json:"cache"`
	Caching bool                     `json:"caching_enabled"`
	TTLMs   map[string]int64         `json:"ttl_ms"`
	Logs    *observe.LogStats        `json:"logs,omitempty"`
	Limits  resilience.ExecutorStats `json:"limits"`
}

func (r *Registry) stats(ctx context.Context) Stats {
	s := Stats{
		Cache:   r.cache.Stats(ctx),
		Caching: r.policy.ShouldCache(),
		TTLMs:   make(map[string]int64),
		Limits:  r.exec.Stats(),
	}
	for _, res := range cache.Resources() {
		s.TTLMs[res.String()] = r.policy.TTLFor(res).Milliseconds()
	}
	if r.recorder != nil {
		logs := r.recorder.Stats()
		s.Logs = &logs
	}
	return s
}
