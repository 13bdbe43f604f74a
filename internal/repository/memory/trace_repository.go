package memory

import (
	"time"

	"risk-copilot-be/pkg/audit"

	"github.com/patrickmn/go-cache"
)

// TraceRepository keeps the most recent pipeline traces in memory. Trace
// persistence is asynchronous, so the review endpoints read from here when
// a request is too fresh to have reached the database yet.
type TraceRepository struct {
	cache *cache.Cache
}

func NewTraceRepository() *TraceRepository {
	// Entries expire after an hour; the database is authoritative after
	// the consumer persists them.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &TraceRepository{
		cache: c,
	}
}

func (r *TraceRepository) Save(messageID string, traces []audit.StageTrace) {
	r.cache.Set(messageID, traces, cache.DefaultExpiration)
}

func (r *TraceRepository) Get(messageID string) ([]audit.StageTrace, bool) {
	if x, found := r.cache.Get(messageID); found {
		return x.([]audit.StageTrace), true
	}
	return nil, false
}

func (r *TraceRepository) Delete(messageID string) {
	r.cache.Delete(messageID)
}
