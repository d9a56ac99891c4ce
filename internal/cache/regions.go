package cache

import "sync"

// Region names one of the logical cache regions invalidated after a
// mutation. Every mutating operation touches transactions; amount-bearing
// mutations additionally touch analytics and investment views.
type Region string

const (
	RegionTransactions Region = "transactions"
	RegionAnalytics    Region = "analytics"
	RegionInvestment   Region = "investment"
)

// AllRegions returns every known region, in a stable order.
func AllRegions() []Region {
	return []Region{RegionTransactions, RegionAnalytics, RegionInvestment}
}

// Valid reports whether r names a known region.
func (r Region) Valid() bool {
	switch r {
	case RegionTransactions, RegionAnalytics, RegionInvestment:
		return true
	}
	return false
}

// Flusher drops cached entries belonging to one scope.
type Flusher interface {
	Flush(scopeKey string) int
}

// Registry routes invalidation signals to the caches registered per region.
// It is the local sink for both in-process invalidations and AMQP
// broadcasts from other instances.
type Registry struct {
	mu       sync.RWMutex
	flushers map[Region][]Flusher
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{flushers: make(map[Region][]Flusher)}
}

// Register attaches a flusher to a region.
func (r *Registry) Register(region Region, f Flusher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushers[region] = append(r.flushers[region], f)
}

// Invalidate flushes the given scope from every cache registered for the
// named regions. Returns the number of entries dropped.
func (r *Registry) Invalidate(scopeKey string, regions ...Region) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dropped := 0
	for _, region := range regions {
		for _, f := range r.flushers[region] {
			dropped += f.Flush(scopeKey)
		}
	}
	return dropped
}
