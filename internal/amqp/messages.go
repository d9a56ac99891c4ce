package amqp

import (
	"encoding/json"
	"time"

	"caixa/internal/cache"
)

// InvalidationMessage tells every running instance to drop the named cache
// regions for one scope. It carries no row data; consumers refetch from the
// store on the next read.
type InvalidationMessage struct {
	ScopeKey  string    `json:"scope_key"`
	Regions   []string  `json:"regions"`
	Timestamp time.Time `json:"timestamp"`
}

// NewInvalidationMessage creates an invalidation message for a scope and a
// set of regions.
func NewInvalidationMessage(scopeKey string, regions []cache.Region) *InvalidationMessage {
	names := make([]string, len(regions))
	for i, r := range regions {
		names[i] = string(r)
	}
	return &InvalidationMessage{
		ScopeKey:  scopeKey,
		Regions:   names,
		Timestamp: time.Now(),
	}
}

// CacheRegions converts the wire region names back to typed regions,
// dropping unknown names so old producers cannot poison new consumers.
func (m *InvalidationMessage) CacheRegions() []cache.Region {
	out := make([]cache.Region, 0, len(m.Regions))
	for _, name := range m.Regions {
		if r := cache.Region(name); r.Valid() {
			out = append(out, r)
		}
	}
	return out
}

// ToJSON converts the message to JSON bytes
func (m *InvalidationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// InvalidationMessageFromJSON creates a message from JSON bytes
func InvalidationMessageFromJSON(data []byte) (*InvalidationMessage, error) {
	var msg InvalidationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
