package services

import (
	"context"
	"log/slog"

	"caixa/internal/cache"
	"caixa/internal/core"
)

// InvalidationPublisher broadcasts an invalidation to other instances.
// Satisfied by *amqp.Client.
type InvalidationPublisher interface {
	PublishInvalidation(ctx context.Context, scopeKey string, regions []cache.Region) error
}

// Invalidator fans an invalidation out to the local cache registry and,
// when a publisher is configured, over AMQP to the other instances. A nil
// publisher degrades to local-only invalidation.
type Invalidator struct {
	registry  *cache.Registry
	publisher InvalidationPublisher
}

func NewInvalidator(registry *cache.Registry, publisher InvalidationPublisher) *Invalidator {
	return &Invalidator{registry: registry, publisher: publisher}
}

// Invalidate drops the scope's entries from the named regions. The remote
// broadcast is best effort: a publish failure is logged, never returned,
// because the local flush already happened and remote caches expire by TTL
// anyway.
func (i *Invalidator) Invalidate(ctx context.Context, scope core.Scope, regions ...cache.Region) {
	if i == nil {
		return
	}

	key := scope.Key()
	if i.registry != nil {
		if dropped := i.registry.Invalidate(key, regions...); dropped > 0 {
			slog.DebugContext(ctx, "Cache entries invalidated", "scope", key, "dropped", dropped)
		}
	}

	if i.publisher == nil {
		return
	}
	if err := i.publisher.PublishInvalidation(ctx, key, regions); err != nil {
		slog.WarnContext(ctx, "Failed to broadcast cache invalidation",
			"scope", key,
			"error", err)
	}
}
