package repositories

import (
	"context"
	gocache "github.com/patrickmn/go-cache"
	"time"

	"github.com/Thomas-Grushka/vasya-bot/internal/entities"
)

type activeTargetsRepository interface {
	GetActive(ctx context.Context) ([]entities.Target, error)
}

// CachedTargets shields the database from jobs that can tolerate a
// slightly stale target list, like the promotional sender. The ingestion
// job reads the plain repository instead.
type CachedTargets struct {
	repo  activeTargetsRepository
	cache *gocache.Cache
}

const activeTargetsKey = "active_targets"

func NewCachedTargets(repo activeTargetsRepository) *CachedTargets {
	return &CachedTargets{repo: repo, cache: gocache.New(30*time.Second, time.Minute)}
}

func (c CachedTargets) GetActive(ctx context.Context) ([]entities.Target, error) {
	if value, found := c.cache.Get(activeTargetsKey); found {
		return value.([]entities.Target), nil
	}

	targets, err := c.repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	if err = c.cache.Add(activeTargetsKey, targets, gocache.DefaultExpiration); err != nil {
		return targets, err
	}

	return targets, nil
}
