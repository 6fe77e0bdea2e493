package usecase

import (
	"context"
	"strconv"
	"time"
)

const jobListCachePrefix = "jobs:list:"

type JobListCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// GenerationLock is a short-lived, best-effort mutex. Storage constraints stay authoritative.
type GenerationLock interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

func JobListCacheKey(limit, offset int) string {
	return jobListCachePrefix + strconv.Itoa(limit) + ":" + strconv.Itoa(offset)
}

func ContractGenerationLockKey(applicationID string) string {
	return "contracts:generate:lock:" + applicationID
}
