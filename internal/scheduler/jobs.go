// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Job names.
const (
	JobNavAudit         = "nav-audit"
	JobCacheWarm        = "cache-warm"
	JobEventRetention   = "event-retention"
	JobRateLimitCleanup = "rate-limit-cleanup"
)

// Auditor checks stored navigation links for parent cycles.
type Auditor interface {
	Audit(ctx context.Context) error
}

// Warmer preloads cached content snapshots.
type Warmer interface {
	Warm(ctx context.Context) error
}

// EventPruner deletes old audit events.
type EventPruner interface {
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// LimiterCleaner drops per-client limiter state.
type LimiterCleaner interface {
	Cleanup(maxClients int)
}

// NavAuditJob checks the navigation parent relation. A cycle is reported by the
// auditor itself and surfaces here as a failed run.
func NavAuditJob(a Auditor, schedule string) Job {
	return Job{
		Name:        JobNavAudit,
		Description: "Check navigation links for parent cycles",
		Schedule:    schedule,
		Timeout:     time.Minute,
		Run:         a.Audit,
	}
}

// CacheWarmJob reloads content snapshots that expired from the cache.
func CacheWarmJob(w Warmer, schedule string) Job {
	return Job{
		Name:        JobCacheWarm,
		Description: "Preload content snapshots into the cache",
		Schedule:    schedule,
		Timeout:     time.Minute,
		Run:         w.Warm,
	}
}

// EventRetentionJob deletes events older than retention once a day.
func EventRetentionJob(p EventPruner, retention time.Duration, logger *slog.Logger) Job {
	schedule := "0 3 * * *"
	if retention <= 0 {
		schedule = ""
	}
	return Job{
		Name:        JobEventRetention,
		Description: "Delete audit events past the retention period",
		Schedule:    schedule,
		Run: func(ctx context.Context) error {
			n, err := p.DeleteOlderThan(ctx, retention)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("deleted old events", "count", n, "older_than", retention)
			}
			return nil
		},
	}
}

// RateLimitCleanupJob resets limiter state once it tracks more than maxClients.
func RateLimitCleanupJob(c LimiterCleaner, maxClients int) Job {
	return Job{
		Name:        JobRateLimitCleanup,
		Description: "Drop per-client rate limiter state",
		Schedule:    "@every 10m",
		Timeout:     time.Second,
		Run: func(context.Context) error {
			c.Cleanup(maxClients)
			return nil
		},
	}
}
