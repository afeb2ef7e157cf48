// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs such as the navigation
// integrity audit, cache warm-up and event retention.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/creative-api/internal/logging"
)

// ErrJobNotFound is returned when a job name is not registered.
var ErrJobNotFound = errors.New("job not found")

// DefaultJobTimeout bounds a single job run when Job.Timeout is zero.
const DefaultJobTimeout = 5 * time.Minute

// Job describes a periodic task.
type Job struct {
	Name        string
	Description string
	Schedule    string // cron expression or descriptor such as "@every 15m"; empty disables the job
	Timeout     time.Duration
	Run         func(ctx context.Context) error
}

// Scheduler wraps a cron instance and keeps a registry of its jobs.
type Scheduler struct {
	cron     *cron.Cron
	logger   *slog.Logger
	registry *Registry
}

// New creates a new scheduler instance. Overlapping runs of the same job are skipped.
func New(logger *slog.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	c := cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	return &Scheduler{
		cron:     c,
		logger:   logger,
		registry: newRegistry(c, logger),
	}
}

// Add registers a job. A job with an empty schedule is skipped and reported
// as not added.
func (s *Scheduler) Add(job Job) (bool, error) {
	if job.Name == "" || job.Run == nil {
		return false, errors.New("job needs a name and a run function")
	}
	if job.Schedule == "" {
		s.logger.Info("scheduled job disabled", "job", job.Name)
		return false, nil
	}
	if job.Timeout <= 0 {
		job.Timeout = DefaultJobTimeout
	}

	fn := s.wrap(job)
	entryID, err := s.cron.AddFunc(job.Schedule, fn)
	if err != nil {
		return false, fmt.Errorf("scheduling %s: %w", job.Name, err)
	}
	s.registry.register(job, entryID, fn)
	s.logger.Debug("registered scheduled job", "job", job.Name, "schedule", job.Schedule)
	return true, nil
}

// wrap turns a job into a cron func with a timeout and result logging.
func (s *Scheduler) wrap(job Job) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), job.Timeout)
		defer cancel()

		start := time.Now()
		err := job.Run(ctx)
		s.registry.recordRun(job.Name, start, err)
		if err != nil {
			args := append([]any{"job", job.Name, "duration", time.Since(start).Round(time.Millisecond)},
				logging.ErrorArgs(err)...)
			s.logger.Error("scheduled job failed", args...)
			return
		}
		s.logger.Debug("scheduled job finished", "job", job.Name,
			"duration", time.Since(start).Round(time.Millisecond))
	}
}

// Registry returns the job registry.
func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out with jobs still running")
	}
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
