// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// registeredJob holds metadata about a registered cron job.
type registeredJob struct {
	job       Job
	entryID   cron.EntryID
	fn        func()
	lastRun   time.Time
	lastError string
	runs      int
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Schedule    string    `json:"schedule"`
	LastRun     time.Time `json:"last_run,omitzero"`
	NextRun     time.Time `json:"next_run,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
	Runs        int       `json:"runs"`
}

// Registry tracks scheduled jobs and their last results.
type Registry struct {
	cron   *cron.Cron
	logger *slog.Logger
	mu     sync.RWMutex
	jobs   map[string]*registeredJob
}

func newRegistry(c *cron.Cron, logger *slog.Logger) *Registry {
	return &Registry{
		cron:   c,
		logger: logger,
		jobs:   make(map[string]*registeredJob),
	}
}

func (r *Registry) register(job Job, entryID cron.EntryID, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.Name] = &registeredJob{job: job, entryID: entryID, fn: fn}
}

func (r *Registry) recordRun(name string, start time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[name]
	if !ok {
		return
	}
	j.lastRun = start
	j.runs++
	j.lastError = ""
	if err != nil {
		j.lastError = err.Error()
	}
}

// List returns all registered jobs sorted by name.
func (r *Registry) List() []JobInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]JobInfo, 0, len(r.jobs))
	for _, j := range r.jobs {
		result = append(result, JobInfo{
			Name:        j.job.Name,
			Description: j.job.Description,
			Schedule:    j.job.Schedule,
			LastRun:     j.lastRun,
			NextRun:     r.cron.Entry(j.entryID).Next,
			LastError:   j.lastError,
			Runs:        j.runs,
		})
	}

	sort.Slice(result, func(i, k int) bool { return result[i].Name < result[k].Name })
	return result
}

// TriggerNow runs a job in the background without waiting for its schedule.
func (r *Registry) TriggerNow(name string) error {
	r.mu.RLock()
	j, ok := r.jobs[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	r.logger.Info("manually triggering job", "job", name)
	go j.fn()
	return nil
}

// RunNow runs a job synchronously and returns its error. Used at startup and in tests.
func (r *Registry) RunNow(name string) error {
	r.mu.RLock()
	j, ok := r.jobs[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	j.fn()

	r.mu.RLock()
	defer r.mu.RUnlock()
	if j.lastError != "" {
		return fmt.Errorf("%s: %s", name, j.lastError)
	}
	return nil
}
