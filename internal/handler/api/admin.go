// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/creative-api/internal/cache"
	"github.com/olegiv/creative-api/internal/model"
	"github.com/olegiv/creative-api/internal/scheduler"
)

// ListEvents handles GET /api/v1/events
// Admin only. Optional ?category= and ?limit= parameters.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		WriteNotFound(w, "Event log is disabled")
		return
	}

	q := r.URL.Query()
	events, err := h.events.Recent(r.Context(), q.Get("category"), parsePositiveInt(q.Get("limit"), 0))
	if err != nil {
		writeServiceError(w, r, err, "events")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	WriteSuccess(w, events, nil)
}

// CacheStatusResponse describes the content cache.
type CacheStatusResponse struct {
	Backend string `json:"backend"`
	cache.Stats
}

// GetCacheStatus handles GET /api/v1/cache
// Admin only.
func (h *Handler) GetCacheStatus(w http.ResponseWriter, r *http.Request) {
	m := h.content.Manager()
	WriteSuccess(w, CacheStatusResponse{Backend: m.Kind(), Stats: m.Stats()}, nil)
}

// InvalidateCache handles POST /api/v1/cache/invalidate
// Admin only. Drops cached snapshots and navigation trees.
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	if err := h.content.Invalidate(r.Context()); err != nil {
		slog.Error("cache invalidation failed", "error", err)
		WriteInternalError(w, "Failed to invalidate cache")
		return
	}
	if h.events != nil {
		_ = h.events.LogInfo(r.Context(), model.EventCategoryCache, "Content cache invalidated", nil)
	}
	WriteSuccess(w, map[string]string{"status": "invalidated"}, nil)
}

// ListJobs handles GET /api/v1/jobs
// Admin only.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		WriteSuccess(w, []scheduler.JobInfo{}, nil)
		return
	}
	WriteSuccess(w, h.jobs.List(), nil)
}

// TriggerJob handles POST /api/v1/jobs/{name}/run
// Admin only. The job runs in the background.
func (h *Handler) TriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if h.jobs == nil {
		WriteNotFound(w, "Job not found")
		return
	}
	if err := h.jobs.TriggerNow(name); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			WriteNotFound(w, "Job not found")
			return
		}
		WriteInternalError(w, "Failed to trigger job")
		return
	}
	WriteJSON(w, http.StatusAccepted, Response{Data: map[string]string{"job": name, "status": "triggered"}})
}
