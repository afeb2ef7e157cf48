// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the read and write use cases behind the HTTP API:
// cached content snapshots with filtering and ordering, the navigation tree,
// contact inquiries and the audit event log.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/olegiv/creative-api/internal/logging"
	"github.com/olegiv/creative-api/internal/model"
	"github.com/olegiv/creative-api/internal/store"
)

// EventService records audit events.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates an EventService.
func NewEventService(queries *store.Queries) *EventService {
	return &EventService{queries: queries}
}

// LogEvent stores an event. Metadata is encoded as a JSON object.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		Metadata:  metadataJSON,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("failed to log event", "error", err, "category", category, logging.Recorded())
		return err
	}
	return nil
}

// LogInfo logs an info-level event.
func (s *EventService) LogInfo(ctx context.Context, category, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, metadata)
}

// LogWarning logs a warning-level event.
func (s *EventService) LogWarning(ctx context.Context, category, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelWarning, category, message, metadata)
}

// LogError logs an error-level event.
func (s *EventService) LogError(ctx context.Context, category, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelError, category, message, metadata)
}

// Recent returns the newest events, optionally limited to one category.
func (s *EventService) Recent(ctx context.Context, category string, limit int) ([]model.Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.queries.ListEvents(ctx, category, limit)
}

// DeleteOlderThan removes events older than age.
func (s *EventService) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	return s.queries.DeleteEventsBefore(ctx, time.Now().UTC().Add(-age))
}
