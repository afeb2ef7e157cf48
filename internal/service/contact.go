// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/olegiv/creative-api/internal/format"
	"github.com/olegiv/creative-api/internal/model"
	"github.com/olegiv/creative-api/internal/store"
)

// Contact field limits.
const (
	maxNameLength    = 255
	maxEmailLength   = 254
	maxPhoneLength   = 50
	maxCompanyLength = 255
	maxSubjectLength = 5000
)

// ValidationError maps field names to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return "invalid input: " + strings.Join(keys, ", ")
}

// ContactInput is a contact form submission.
type ContactInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
	Subject  string `json:"subject"`
}

// ContactService stores and lists contact inquiries.
type ContactService struct {
	queries *store.Queries
	events  *EventService
}

// NewContactService creates a ContactService. events may be nil.
func NewContactService(queries *store.Queries, events *EventService) *ContactService {
	return &ContactService{queries: queries, events: events}
}

// Validate strips markup from in and checks required fields and lengths.
func (in *ContactInput) Validate() error {
	in.FullName = format.PlainText(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = format.PlainText(in.Phone)
	in.Company = format.PlainText(in.Company)
	in.Subject = format.PlainText(in.Subject)

	errs := make(map[string]string)
	required := func(field, value string, limit int) {
		switch {
		case value == "":
			errs[field] = "This field is required"
		case utf8.RuneCountInString(value) > limit:
			errs[field] = fmt.Sprintf("Must be at most %d characters", limit)
		}
	}
	required("full_name", in.FullName, maxNameLength)
	required("email", in.Email, maxEmailLength)
	required("subject", in.Subject, maxSubjectLength)

	if _, ok := errs["email"]; !ok {
		if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
			errs["email"] = "Enter a valid email address"
		}
	}
	if utf8.RuneCountInString(in.Phone) > maxPhoneLength {
		errs["phone"] = fmt.Sprintf("Must be at most %d characters", maxPhoneLength)
	}
	if utf8.RuneCountInString(in.Company) > maxCompanyLength {
		errs["company"] = fmt.Sprintf("Must be at most %d characters", maxCompanyLength)
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Submit validates and stores an inquiry and returns it with its public
// reference.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (model.ContactInquiry, error) {
	if err := in.Validate(); err != nil {
		return model.ContactInquiry{}, err
	}

	inquiry, err := s.queries.CreateContactInquiry(ctx, model.ContactInquiry{
		Reference: uuid.NewString(),
		FullName:  in.FullName,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		Subject:   in.Subject,
		Status:    model.InquiryNew,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return model.ContactInquiry{}, err
	}

	slog.Info("contact inquiry received", "reference", inquiry.Reference)
	if s.events != nil {
		_ = s.events.LogInfo(ctx, model.EventCategoryContact, "Contact inquiry received", map[string]any{
			"reference": inquiry.Reference,
		})
	}
	return inquiry, nil
}

// List returns inquiries newest first, optionally filtered by status.
func (s *ContactService) List(ctx context.Context, status string, page, perPage int) (Page[model.ContactInquiry], error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	perPage = min(perPage, MaxPerPage)
	page = max(page, 1)

	total, err := s.queries.CountContactInquiries(ctx, status)
	if err != nil {
		return Page[model.ContactInquiry]{}, err
	}
	items, err := s.queries.ListContactInquiries(ctx, status, perPage, pageOffset(page, perPage, int(total)))
	if err != nil {
		return Page[model.ContactInquiry]{}, err
	}
	if items == nil {
		items = []model.ContactInquiry{}
	}
	return Page[model.ContactInquiry]{Items: items, Total: int(total), Page: page, PerPage: perPage}, nil
}

// Get returns one inquiry.
func (s *ContactService) Get(ctx context.Context, id int64) (model.ContactInquiry, error) {
	inquiry, err := s.queries.GetContactInquiry(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ContactInquiry{}, ErrNotFound
	}
	return inquiry, err
}

// MarkHandled sets an inquiry's status to handled.
func (s *ContactService) MarkHandled(ctx context.Context, id int64) error {
	err := s.queries.UpdateContactInquiryStatus(ctx, id, model.InquiryHandled)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ByReference returns an inquiry by its public reference.
func (s *ContactService) ByReference(ctx context.Context, ref string) (model.ContactInquiry, error) {
	if _, err := uuid.Parse(ref); err != nil {
		return model.ContactInquiry{}, ErrNotFound
	}
	inquiry, err := s.queries.GetContactInquiryByReference(ctx, ref)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ContactInquiry{}, ErrNotFound
	}
	return inquiry, err
}
