// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/olegiv/creative-api/internal/model"
)

const contactColumns = `id, reference, full_name, email, phone, company, subject, status, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInquiry(s rowScanner) (model.ContactInquiry, error) {
	var c model.ContactInquiry
	err := s.Scan(&c.ID, &c.Reference, &c.FullName, &c.Email, &c.Phone, &c.Company, &c.Subject, &c.Status, &c.CreatedAt)
	return c, err
}

// CreateContactInquiry stores a new inquiry and returns it with its ID.
func (q *Queries) CreateContactInquiry(ctx context.Context, c model.ContactInquiry) (model.ContactInquiry, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO contact_inquiries (reference, full_name, email, phone, company, subject, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Reference, c.FullName, c.Email, c.Phone, c.Company, c.Subject, c.Status, c.CreatedAt)
	if err != nil {
		return c, fmt.Errorf("creating contact inquiry: %w", err)
	}
	c.ID, err = res.LastInsertId()
	return c, err
}

// GetContactInquiry returns an inquiry by ID. A missing row yields sql.ErrNoRows.
func (q *Queries) GetContactInquiry(ctx context.Context, id int64) (model.ContactInquiry, error) {
	return scanInquiry(q.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contact_inquiries WHERE id = ?`, id))
}

// GetContactInquiryByReference returns an inquiry by its public reference.
func (q *Queries) GetContactInquiryByReference(ctx context.Context, ref string) (model.ContactInquiry, error) {
	return scanInquiry(q.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contact_inquiries WHERE reference = ?`, ref))
}

// ListContactInquiries returns inquiries newest first, optionally filtered by status.
func (q *Queries) ListContactInquiries(ctx context.Context, status string, limit, offset int) ([]model.ContactInquiry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contact_inquiries
		 WHERE (? = '' OR status = ?)
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`, status, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying contact inquiries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.ContactInquiry
	for rows.Next() {
		c, err := scanInquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact inquiry: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountContactInquiries counts inquiries, optionally filtered by status.
func (q *Queries) CountContactInquiries(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_inquiries WHERE (? = '' OR status = ?)`, status, status).Scan(&n)
	return n, err
}

// UpdateContactInquiryStatus sets the status of an inquiry.
func (q *Queries) UpdateContactInquiryStatus(ctx context.Context, id int64, status string) error {
	res, err := q.db.ExecContext(ctx, `UPDATE contact_inquiries SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("updating contact inquiry %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("updating contact inquiry %d: %w", id, sql.ErrNoRows)
	}
	return nil
}
