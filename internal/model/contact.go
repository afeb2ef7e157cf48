// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Contact inquiry statuses
const (
	InquiryNew     = "new"
	InquiryHandled = "handled"
)

// ContactInquiry is a message submitted through the contact form.
// Reference is the public identifier returned to the submitter.
type ContactInquiry struct {
	ID        int64     `json:"id"`
	Reference string    `json:"reference"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
