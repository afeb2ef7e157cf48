// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/olegiv/creative-api/internal/locale"
	"github.com/olegiv/creative-api/internal/model"
)

// Seed creates a starter header navigation and FAQ on an empty database.
// It does nothing if any navigation link already exists.
func Seed(ctx context.Context, db *sql.DB, defaultLang string) error {
	queries := New(db).WithDefaultLanguage(defaultLang)

	var count int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nav_links`).Scan(&count); err != nil {
		return fmt.Errorf("checking for navigation: %w", err)
	}
	if count > 0 {
		slog.Info("navigation already exists, skipping seed")
		return nil
	}

	return queries.InTx(ctx, func(q *Queries) error {
		links := []struct {
			title    locale.Text
			url      string
			order    int
			children []model.NavLink
		}{
			{title: locale.NewText("Home").With("az", "Ana səhifə").With("ru", "Главная"), url: "/", order: 0},
			{title: locale.NewText("Services").With("az", "Xidmətlər").With("ru", "Услуги"), url: "/services", order: 1},
			{title: locale.NewText("Portfolio").With("az", "Portfolio").With("ru", "Портфолио"), url: "/portfolio", order: 2},
			{title: locale.NewText("Blog").With("ru", "Блог"), url: "/blog", order: 3},
			{title: locale.NewText("About").With("az", "Haqqımızda").With("ru", "О нас"), url: "/about", order: 4,
				children: []model.NavLink{
					{Fields: locale.Fields{model.FieldTitle: locale.NewText("Team").With("az", "Komanda").With("ru", "Команда")}, URL: "/team", IsActive: true},
					{Fields: locale.Fields{model.FieldTitle: locale.NewText("FAQ").With("ru", "Вопросы")}, URL: "/faq", IsActive: true, Order: 1},
				}},
			{title: locale.NewText("Contact").With("az", "Əlaqə").With("ru", "Контакты"), url: "/contact", order: 5},
		}

		for _, l := range links {
			id, err := q.SaveNavLink(ctx, model.NavLink{
				Fields:   locale.Fields{model.FieldTitle: l.title},
				URL:      l.url,
				IsActive: true,
				Order:    l.order,
			})
			if err != nil {
				return err
			}
			for _, child := range l.children {
				parentID := id
				child.ParentID = &parentID
				if _, err := q.SaveNavLink(ctx, child); err != nil {
					return err
				}
			}
		}

		if _, err := q.SaveFAQ(ctx, model.FAQ{
			Fields: locale.Fields{
				model.FieldQuestion: locale.NewText("How do I start a project?").
					With("ru", "Как начать проект?"),
				model.FieldAnswer: locale.NewText("Send us a message through the contact form.").
					With("ru", "Напишите нам через форму обратной связи."),
			},
			IsActive: true,
		}); err != nil {
			return err
		}

		slog.Info("seeded starter navigation", "links", len(links))
		return nil
	})
}
