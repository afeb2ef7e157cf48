// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/creative-api/internal/cache"
	"github.com/olegiv/creative-api/internal/locale"
	"github.com/olegiv/creative-api/internal/model"
	"github.com/olegiv/creative-api/internal/service"
	"github.com/olegiv/creative-api/internal/store"
)

const testAdminToken = "test-admin-token"

// testEnv bundles an in-memory database, its services and the API router.
type testEnv struct {
	db      *sql.DB
	queries *store.Queries
	set     *locale.Set
	content *service.Content
	events  *service.EventService
	handler *Handler
	router  http.Handler
}

// testDB creates a migrated in-memory SQLite database. A single connection
// keeps every query on the same in-memory database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, store.Migrate(db))
	return db
}

// testSetup creates a test database and API router.
func testSetup(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	set := locale.MustSet("en", "es", "az", "ru")
	queries := store.New(db).WithDefaultLanguage(set.Default())

	manager := cache.NewManager(cache.NewSimpleMemoryCache(time.Hour), "memory", time.Hour)
	t.Cleanup(func() { _ = manager.Close() })

	content := service.NewContent(queries, manager)
	catalog, err := service.NewCatalog(content, set)
	require.NoError(t, err)
	events := service.NewEventService(queries)

	h, err := NewHandler(Deps{
		Catalog:    catalog,
		Navigation: service.NewNavigationService(content, set, events),
		Contact:    service.NewContactService(queries, events),
		Events:     events,
		Content:    content,
	})
	require.NoError(t, err)

	return &testEnv{
		db:      db,
		queries: queries,
		set:     set,
		content: content,
		events:  events,
		handler: h,
		router:  h.Routes(RouteConfig{AdminToken: testAdminToken}),
	}
}

// request runs a request against the router. Headers are given as
// alternating name/value pairs.
func (e *testEnv) request(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) get(t *testing.T, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	return e.request(t, http.MethodGet, target, "", headers...)
}

// decode unmarshals a success response; data is decoded into out.
func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) (T, *Meta) {
	t.Helper()

	var resp struct {
		Data T     `json:"data"`
		Meta *Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp.Data, resp.Meta
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp.Error
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// seedContent fills every content kind with a small multilingual data set.
func (e *testEnv) seedContent(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	q := e.queries

	authorID, err := q.SaveAuthor(ctx, model.Author{Username: "jdoe", FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"})
	require.NoError(t, err)
	tagID, err := q.SaveTag(ctx, model.Tag{
		Slug:   "python",
		Fields: locale.Fields{model.FieldName: locale.NewText("Python")},
	})
	require.NoError(t, err)
	catID, err := q.SaveCategory(ctx, model.Category{
		Fields: locale.Fields{model.FieldName: locale.NewText("Engineering").With("es", "Ingeniería")},
	})
	require.NoError(t, err)

	posts := []model.BlogPost{
		{
			Fields: locale.Fields{
				model.FieldTitle:    locale.NewText("English Technology Post").With("es", "Post Español de Tecnología"),
				model.FieldContent:  locale.NewText("This is about **Django**"),
				model.FieldReadTime: locale.NewText("5 min").With("es", "5 minutos"),
			},
			Date:       day("2024-03-01"),
			Status:     model.StatusPublished,
			Author:     &model.Author{ID: authorID},
			Tags:       []model.Tag{{ID: tagID}},
			Categories: []model.Category{{ID: catID}},
		},
		{
			Fields: locale.Fields{model.FieldTitle: locale.NewText("Design Notes")},
			Date:   day("2024-05-01"),
			Status: model.StatusPublished,
		},
		{
			Fields: locale.Fields{model.FieldTitle: locale.NewText("Unfinished")},
			Date:   day("2024-06-01"),
			Status: model.StatusDraft,
		},
	}
	for _, p := range posts {
		_, err := q.SaveBlogPost(ctx, p)
		require.NoError(t, err)
	}

	techID, err := q.SaveTechnology(ctx, model.Technology{
		Slug:   "go",
		Fields: locale.Fields{model.FieldName: locale.NewText("Go")},
	})
	require.NoError(t, err)
	completed := day("2023-11-20")
	_, err = q.SavePortfolioItem(ctx, model.PortfolioItem{
		Fields: locale.Fields{
			model.FieldTitle:    locale.NewText("Shop").With("ru", "Магазин"),
			model.FieldCategory: locale.NewText("Web").With("ru", "Веб"),
			model.FieldClient:   locale.NewText("Acme"),
		},
		CompletionDate: &completed,
		Technologies:   []model.Technology{{ID: techID}},
	})
	require.NoError(t, err)
	_, err = q.SavePortfolioItem(ctx, model.PortfolioItem{
		Fields: locale.Fields{
			model.FieldTitle:    locale.NewText("Logo"),
			model.FieldCategory: locale.NewText("Branding"),
		},
	})
	require.NoError(t, err)

	require.NoError(t, q.SaveService(ctx, model.Service{
		ID: "web-development",
		Fields: locale.Fields{
			model.FieldTitle:   locale.NewText("Web Development").With("az", "Veb inkişaf"),
			model.FieldDetails: locale.NewText("# Scope\n\nWe build *sites*."),
		},
		Pricing: "from $1000",
		Features: []model.ServiceFeature{
			{Fields: locale.Fields{model.FieldName: locale.NewText("Design")}},
			{Fields: locale.Fields{model.FieldName: locale.NewText("Hosting").With("az", "Hostinq")}, Order: 1},
		},
	}))

	_, err = q.SaveTeamMember(ctx, model.TeamMember{
		Fields: locale.Fields{
			model.FieldName: locale.NewText("Ali"),
			model.FieldRole: locale.NewText("Designer").With("ru", "Дизайнер"),
		},
		SocialLinks: []model.SocialLink{
			{Platform: "linkedin", URL: "https://linkedin.com/in/ali"},
			{Platform: "github", URL: "https://github.com/ali", Order: 1},
		},
	})
	require.NoError(t, err)

	_, err = q.SaveTestimonial(ctx, model.Testimonial{
		Fields: locale.Fields{
			model.FieldName:     locale.NewText("Client"),
			model.FieldThoughts: locale.NewText("Great work").With("es", "Gran trabajo"),
		},
	})
	require.NoError(t, err)

	_, err = q.SaveFAQ(ctx, model.FAQ{
		Fields: locale.Fields{
			model.FieldQuestion: locale.NewText("How long?").With("ru", "Как долго?"),
			model.FieldAnswer:   locale.NewText("Two weeks"),
		},
		IsActive: true,
	})
	require.NoError(t, err)
	_, err = q.SaveFAQ(ctx, model.FAQ{
		Fields:   locale.Fields{model.FieldQuestion: locale.NewText("Hidden?")},
		IsActive: false,
		Order:    1,
	})
	require.NoError(t, err)

	require.NoError(t, store.Seed(ctx, e.db, e.set.Default()))
}
