// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/creative-api/internal/locale"
	"github.com/olegiv/creative-api/internal/model"
	"github.com/olegiv/creative-api/internal/store"
)

var testSet = locale.MustSet("en", "az", "ru")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testDB creates a migrated in-memory SQLite database on a single connection.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, store.Migrate(db))
	return db
}

func queriesFor(db *sql.DB) *store.Queries {
	return store.New(db).WithDefaultLanguage(testSet.Default())
}

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) Invalidate(context.Context) error {
	f.calls++
	return nil
}

type fakeEvents struct{ messages []string }

func (f *fakeEvents) LogInfo(_ context.Context, category, message string, _ map[string]any) error {
	f.messages = append(f.messages, category+": "+message)
	return nil
}

func text(def string, variants ...string) locale.Text {
	t := locale.NewText(def)
	for i := 0; i+1 < len(variants); i += 2 {
		t = t.With(variants[i], variants[i+1])
	}
	return t
}

// seed fills db with one entity of every kind plus the starter navigation.
func seed(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()
	q := queriesFor(db)

	tagID, err := q.SaveTag(ctx, model.Tag{Slug: "go", Fields: locale.Fields{model.FieldName: text("Go", "ru", "Го")}})
	require.NoError(t, err)
	techID, err := q.SaveTechnology(ctx, model.Technology{Slug: "react", Fields: locale.Fields{model.FieldName: text("React")}})
	require.NoError(t, err)
	catID, err := q.SaveCategory(ctx, model.Category{Fields: locale.Fields{model.FieldName: text("News", "az", "Xəbərlər")}})
	require.NoError(t, err)
	authorID, err := q.SaveAuthor(ctx, model.Author{Username: "jdoe", FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)

	_, err = q.SaveBlogPost(ctx, model.BlogPost{
		Fields: locale.Fields{
			model.FieldTitle:   text("Hello", "ru", "Привет"),
			model.FieldContent: text("# Hi"),
		},
		Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:     model.StatusPublished,
		Author:     &model.Author{ID: authorID, Username: "jdoe"},
		Tags:       []model.Tag{{ID: tagID}},
		Categories: []model.Category{{ID: catID}},
	})
	require.NoError(t, err)

	_, err = q.SavePortfolioItem(ctx, model.PortfolioItem{
		Fields: locale.Fields{
			model.FieldTitle:    text("Shop", "az", "Mağaza"),
			model.FieldCategory: text("Web"),
		},
		Technologies: []model.Technology{{ID: techID}},
	})
	require.NoError(t, err)

	require.NoError(t, q.SaveService(ctx, model.Service{
		ID:     "branding",
		Fields: locale.Fields{model.FieldTitle: text("Branding", "ru", "Брендинг")},
		Features: []model.ServiceFeature{
			{Fields: locale.Fields{model.FieldName: text("Logo", "ru", "Логотип")}},
		},
	}))

	_, err = q.SaveTeamMember(ctx, model.TeamMember{
		Fields:      locale.Fields{model.FieldName: text("Ali"), model.FieldRole: text("Designer", "az", "Dizayner")},
		SocialLinks: []model.SocialLink{{Platform: "github", URL: "https://github.com/ali"}},
	})
	require.NoError(t, err)

	_, err = q.SaveTestimonial(ctx, model.Testimonial{
		Fields: locale.Fields{model.FieldName: text("Client"), model.FieldThoughts: text("Great")},
	})
	require.NoError(t, err)

	require.NoError(t, store.Seed(ctx, db, testSet.Default()))
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := testDB(t)
	seed(t, src)

	var buf bytes.Buffer
	require.NoError(t, NewExporter(queriesFor(src), testSet, testLogger()).ExportToWriter(ctx, &buf))

	dst := testDB(t)
	inv := &fakeInvalidator{}
	events := &fakeEvents{}
	importer := NewImporter(store.New(dst), testSet, inv, events, testLogger())

	result, err := importer.ImportFromReader(ctx, bytes.NewReader(buf.Bytes()), ImportOptions{})
	require.NoError(t, err)
	assert.False(t, result.HasErrors())
	assert.Equal(t, 1, result.Counts[model.EntityBlogPost])
	assert.Equal(t, 1, result.Counts[KindAuthors])
	assert.Equal(t, 1, result.Counts[model.EntityService])
	assert.Equal(t, 8, result.Counts[model.EntityNavLink])
	assert.Equal(t, 1, inv.calls)
	assert.Equal(t, []string{"transfer: Content imported"}, events.messages)

	before, err := NewExporter(queriesFor(src), testSet, testLogger()).Export(ctx)
	require.NoError(t, err)
	after, err := NewExporter(queriesFor(dst), testSet, testLogger()).Export(ctx)
	require.NoError(t, err)

	assert.Equal(t, before.Tags, after.Tags)
	assert.Equal(t, before.Technologies, after.Technologies)
	assert.Equal(t, before.Categories, after.Categories)
	require.Len(t, after.BlogPosts, 1)
	assert.Equal(t, before.BlogPosts[0].Fields, after.BlogPosts[0].Fields)
	require.NotNil(t, after.BlogPosts[0].Author)
	assert.Equal(t, "jdoe", after.BlogPosts[0].Author.Username)
	assert.Equal(t, "Jane", after.BlogPosts[0].Author.FirstName)
	require.Len(t, after.BlogPosts[0].Tags, 1)
	assert.Equal(t, before.BlogPosts[0].Tags[0].ID, after.BlogPosts[0].Tags[0].ID)
	require.Len(t, after.Services, 1)
	require.Len(t, after.Services[0].Features, 1)
	assert.Equal(t, "Логотип", after.Services[0].Features[0].Fields[model.FieldName].Variants["ru"])
	require.Len(t, after.TeamMembers, 1)
	assert.Len(t, after.TeamMembers[0].SocialLinks, 1)

	require.Len(t, after.NavLinks, len(before.NavLinks))
	parents := func(links []model.NavLink) map[int64]int64 {
		out := make(map[int64]int64)
		for _, l := range links {
			if l.ParentID != nil {
				out[l.ID] = *l.ParentID
			}
		}
		return out
	}
	assert.Equal(t, parents(before.NavLinks), parents(after.NavLinks))
}

func TestImport_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	src := testDB(t)
	seed(t, src)
	doc, err := NewExporter(queriesFor(src), testSet, testLogger()).Export(ctx)
	require.NoError(t, err)

	dst := testDB(t)
	importer := NewImporter(store.New(dst), testSet, nil, nil, testLogger())
	_, err = importer.Import(ctx, doc, ImportOptions{})
	require.NoError(t, err)
	_, err = importer.Import(ctx, doc, ImportOptions{})
	require.NoError(t, err)

	after, err := NewExporter(queriesFor(dst), testSet, testLogger()).Export(ctx)
	require.NoError(t, err)
	assert.Len(t, after.BlogPosts, 1)
	assert.Len(t, after.NavLinks, len(doc.NavLinks))
	assert.Len(t, after.FAQs, len(doc.FAQs))
}

func TestImport_DryRun(t *testing.T) {
	ctx := context.Background()
	src := testDB(t)
	seed(t, src)
	doc, err := NewExporter(queriesFor(src), testSet, testLogger()).Export(ctx)
	require.NoError(t, err)

	dst := testDB(t)
	inv := &fakeInvalidator{}
	result, err := NewImporter(store.New(dst), testSet, inv, nil, testLogger()).Import(ctx, doc, ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Counts[model.EntityBlogPost])
	assert.Positive(t, result.Total())
	assert.Zero(t, inv.calls)

	links, err := store.New(dst).NavLinks(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func validDoc() *Document {
	parent := int64(1)
	return &Document{
		Version:         DocumentVersion,
		DefaultLanguage: "en",
		Tags:            []model.Tag{{ID: 1, Slug: "go", Fields: locale.Fields{model.FieldName: text("Go")}}},
		BlogPosts: []model.BlogPost{{
			ID:     1,
			Fields: locale.Fields{model.FieldTitle: text("Post")},
			Status: model.StatusDraft,
			Tags:   []model.Tag{{ID: 1}},
		}},
		NavLinks: []model.NavLink{
			{ID: 2, ParentID: &parent, Fields: locale.Fields{model.FieldTitle: text("Child")}, IsActive: true},
			{ID: 1, Fields: locale.Fields{model.FieldTitle: text("Root")}, IsActive: true},
		},
	}
}

func TestImport_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Document)
		entity  string
		message string
	}{
		{
			name:    "unsupported version",
			mutate:  func(d *Document) { d.Version = "9" },
			entity:  KindDocument,
			message: "unsupported version",
		},
		{
			name:    "default language mismatch",
			mutate:  func(d *Document) { d.DefaultLanguage = "ru" },
			entity:  KindDocument,
			message: "does not match",
		},
		{
			name: "unsupported variant language",
			mutate: func(d *Document) {
				d.Tags[0].Fields[model.FieldName] = text("Go", "fr", "Go")
			},
			entity:  model.EntityTag,
			message: `unsupported language "fr"`,
		},
		{
			name: "undeclared field",
			mutate: func(d *Document) {
				d.BlogPosts[0].Fields["subtitle"] = text("x")
			},
			entity:  model.EntityBlogPost,
			message: `field "subtitle" is not translatable`,
		},
		{
			name:    "missing default title",
			mutate:  func(d *Document) { d.BlogPosts[0].Fields[model.FieldTitle] = text("", "ru", "Пост") },
			entity:  model.EntityBlogPost,
			message: "needs a default-language value",
		},
		{
			name:    "invalid status",
			mutate:  func(d *Document) { d.BlogPosts[0].Status = "archived" },
			entity:  model.EntityBlogPost,
			message: "invalid status",
		},
		{
			name:    "unknown tag",
			mutate:  func(d *Document) { d.BlogPosts[0].Tags = []model.Tag{{ID: 42}} },
			entity:  model.EntityBlogPost,
			message: "unknown tag 42",
		},
		{
			name:    "invalid tag slug",
			mutate:  func(d *Document) { d.Tags[0].Slug = "Go Lang" },
			entity:  model.EntityTag,
			message: `invalid slug "Go Lang"`,
		},
		{
			name:    "duplicate tag id",
			mutate:  func(d *Document) { d.Tags = append(d.Tags, d.Tags[0]) },
			entity:  model.EntityTag,
			message: "duplicate id",
		},
		{
			name: "nav cycle",
			mutate: func(d *Document) {
				child := int64(2)
				d.NavLinks[1].ParentID = &child
			},
			entity:  model.EntityNavLink,
			message: "cycle",
		},
		{
			name: "unknown nav parent",
			mutate: func(d *Document) {
				missing := int64(99)
				d.NavLinks[0].ParentID = &missing
			},
			entity:  model.EntityNavLink,
			message: "unknown parent 99",
		},
		{
			name:    "nav link without id",
			mutate:  func(d *Document) { d.NavLinks[0].ID = 0 },
			entity:  model.EntityNavLink,
			message: "explicit id",
		},
		{
			name:    "service without id",
			mutate:  func(d *Document) { d.Services = []model.Service{{Fields: locale.Fields{model.FieldTitle: text("S")}}} },
			entity:  model.EntityService,
			message: "needs an id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testDB(t)
			inv := &fakeInvalidator{}
			doc := validDoc()
			tt.mutate(doc)

			result, err := NewImporter(store.New(db), testSet, inv, nil, testLogger()).Import(context.Background(), doc, ImportOptions{})
			require.ErrorIs(t, err, ErrValidation)
			require.True(t, result.HasErrors())

			found := false
			for _, e := range result.Errors {
				if e.Entity == tt.entity && strings.Contains(e.Message, tt.message) {
					found = true
				}
			}
			assert.True(t, found, "errors: %v", result.Errors)
			assert.Zero(t, inv.calls)

			links, err := store.New(db).NavLinks(context.Background())
			require.NoError(t, err)
			assert.Empty(t, links, "nothing may be written on validation failure")
		})
	}
}

func TestImport_ValidDocument(t *testing.T) {
	db := testDB(t)
	result, err := NewImporter(store.New(db), testSet, nil, nil, testLogger()).Import(context.Background(), validDoc(), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Counts[model.EntityNavLink])

	links, err := store.New(db).NavLinks(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 2)
}

func TestImport_CycleWithStoredNavigation(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	require.NoError(t, store.Seed(ctx, db, testSet.Default()))

	links, err := store.New(db).NavLinks(ctx)
	require.NoError(t, err)
	var root, child model.NavLink
	for _, l := range links {
		if l.ParentID != nil {
			child = l
			break
		}
	}
	require.NotZero(t, child.ID)
	for _, l := range links {
		if l.ID == *child.ParentID {
			root = l
		}
	}

	// Re-parent the stored root under its own stored child.
	root.ParentID = &child.ID
	doc := &Document{Version: DocumentVersion, NavLinks: []model.NavLink{root}}

	result, err := NewImporter(store.New(db), testSet, nil, nil, testLogger()).Import(ctx, doc, ImportOptions{})
	require.ErrorIs(t, err, ErrValidation)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "cycle")
}

func TestImportFromReader_RejectsUnknownKeys(t *testing.T) {
	db := testDB(t)
	importer := NewImporter(store.New(db), testSet, nil, nil, testLogger())

	_, err := importer.ImportFromReader(context.Background(), strings.NewReader(`{"version":"1","pages":[]}`), ImportOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing document")
}

func TestExportToFileAndImportFromFile(t *testing.T) {
	ctx := context.Background()
	src := testDB(t)
	seed(t, src)

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, NewExporter(queriesFor(src), testSet, testLogger()).ExportToFile(ctx, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	dst := testDB(t)
	result, err := NewImporter(store.New(dst), testSet, nil, nil, testLogger()).ImportFromFile(ctx, path, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Counts[model.EntityPortfolioItem])

	_, err = NewImporter(store.New(dst), testSet, nil, nil, testLogger()).ImportFromFile(ctx, filepath.Join(t.TempDir(), "missing.json"), ImportOptions{})
	assert.Error(t, err)
}

func TestParentsFirst(t *testing.T) {
	p := func(id int64) *int64 { return &id }
	links := []model.NavLink{
		{ID: 3, ParentID: p(2)},
		{ID: 2, ParentID: p(1)},
		{ID: 1},
		{ID: 4, ParentID: p(50)}, // parent stored outside the document
	}

	ordered := parentsFirst(links)
	require.Len(t, ordered, 4)
	pos := make(map[int64]int)
	for i, l := range ordered {
		pos[l.ID] = i
	}
	assert.Less(t, pos[1], pos[2])
	assert.Less(t, pos[2], pos[3])
}
