// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/olegiv/creative-api/internal/locale"
	"github.com/olegiv/creative-api/internal/model"
)

// testDB creates a temporary migrated database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "creative-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
		_ = os.Remove(dbPath + "-wal")
		_ = os.Remove(dbPath + "-shm")
	}
	return db, cleanup
}

func TestBlogPostRoundTrip(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db).WithDefaultLanguage("en")

	tagID, err := q.SaveTag(ctx, model.Tag{
		Slug:   "go",
		Fields: locale.Fields{model.FieldName: locale.NewText("Go").With("ru", "Го")},
	})
	if err != nil {
		t.Fatalf("SaveTag: %v", err)
	}
	catID, err := q.SaveCategory(ctx, model.Category{
		Fields: locale.Fields{model.FieldName: locale.NewText("Technology").With("es", "Tecnología")},
	})
	if err != nil {
		t.Fatalf("SaveCategory: %v", err)
	}
	authorID, err := q.SaveAuthor(ctx, model.Author{Username: "jdoe", FirstName: "Jane"})
	if err != nil {
		t.Fatalf("SaveAuthor: %v", err)
	}

	postID, err := q.SaveBlogPost(ctx, model.BlogPost{
		Fields: locale.Fields{
			model.FieldTitle:    locale.NewText("English Title").With("es", "Título Español").With("en", "shadow"),
			model.FieldExcerpt:  locale.NewText("Excerpt").With("es", ""),
			model.FieldContent:  locale.NewText("Body"),
			model.FieldReadTime: locale.NewText("5 min"),
		},
		Date:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:     model.StatusPublished,
		Author:     &model.Author{ID: authorID},
		Tags:       []model.Tag{{ID: tagID}},
		Categories: []model.Category{{ID: catID}},
	})
	if err != nil {
		t.Fatalf("SaveBlogPost: %v", err)
	}

	posts, err := q.BlogPosts(ctx)
	if err != nil {
		t.Fatalf("BlogPosts: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("len(posts) = %d, want 1", len(posts))
	}
	p := posts[0]
	if p.ID != postID {
		t.Errorf("ID = %d, want %d", p.ID, postID)
	}
	if got := p.Fields[model.FieldTitle].Default; got != "English Title" {
		t.Errorf("title default = %q", got)
	}
	if v, ok := p.Fields[model.FieldTitle].Variant("es"); !ok || v != "Título Español" {
		t.Errorf("title es = %q, %v", v, ok)
	}
	if _, ok := p.Fields[model.FieldTitle].Variant("en"); ok {
		t.Error("default-language variant should not be stored")
	}
	if _, ok := p.Fields[model.FieldExcerpt].Variant("es"); ok {
		t.Error("empty variant should not be stored")
	}
	if p.Date.Year() != 2024 || p.Date.Month() != time.March || p.Date.Day() != 15 {
		t.Errorf("Date = %v", p.Date)
	}
	if p.Author == nil || p.Author.Username != "jdoe" {
		t.Errorf("Author = %+v", p.Author)
	}
	if len(p.Tags) != 1 || p.Tags[0].Slug != "go" {
		t.Errorf("Tags = %+v", p.Tags)
	}
	if len(p.Categories) != 1 {
		t.Fatalf("Categories = %+v", p.Categories)
	}
	if v, _ := p.Categories[0].Fields[model.FieldName].Variant("es"); v != "Tecnología" {
		t.Errorf("category es = %q", v)
	}
}

func TestBlogPostsOrdering(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	dates := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		if _, err := q.SaveBlogPost(ctx, model.BlogPost{
			Fields: locale.Fields{model.FieldTitle: locale.NewText("Post")},
			Date:   d,
		}); err != nil {
			t.Fatalf("SaveBlogPost: %v", err)
		}
	}

	posts, err := q.BlogPosts(ctx)
	if err != nil {
		t.Fatalf("BlogPosts: %v", err)
	}
	want := []int64{3, 2, 1}
	for i, p := range posts {
		if p.ID != want[i] {
			t.Errorf("posts[%d].ID = %d, want %d", i, p.ID, want[i])
		}
	}
	if posts[0].Status != model.StatusDraft {
		t.Errorf("default status = %q, want draft", posts[0].Status)
	}
}

func TestReplaceTranslationsRejectsUndeclaredField(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	err := New(db).ReplaceTranslations(context.Background(), model.EntityBlogPost, "1",
		locale.Fields{model.FieldCategory: locale.NewText("x").With("es", "y")})
	if !errors.Is(err, locale.ErrNotTranslatable) {
		t.Errorf("err = %v, want ErrNotTranslatable", err)
	}
}

func TestServiceFeaturesReplaced(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	svc := model.Service{
		ID: "web-development",
		Fields: locale.Fields{
			model.FieldTitle:   locale.NewText("Web Development").With("az", "Veb inkişaf"),
			model.FieldDetails: locale.NewText("**Fast** sites"),
		},
		Pricing: "from $1000",
		Features: []model.ServiceFeature{
			{Fields: locale.Fields{model.FieldName: locale.NewText("SEO").With("ru", "СЕО")}, Order: 1},
			{Fields: locale.Fields{model.FieldName: locale.NewText("Hosting")}, Order: 0},
		},
	}
	if err := q.SaveService(ctx, svc); err != nil {
		t.Fatalf("SaveService: %v", err)
	}

	svc.Features = svc.Features[:1]
	if err := q.SaveService(ctx, svc); err != nil {
		t.Fatalf("SaveService (update): %v", err)
	}

	services, err := q.Services(ctx)
	if err != nil {
		t.Fatalf("Services: %v", err)
	}
	if len(services) != 1 {
		t.Fatalf("len(services) = %d, want 1", len(services))
	}
	s := services[0]
	if s.Pricing != "from $1000" {
		t.Errorf("Pricing = %q", s.Pricing)
	}
	if len(s.Features) != 1 {
		t.Fatalf("Features = %+v, want 1", s.Features)
	}
	if v, _ := s.Features[0].Fields[model.FieldName].Variant("ru"); v != "СЕО" {
		t.Errorf("feature ru = %q", v)
	}

	all, err := q.ListTranslations(ctx)
	if err != nil {
		t.Fatalf("ListTranslations: %v", err)
	}
	// service title (az) + one feature name (ru)
	if len(all) != 2 {
		t.Errorf("translations = %+v, want 2 rows", all)
	}
}

func TestNavLinksAndFAQs(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	rootID, err := q.SaveNavLink(ctx, model.NavLink{
		Fields:   locale.Fields{model.FieldTitle: locale.NewText("About")},
		URL:      "/about",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("SaveNavLink: %v", err)
	}
	if _, err := q.SaveNavLink(ctx, model.NavLink{
		ParentID:   &rootID,
		Fields:     locale.Fields{model.FieldTitle: locale.NewText("GitHub")},
		URL:        "https://github.com",
		IsExternal: true,
		Order:      2,
	}); err != nil {
		t.Fatalf("SaveNavLink child: %v", err)
	}

	links, err := q.NavLinks(ctx)
	if err != nil {
		t.Fatalf("NavLinks: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("len(links) = %d, want 2", len(links))
	}
	child := links[1]
	if child.ParentID == nil || *child.ParentID != rootID {
		t.Errorf("ParentID = %v, want %d", child.ParentID, rootID)
	}
	if !child.IsExternal || child.IsActive || child.Order != 2 {
		t.Errorf("child = %+v", child)
	}

	if _, err := q.SaveFAQ(ctx, model.FAQ{
		Fields: locale.Fields{
			model.FieldQuestion: locale.NewText("Q?"),
			model.FieldAnswer:   locale.NewText("A.").With("ru", "О."),
		},
	}); err != nil {
		t.Fatalf("SaveFAQ: %v", err)
	}
	faqs, err := q.FAQs(ctx)
	if err != nil {
		t.Fatalf("FAQs: %v", err)
	}
	if len(faqs) != 1 || faqs[0].IsActive {
		t.Errorf("faqs = %+v", faqs)
	}
}

func TestPortfolioAndTeam(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	techID, err := q.SaveTechnology(ctx, model.Technology{
		Slug:   "django",
		Fields: locale.Fields{model.FieldName: locale.NewText("Django")},
	})
	if err != nil {
		t.Fatalf("SaveTechnology: %v", err)
	}

	done := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	if _, err := q.SavePortfolioItem(ctx, model.PortfolioItem{
		Fields: locale.Fields{model.FieldTitle: locale.NewText("Undated")},
	}); err != nil {
		t.Fatalf("SavePortfolioItem: %v", err)
	}
	if _, err := q.SavePortfolioItem(ctx, model.PortfolioItem{
		Fields: locale.Fields{
			model.FieldTitle:    locale.NewText("Shop"),
			model.FieldCategory: locale.NewText("E-commerce").With("ru", "Магазины"),
		},
		CompletionDate: &done,
		Technologies:   []model.Technology{{ID: techID}},
	}); err != nil {
		t.Fatalf("SavePortfolioItem: %v", err)
	}

	items, err := q.PortfolioItems(ctx)
	if err != nil {
		t.Fatalf("PortfolioItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d", len(items))
	}
	if items[0].CompletionDate == nil || items[1].CompletionDate != nil {
		t.Errorf("dated items should come first: %+v", items)
	}
	if items[0].CategoryKey() != "E-commerce" {
		t.Errorf("CategoryKey = %q", items[0].CategoryKey())
	}
	if len(items[0].Technologies) != 1 || items[0].Technologies[0].Slug != "django" {
		t.Errorf("Technologies = %+v", items[0].Technologies)
	}

	if _, err := q.SaveTeamMember(ctx, model.TeamMember{
		Fields: locale.Fields{model.FieldName: locale.NewText("Ali"), model.FieldRole: locale.NewText("Designer")},
		SocialLinks: []model.SocialLink{
			{Platform: "github", URL: "https://github.com/ali", Order: 1},
			{Platform: "linkedin", URL: "https://linkedin.com/in/ali"},
		},
	}); err != nil {
		t.Fatalf("SaveTeamMember: %v", err)
	}
	team, err := q.TeamMembers(ctx)
	if err != nil {
		t.Fatalf("TeamMembers: %v", err)
	}
	if len(team) != 1 || len(team[0].SocialLinks) != 2 || team[0].SocialLinks[0].Platform != "linkedin" {
		t.Errorf("team = %+v", team)
	}

	if _, err := q.SaveTestimonial(ctx, model.Testimonial{
		Fields: locale.Fields{model.FieldName: locale.NewText("Client"), model.FieldThoughts: locale.NewText("Great")},
	}); err != nil {
		t.Fatalf("SaveTestimonial: %v", err)
	}
	testimonials, err := q.Testimonials(ctx)
	if err != nil {
		t.Fatalf("Testimonials: %v", err)
	}
	if len(testimonials) != 1 {
		t.Errorf("len(testimonials) = %d", len(testimonials))
	}
}

func TestContactInquiries(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	created, err := q.CreateContactInquiry(ctx, model.ContactInquiry{
		Reference: "ref-1",
		FullName:  "Jane Doe",
		Email:     "jane@example.com",
		Phone:     "+994 50 000 00 00",
		Subject:   "Website",
		Status:    model.InquiryNew,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateContactInquiry: %v", err)
	}

	got, err := q.GetContactInquiryByReference(ctx, "ref-1")
	if err != nil {
		t.Fatalf("GetContactInquiryByReference: %v", err)
	}
	if got.ID != created.ID || got.Email != "jane@example.com" {
		t.Errorf("got = %+v", got)
	}

	if err := q.UpdateContactInquiryStatus(ctx, created.ID, model.InquiryHandled); err != nil {
		t.Fatalf("UpdateContactInquiryStatus: %v", err)
	}
	if err := q.UpdateContactInquiryStatus(ctx, 999, model.InquiryHandled); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("missing inquiry err = %v, want sql.ErrNoRows", err)
	}

	handled, err := q.ListContactInquiries(ctx, model.InquiryHandled, 10, 0)
	if err != nil {
		t.Fatalf("ListContactInquiries: %v", err)
	}
	if len(handled) != 1 {
		t.Errorf("len(handled) = %d, want 1", len(handled))
	}
	n, err := q.CountContactInquiries(ctx, model.InquiryNew)
	if err != nil {
		t.Fatalf("CountContactInquiries: %v", err)
	}
	if n != 0 {
		t.Errorf("new count = %d, want 0", n)
	}

	if _, err := q.GetContactInquiry(ctx, 999); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetContactInquiry(999) err = %v, want sql.ErrNoRows", err)
	}
}

func TestEvents(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	if _, err := q.CreateEvent(ctx, CreateEventParams{
		Level:     model.EventLevelError,
		Category:  model.EventCategoryNavigation,
		Message:   "cycle",
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	events, err := q.ListEvents(ctx, model.EventCategoryNavigation, 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 || events[0].Metadata != "{}" {
		t.Errorf("events = %+v", events)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := Seed(ctx, db, "en"); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := Seed(ctx, db, "en"); err != nil {
		t.Fatalf("Seed (second run): %v", err)
	}

	links, err := New(db).NavLinks(ctx)
	if err != nil {
		t.Fatalf("NavLinks: %v", err)
	}
	if len(links) != 8 {
		t.Errorf("len(links) = %d, want 8", len(links))
	}
}

func TestSaveTagDerivesSlug(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db).WithDefaultLanguage("en")

	if _, err := q.SaveTag(ctx, model.Tag{Fields: locale.Fields{model.FieldName: locale.NewText("Web Design")}}); err != nil {
		t.Fatalf("SaveTag: %v", err)
	}
	if _, err := q.SaveTechnology(ctx, model.Technology{Slug: "go", Fields: locale.Fields{model.FieldName: locale.NewText("Golang")}}); err != nil {
		t.Fatalf("SaveTechnology: %v", err)
	}

	tags, err := q.Tags(ctx)
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if len(tags) != 1 || tags[0].Slug != "web-design" {
		t.Errorf("tags = %+v, want slug web-design", tags)
	}

	techs, err := q.Technologies(ctx)
	if err != nil {
		t.Fatalf("Technologies: %v", err)
	}
	if len(techs) != 1 || techs[0].Slug != "go" {
		t.Errorf("technologies = %+v, want explicit slug kept", techs)
	}
}
