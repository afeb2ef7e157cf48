// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "github.com/olegiv/creative-api/internal/locale"

// Entity type names, as stored in field_translations.entity_type.
const (
	EntityBlogPost       = "blog_post"
	EntityPortfolioItem  = "portfolio_item"
	EntityService        = "service"
	EntityTeamMember     = "team_member"
	EntityTestimonial    = "testimonial"
	EntityFAQ            = "faq"
	EntityNavLink        = "nav_link"
	EntityTag            = "tag"
	EntityTechnology     = "technology"
	EntityCategory       = "category"
	EntityServiceFeature = "service_feature"
)

// Translatable field declarations per entity type.
var (
	BlogPostSchema       = locale.NewSchema(EntityBlogPost, FieldTitle, FieldExcerpt, FieldContent, FieldReadTime)
	PortfolioItemSchema  = locale.NewSchema(EntityPortfolioItem, FieldTitle, FieldDescription, FieldCategory, FieldClient)
	ServiceSchema        = locale.NewSchema(EntityService, FieldTitle, FieldDescription, FieldDetails)
	TeamMemberSchema     = locale.NewSchema(EntityTeamMember, FieldName, FieldRole, FieldBio)
	TestimonialSchema    = locale.NewSchema(EntityTestimonial, FieldName, FieldThoughts, FieldRole)
	FAQSchema            = locale.NewSchema(EntityFAQ, FieldQuestion, FieldAnswer)
	NavLinkSchema        = locale.NewSchema(EntityNavLink, FieldTitle)
	TagSchema            = locale.NewSchema(EntityTag, FieldName)
	TechnologySchema     = locale.NewSchema(EntityTechnology, FieldName)
	CategorySchema       = locale.NewSchema(EntityCategory, FieldName)
	ServiceFeatureSchema = locale.NewSchema(EntityServiceFeature, FieldName)
)

var schemas = map[string]*locale.Schema{
	EntityBlogPost:       BlogPostSchema,
	EntityPortfolioItem:  PortfolioItemSchema,
	EntityService:        ServiceSchema,
	EntityTeamMember:     TeamMemberSchema,
	EntityTestimonial:    TestimonialSchema,
	EntityFAQ:            FAQSchema,
	EntityNavLink:        NavLinkSchema,
	EntityTag:            TagSchema,
	EntityTechnology:     TechnologySchema,
	EntityCategory:       CategorySchema,
	EntityServiceFeature: ServiceFeatureSchema,
}

// SchemaFor returns the schema of an entity type, or nil if the type is unknown.
func SchemaFor(entity string) *locale.Schema {
	return schemas[entity]
}
