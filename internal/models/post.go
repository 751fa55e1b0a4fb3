// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultFeaturedImage is stored when a post is created without a
// featured image.
const DefaultFeaturedImage = "default-post.jpg"

// Post is the central aggregate: an article with its author, category,
// and comment list.
type Post struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content"`
	Excerpt       *string   `json:"excerpt,omitempty"`
	FeaturedImage string    `json:"featuredImage"`
	Tags          []string  `json:"tags"`
	Published     bool      `json:"published"`
	ViewCount     int       `json:"viewCount"`
	AuthorID      uuid.UUID `json:"-"`
	CategoryID    uuid.UUID `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Resolved references, populated by store queries. The raw foreign
	// keys stay internal; the API always returns display fields.
	Author   *Author      `json:"author,omitempty"`
	Category *CategoryRef `json:"category,omitempty"`
	Comments []Comment    `json:"comments,omitempty"`

	// ContentHTML is the post body rendered to HTML. Populated only on
	// single-post responses.
	ContentHTML string `json:"contentHtml,omitempty"`
}

// Author is the display view of a post's author.
type Author struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Bio    string    `json:"bio,omitempty"`
}

// CategoryRef is the display view of a post's category.
type CategoryRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Color string    `json:"color"`
}

// EditableBy reports whether the given caller may update or delete the
// post: the original author always can, admins always can, nobody else.
func (p *Post) EditableBy(userID uuid.UUID, role Role) bool {
	return p.AuthorID == userID || role == RoleAdmin
}
