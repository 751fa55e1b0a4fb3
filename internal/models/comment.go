// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is an append-only entry on a post. Comments are never edited
// or deleted individually; they disappear only when their post does.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"-"`
	UserID    uuid.UUID `json:"-"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`

	// Resolved commenter, populated by store queries.
	User *CommentUser `json:"user,omitempty"`
}

// CommentUser is the display view of a comment's author.
type CommentUser struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}
