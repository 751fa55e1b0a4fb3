// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// PostStore handles all post-related database operations, including the
// append-only comment list that belongs to each post.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// ListFilter narrows a post listing. Nil pointer fields mean "don't
// filter on this". Search matches a case-insensitive substring in title,
// content, excerpt, or any tag.
type ListFilter struct {
	Published  *bool
	CategoryID *uuid.UUID
	Search     string
}

// postColumns are the post's own columns, aliased to the joined query.
const postColumns = `p.id, p.title, p.slug, p.content, p.excerpt, p.featured_image,
	       p.tags, p.published, p.view_count, p.author_id, p.category_id,
	       p.created_at, p.updated_at`

// listColumns adds the author and category display fields resolved by joins.
const listColumns = postColumns + `,
	       u.name, u.email, u.avatar,
	       c.name, c.slug, c.color`

const listJoins = `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		JOIN categories c ON c.id = p.category_id`

// scanListRow scans a joined post row and assembles the resolved
// author and category views.
func scanListRow(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var (
		p        models.Post
		tagsJSON []byte
		author   models.Author
		category models.CategoryRef
	)
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage,
		&tagsJSON, &p.Published, &p.ViewCount, &p.AuthorID, &p.CategoryID,
		&p.CreatedAt, &p.UpdatedAt,
		&author.Name, &author.Email, &author.Avatar,
		&category.Name, &category.Slug, &category.Color,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tagsJSON, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	author.ID = p.AuthorID
	category.ID = p.CategoryID
	p.Author = &author
	p.Category = &category
	return &p, nil
}

// buildFilter translates a ListFilter into a WHERE clause and its args.
func buildFilter(f ListFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if f.Published != nil {
		args = append(args, *f.Published)
		conds = append(conds, fmt.Sprintf("p.published = $%d", len(args)))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(p.title ILIKE $%d
			OR p.content ILIKE $%d
			OR COALESCE(p.excerpt, '') ILIKE $%d
			OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(p.tags) tag WHERE tag ILIKE $%d))`,
			n, n, n, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// List returns the page of posts matching the filter, newest first,
// along with the total matching count for pagination.
func (s *PostStore) List(f ListFilter, page, limit int) ([]models.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	where, args := buildFilter(f)

	var total int
	countQuery := `SELECT COUNT(*) FROM posts p ` + where
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`SELECT %s %s %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, listColumns, listJoins, where, len(args)-1, len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanListRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, total, rows.Err()
}

// ListByAuthor returns all of an author's posts regardless of
// publication state, newest first, with the category resolved. No
// pagination; this backs the "my posts" dashboard view.
func (s *PostStore) ListByAuthor(authorID uuid.UUID) ([]models.Post, error) {
	rows, err := s.db.Query(`SELECT `+listColumns+listJoins+`
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanListRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a fully resolved post: author with bio, category,
// and the comment list with each commenter's display fields. Returns nil
// if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	return s.findResolved("p.id = $1", id)
}

// FindBySlug retrieves a fully resolved post by its slug. Returns nil if
// not found.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	return s.findResolved("p.slug = $1", slug)
}

func (s *PostStore) findResolved(cond string, arg any) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+listColumns+`, u.bio`+listJoins+`
		WHERE `+cond, arg)

	var (
		p        models.Post
		tagsJSON []byte
		author   models.Author
		category models.CategoryRef
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage,
		&tagsJSON, &p.Published, &p.ViewCount, &p.AuthorID, &p.CategoryID,
		&p.CreatedAt, &p.UpdatedAt,
		&author.Name, &author.Email, &author.Avatar,
		&category.Name, &category.Slug, &category.Color,
		&author.Bio,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}

	if err := json.Unmarshal(tagsJSON, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	author.ID = p.AuthorID
	category.ID = p.CategoryID
	p.Author = &author
	p.Category = &category

	comments, err := s.loadComments(p.ID)
	if err != nil {
		return nil, err
	}
	p.Comments = comments

	return &p, nil
}

// loadComments returns a post's comments in insertion order with
// commenter display fields resolved.
func (s *PostStore) loadComments(postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT cm.id, cm.post_id, cm.user_id, cm.content, cm.created_at,
		       u.name, u.avatar
		FROM comments cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.post_id = $1
		ORDER BY cm.created_at ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var (
			c    models.Comment
			user models.CommentUser
		)
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt,
			&user.Name, &user.Avatar,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		user.ID = c.UserID
		c.User = &user
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// SlugExists reports whether a different post already uses the given
// slug. Pass uuid.Nil as excludeID on create.
func (s *PostStore) SlugExists(slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)
	`, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists check: %w", err)
	}
	return exists, nil
}

// Create inserts a new post and returns it with the generated ID.
// Author and category references are not resolved here; callers refetch
// through FindByID for the response.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	tagsJSON, err := marshalTags(p.Tags)
	if err != nil {
		return nil, err
	}

	featuredImage := p.FeaturedImage
	if featuredImage == "" {
		featuredImage = models.DefaultFeaturedImage
	}

	result := &models.Post{}
	err = s.db.QueryRow(`
		INSERT INTO posts (title, slug, content, excerpt, featured_image,
		                   tags, published, author_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, title, slug, content, excerpt, featured_image,
		          published, view_count, author_id, category_id,
		          created_at, updated_at
	`, p.Title, p.Slug, p.Content, p.Excerpt, featuredImage,
		tagsJSON, p.Published, p.AuthorID, p.CategoryID,
	).Scan(
		&result.ID, &result.Title, &result.Slug, &result.Content,
		&result.Excerpt, &result.FeaturedImage, &result.Published,
		&result.ViewCount, &result.AuthorID, &result.CategoryID,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	result.Tags = p.Tags
	return result, nil
}

// Update overwrites a post's mutable fields. The view counter is
// excluded here; it only ever moves through IncrementViews.
func (s *PostStore) Update(p *models.Post) error {
	tagsJSON, err := marshalTags(p.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, content = $3, excerpt = $4,
			featured_image = $5, tags = $6, published = $7,
			category_id = $8, updated_at = NOW()
		WHERE id = $9
	`, p.Title, p.Slug, p.Content, p.Excerpt,
		p.FeaturedImage, tagsJSON, p.Published, p.CategoryID, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID. Its comments go with it (ON DELETE CASCADE).
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// IncrementViews bumps a post's view counter by exactly one and returns
// the new value. The single atomic UPDATE means concurrent fetches never
// lose an increment.
func (s *PostStore) IncrementViews(id uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`
		UPDATE posts SET view_count = view_count + 1 WHERE id = $1
		RETURNING view_count
	`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return count, nil
}

// AddComment appends a comment to a post. Appends are plain inserts, so
// two concurrent comments on the same post both land.
func (s *PostStore) AddComment(postID, userID uuid.UUID, content string) error {
	_, err := s.db.Exec(`
		INSERT INTO comments (post_id, user_id, content)
		VALUES ($1, $2, $3)
	`, postID, userID, content)
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}

// marshalTags encodes a tag list for the JSONB column, normalizing nil
// to an empty array.
func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	out, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return out, nil
}
