// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/apierr"
	"inkwell/internal/markdown"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

const maxPageSize = 100

// PostHandlers serves the post listing, CRUD, and comment endpoints.
type PostHandlers struct {
	posts      *store.PostStore
	categories *store.CategoryStore
}

// NewPostHandlers creates post handlers with the given stores.
func NewPostHandlers(posts *store.PostStore, categories *store.CategoryStore) *PostHandlers {
	return &PostHandlers{posts: posts, categories: categories}
}

// postInput is the decode target for create and update requests. Pointer
// fields distinguish "absent" from "zero" so updates can patch only what
// the client sent.
type postInput struct {
	Title         *string         `json:"title"`
	Content       *string         `json:"content"`
	Excerpt       *string         `json:"excerpt"`
	FeaturedImage *string         `json:"featuredImage"`
	CategoryID    *string         `json:"categoryId"`
	Tags          json.RawMessage `json:"tags"`
	Published     *bool           `json:"published"`
}

// List serves GET /api/posts. Listings default to published posts only;
// ?published=false shows drafts and ?published=all removes the filter.
// ?category= takes a category slug and 404s when the slug is unknown.
func (h *PostHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := intQuery(q.Get("page"), 1)
	limit := intQuery(q.Get("limit"), 10)
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := store.ListFilter{Search: strings.TrimSpace(q.Get("search"))}
	switch q.Get("published") {
	case "false":
		published := false
		filter.Published = &published
	case "all":
		// No publication filter.
	default:
		published := true
		filter.Published = &published
	}

	if catSlug := q.Get("category"); catSlug != "" {
		cat, err := h.categories.FindBySlug(catSlug)
		if err != nil {
			respondError(w, err)
			return
		}
		if cat == nil {
			respondError(w, apierr.NotFound("Category"))
			return
		}
		filter.CategoryID = &cat.ID
	}

	items, total, err := h.posts.List(filter, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if items == nil {
		items = []models.Post{}
	}
	respondList(w, items, NewPagination(page, limit, total))
}

// My serves GET /api/posts/my: all of the caller's posts including
// drafts, newest first.
func (h *PostHandlers) My(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	items, err := h.posts.ListByAuthor(sess.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	if items == nil {
		items = []models.Post{}
	}
	respondData(w, http.StatusOK, items)
}

// Get serves GET /api/posts/{id}. Every successful fetch counts as one view.
func (h *PostHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apierr.NotFound("Post"))
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	h.respondPost(w, post)
}

// GetBySlug serves GET /api/posts/slug/{slug}. Every successful fetch
// counts as one view.
func (h *PostHandlers) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	h.respondPost(w, post)
}

// respondPost bumps the view counter and writes the resolved post with
// its rendered HTML body.
func (h *PostHandlers) respondPost(w http.ResponseWriter, post *models.Post) {
	if post == nil {
		respondError(w, apierr.NotFound("Post"))
		return
	}

	count, err := h.posts.IncrementViews(post.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	post.ViewCount = count

	renderHTML(post)
	respondData(w, http.StatusOK, post)
}

// Create serves POST /api/posts. The author is always the session user,
// whatever the request body claims.
func (h *PostHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var in postInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, apierr.Validation("invalid request body"))
		return
	}

	if in.Title == nil {
		respondError(w, apierr.Validation("title is required"))
		return
	}
	if err := validateTitle(*in.Title); err != nil {
		respondError(w, err)
		return
	}
	if in.Content == nil || strings.TrimSpace(*in.Content) == "" {
		respondError(w, apierr.Validation("content is required"))
		return
	}
	if in.CategoryID == nil {
		respondError(w, apierr.Validation("category is required"))
		return
	}

	post := &models.Post{
		Title:    strings.TrimSpace(*in.Title),
		Content:  *in.Content,
		AuthorID: sess.UserID,
	}

	categoryID, err := h.resolveCategory(*in.CategoryID)
	if err != nil {
		respondError(w, err)
		return
	}
	post.CategoryID = categoryID

	if in.Excerpt != nil {
		if err := validateExcerpt(*in.Excerpt); err != nil {
			respondError(w, err)
			return
		}
		post.Excerpt = in.Excerpt
	}
	if in.FeaturedImage != nil {
		post.FeaturedImage = *in.FeaturedImage
	}
	if in.Published != nil {
		post.Published = *in.Published
	}

	post.Tags, err = normalizeTags(in.Tags)
	if err != nil {
		respondError(w, err)
		return
	}

	post.Slug, err = h.generateSlug(post.Title, uuid.Nil)
	if err != nil {
		respondError(w, err)
		return
	}

	created, err := h.posts.Create(post)
	if err != nil {
		respondError(w, err)
		return
	}

	// Refetch so the response carries resolved author and category.
	resolved, err := h.posts.FindByID(created.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, resolved)
}

// Update serves PUT /api/posts/{id}. Only the author or an admin may
// update; fields absent from the body keep their stored values.
func (h *PostHandlers) Update(w http.ResponseWriter, r *http.Request) {
	post, err := h.loadOwned(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var in postInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, apierr.Validation("invalid request body"))
		return
	}

	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			respondError(w, err)
			return
		}
		newTitle := strings.TrimSpace(*in.Title)
		if newTitle != post.Title {
			post.Slug, err = h.generateSlug(newTitle, post.ID)
			if err != nil {
				respondError(w, err)
				return
			}
		}
		post.Title = newTitle
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			respondError(w, apierr.Validation("content is required"))
			return
		}
		post.Content = *in.Content
	}
	if in.Excerpt != nil {
		if err := validateExcerpt(*in.Excerpt); err != nil {
			respondError(w, err)
			return
		}
		post.Excerpt = in.Excerpt
	}
	if in.FeaturedImage != nil {
		post.FeaturedImage = *in.FeaturedImage
	}
	if in.CategoryID != nil {
		categoryID, err := h.resolveCategory(*in.CategoryID)
		if err != nil {
			respondError(w, err)
			return
		}
		post.CategoryID = categoryID
	}
	if in.Tags != nil {
		post.Tags, err = normalizeTags(in.Tags)
		if err != nil {
			respondError(w, err)
			return
		}
	}
	if in.Published != nil {
		post.Published = *in.Published
	}

	if err := h.posts.Update(post); err != nil {
		respondError(w, err)
		return
	}

	resolved, err := h.posts.FindByID(post.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, resolved)
}

// Delete serves DELETE /api/posts/{id}. Only the author or an admin may
// delete; the post's comments go with it.
func (h *PostHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	post, err := h.loadOwned(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.posts.Delete(post.ID); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, struct{}{})
}

// AddComment serves POST /api/posts/{id}/comments and returns the fully
// resolved post including the new comment.
func (h *PostHandlers) AddComment(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apierr.NotFound("Post"))
		return
	}

	var in struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, apierr.Validation("invalid request body"))
		return
	}
	if strings.TrimSpace(in.Content) == "" {
		respondError(w, apierr.Validation("comment content is required"))
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if post == nil {
		respondError(w, apierr.NotFound("Post"))
		return
	}

	if err := h.posts.AddComment(post.ID, sess.UserID, in.Content); err != nil {
		respondError(w, err)
		return
	}

	resolved, err := h.posts.FindByID(post.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	renderHTML(resolved)
	respondData(w, http.StatusOK, resolved)
}

// loadOwned fetches the post addressed by the {id} URL param and checks
// that the session user may mutate it.
func (h *PostHandlers) loadOwned(r *http.Request) (*models.Post, error) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, apierr.NotFound("Post")
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apierr.NotFound("Post")
	}
	if !post.EditableBy(sess.UserID, models.Role(sess.Role)) {
		return nil, apierr.Forbidden("you can only modify your own posts")
	}
	return post, nil
}

// resolveCategory parses and verifies a category id from request input.
func (h *PostHandlers) resolveCategory(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierr.Validation("invalid category id")
	}
	cat, err := h.categories.FindByID(id)
	if err != nil {
		return uuid.Nil, err
	}
	if cat == nil {
		return uuid.Nil, apierr.Validation("category not found")
	}
	return cat.ID, nil
}

// generateSlug derives the slug from a title and enforces uniqueness.
// Pass uuid.Nil as excludeID on create.
func (h *PostHandlers) generateSlug(title string, excludeID uuid.UUID) (string, error) {
	s := slug.Generate(title)
	if s == "" {
		return "", apierr.Validation("title must contain at least one letter or digit")
	}

	exists, err := h.posts.SlugExists(s, excludeID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", apierr.Validation("a post with this slug already exists")
	}
	return s, nil
}

// renderHTML populates ContentHTML on single-post responses. Rendering
// failures degrade to raw content only.
func renderHTML(post *models.Post) {
	html, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Warn("render post html", "post", post.ID, "error", err)
		return
	}
	post.ContentHTML = html
}

// intQuery parses a positive integer query value, falling back on the
// default for anything missing or malformed.
func intQuery(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
