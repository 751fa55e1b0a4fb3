// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/apierr"
	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// CategoryHandlers serves the category endpoints. Reads are public;
// mutations are admin-only (enforced by router middleware).
type CategoryHandlers struct {
	categories *store.CategoryStore
}

// NewCategoryHandlers creates category handlers with the given store.
func NewCategoryHandlers(categories *store.CategoryStore) *CategoryHandlers {
	return &CategoryHandlers{categories: categories}
}

type categoryInput struct {
	Name        *string `json:"name"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
}

// List serves GET /api/categories: all categories by name with post counts.
func (h *CategoryHandlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List()
	if err != nil {
		respondError(w, err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	respondData(w, http.StatusOK, items)
}

// Get serves GET /api/categories/{id}.
func (h *CategoryHandlers) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := h.load(r)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, cat)
}

// Create serves POST /api/categories. The slug is derived from the name;
// duplicate names or slugs are rejected.
func (h *CategoryHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, apierr.Validation("invalid request body"))
		return
	}

	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		respondError(w, apierr.Validation("name is required"))
		return
	}

	cat := &models.Category{
		Name:  strings.TrimSpace(*in.Name),
		Color: models.DefaultCategoryColor,
	}
	cat.Slug = slug.Generate(cat.Name)
	if cat.Slug == "" {
		respondError(w, apierr.Validation("name must contain at least one letter or digit"))
		return
	}
	if in.Color != nil && *in.Color != "" {
		cat.Color = *in.Color
	}
	if in.Description != nil {
		cat.Description = *in.Description
	}

	exists, err := h.categories.NameOrSlugExists(cat.Name, cat.Slug, uuid.Nil)
	if err != nil {
		respondError(w, err)
		return
	}
	if exists {
		respondError(w, apierr.Validation("a category with this name already exists"))
		return
	}

	created, err := h.categories.Create(cat)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

// Update serves PUT /api/categories/{id}. Renaming regenerates the slug.
func (h *CategoryHandlers) Update(w http.ResponseWriter, r *http.Request) {
	cat, err := h.load(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var in categoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, apierr.Validation("invalid request body"))
		return
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			respondError(w, apierr.Validation("name is required"))
			return
		}
		cat.Name = name
		cat.Slug = slug.Generate(name)
		if cat.Slug == "" {
			respondError(w, apierr.Validation("name must contain at least one letter or digit"))
			return
		}
	}
	if in.Color != nil && *in.Color != "" {
		cat.Color = *in.Color
	}
	if in.Description != nil {
		cat.Description = *in.Description
	}

	exists, err := h.categories.NameOrSlugExists(cat.Name, cat.Slug, cat.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	if exists {
		respondError(w, apierr.Validation("a category with this name already exists"))
		return
	}

	if err := h.categories.Update(cat); err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.categories.FindByID(cat.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

// Delete serves DELETE /api/categories/{id}. Categories still referenced
// by posts cannot be removed.
func (h *CategoryHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	cat, err := h.load(r)
	if err != nil {
		respondError(w, err)
		return
	}

	count, err := h.categories.PostCount(cat.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	if count > 0 {
		respondError(w, apierr.Validation("cannot delete a category that still has posts"))
		return
	}

	if err := h.categories.Delete(cat.ID); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, struct{}{})
}

// load fetches the category addressed by the {id} URL param.
func (h *CategoryHandlers) load(r *http.Request) (*models.Category, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, apierr.NotFound("Category")
	}

	cat, err := h.categories.FindByID(id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apierr.NotFound("Category")
	}
	return cat, nil
}
