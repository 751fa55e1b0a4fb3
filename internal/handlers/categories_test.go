package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

func TestCreateCategory(t *testing.T) {
	e := newTestEnv(t)

	suffix := uuid.NewString()[:8]
	w := call(t, e.categoryHandlers.Create, http.MethodPost, "/api/categories",
		map[string]any{"name": "Deep Dives " + suffix}, nil, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d (body: %s)", w.Code, w.Body.String())
	}

	var created models.Category
	decodeData(t, w, &created)
	t.Cleanup(func() { e.db.Exec("DELETE FROM categories WHERE id = $1", created.ID) })

	if created.Slug != "deep-dives-"+suffix {
		t.Errorf("slug: got %q, want %q", created.Slug, "deep-dives-"+suffix)
	}
	if created.Color != models.DefaultCategoryColor {
		t.Errorf("color: got %q, want default %q", created.Color, models.DefaultCategoryColor)
	}

	// A second category with the same name is rejected.
	w = call(t, e.categoryHandlers.Create, http.MethodPost, "/api/categories",
		map[string]any{"name": "Deep Dives " + suffix}, nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate name: got status %d, want 400", w.Code)
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	e := newTestEnv(t)

	for name, body := range map[string]map[string]any{
		"missing name": {"description": "no name"},
		"blank name":   {"name": "   "},
	} {
		w := call(t, e.categoryHandlers.Create, http.MethodPost, "/api/categories", body, nil, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: got status %d, want 400", name, w.Code)
		}
	}
}

func TestUpdateCategoryRename(t *testing.T) {
	e := newTestEnv(t)
	cat := e.category(t)

	suffix := uuid.NewString()[:8]
	w := call(t, e.categoryHandlers.Update, http.MethodPut, "/api/categories/"+cat.ID.String(),
		map[string]any{"name": "Renamed Shelf " + suffix}, nil,
		map[string]string{"id": cat.ID.String()})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d (body: %s)", w.Code, w.Body.String())
	}

	var updated models.Category
	decodeData(t, w, &updated)
	if updated.Slug != "renamed-shelf-"+suffix {
		t.Errorf("slug after rename: got %q", updated.Slug)
	}
}

func TestDeleteCategoryWithPosts(t *testing.T) {
	e := newTestEnv(t)
	author := e.user(t, models.RoleAuthor)
	cat := e.category(t)

	createPost(t, e, author, map[string]any{
		"title": "Anchor " + uuid.NewString()[:8], "content": "x",
		"categoryId": cat.ID.String(),
	})

	w := call(t, e.categoryHandlers.Delete, http.MethodDelete, "/api/categories/"+cat.ID.String(),
		nil, nil, map[string]string{"id": cat.ID.String()})
	if w.Code != http.StatusBadRequest {
		t.Errorf("delete referenced category: got status %d, want 400", w.Code)
	}

	// Still present.
	stored, err := e.categories.FindByID(cat.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored == nil {
		t.Error("referenced category was deleted")
	}
}

func TestDeleteEmptyCategory(t *testing.T) {
	e := newTestEnv(t)
	cat := e.category(t)

	w := call(t, e.categoryHandlers.Delete, http.MethodDelete, "/api/categories/"+cat.ID.String(),
		nil, nil, map[string]string{"id": cat.ID.String()})
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	}

	stored, err := e.categories.FindByID(cat.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored != nil {
		t.Error("category still present after delete")
	}
}

func TestGetCategoryNotFound(t *testing.T) {
	e := newTestEnv(t)

	id := uuid.NewString()
	w := call(t, e.categoryHandlers.Get, http.MethodGet, "/api/categories/"+id,
		nil, nil, map[string]string{"id": id})
	if w.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", w.Code)
	}
}
