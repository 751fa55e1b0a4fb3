// handler_test.go provides shared helpers for handler tests. Handlers
// are invoked directly with a chi route context and an injected session,
// so only PostgreSQL is required; tests skip when it is unreachable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

// testEnvelope mirrors the wire envelope for assertions.
type testEnvelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Pagination *Pagination     `json:"pagination"`
}

type testEnv struct {
	db         *sql.DB
	users      *store.UserStore
	categories *store.CategoryStore
	posts      *store.PostStore

	postHandlers     *PostHandlers
	categoryHandlers *CategoryHandlers
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := openTestDB(t)
	users := store.NewUserStore(db)
	categories := store.NewCategoryStore(db)
	posts := store.NewPostStore(db)

	return &testEnv{
		db:               db,
		users:            users,
		categories:       categories,
		posts:            posts,
		postHandlers:     NewPostHandlers(posts, categories),
		categoryHandlers: NewCategoryHandlers(categories),
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// user creates a throwaway account. Deleting it cascades to the
// account's posts and comments.
func (e *testEnv) user(t *testing.T, role models.Role) *models.User {
	t.Helper()

	email := "handler-" + uuid.NewString()[:8] + "@example.com"
	u, err := e.users.Create("Handler Test User", email, "password123", role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { e.db.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return u
}

// category creates a throwaway category; cleanup removes any posts still
// referencing it first so the RESTRICT constraint doesn't block deletion.
func (e *testEnv) category(t *testing.T) *models.Category {
	t.Helper()

	suffix := uuid.NewString()[:8]
	c, err := e.categories.Create(&models.Category{
		Name:  "Handler Category " + suffix,
		Slug:  "handler-category-" + suffix,
		Color: models.DefaultCategoryColor,
	})
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() {
		e.db.Exec("DELETE FROM posts WHERE category_id = $1", c.ID)
		e.db.Exec("DELETE FROM categories WHERE id = $1", c.ID)
	})
	return c
}

// sessionFor fakes an authenticated session for direct handler calls.
func sessionFor(u *models.User) *session.Data {
	return &session.Data{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   string(u.Role),
	}
}

// call invokes a handler with an optional JSON body, session, and chi
// URL params, returning the recorded response.
func call(t *testing.T, h http.HandlerFunc, method, target string, body any, sess *session.Data, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if sess != nil {
		ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	}

	w := httptest.NewRecorder()
	h(w, req.WithContext(ctx))
	return w
}

// decodeEnvelope parses a recorded response body.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()

	var env testEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, w.Body.String())
	}
	return env
}

// decodeData unmarshals the envelope's data payload into out.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()

	env := decodeEnvelope(t, w)
	if !env.Success {
		t.Fatalf("expected success envelope, got error %q", env.Error)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v (data: %s)", err, env.Data)
	}
}
