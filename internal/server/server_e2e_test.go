package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"nexafolio/internal/auth"
	"nexafolio/internal/config"
	"nexafolio/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMemoryServer spins up the full route surface backed by the
// in-memory store, with an admin user already present.
func newMemoryServer(t *testing.T) (*fiber.App, *Server) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:       "e2e-test-secret",
		SessionTTLHours: 168,
		UploadDir:       t.TempDir(),
		Env:             "test",
	}

	s := NewServerWithDeps(cfg, nil, nil)

	hashed, err := auth.HashPassword("Password123!")
	require.NoError(t, err)
	require.NoError(t, s.userRepo.Create(context.Background(), &models.User{
		Username: "nexa",
		Password: hashed,
	}))

	app := fiber.New()
	s.SetupRoutes(app)
	return app, s
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, cookie string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: authCookieName, Value: cookie})
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func loginAs(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"username": username, "password": password}, "")
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == authCookieName {
			return c.Value
		}
	}
	t.Fatal("login response did not set the session cookie")
	return ""
}

func TestHealthCheckMemoryMode(t *testing.T) {
	app, _ := newMemoryServer(t)

	resp := doJSON(t, app, http.MethodGet, "/api/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]any](t, resp)
	checks, ok := body["checks"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "memory", checks["database"])
}

func TestLoginFlow(t *testing.T) {
	app, _ := newMemoryServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "nexa", "password": "wrong"}, "")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := loginAs(t, app, "nexa", "Password123!")

	resp = doJSON(t, app, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody[userResponse](t, resp)
	assert.Equal(t, "nexa", me.Username)
	assert.Equal(t, "admin", me.Role)

	resp = doJSON(t, app, http.MethodGet, "/api/auth/me", nil, "")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProjectLifecycle(t *testing.T) {
	app, _ := newMemoryServer(t)
	token := loginAs(t, app, "nexa", "Password123!")

	// Empty list is a JSON array, not null.
	resp := doJSON(t, app, http.MethodGet, "/api/projects/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[[]models.Project](t, resp))

	// Mutations require a session.
	resp = doJSON(t, app, http.MethodPost, "/api/projects/",
		map[string]any{"title": "x", "description": "y", "imageUrl": "/uploads/a.webp"}, "")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	create := func(title string, priority int) models.Project {
		resp := doJSON(t, app, http.MethodPost, "/api/projects/", map[string]any{
			"title":       title,
			"description": "a project",
			"imageUrl":    "/uploads/a.webp",
			"tags":        []string{"go", "fiber"},
			"priority":    priority,
		}, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		return decodeBody[models.Project](t, resp)
	}

	low := create("low", 1)
	high := create("high", 10)
	mid := create("mid", 5)

	// Listed by priority, highest first.
	resp = doJSON(t, app, http.MethodGet, "/api/projects/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decodeBody[[]models.Project](t, resp)
	require.Len(t, listed, 3)
	assert.Equal(t, []string{"high", "mid", "low"},
		[]string{listed[0].Title, listed[1].Title, listed[2].Title})

	// Partial update keeps untouched fields.
	resp = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/projects/%d", mid.ID),
		map[string]any{"featured": true}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[models.Project](t, resp)
	assert.True(t, updated.Featured)
	assert.Equal(t, "mid", updated.Title)
	assert.Equal(t, models.Tags{"go", "fiber"}, updated.Tags)

	// Missing required field on create.
	resp = doJSON(t, app, http.MethodPost, "/api/projects/",
		map[string]any{"title": "no image", "description": "d"}, token)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Delete is idempotent.
	for i := 0; i < 2; i++ {
		resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/projects/%d", low.ID), nil, token)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/projects/%d", low.ID), nil, "")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/projects/%d", high.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "high", decodeBody[models.Project](t, resp).Title)
}

func TestBlogLifecycle(t *testing.T) {
	app, _ := newMemoryServer(t)
	token := loginAs(t, app, "nexa", "Password123!")

	resp := doJSON(t, app, http.MethodPost, "/api/blog/", map[string]any{
		"title":   "First Post",
		"content": "hello world",
		"slug":    "first-post",
		"tags":    []string{"go"},
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	post := decodeBody[models.BlogPost](t, resp)

	// Readable by numeric ID and by slug.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/blog/%d", post.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "first-post", decodeBody[models.BlogPost](t, resp).Slug)

	resp = doJSON(t, app, http.MethodGet, "/api/blog/first-post", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, post.ID, decodeBody[models.BlogPost](t, resp).ID)

	resp = doJSON(t, app, http.MethodGet, "/api/blog/no-such-post", nil, "")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Duplicate slug is a client error.
	resp = doJSON(t, app, http.MethodPost, "/api/blog/", map[string]any{
		"title":   "Copycat",
		"content": "same slug",
		"slug":    "first-post",
	}, token)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Malformed slug rejected up front.
	resp = doJSON(t, app, http.MethodPost, "/api/blog/", map[string]any{
		"title":   "Bad Slug",
		"content": "c",
		"slug":    "Not A Slug!",
	}, token)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Mutations address posts by numeric ID only.
	resp = doJSON(t, app, http.MethodPatch, "/api/blog/first-post",
		map[string]any{"title": "Renamed"}, token)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/blog/%d", post.ID),
		map[string]any{"title": "Renamed"}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	renamed := decodeBody[models.BlogPost](t, resp)
	assert.Equal(t, "Renamed", renamed.Title)
	assert.Equal(t, "hello world", renamed.Content)

	resp = doJSON(t, app, http.MethodDelete, "/api/blog/first-post", nil, token)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/blog/%d", post.ID), nil, token)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/blog/first-post", nil, "")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMessageFlow(t *testing.T) {
	app, _ := newMemoryServer(t)

	send := func(name, email, text string) *http.Response {
		return doJSON(t, app, http.MethodPost, "/api/messages/",
			map[string]string{"name": name, "email": email, "message": text}, "")
	}

	resp := send("Visitor", "not-an-email", "hi")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = send("Alice", "alice@example.com", "first message")
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = send("Bob", "bob@example.com", "second message")
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Reading requires a session.
	resp = doJSON(t, app, http.MethodGet, "/api/messages/", nil, "")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := loginAs(t, app, "nexa", "Password123!")

	resp = doJSON(t, app, http.MethodGet, "/api/messages/", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	messages := decodeBody[[]models.Message](t, resp)
	require.Len(t, messages, 2)
	assert.Equal(t, "Bob", messages[0].Name) // newest first
	assert.Equal(t, "Alice", messages[1].Name)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/messages/%d", messages[0].ID), nil, token)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/messages/", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	remaining := decodeBody[[]models.Message](t, resp)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Alice", remaining[0].Name)
}
