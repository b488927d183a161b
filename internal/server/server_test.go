package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"propertyadda/internal/config"
	"propertyadda/internal/models"
	"propertyadda/internal/session"
	"propertyadda/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*fiber.App, *Server, *storage.MemStore) {
	t.Helper()

	store := storage.NewMemStore()
	sessions := session.NewManager(session.NewMemoryStore(), 24*time.Hour)
	cfg := &config.Config{
		Port:            "8390",
		Env:             "test",
		StorageBackend:  config.BackendMemory,
		SessionTTLHours: 24,
	}

	srv := NewServerWithDeps(cfg, store, sessions, nil)
	app := fiber.New()
	srv.SetupRoutes(app)
	return app, srv, store
}

// doRequest performs a JSON request against the test app, attaching the
// session cookie when one is given.
func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, sessionToken string) *http.Response {
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
	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sessionToken})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerAndLogin creates an account through the public API and returns the
// created user together with a live session token.
func registerAndLogin(t *testing.T, app *fiber.App, username string) (models.User, string) {
	t.Helper()

	resp := doRequest(t, app, http.MethodPost, "/api/register", map[string]string{
		"username": username,
		"password": "secret123",
		"email":    username + "@example.com",
		"fullName": "Test " + username,
		"phone":    "+91 9876543210",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user models.User
	decodeBody(t, resp, &user)

	resp = doRequest(t, app, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	token := sessionCookieValue(resp)
	require.NotEmpty(t, token)
	return user, token
}

func sessionCookieValue(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			return c.Value
		}
	}
	return ""
}

// promoteToAdmin flips a user's role directly in the store, the same path
// seeding uses.
func promoteToAdmin(t *testing.T, store *storage.MemStore, username string) {
	t.Helper()
	require.NoError(t, store.SetUserRole(context.Background(), username, models.RoleAdmin))
}

// registerAdmin registers a user, promotes it, and logs in again so the
// returned session carries the admin role.
func registerAdmin(t *testing.T, app *fiber.App, store *storage.MemStore, username string) string {
	t.Helper()
	registerAndLogin(t, app, username)
	promoteToAdmin(t, store, username)

	resp := doRequest(t, app, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	token := sessionCookieValue(resp)
	require.NotEmpty(t, token)
	return token
}

func TestHealthEndpoints(t *testing.T) {
	app, _, _ := newTestServer(t)

	resp := doRequest(t, app, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ready", body["status"])
}
