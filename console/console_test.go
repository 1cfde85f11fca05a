package console_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooldesk/api"
	"schooldesk/console"
	"schooldesk/credential"
	"schooldesk/models"
	"schooldesk/session"
)

// scripted backend with one admin account and a couple of students.
func setUpBackend(t *testing.T) *api.Client {
	t.Helper()

	admin := models.User{ID: 1, Username: "admin", Email: "admin@school.com", FullName: "School Admin", Role: "admin"}
	students := []models.Student{
		{ID: 1, Name: "Alice Johnson", Email: "alice@x.com"},
		{ID: 2, Name: "Bob Stone", Email: "bob@x.com"},
	}
	tokens := map[string]bool{}

	writeJSON := func(w http.ResponseWriter, status int, body any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}

	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var payload struct{ Username, Password string }
		_ = json.NewDecoder(req.Body).Decode(&payload)
		if payload.Username != "admin" || payload.Password != "admin123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid username or password"})
			return
		}
		tokens["tok-1"] = true
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "tok-1", "token_type": "bearer", "user": admin})
	})
	r.Get("/auth/me", func(w http.ResponseWriter, req *http.Request) {
		if !tokens[req.URL.Query().Get("token")] {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		writeJSON(w, http.StatusOK, admin)
	})
	r.Post("/auth/logout", func(w http.ResponseWriter, req *http.Request) {
		delete(tokens, req.URL.Query().Get("token"))
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	})
	r.Get("/students/", func(w http.ResponseWriter, req *http.Request) {
		search := strings.ToLower(req.URL.Query().Get("search"))
		hits := []models.Student{}
		for _, s := range students {
			if search == "" || strings.Contains(strings.ToLower(s.Name), search) {
				hits = append(hits, s)
			}
		}
		writeJSON(w, http.StatusOK, hits)
	})
	for _, entity := range []string{"teachers", "classes", "subjects"} {
		r.Get("/"+entity+"/", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, []any{})
		})
	}

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return api.NewClient(server.URL, 5*time.Second, nil)
}

// runConsole feeds the script to a fresh console and returns its output.
func runConsole(t *testing.T, client *api.Client, script string) string {
	t.Helper()
	mgr := session.NewManager(client, credential.NewMemStore(), nil)
	out := &bytes.Buffer{}
	c := console.New(mgr, client, strings.NewReader(script), out, nil)
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestGating(t *testing.T) {
	client := setUpBackend(t)

	out := runConsole(t, client, "students\ndashboard\nexit\n")

	assert.Contains(t, out, "Sign in first")
	assert.NotContains(t, out, "Alice Johnson")
}

func TestLoginFlow(t *testing.T) {
	t.Run("successful login unlocks the screens", func(t *testing.T) {
		client := setUpBackend(t)

		out := runConsole(t, client, "login\nadmin\nadmin123\nstudents\nexit\n")

		assert.Contains(t, out, "Welcome, School Admin.")
		assert.Contains(t, out, "Alice Johnson")
		assert.Contains(t, out, "Bob Stone")
	})

	t.Run("failed login keeps the console signed out", func(t *testing.T) {
		client := setUpBackend(t)

		out := runConsole(t, client, "login\nadmin\nwrongpass\nstudents\nexit\n")

		assert.Contains(t, out, "Invalid username or password")
		assert.Contains(t, out, "Sign in first")
	})

	t.Run("search narrows the list", func(t *testing.T) {
		client := setUpBackend(t)

		out := runConsole(t, client, "login\nadmin\nadmin123\nstudents alice\nexit\n")

		assert.Contains(t, out, "Alice Johnson")
		assert.NotContains(t, out, "Bob Stone")
	})
}

func TestLogout(t *testing.T) {
	client := setUpBackend(t)

	out := runConsole(t, client, "login\nadmin\nadmin123\nlogout\nwhoami\nexit\n")

	assert.Contains(t, out, "Signed out.")
	assert.Contains(t, out, "Not signed in.")
}

func TestDashboard(t *testing.T) {
	client := setUpBackend(t)

	out := runConsole(t, client, "login\nadmin\nadmin123\ndashboard\nexit\n")

	assert.Contains(t, out, "STUDENTS")
	assert.Contains(t, out, "2")
}
