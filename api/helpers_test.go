package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"schooldesk/api"
	"schooldesk/models"
)

// fakeBackend is an in-process stand-in for the school-records API with the
// same contract the real backend exposes: token-as-query-param auth,
// {detail} failure payloads, ilike-style search.
type fakeBackend struct {
	mu       sync.Mutex
	nextID   int
	users    map[string]*fakeUser // by username
	tokens   map[string]string    // token -> username
	students map[int]models.Student
}

type fakeUser struct {
	user     models.User
	password string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextID:   1,
		users:    make(map[string]*fakeUser),
		tokens:   make(map[string]string),
		students: make(map[int]models.Student),
	}
}

func (b *fakeBackend) addUser(username, email, fullName, password string) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := models.User{ID: b.nextID, Username: username, Email: email, FullName: fullName, Role: "admin"}
	b.nextID++
	b.users[username] = &fakeUser{user: u, password: password}
	return u
}

func (b *fakeBackend) issueToken(username string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	token := uuid.NewString()
	b.tokens[token] = username
	return token
}

func (b *fakeBackend) addStudent(s models.Student) models.Student {
	b.mu.Lock()
	defer b.mu.Unlock()
	s.ID = b.nextID
	b.nextID++
	b.students[s.ID] = s
	return s
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (b *fakeBackend) currentUser(r *http.Request) *models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	username, ok := b.tokens[r.URL.Query().Get("token")]
	if !ok {
		return nil
	}
	fu, ok := b.users[username]
	if !ok {
		return nil
	}
	u := fu.user
	return &u
}

func (b *fakeBackend) tokenResponse(user models.User, token string) map[string]any {
	return map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	}
}

func (b *fakeBackend) router() http.Handler {
	r := chi.NewRouter()

	r.Post("/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var payload struct{ Username, Password string }
		_ = json.NewDecoder(req.Body).Decode(&payload)
		b.mu.Lock()
		fu, ok := b.users[payload.Username]
		b.mu.Unlock()
		if !ok || fu.password != payload.Password {
			writeDetail(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		writeJSON(w, http.StatusOK, b.tokenResponse(fu.user, b.issueToken(fu.user.Username)))
	})

	r.Post("/auth/register", func(w http.ResponseWriter, req *http.Request) {
		var payload struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			FullName string `json:"full_name"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(req.Body).Decode(&payload)
		b.mu.Lock()
		if _, ok := b.users[payload.Username]; ok {
			b.mu.Unlock()
			writeDetail(w, http.StatusBadRequest, "Username already taken")
			return
		}
		for _, fu := range b.users {
			if fu.user.Email == payload.Email {
				b.mu.Unlock()
				writeDetail(w, http.StatusBadRequest, "Email already registered")
				return
			}
		}
		b.mu.Unlock()
		user := b.addUser(payload.Username, payload.Email, payload.FullName, payload.Password)
		writeJSON(w, http.StatusCreated, b.tokenResponse(user, b.issueToken(user.Username)))
	})

	r.Get("/auth/me", func(w http.ResponseWriter, req *http.Request) {
		user := b.currentUser(req)
		if user == nil {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		writeJSON(w, http.StatusOK, user)
	})

	r.Post("/auth/logout", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		delete(b.tokens, req.URL.Query().Get("token"))
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	})

	r.Post("/auth/change-password", func(w http.ResponseWriter, req *http.Request) {
		user := b.currentUser(req)
		if user == nil {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		var payload struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		_ = json.NewDecoder(req.Body).Decode(&payload)
		b.mu.Lock()
		defer b.mu.Unlock()
		fu := b.users[user.Username]
		if fu.password != payload.CurrentPassword {
			writeDetail(w, http.StatusBadRequest, "Current password is incorrect")
			return
		}
		fu.password = payload.NewPassword
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/students/", func(w http.ResponseWriter, req *http.Request) {
		search := strings.ToLower(req.URL.Query().Get("search"))
		b.mu.Lock()
		defer b.mu.Unlock()
		students := []models.Student{}
		for _, s := range b.students {
			if search == "" || strings.Contains(strings.ToLower(s.Name), search) {
				students = append(students, s)
			}
		}
		writeJSON(w, http.StatusOK, students)
	})

	r.Post("/students/", func(w http.ResponseWriter, req *http.Request) {
		var in models.Student
		_ = json.NewDecoder(req.Body).Decode(&in)
		writeJSON(w, http.StatusCreated, b.addStudent(in))
	})

	r.Get("/students/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		b.mu.Lock()
		s, ok := b.students[id]
		b.mu.Unlock()
		if !ok {
			writeDetail(w, http.StatusNotFound, "Student not found")
			return
		}
		writeJSON(w, http.StatusOK, s)
	})

	r.Put("/students/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		b.mu.Lock()
		defer b.mu.Unlock()
		s, ok := b.students[id]
		if !ok {
			writeDetail(w, http.StatusNotFound, "Student not found")
			return
		}
		var in models.Student
		_ = json.NewDecoder(req.Body).Decode(&in)
		in.ID = s.ID
		b.students[id] = in
		writeJSON(w, http.StatusOK, in)
	})

	r.Delete("/students/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.students[id]; !ok {
			writeDetail(w, http.StatusNotFound, "Student not found")
			return
		}
		delete(b.students, id)
		w.WriteHeader(http.StatusNoContent)
	})

	// the other entities share the student handlers' shape; list is enough
	// for what the client tests exercise
	for _, entity := range []string{"teachers", "classes", "subjects"} {
		r.Get(fmt.Sprintf("/%s/", entity), func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, []any{})
		})
	}

	return r
}

func setUpBackend(t *testing.T) (*fakeBackend, *api.Client) {
	t.Helper()
	backend := newFakeBackend()
	server := httptest.NewServer(backend.router())
	t.Cleanup(server.Close)
	client := api.NewClient(server.URL, 5*time.Second, nil)
	return backend, client
}
