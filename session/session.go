package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"schooldesk/credential"
	"schooldesk/models"
)

// State is the lifecycle state of the session.
type State int

const (
	Unauthenticated State = iota
	Validating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Validating:
		return "validating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

var validate = validator.New()

// Manager owns the authentication session: credential acquisition,
// persistence, revalidation on startup, and logout. It is the single source
// of truth for gating protected screens.
//
// Concurrent operations are not coalesced; if two logins race, the later
// response wins. The caller is expected to disable the submit path while a
// call is in flight.
type Manager struct {
	verifier Verifier
	creds    credential.Store
	logger   *slog.Logger

	mu        sync.Mutex
	state     State
	token     string
	identity  *models.User
	loading   bool
	lastError string
}

// Snapshot is a point-in-time view of the session exposed to consumers.
type Snapshot struct {
	State     State
	Token     string
	User      *models.User
	Loading   bool
	LastError string
}

func NewManager(verifier Verifier, creds credential.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		verifier: verifier,
		creds:    creds,
		logger:   logger,
	}
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	var user *models.User
	if m.identity != nil {
		u := *m.identity
		user = &u
	}
	return Snapshot{
		State:     m.state,
		Token:     m.token,
		User:      user,
		Loading:   m.loading,
		LastError: m.lastError,
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return nil
	}
	u := *m.identity
	return &u
}

func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

func (m *Manager) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastError = ""
}

// Initialize revalidates a previously stored credential. With nothing
// stored it settles in Unauthenticated without touching the network. A
// rejected or unreachable authority downgrades the session silently; from
// the user's point of view that is "you need to log in", not an error.
// Running it twice is safe.
func (m *Manager) Initialize(ctx context.Context) {
	token, err := m.creds.Load()
	if err != nil {
		m.logger.Warn("reading stored credential", "error", err)
		token = ""
	}

	if token == "" {
		m.mu.Lock()
		m.state = Unauthenticated
		m.loading = false
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	m.state = Validating
	m.token = token
	m.loading = true
	m.mu.Unlock()

	user, err := m.verifier.WhoAmI(ctx, token)
	if err != nil {
		m.logger.Debug("stored credential rejected", "error", err)
		if cerr := m.creds.Clear(); cerr != nil {
			m.logger.Warn("clearing stored credential", "error", cerr)
		}
		m.mu.Lock()
		m.state = Unauthenticated
		m.token = ""
		m.identity = nil
		m.loading = false
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	m.identity = user
	m.state = Authenticated
	m.loading = false
	m.mu.Unlock()
	m.logger.Debug("session revalidated", "username", user.Username)
}

// Login acquires a credential for the given username (or email) and
// password. On failure the session state is untouched and the returned
// error carries a display-ready message, also available via LastError.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return m.reject("Username and password are required")
	}

	grant, err := m.verifier.Login(ctx, username, password)
	if err != nil {
		return m.fail(err, "Login failed")
	}

	m.establish(grant)
	m.logger.Debug("logged in", "username", grant.User.Username)
	return nil
}

// Register creates a new account and, on success, establishes a session for
// it directly. Nothing is committed on failure.
func (m *Manager) Register(ctx context.Context, reg Registration, confirm string) error {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.FullName = strings.TrimSpace(reg.FullName)

	switch {
	case reg.Username == "" || reg.Email == "" || reg.FullName == "" || reg.Password == "":
		return m.reject("All fields are required")
	case validate.Var(reg.Email, "email") != nil:
		return m.reject("Enter a valid email address")
	case len(reg.Password) < 6:
		return m.reject("Password must be at least 6 characters")
	case reg.Password != confirm:
		return m.reject("Passwords do not match")
	}

	grant, err := m.verifier.Register(ctx, reg)
	if err != nil {
		return m.fail(err, "Registration failed")
	}

	m.establish(grant)
	m.logger.Debug("registered", "username", grant.User.Username)
	return nil
}

// Logout clears the session and the stored credential unconditionally,
// then notifies the authority best-effort. A failed notification never
// blocks or reverses the local sign-out.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	token := m.token
	m.state = Unauthenticated
	m.token = ""
	m.identity = nil
	m.lastError = ""
	m.mu.Unlock()

	if err := m.creds.Clear(); err != nil {
		m.logger.Warn("clearing stored credential", "error", err)
	}

	if token == "" {
		return
	}
	if err := m.verifier.Logout(ctx, token); err != nil {
		m.logger.Debug("logout notice failed", "error", err)
	}
}

// ChangePassword updates the authenticated account's password. The session
// stays established either way; a wrong current password surfaces as a
// recoverable error.
func (m *Manager) ChangePassword(ctx context.Context, current, newPassword, confirm string) error {
	m.mu.Lock()
	token := m.token
	state := m.state
	m.mu.Unlock()

	switch {
	case state != Authenticated:
		return m.reject("Not signed in")
	case len(newPassword) < 6:
		return m.reject("New password must be at least 6 characters")
	case newPassword == current:
		return m.reject("New password must be different from the current password")
	case newPassword != confirm:
		return m.reject("New passwords do not match")
	}

	if err := m.verifier.ChangePassword(ctx, token, current, newPassword); err != nil {
		return m.fail(err, "Failed to change password")
	}

	m.ClearError()
	return nil
}

func (m *Manager) establish(grant *Grant) {
	if err := m.creds.Save(grant.Token); err != nil {
		m.logger.Warn("persisting credential", "error", err)
	}
	user := grant.User
	m.mu.Lock()
	m.token = grant.Token
	m.identity = &user
	m.state = Authenticated
	m.loading = false
	m.lastError = ""
	m.mu.Unlock()
}

// reject records a client-side validation failure. No network call is made.
func (m *Manager) reject(detail string) error {
	m.mu.Lock()
	m.lastError = detail
	m.mu.Unlock()
	return Reject(detail)
}

// fail records a verifier failure. Rejections keep their display-ready
// detail; transport and server errors collapse into the generic message so
// no raw error ever reaches the UI.
func (m *Manager) fail(err error, generic string) error {
	detail := generic
	if errors.Is(err, ErrRejected) {
		detail = err.Error()
	} else {
		m.logger.Debug("verifier call failed", "error", err)
	}
	m.mu.Lock()
	m.lastError = detail
	m.mu.Unlock()
	return Reject(detail)
}
