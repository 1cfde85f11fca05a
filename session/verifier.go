package session

import (
	"context"
	"errors"

	"schooldesk/models"
)

var (
	// ErrRejected marks failures the user can act on: bad credentials,
	// duplicate accounts, wrong current password. The error message is
	// display-ready.
	ErrRejected = errors.New("rejected")
)

// Grant is a successful credential acquisition: the bearer token and the
// identity it belongs to.
type Grant struct {
	Token string
	User  models.User
}

// Registration carries the fields of a signup request.
type Registration struct {
	Username string
	Email    string
	FullName string
	Password string
}

// Verifier checks credentials against an authority. The manager works the
// same against the school-records backend or the local demo directory.
type Verifier interface {
	Login(ctx context.Context, username, password string) (*Grant, error)

	Register(ctx context.Context, reg Registration) (*Grant, error)

	// WhoAmI resolves a previously issued token to its identity. It is used
	// to revalidate a stored credential on startup.
	WhoAmI(ctx context.Context, token string) (*models.User, error)

	// Logout notifies the authority that the token is no longer in use.
	Logout(ctx context.Context, token string) error

	ChangePassword(ctx context.Context, token, current, newPassword string) error
}

type rejection struct {
	detail string
}

func (r *rejection) Error() string { return r.detail }

func (r *rejection) Unwrap() error { return ErrRejected }

// Reject wraps a display-ready failure detail so the manager surfaces it
// verbatim instead of substituting a generic message.
func Reject(detail string) error {
	return &rejection{detail: detail}
}
