// Package localauth is the demo-mode credential authority: it verifies
// credentials without a backend, against a hard-coded demo admin and
// accounts registered into a local sqlite database. Tokens are self-issued
// HS256 JWTs, so a restarted process can still revalidate them.
package localauth

import (
	"context"
	"fmt"

	"schooldesk/models"
	"schooldesk/session"
)

const (
	DemoUsername = "admin"
	DemoEmail    = "admin@school.com"
	DemoPassword = "admin123"
)

const (
	detailBadCredentials = "Invalid username or password"
	detailNotAuth        = "Not authenticated"
	detailUsernameTaken  = "Username already taken"
	detailEmailTaken     = "Email already registered"
	detailWrongCurrent   = "Current password is incorrect"
	detailDemoImmutable  = "The demo account password cannot be changed"
)

func demoUser() *models.User {
	return &models.User{
		ID:       0,
		Username: DemoUsername,
		Email:    DemoEmail,
		FullName: "School Admin",
		Role:     "admin",
	}
}

type Verifier struct {
	accounts *AccountStore
	opts     TokenOptions
}

func NewVerifier(accounts *AccountStore, opts TokenOptions) *Verifier {
	return &Verifier{accounts: accounts, opts: opts}
}

func (v *Verifier) Login(ctx context.Context, username, password string) (*session.Grant, error) {
	if (username == DemoEmail || username == DemoUsername) && password == DemoPassword {
		token, err := mintToken(DemoEmail, v.opts)
		if err != nil {
			return nil, fmt.Errorf("minting token: %w", err)
		}
		return &session.Grant{Token: token, User: *demoUser()}, nil
	}

	account, err := v.accounts.GetByLogin(ctx, username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, session.Reject(detailBadCredentials)
	}

	ok, err := v.accounts.ComparePassword(ctx, account.Username, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, session.Reject(detailBadCredentials)
	}

	token, err := mintToken(account.Username, v.opts)
	if err != nil {
		return nil, fmt.Errorf("minting token: %w", err)
	}
	return &session.Grant{Token: token, User: *account}, nil
}

// Register creates a local account and signs it in directly, matching the
// backend's register behavior.
func (v *Verifier) Register(ctx context.Context, reg session.Registration) (*session.Grant, error) {
	// WhoAmI keys the demo identity on a username claim equal to the demo
	// email, so that string is reserved as a username too.
	switch {
	case reg.Username == DemoUsername || reg.Username == DemoEmail:
		return nil, session.Reject(detailUsernameTaken)
	case reg.Email == DemoEmail:
		return nil, session.Reject(detailEmailTaken)
	}

	account, err := v.accounts.Create(ctx, reg)
	if err != nil {
		switch err {
		case ErrUsernameTaken:
			return nil, session.Reject(detailUsernameTaken)
		case ErrEmailTaken:
			return nil, session.Reject(detailEmailTaken)
		default:
			return nil, err
		}
	}

	token, err := mintToken(account.Username, v.opts)
	if err != nil {
		return nil, fmt.Errorf("minting token: %w", err)
	}
	return &session.Grant{Token: token, User: *account}, nil
}

func (v *Verifier) WhoAmI(ctx context.Context, token string) (*models.User, error) {
	claims, err := verifyToken(token, v.opts.Secret)
	if err != nil {
		return nil, session.Reject(detailNotAuth)
	}
	if claims.Username == DemoEmail {
		return demoUser(), nil
	}
	account, err := v.accounts.GetByUsername(ctx, claims.Username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, session.Reject(detailNotAuth)
	}
	return account, nil
}

// Logout has no authority to notify; the manager's local teardown is the
// whole operation in demo mode.
func (v *Verifier) Logout(ctx context.Context, token string) error {
	return nil
}

func (v *Verifier) ChangePassword(ctx context.Context, token, current, newPassword string) error {
	claims, err := verifyToken(token, v.opts.Secret)
	if err != nil {
		return session.Reject(detailNotAuth)
	}
	if claims.Username == DemoEmail {
		return session.Reject(detailDemoImmutable)
	}

	ok, err := v.accounts.ComparePassword(ctx, claims.Username, current)
	if err != nil {
		return err
	}
	if !ok {
		return session.Reject(detailWrongCurrent)
	}

	return v.accounts.UpdatePassword(ctx, claims.Username, newPassword)
}
