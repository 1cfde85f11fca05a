package localauth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"schooldesk/models"
	"schooldesk/session"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
)

// AccountStore keeps locally registered accounts in sqlite with
// bcrypt-hashed passwords.
type AccountStore struct {
	db *sql.DB
}

func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, reg session.Registration) (*models.User, error) {
	if existing, err := s.GetByUsername(ctx, reg.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}

	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts WHERE email = ?", reg.Email)
	var count int
	if err := row.Scan(&count); err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO accounts (username, email, full_name, role, password) VALUES (?, ?, ?, 'admin', ?)",
		reg.Username, reg.Email, reg.FullName, string(hashed))
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading account id: %w", err)
	}

	return &models.User{
		ID:       int(id),
		Username: reg.Username,
		Email:    reg.Email,
		FullName: reg.FullName,
		Role:     "admin",
	}, nil
}

// GetByLogin looks an account up by username or email. A missing account is
// (nil, nil).
func (s *AccountStore) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	return s.get(ctx, "SELECT id, username, email, full_name, role FROM accounts WHERE username = ? OR email = ? LIMIT 1", login, login)
}

func (s *AccountStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.get(ctx, "SELECT id, username, email, full_name, role FROM accounts WHERE username = ? LIMIT 1", username)
}

func (s *AccountStore) get(ctx context.Context, query string, args ...any) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, query, args...)
	user := new(models.User)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning account: %w", err)
	}
	return user, nil
}

func (s *AccountStore) ComparePassword(ctx context.Context, username, password string) (bool, error) {
	row := s.db.QueryRowContext(ctx, "SELECT password FROM accounts WHERE username = ? LIMIT 1", username)
	var hashed string
	if err := row.Scan(&hashed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("scanning password: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *AccountStore) UpdatePassword(ctx context.Context, username, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	_, err = s.db.ExecContext(ctx, "UPDATE accounts SET password = ? WHERE username = ?", string(hashed), username)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}
