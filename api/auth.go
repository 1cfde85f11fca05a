package api

import (
	"context"
	"net/http"

	"schooldesk/models"
	"schooldesk/session"
)

// tokenResponse is the payload of a successful login or register.
type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*session.Grant, error) {
	var res tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", nil,
		loginRequest{Username: username, Password: password}, &res)
	if err != nil {
		return nil, err
	}
	return &session.Grant{Token: res.AccessToken, User: res.User}, nil
}

// Register creates an account. The backend returns a token alongside the
// new account, so registration establishes a session directly.
func (c *Client) Register(ctx context.Context, reg session.Registration) (*session.Grant, error) {
	var res tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", "", nil,
		registerRequest{
			Username: reg.Username,
			Email:    reg.Email,
			FullName: reg.FullName,
			Password: reg.Password,
		}, &res)
	if err != nil {
		return nil, err
	}
	return &session.Grant{Token: res.AccessToken, User: res.User}, nil
}

func (c *Client) WhoAmI(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil, nil)
}

func (c *Client) ChangePassword(ctx context.Context, token, current, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/auth/change-password", token, nil,
		changePasswordRequest{CurrentPassword: current, NewPassword: newPassword}, nil)
}
