package api

import (
	"context"
	"fmt"
	"net/http"

	"quotation-desk/internal/core"
)

// Login exchanges credentials for a bearer token. Storing the token is up
// to the caller.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginBody{Email: email, Password: password})
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	var res LoginResult
	if err := c.decodeObject(body, &res, "token"); err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	if res.Token == "" {
		return LoginResult{}, fmt.Errorf("login: %w", ErrMalformedResponse)
	}
	return res, nil
}

// Profile returns the user owning the current token.
func (c *Client) Profile(ctx context.Context) (core.User, error) {
	var res struct {
		User core.User `json:"user"`
	}
	if err := c.getObject(ctx, "/auth/profile", &res, "user"); err != nil {
		return core.User{}, fmt.Errorf("profile: %w", err)
	}
	return res.User, nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := changePasswordBody{CurrentPassword: current, NewPassword: next}
	if _, err := c.do(ctx, http.MethodPut, "/auth/change-password", nil, body); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// Logout invalidates the token server-side and always clears it locally.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if c.tokens != nil {
		if clearErr := c.tokens.Clear(); clearErr != nil && err == nil {
			err = clearErr
		}
	}
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
