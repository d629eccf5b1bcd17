package platform

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a bearer token. The caller decides where
// the token is persisted.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	c.log(ctx, "request", "auth.login", map[string]any{"email": creds.Email})
	var resp AuthResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login", "auth", creds, &resp); err != nil {
		return nil, err
	}
	c.log(ctx, "response", "auth.login", map[string]any{"token_type": resp.TokenType})
	return &resp, nil
}

// Register creates a new account. It does not authenticate: a successful
// registration still requires a login call.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*User, error) {
	c.log(ctx, "request", "auth.register", map[string]any{"email": input.Email})
	var user User
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/register", "auth", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser fetches the identity behind the active bearer token.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.getJSON(ctx, "/auth/me", "auth", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyToken reports whether the active token is still accepted upstream.
func (c *Client) VerifyToken(ctx context.Context) (bool, error) {
	err := c.getJSON(ctx, "/auth/verify-token", "auth", nil)
	if err == nil {
		return true, nil
	}
	if AsAPIError(err) != nil {
		return false, nil
	}
	return false, err
}
