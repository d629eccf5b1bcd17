package platform

import (
	"context"
	"net/http"
	"net/url"
)

// ListUsers fetches users matching the optional filters.
func (c *Client) ListUsers(ctx context.Context, filters Filters) ([]User, error) {
	var users []User
	if err := c.getJSON(ctx, listEndpoint("/users", filters), "users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches one user by id.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(id), "users", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update to a user record.
func (c *Client) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*User, error) {
	var user User
	if err := c.sendJSON(ctx, http.MethodPut, "/users/"+url.PathEscape(id), "users", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user record.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.deleteJSON(ctx, "/users/"+url.PathEscape(id), "users")
}
