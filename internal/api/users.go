package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Credentials is the authentication request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the account-creation request body.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
}

// Authenticate exchanges credentials for a bearer token.
func (c *Client) Authenticate(ctx context.Context, creds Credentials) (TokenResponse, error) {
	var token TokenResponse
	if err := c.do(ctx, "authenticate", http.MethodPost, "/auth/authenticate", creds, &token); err != nil {
		return TokenResponse{}, err
	}
	return token, nil
}

// Register creates an account and returns a bearer token.
func (c *Client) Register(ctx context.Context, reg Registration) (TokenResponse, error) {
	var token TokenResponse
	if err := c.do(ctx, "register", http.MethodPost, "/auth/register", reg, &token); err != nil {
		return TokenResponse{}, err
	}
	return token, nil
}

// UserByEmail resolves a user record from an email address.
func (c *Client) UserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	if err := c.do(ctx, "get_user_by_email", http.MethodGet, "/users/email/"+url.PathEscape(email), nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// User fetches a user profile by id.
func (c *Client) User(ctx context.Context, id int64) (User, error) {
	var user User
	if err := c.do(ctx, "get_user", http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// UpdateUser replaces a user profile.
func (c *Client) UpdateUser(ctx context.Context, id int64, user User) (User, error) {
	var updated User
	if err := c.do(ctx, "update_user", http.MethodPut, fmt.Sprintf("/users/%d", id), user, &updated); err != nil {
		return User{}, err
	}
	return updated, nil
}

// Users lists every account. Admin only.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, "list_users", http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser registers an account on behalf of someone else. Admin only.
func (c *Client) CreateUser(ctx context.Context, user User) (User, error) {
	var created User
	if err := c.do(ctx, "create_user", http.MethodPost, "/users", user, &created); err != nil {
		return User{}, err
	}
	return created, nil
}

// UpdateUserRole changes an account role. Admin only.
func (c *Client) UpdateUserRole(ctx context.Context, id int64, user User) (User, error) {
	var updated User
	if err := c.do(ctx, "update_user_role", http.MethodPut, fmt.Sprintf("/users/role/%d", id), user, &updated); err != nil {
		return User{}, err
	}
	return updated, nil
}

// DeleteUser removes an account. Admin only.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_user", http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}
