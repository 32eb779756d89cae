package upstream

import (
	"context"
	"net/http"
)

type User struct {
	ID     string   `json:"id"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
	Active bool     `json:"active"`
}

type UserInput struct {
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Password string   `json:"password,omitempty"`
	Roles    []string `json:"roles"`
}

type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type RoleInput struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type Permission struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

func (c *Client) ListUsers(ctx context.Context, cookies []*http.Cookie, p ListParams) ([]User, error) {
	return list[User](ctx, c, "/api/v1/users", cookies, p)
}

func (c *Client) GetUser(ctx context.Context, cookies []*http.Cookie, id string) (User, error) {
	return get[User](ctx, c, "/api/v1/users/"+id, cookies)
}

func (c *Client) CreateUser(ctx context.Context, cookies []*http.Cookie, in UserInput) (User, error) {
	return create[User](ctx, c, "/api/v1/users", cookies, in)
}

func (c *Client) UpdateUser(ctx context.Context, cookies []*http.Cookie, id string, in UserInput) (User, error) {
	return update[User](ctx, c, "/api/v1/users/"+id, cookies, in)
}

func (c *Client) DeleteUser(ctx context.Context, cookies []*http.Cookie, id string) error {
	return del(ctx, c, "/api/v1/users/"+id, cookies)
}

func (c *Client) ListRoles(ctx context.Context, cookies []*http.Cookie, p ListParams) ([]Role, error) {
	return list[Role](ctx, c, "/api/v1/roles", cookies, p)
}

func (c *Client) GetRole(ctx context.Context, cookies []*http.Cookie, id string) (Role, error) {
	return get[Role](ctx, c, "/api/v1/roles/"+id, cookies)
}

func (c *Client) CreateRole(ctx context.Context, cookies []*http.Cookie, in RoleInput) (Role, error) {
	return create[Role](ctx, c, "/api/v1/roles", cookies, in)
}

func (c *Client) UpdateRole(ctx context.Context, cookies []*http.Cookie, id string, in RoleInput) (Role, error) {
	return update[Role](ctx, c, "/api/v1/roles/"+id, cookies, in)
}

func (c *Client) DeleteRole(ctx context.Context, cookies []*http.Cookie, id string) error {
	return del(ctx, c, "/api/v1/roles/"+id, cookies)
}

// ListPermissions returns the catalog of grantable permissions. The
// catalog is read-only from the portal's point of view; role editing
// references entries by code.
func (c *Client) ListPermissions(ctx context.Context, cookies []*http.Cookie) ([]Permission, error) {
	return list[Permission](ctx, c, "/api/v1/permissions", cookies, ListParams{})
}
