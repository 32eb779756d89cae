package upstream

import (
	"context"
	"net/http"

	"hrmportal/internal/apiclient"
	"hrmportal/internal/perm"
)

// Identity is the upstream identity document: the authenticated user's
// canonical record plus the raw permission grants the portal normalizes
// for route guarding and navigation filtering.
type Identity struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Role        string          `json:"role"`
	Permissions []perm.RawEntry `json:"permissions"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the upstream API and returns the identity
// document together with the Set-Cookie values establishing the upstream
// session. A failed login returns the upstream error untouched.
func (c *Client) Login(ctx context.Context, email, password string) (Identity, []*http.Cookie, error) {
	var identity Identity
	var cookies []*http.Cookie
	err := c.api.Post(ctx, "/api/v1/auth/login", loginRequest{Email: email, Password: password}, &identity,
		apiclient.CaptureCookies(&cookies))
	if err != nil {
		return Identity{}, nil, err
	}
	return identity, cookies, nil
}

// Me probes the upstream for the identity bound to the given session
// cookies. A 401 propagates as *apiclient.Error; the session store turns
// it into the unauthenticated state.
func (c *Client) Me(ctx context.Context, cookies []*http.Cookie) (Identity, error) {
	return get[Identity](ctx, c, "/api/v1/auth/me", cookies)
}

// Logout invalidates the upstream session. Callers clear local state
// regardless of the outcome.
func (c *Client) Logout(ctx context.Context, cookies []*http.Cookie) error {
	return c.api.Post(ctx, "/api/v1/auth/logout", nil, nil, apiclient.WithCookies(cookies))
}
