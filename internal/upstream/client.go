package upstream

import (
	"context"
	"net/http"
	"strconv"

	"hrmportal/internal/apiclient"
)

// Client groups the typed resource clients for the external HRM API.
// Every operation takes the upstream session cookies held by the portal
// session, standing in for the browser's own cookie jar.
type Client struct {
	api *apiclient.Client
}

func New(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// ListParams is the common pagination and filter surface of the list
// endpoints. Zero values are omitted from the query string.
type ListParams struct {
	Limit  int
	Offset int
	Filter map[string]string
}

func (p ListParams) query() string {
	params := map[string]string{}
	for key, value := range p.Filter {
		params[key] = value
	}
	if p.Limit > 0 {
		params["limit"] = strconv.Itoa(p.Limit)
	}
	if p.Offset > 0 {
		params["offset"] = strconv.Itoa(p.Offset)
	}
	return apiclient.Query(params)
}

func list[T any](ctx context.Context, c *Client, path string, cookies []*http.Cookie, p ListParams) ([]T, error) {
	var out []T
	if err := c.api.Get(ctx, path+p.query(), &out, apiclient.WithCookies(cookies)); err != nil {
		return nil, err
	}
	return out, nil
}

func get[T any](ctx context.Context, c *Client, path string, cookies []*http.Cookie) (T, error) {
	var out T
	err := c.api.Get(ctx, path, &out, apiclient.WithCookies(cookies))
	return out, err
}

func create[T any](ctx context.Context, c *Client, path string, cookies []*http.Cookie, body any) (T, error) {
	var out T
	err := c.api.Post(ctx, path, body, &out, apiclient.WithCookies(cookies))
	return out, err
}

func update[T any](ctx context.Context, c *Client, path string, cookies []*http.Cookie, body any) (T, error) {
	var out T
	err := c.api.Put(ctx, path, body, &out, apiclient.WithCookies(cookies))
	return out, err
}

func del(ctx context.Context, c *Client, path string, cookies []*http.Cookie) error {
	return c.api.Delete(ctx, path, apiclient.WithCookies(cookies))
}
