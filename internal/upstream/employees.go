package upstream

import (
	"context"
	"net/http"
)

type Employee struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Active     bool   `json:"active"`
}

type EmployeeInput struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

func (c *Client) ListEmployees(ctx context.Context, cookies []*http.Cookie, p ListParams) ([]Employee, error) {
	return list[Employee](ctx, c, "/api/v1/employees", cookies, p)
}

func (c *Client) GetEmployee(ctx context.Context, cookies []*http.Cookie, id string) (Employee, error) {
	return get[Employee](ctx, c, "/api/v1/employees/"+id, cookies)
}

func (c *Client) CreateEmployee(ctx context.Context, cookies []*http.Cookie, in EmployeeInput) (Employee, error) {
	return create[Employee](ctx, c, "/api/v1/employees", cookies, in)
}

func (c *Client) UpdateEmployee(ctx context.Context, cookies []*http.Cookie, id string, in EmployeeInput) (Employee, error) {
	return update[Employee](ctx, c, "/api/v1/employees/"+id, cookies, in)
}

func (c *Client) DeleteEmployee(ctx context.Context, cookies []*http.Cookie, id string) error {
	return del(ctx, c, "/api/v1/employees/"+id, cookies)
}
