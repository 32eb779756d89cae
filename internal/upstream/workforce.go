package upstream

import (
	"context"
	"net/http"
)

type Contract struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	Type       string  `json:"type"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate,omitempty"`
	Salary     float64 `json:"salary"`
	Currency   string  `json:"currency"`
}

type ContractInput struct {
	EmployeeID string  `json:"employeeId"`
	Type       string  `json:"type"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate,omitempty"`
	Salary     float64 `json:"salary"`
	Currency   string  `json:"currency"`
}

type AttendanceRecord struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	CheckIn    string `json:"checkIn,omitempty"`
	CheckOut   string `json:"checkOut,omitempty"`
}

type LeaveRequest struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Type       string `json:"type"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
}

type LeaveInput struct {
	EmployeeID string `json:"employeeId"`
	Type       string `json:"type"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Reason     string `json:"reason,omitempty"`
}

type OvertimeEntry struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	Date       string  `json:"date"`
	Hours      float64 `json:"hours"`
	Status     string  `json:"status"`
}

type OvertimeInput struct {
	EmployeeID string  `json:"employeeId"`
	Date       string  `json:"date"`
	Hours      float64 `json:"hours"`
}

func (c *Client) ListContracts(ctx context.Context, cookies []*http.Cookie, p ListParams) ([]Contract, error) {
	return list[Contract](ctx, c, "/api/v1/contracts", cookies, p)
}

func (c *Client) GetContract(ctx context.Context, cookies []*http.Cookie, id string) (Contract, error) {
	return get[Contract](ctx, c, "/api/v1/contracts/"+id, cookies)
}

func (c *Client) CreateContract(ctx context.Context, cookies []*http.Cookie, in ContractInput) (Contract, error) {
	return create[Contract](ctx, c, "/api/v1/contracts", cookies, in)
}

func (c *Client) UpdateContract(ctx context.Context, cookies []*http.Cookie, id string, in ContractInput) (Contract, error) {
	return update[Contract](ctx, c, "/api/v1/contracts/"+id, cookies, in)
}

func (c *Client) DeleteContract(ctx context.Context, cookies []*http.Cookie, id string) error {
	return del(ctx, c, "/api/v1/contracts/"+id, cookies)
}

func (c *Client) ListAttendance(ctx context.Context, cookies []*http.Cookie, p ListParams) ([]AttendanceRecord, error) {
	return list[AttendanceRecord](ctx, c, "/api/v1/attendance", cookies, p)
}

// CheckIn opens today's attendance record for the current user.
func (c *Client) CheckIn(ctx context.Context, cookies []*http.Cookie) (AttendanceRecord, error) {
	return create[AttendanceRecord](ctx, c, "/api/v1/attendance/check-in", cookies, nil)
}

func (c *Client) CheckOut(ctx context.Context, cookies []*http.Cookie) (AttendanceRecord, error) {
	return create[AttendanceRecord](ctx, c, "/api/v1/attendance/check-out", cookies, nil)
}

func (c *Client) ListLeave(ctx context.Context, cookies []*http.Cookie, p ListParams) ([]LeaveRequest, error) {
	return list[LeaveRequest](ctx, c, "/api/v1/leave", cookies, p)
}

func (c *Client) CreateLeave(ctx context.Context, cookies []*http.Cookie, in LeaveInput) (LeaveRequest, error) {
	return create[LeaveRequest](ctx, c, "/api/v1/leave", cookies, in)
}

func (c *Client) ApproveLeave(ctx context.Context, cookies []*http.Cookie, id string) (LeaveRequest, error) {
	return create[LeaveRequest](ctx, c, "/api/v1/leave/"+id+"/approve", cookies, nil)
}

func (c *Client) RejectLeave(ctx context.Context, cookies []*http.Cookie, id string) (LeaveRequest, error) {
	return create[LeaveRequest](ctx, c, "/api/v1/leave/"+id+"/reject", cookies, nil)
}

func (c *Client) DeleteLeave(ctx context.Context, cookies []*http.Cookie, id string) error {
	return del(ctx, c, "/api/v1/leave/"+id, cookies)
}

func (c *Client) ListOvertime(ctx context.Context, cookies []*http.Cookie, p ListParams) ([]OvertimeEntry, error) {
	return list[OvertimeEntry](ctx, c, "/api/v1/overtime", cookies, p)
}

func (c *Client) CreateOvertime(ctx context.Context, cookies []*http.Cookie, in OvertimeInput) (OvertimeEntry, error) {
	return create[OvertimeEntry](ctx, c, "/api/v1/overtime", cookies, in)
}

func (c *Client) ApproveOvertime(ctx context.Context, cookies []*http.Cookie, id string) (OvertimeEntry, error) {
	return create[OvertimeEntry](ctx, c, "/api/v1/overtime/"+id+"/approve", cookies, nil)
}

func (c *Client) DeleteOvertime(ctx context.Context, cookies []*http.Cookie, id string) error {
	return del(ctx, c, "/api/v1/overtime/"+id, cookies)
}
