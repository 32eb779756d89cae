package upstream

import (
	"context"
	"net/http"
)

type PayrollPeriod struct {
	ID        string `json:"id"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
}

type Payslip struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employeeId"`
	EmployeeName string  `json:"employeeName"`
	Email        string  `json:"email"`
	PeriodStart  string  `json:"periodStart"`
	PeriodEnd    string  `json:"periodEnd"`
	Gross        float64 `json:"gross"`
	Deductions   float64 `json:"deductions"`
	Net          float64 `json:"net"`
	Currency     string  `json:"currency"`
}

func (c *Client) ListPayrollPeriods(ctx context.Context, cookies []*http.Cookie, p ListParams) ([]PayrollPeriod, error) {
	return list[PayrollPeriod](ctx, c, "/api/v1/payroll/periods", cookies, p)
}

func (c *Client) ListPayslips(ctx context.Context, cookies []*http.Cookie, p ListParams) ([]Payslip, error) {
	return list[Payslip](ctx, c, "/api/v1/payroll/payslips", cookies, p)
}

func (c *Client) GetPayslip(ctx context.Context, cookies []*http.Cookie, id string) (Payslip, error) {
	return get[Payslip](ctx, c, "/api/v1/payroll/payslips/"+id, cookies)
}
