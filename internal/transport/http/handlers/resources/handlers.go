package resources

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmportal/internal/apiclient"
	"hrmportal/internal/guard"
	"hrmportal/internal/perm"
	"hrmportal/internal/transport/http/api"
	"hrmportal/internal/transport/http/middleware"
	"hrmportal/internal/transport/http/shared"
	"hrmportal/internal/upstream"
)

// Handler proxies the HRM resource screens through the portal. Every
// route group is gated on the permission the corresponding screen
// requires; the upstream API remains the actual authorization boundary
// and re-checks on every call.
type Handler struct {
	up *upstream.Client
}

func NewHandler(up *upstream.Client) *Handler {
	return &Handler{up: up}
}

func (h *Handler) RegisterRoutes(r chi.Router, g *guard.Guard) {
	r.Route("/employees", func(r chi.Router) {
		r.Use(g.RequireAny(perm.ManageEmployees))
		r.Get("/", h.listEmployees)
		r.Post("/", h.createEmployee)
		r.Get("/{id}", h.getEmployee)
		r.Put("/{id}", h.updateEmployee)
		r.Delete("/{id}", h.deleteEmployee)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(g.RequireAny(perm.ManageUsers))
		r.Get("/", h.listUsers)
		r.Post("/", h.createUser)
		r.Get("/{id}", h.getUser)
		r.Put("/{id}", h.updateUser)
		r.Delete("/{id}", h.deleteUser)
	})

	r.Route("/roles", func(r chi.Router) {
		r.Use(g.RequireAny(perm.ManageRoles))
		r.Get("/", h.listRoles)
		r.Post("/", h.createRole)
		r.Get("/{id}", h.getRole)
		r.Put("/{id}", h.updateRole)
		r.Delete("/{id}", h.deleteRole)
	})

	r.With(g.RequireAny(perm.ManageRoles, perm.ManagePermissions)).
		Get("/permissions", h.listPermissions)

	r.Route("/contracts", func(r chi.Router) {
		r.Use(g.RequireAny(perm.ManageContracts))
		r.Get("/", h.listContracts)
		r.Post("/", h.createContract)
		r.Get("/{id}", h.getContract)
		r.Put("/{id}", h.updateContract)
		r.Delete("/{id}", h.deleteContract)
	})

	r.Route("/attendance", func(r chi.Router) {
		r.With(g.RequireAny(perm.ManageAttendance, perm.CheckinCheckout)).Get("/", h.listAttendance)
		r.With(g.RequireAny(perm.CheckinCheckout)).Post("/check-in", h.checkIn)
		r.With(g.RequireAny(perm.CheckinCheckout)).Post("/check-out", h.checkOut)
	})

	r.Route("/leave", func(r chi.Router) {
		r.Use(g.RequireAny(perm.ManageLeave, perm.ApproveLeave))
		r.Get("/", h.listLeave)
		r.Post("/", h.createLeave)
		r.With(g.RequireAny(perm.ApproveLeave)).Post("/{id}/approve", h.approveLeave)
		r.With(g.RequireAny(perm.ApproveLeave)).Post("/{id}/reject", h.rejectLeave)
		r.Delete("/{id}", h.deleteLeave)
	})

	r.Route("/overtime", func(r chi.Router) {
		r.Use(g.RequireAny(perm.ManageOvertime))
		r.Get("/", h.listOvertime)
		r.Post("/", h.createOvertime)
		r.Post("/{id}/approve", h.approveOvertime)
		r.Delete("/{id}", h.deleteOvertime)
	})

	r.Route("/payroll", func(r chi.Router) {
		r.Use(g.RequireAny(perm.ManagePayroll, perm.ViewPayslips))
		r.Get("/periods", h.listPayrollPeriods)
		r.Get("/payslips", h.listPayslips)
		r.Get("/payslips/{id}", h.getPayslip)
		r.Get("/payslips/{id}/pdf", h.payslipPDF)
	})
}

// listParams carries pagination plus any remaining single-value query
// params through to the upstream as filters.
func listParams(r *http.Request) upstream.ListParams {
	p := shared.ParsePagination(r, 50, 200)
	filter := map[string]string{}
	for key, values := range r.URL.Query() {
		if key == "limit" || key == "offset" || len(values) == 0 {
			continue
		}
		filter[key] = values[0]
	}
	return upstream.ListParams{Limit: p.Limit, Offset: p.Offset, Filter: filter}
}

func cookiesOf(r *http.Request) []*http.Cookie {
	sess, _ := guard.FromContext(r.Context())
	return sess.HTTPCookies()
}

func respond(w http.ResponseWriter, r *http.Request, data any, err error) {
	reqID := middleware.GetRequestID(r.Context())
	if err != nil {
		failUpstream(w, reqID, err)
		return
	}
	api.Success(w, data, reqID)
}

func respondNoContent(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		failUpstream(w, middleware.GetRequestID(r.Context()), err)
		return
	}
	api.NoContent(w)
}

func failUpstream(w http.ResponseWriter, reqID string, err error) {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		code := "upstream_error"
		switch apiErr.Status {
		case http.StatusUnauthorized:
			code = "unauthorized"
		case http.StatusForbidden:
			code = "forbidden"
		case http.StatusNotFound:
			code = "not_found"
		}
		api.Fail(w, apiErr.Status, code, apiErr.Message, reqID)
		return
	}
	api.Fail(w, http.StatusBadGateway, "upstream_unreachable", "upstream request failed", reqID)
}

func decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var in T
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", middleware.GetRequestID(r.Context()))
		return in, false
	}
	return in, true
}
