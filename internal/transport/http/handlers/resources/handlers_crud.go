package resources

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrmportal/internal/report"
	"hrmportal/internal/transport/http/api"
	"hrmportal/internal/transport/http/middleware"
	"hrmportal/internal/upstream"
)

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.ListEmployees(r.Context(), cookiesOf(r), listParams(r))
	respond(w, r, out, err)
}

func (h *Handler) getEmployee(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.GetEmployee(r.Context(), cookiesOf(r), chi.URLParam(r, "id"))
	respond(w, r, out, err)
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	in, ok := decode[upstream.EmployeeInput](w, r)
	if !ok {
		return
	}
	out, err := h.up.CreateEmployee(r.Context(), cookiesOf(r), in)
	respond(w, r, out, err)
}

func (h *Handler) updateEmployee(w http.ResponseWriter, r *http.Request) {
	in, ok := decode[upstream.EmployeeInput](w, r)
	if !ok {
		return
	}
	out, err := h.up.UpdateEmployee(r.Context(), cookiesOf(r), chi.URLParam(r, "id"), in)
	respond(w, r, out, err)
}

func (h *Handler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	respondNoContent(w, r, h.up.DeleteEmployee(r.Context(), cookiesOf(r), chi.URLParam(r, "id")))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.ListUsers(r.Context(), cookiesOf(r), listParams(r))
	respond(w, r, out, err)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.GetUser(r.Context(), cookiesOf(r), chi.URLParam(r, "id"))
	respond(w, r, out, err)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	in, ok := decode[upstream.UserInput](w, r)
	if !ok {
		return
	}
	out, err := h.up.CreateUser(r.Context(), cookiesOf(r), in)
	respond(w, r, out, err)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	in, ok := decode[upstream.UserInput](w, r)
	if !ok {
		return
	}
	out, err := h.up.UpdateUser(r.Context(), cookiesOf(r), chi.URLParam(r, "id"), in)
	respond(w, r, out, err)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	respondNoContent(w, r, h.up.DeleteUser(r.Context(), cookiesOf(r), chi.URLParam(r, "id")))
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.ListRoles(r.Context(), cookiesOf(r), listParams(r))
	respond(w, r, out, err)
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.GetRole(r.Context(), cookiesOf(r), chi.URLParam(r, "id"))
	respond(w, r, out, err)
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	in, ok := decode[upstream.RoleInput](w, r)
	if !ok {
		return
	}
	out, err := h.up.CreateRole(r.Context(), cookiesOf(r), in)
	respond(w, r, out, err)
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	in, ok := decode[upstream.RoleInput](w, r)
	if !ok {
		return
	}
	out, err := h.up.UpdateRole(r.Context(), cookiesOf(r), chi.URLParam(r, "id"), in)
	respond(w, r, out, err)
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	respondNoContent(w, r, h.up.DeleteRole(r.Context(), cookiesOf(r), chi.URLParam(r, "id")))
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.ListPermissions(r.Context(), cookiesOf(r))
	respond(w, r, out, err)
}

func (h *Handler) listContracts(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.ListContracts(r.Context(), cookiesOf(r), listParams(r))
	respond(w, r, out, err)
}

func (h *Handler) getContract(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.GetContract(r.Context(), cookiesOf(r), chi.URLParam(r, "id"))
	respond(w, r, out, err)
}

func (h *Handler) createContract(w http.ResponseWriter, r *http.Request) {
	in, ok := decode[upstream.ContractInput](w, r)
	if !ok {
		return
	}
	out, err := h.up.CreateContract(r.Context(), cookiesOf(r), in)
	respond(w, r, out, err)
}

func (h *Handler) updateContract(w http.ResponseWriter, r *http.Request) {
	in, ok := decode[upstream.ContractInput](w, r)
	if !ok {
		return
	}
	out, err := h.up.UpdateContract(r.Context(), cookiesOf(r), chi.URLParam(r, "id"), in)
	respond(w, r, out, err)
}

func (h *Handler) deleteContract(w http.ResponseWriter, r *http.Request) {
	respondNoContent(w, r, h.up.DeleteContract(r.Context(), cookiesOf(r), chi.URLParam(r, "id")))
}

func (h *Handler) listAttendance(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.ListAttendance(r.Context(), cookiesOf(r), listParams(r))
	respond(w, r, out, err)
}

func (h *Handler) checkIn(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.CheckIn(r.Context(), cookiesOf(r))
	respond(w, r, out, err)
}

func (h *Handler) checkOut(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.CheckOut(r.Context(), cookiesOf(r))
	respond(w, r, out, err)
}

func (h *Handler) listLeave(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.ListLeave(r.Context(), cookiesOf(r), listParams(r))
	respond(w, r, out, err)
}

func (h *Handler) createLeave(w http.ResponseWriter, r *http.Request) {
	in, ok := decode[upstream.LeaveInput](w, r)
	if !ok {
		return
	}
	out, err := h.up.CreateLeave(r.Context(), cookiesOf(r), in)
	respond(w, r, out, err)
}

func (h *Handler) approveLeave(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.ApproveLeave(r.Context(), cookiesOf(r), chi.URLParam(r, "id"))
	respond(w, r, out, err)
}

func (h *Handler) rejectLeave(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.RejectLeave(r.Context(), cookiesOf(r), chi.URLParam(r, "id"))
	respond(w, r, out, err)
}

func (h *Handler) deleteLeave(w http.ResponseWriter, r *http.Request) {
	respondNoContent(w, r, h.up.DeleteLeave(r.Context(), cookiesOf(r), chi.URLParam(r, "id")))
}

func (h *Handler) listOvertime(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.ListOvertime(r.Context(), cookiesOf(r), listParams(r))
	respond(w, r, out, err)
}

func (h *Handler) createOvertime(w http.ResponseWriter, r *http.Request) {
	in, ok := decode[upstream.OvertimeInput](w, r)
	if !ok {
		return
	}
	out, err := h.up.CreateOvertime(r.Context(), cookiesOf(r), in)
	respond(w, r, out, err)
}

func (h *Handler) approveOvertime(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.ApproveOvertime(r.Context(), cookiesOf(r), chi.URLParam(r, "id"))
	respond(w, r, out, err)
}

func (h *Handler) deleteOvertime(w http.ResponseWriter, r *http.Request) {
	respondNoContent(w, r, h.up.DeleteOvertime(r.Context(), cookiesOf(r), chi.URLParam(r, "id")))
}

func (h *Handler) listPayrollPeriods(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.ListPayrollPeriods(r.Context(), cookiesOf(r), listParams(r))
	respond(w, r, out, err)
}

func (h *Handler) listPayslips(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.ListPayslips(r.Context(), cookiesOf(r), listParams(r))
	respond(w, r, out, err)
}

func (h *Handler) getPayslip(w http.ResponseWriter, r *http.Request) {
	out, err := h.up.GetPayslip(r.Context(), cookiesOf(r), chi.URLParam(r, "id"))
	respond(w, r, out, err)
}

// payslipPDF fetches the payslip upstream and streams it back as a
// rendered document.
func (h *Handler) payslipPDF(w http.ResponseWriter, r *http.Request) {
	slip, err := h.up.GetPayslip(r.Context(), cookiesOf(r), chi.URLParam(r, "id"))
	if err != nil {
		failUpstream(w, middleware.GetRequestID(r.Context()), err)
		return
	}

	raw, err := report.PayslipPDF(slip)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "render_error", "payslip rendering failed", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="payslip-`+chi.URLParam(r, "id")+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(raw)))
	_, _ = w.Write(raw)
}
