package auditlog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmportal/internal/audit"
	"hrmportal/internal/guard"
	"hrmportal/internal/perm"
	"hrmportal/internal/transport/http/api"
	"hrmportal/internal/transport/http/middleware"
	"hrmportal/internal/transport/http/shared"
)

// Handler exposes the portal's own audit trail: logins, logouts and
// denied navigations. Only mounted when a Postgres store is configured.
type Handler struct {
	store *audit.Store
}

func NewHandler(store *audit.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router, g *guard.Guard) {
	r.With(g.RequireAny(perm.ViewAudit)).Get("/audit", h.HandleList)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	p := shared.ParsePagination(r, 50, 500)

	events, err := h.store.List(r.Context(), r.URL.Query().Get("action"), p.Limit, p.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_error", "audit query failed", reqID)
		return
	}
	api.Success(w, events, reqID)
}
