package nav

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmportal/internal/guard"
	"hrmportal/internal/nav"
	"hrmportal/internal/transport/http/api"
	"hrmportal/internal/transport/http/middleware"
)

type Handler struct {
	menu nav.Menu
}

func NewHandler(menu nav.Menu) *Handler {
	return &Handler{menu: menu}
}

func (h *Handler) RegisterRoutes(r chi.Router, g *guard.Guard) {
	r.With(g.RequireAuth()).Get("/nav", h.HandleMenu)
}

// HandleMenu returns the navigation entries visible to the current
// session, in manifest order.
func (h *Handler) HandleMenu(w http.ResponseWriter, r *http.Request) {
	sess, ok := guard.FromContext(r.Context())
	if !ok || !sess.Authenticated() {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, h.menu.Filter(sess.Identity.Permissions), middleware.GetRequestID(r.Context()))
}
