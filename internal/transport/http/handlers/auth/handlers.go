package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrmportal/internal/apiclient"
	"hrmportal/internal/audit"
	"hrmportal/internal/guard"
	"hrmportal/internal/perm"
	"hrmportal/internal/session"
	"hrmportal/internal/transport/http/api"
	"hrmportal/internal/transport/http/middleware"
	"hrmportal/internal/transport/http/shared"
)

// SnapshotCookie carries the advisory identity token readable by the
// SPA. It is deliberately not HttpOnly; the session cookie is.
const SnapshotCookie = "hrm_identity_hint"

type Handler struct {
	sessions    *session.Store
	recorder    audit.Recorder
	secret      string
	snapshotTTL time.Duration
	sessionTTL  time.Duration
	secure      bool
}

func NewHandler(sessions *session.Store, recorder audit.Recorder, secret string, sessionTTL, snapshotTTL time.Duration, secure bool) *Handler {
	return &Handler{
		sessions:    sessions,
		recorder:    recorder,
		secret:      secret,
		sessionTTL:  sessionTTL,
		snapshotTTL: snapshotTTL,
		secure:      secure,
	}
}

// RegisterRoutes wires the auth endpoints. loginLimiter wraps only the
// login route, which takes a stricter rate limit than the rest of the
// surface; nil skips it.
func (h *Handler) RegisterRoutes(r chi.Router, loginLimiter func(http.Handler) http.Handler) {
	login := r
	if loginLimiter != nil {
		login = r.With(loginLimiter)
	}
	login.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/logout", h.HandleLogout)
	r.Get("/auth/me", h.HandleMe)
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityView struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}
	v := shared.NewValidator()
	v.Required("email", payload.Email)
	v.Required("password", payload.Password)
	if v.Reject(w, reqID) {
		return
	}

	sess, err := h.sessions.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		h.record(r, audit.Event{Action: audit.ActionLoginFailed, Detail: payload.Email})
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", apiErr.Message, reqID)
			return
		}
		api.Fail(w, http.StatusBadGateway, "upstream_error", "login failed", reqID)
		return
	}

	h.setSessionCookie(w, sess.ID)
	h.setSnapshotCookie(w, sess)
	h.record(r, audit.Event{Action: audit.ActionLogin, ActorID: sess.Identity.ID})

	api.Success(w, viewOf(sess), reqID)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	if cookie, err := r.Cookie(guard.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.sessions.Logout(r.Context(), cookie.Value); err != nil {
			slog.Warn("logout cleanup failed", "err", err, "requestId", reqID)
		}
		h.record(r, audit.Event{Action: audit.ActionLogout})
	}

	h.clearCookies(w)
	api.NoContent(w)
}

// HandleMe resolves the current identity. An anonymous caller gets a
// 401 rather than a redirect; the SPA uses this to decide where to
// route, so "not logged in" is an expected answer, not an error page.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	cookie, err := r.Cookie(guard.SessionCookie)
	if err != nil || cookie.Value == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "no session", reqID)
		return
	}

	sess, err := h.sessions.FetchIdentity(r.Context(), cookie.Value)
	if err != nil {
		api.Fail(w, http.StatusServiceUnavailable, "session_unavailable", "session lookup failed", reqID)
		return
	}
	if !sess.Authenticated() {
		h.clearCookies(w)
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "session expired", reqID)
		return
	}

	h.setSnapshotCookie(w, sess)
	api.Success(w, viewOf(sess), reqID)
}

func viewOf(sess session.Session) identityView {
	return identityView{
		ID:          sess.Identity.ID,
		Email:       sess.Identity.Email,
		Name:        sess.Identity.Name,
		Role:        sess.Identity.Role,
		Permissions: perm.Normalize(sess.Identity.Permissions).Names(),
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     guard.SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) setSnapshotCookie(w http.ResponseWriter, sess session.Session) {
	token, err := session.SignSnapshot(h.secret, sess, h.snapshotTTL)
	if err != nil {
		slog.Warn("snapshot token not issued", "err", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SnapshotCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.snapshotTTL.Seconds()),
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookies(w http.ResponseWriter) {
	for _, name := range []string{guard.SessionCookie, SnapshotCookie} {
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
	}
}

func (h *Handler) record(r *http.Request, evt audit.Event) {
	if h.recorder == nil {
		return
	}
	evt.Path = r.URL.Path
	evt.RequestID = middleware.GetRequestID(r.Context())
	evt.IP = r.RemoteAddr
	if err := h.recorder.Record(context.WithoutCancel(r.Context()), evt); err != nil {
		slog.Warn("audit record failed", "action", evt.Action, "err", err)
	}
}
