package guard

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"hrmportal/internal/perm"
	"hrmportal/internal/session"
	"hrmportal/internal/transport/http/api"
)

// State is the terminal outcome of one guard evaluation. Every
// evaluation begins in Checking and ends in exactly one of the other
// three; protected content is never served while Checking.
type State string

const (
	StateChecking        State = "checking"
	StateAuthorized      State = "authorized"
	StateUnauthenticated State = "unauthenticated"
	StateForbidden       State = "forbidden"
)

// Decision is the outcome of evaluating a navigation against the
// session and the route's permission requirement.
type Decision struct {
	State   State
	Session session.Session
}

// Resolver yields the current session for a session ID, refreshing the
// identity snapshot per the store's staleness policy. *session.Store
// satisfies it; tests substitute fakes.
type Resolver interface {
	Resolve(ctx context.Context, id string) (session.Session, error)
}

// SessionCookie is the portal's own session cookie.
const SessionCookie = "hrm_portal_session"

// Guard gates protected routes on session validity and permission
// evaluation. Page navigations are redirected; API calls get JSON
// errors. Permission denials redirect to the login path unless a
// dedicated forbidden page is configured.
type Guard struct {
	sessions      Resolver
	loginPath     string
	forbiddenPath string
	denyHook      func(r *http.Request, d Decision)
}

type Option func(*Guard)

// WithForbiddenPath routes permission denials to a dedicated page
// instead of the login view.
func WithForbiddenPath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.forbiddenPath = path
		}
	}
}

// WithDenyHook observes every non-authorized decision, for audit.
func WithDenyHook(fn func(r *http.Request, d Decision)) Option {
	return func(g *Guard) {
		g.denyHook = fn
	}
}

func New(sessions Resolver, loginPath string, opts ...Option) *Guard {
	if loginPath == "" {
		loginPath = "/login"
	}
	g := &Guard{sessions: sessions, loginPath: loginPath, forbiddenPath: loginPath}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate runs the guard state machine for one navigation. Identity
// resolution always completes before permission evaluation; required
// carries OR semantics (any one grant suffices) and an empty list means
// authenticated-only. Infrastructure failures (session backend down,
// cancelled navigation) surface as errors, not as denial states.
func (g *Guard) Evaluate(ctx context.Context, sessionID string, required []string) (Decision, error) {
	d := Decision{State: StateChecking}

	sess, err := g.sessions.Resolve(ctx, sessionID)
	if err != nil {
		return d, err
	}
	d.Session = sess

	if !sess.Authenticated() {
		d.State = StateUnauthenticated
		return d, nil
	}
	if len(required) == 0 {
		d.State = StateAuthorized
		return d, nil
	}
	if perm.HasAny(sess.Identity.Permissions, required) {
		d.State = StateAuthorized
		return d, nil
	}
	d.State = StateForbidden
	return d, nil
}

// RequireAuth admits any authenticated session.
func (g *Guard) RequireAuth() func(http.Handler) http.Handler {
	return g.RequireAny()
}

// RequireAny admits sessions holding at least one of the given
// permissions. With no arguments it degrades to authenticated-only.
func (g *Guard) RequireAny(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := g.Evaluate(r.Context(), sessionID(r), permissions)
			if err != nil {
				if r.Context().Err() != nil {
					// Navigation abandoned mid-check; nothing to render.
					return
				}
				g.fail(w, r, http.StatusServiceUnavailable, "session_unavailable", "session lookup failed")
				return
			}

			switch decision.State {
			case StateAuthorized:
				next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), decision.Session)))
			case StateUnauthenticated:
				g.deny(w, r, decision, http.StatusUnauthorized, "unauthorized", "authentication required", g.loginPath)
			case StateForbidden:
				g.deny(w, r, decision, http.StatusForbidden, "forbidden", "insufficient permissions", g.forbiddenPath)
			default:
				g.fail(w, r, http.StatusInternalServerError, "guard_error", "guard did not reach a terminal state")
			}
		})
	}
}

func (g *Guard) deny(w http.ResponseWriter, r *http.Request, d Decision, status int, code, message, target string) {
	if g.denyHook != nil {
		g.denyHook(r, d)
	}
	if isAPIRequest(r) {
		api.Fail(w, status, code, message, "")
		return
	}
	http.Redirect(w, r, redirectURL(target, r.URL), http.StatusFound)
}

func (g *Guard) fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	if isAPIRequest(r) {
		api.Fail(w, status, code, message, "")
		return
	}
	http.Error(w, message, status)
}

// redirectURL carries the originally requested location so a successful
// login can return to it.
func redirectURL(target string, original *url.URL) string {
	next := original.Path
	if original.RawQuery != "" {
		next += "?" + original.RawQuery
	}
	if next == "" || next == target {
		return target
	}
	return target + "?next=" + url.QueryEscape(next)
}

func sessionID(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func isAPIRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

type ctxKey struct{}

func WithSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext returns the session the guard admitted for this request.
func FromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(session.Session)
	return sess, ok
}
