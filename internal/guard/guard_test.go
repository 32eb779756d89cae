package guard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"hrmportal/internal/perm"
	"hrmportal/internal/session"
	"hrmportal/internal/upstream"
)

type fakeResolver struct {
	sessions map[string]session.Session
	err      error
}

func (f *fakeResolver) Resolve(ctx context.Context, id string) (session.Session, error) {
	if f.err != nil {
		return session.Session{}, f.err
	}
	return f.sessions[id], nil
}

func authenticated(id string, perms ...string) session.Session {
	entries := make([]perm.RawEntry, 0, len(perms))
	for _, p := range perms {
		entries = append(entries, perm.RawEntry{Code: p})
	}
	return session.Session{
		ID:       id,
		Identity: &upstream.Identity{ID: "u-" + id, Name: "Test User", Permissions: entries},
	}
}

func TestEvaluateUnauthenticated(t *testing.T) {
	g := New(&fakeResolver{sessions: map[string]session.Session{}}, "/login")

	d, err := g.Evaluate(context.Background(), "missing", []string{"manage_users"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.State != StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", d.State)
	}
}

func TestEvaluateAnyOfSemantics(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]session.Session{
		"s1": authenticated("s1", "manage_roles"),
	}}
	g := New(resolver, "/login")

	d, err := g.Evaluate(context.Background(), "s1", []string{"manage_users", "manage_roles"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.State != StateAuthorized {
		t.Fatalf("one matching grant must authorize, got %s", d.State)
	}
}

func TestEvaluateForbidden(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]session.Session{
		"s1": authenticated("s1", "checkin_checkout"),
	}}
	g := New(resolver, "/login")

	d, err := g.Evaluate(context.Background(), "s1", []string{"manage_attendance"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.State != StateForbidden {
		t.Fatalf("expected forbidden, got %s", d.State)
	}
}

func TestEvaluateNoRequirementIsAuthenticatedOnly(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]session.Session{
		"s1": authenticated("s1"),
	}}
	g := New(resolver, "/login")

	d, err := g.Evaluate(context.Background(), "s1", nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.State != StateAuthorized {
		t.Fatalf("expected authorized, got %s", d.State)
	}
}

func TestPageRedirectCarriesNext(t *testing.T) {
	g := New(&fakeResolver{sessions: map[string]session.Session{}}, "/login")
	handler := g.RequireAny("manage_users")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected content must not render")
	}))

	req := httptest.NewRequest(http.MethodGet, "/employees?status=active", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	location, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if location.Path != "/login" {
		t.Fatalf("expected login redirect, got %s", location.Path)
	}
	if got := location.Query().Get("next"); got != "/employees?status=active" {
		t.Fatalf("expected next to carry original location, got %q", got)
	}
}

func TestAPIRequestsGetJSONErrors(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]session.Session{
		"s1": authenticated("s1", "checkin_checkout"),
	}}
	g := New(resolver, "/login")
	handler := g.RequireAny("manage_attendance")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected content must not render")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "s1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error, got %q", ct)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/attendance", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}
}

func TestForbiddenRedirectsToConfiguredPage(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]session.Session{
		"s1": authenticated("s1", "checkin_checkout"),
	}}
	g := New(resolver, "/login", WithForbiddenPath("/forbidden"))
	handler := g.RequireAny("manage_payroll")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected content must not render")
	}))

	req := httptest.NewRequest(http.MethodGet, "/payroll", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "s1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	location, _ := url.Parse(rec.Header().Get("Location"))
	if location.Path != "/forbidden" {
		t.Fatalf("expected forbidden page, got %s", location.Path)
	}
}

func TestAuthorizedRequestCarriesSession(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]session.Session{
		"s1": authenticated("s1", "manage_users"),
	}}
	g := New(resolver, "/login")
	var seen bool
	handler := g.RequireAny("manage_users")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := FromContext(r.Context())
		if !ok {
			t.Fatal("expected session in context")
		}
		if sess.Identity.ID != "u-s1" {
			t.Fatalf("unexpected identity %q", sess.Identity.ID)
		}
		seen = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "s1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !seen {
		t.Fatal("handler must run for authorized request")
	}
}

func TestResolverFailureIsNotADenial(t *testing.T) {
	g := New(&fakeResolver{err: errors.New("backend down")}, "/login")
	handler := g.RequireAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected content must not render")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("infrastructure failure must be 503, got %d", rec.Code)
	}
}

func TestDenyHookObservesDenials(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]session.Session{
		"s1": authenticated("s1", "checkin_checkout"),
	}}
	var states []State
	g := New(resolver, "/login", WithDenyHook(func(r *http.Request, d Decision) {
		states = append(states, d.State)
	}))
	handler := g.RequireAny("manage_users")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "s1"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(states) != 2 || states[0] != StateForbidden || states[1] != StateUnauthenticated {
		t.Fatalf("unexpected hook calls: %v", states)
	}
}
