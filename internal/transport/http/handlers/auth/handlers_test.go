package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrmportal/internal/apiclient"
	"hrmportal/internal/guard"
	"hrmportal/internal/session"
	"hrmportal/internal/upstream"
)

const testSecret = "portal-test-secret"

// fakeUpstream is a one-account HRM API whose sessions can be revoked
// out from under the portal.
type fakeUpstream struct {
	mu    sync.Mutex
	valid map[string]bool
}

func (f *fakeUpstream) revokeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token := range f.valid {
		f.valid[token] = false
	}
}

func (f *fakeUpstream) handler() http.Handler {
	mux := http.NewServeMux()
	identity := map[string]any{
		"id":    "u1",
		"email": "hr@example.com",
		"name":  "Holly Rivers",
		"role":  "hr",
		"permissions": []any{
			"Manage_Users",
			map[string]string{"code": "manage_roles"},
		},
	}

	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email != "hr@example.com" || body.Password != "secret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
			return
		}
		f.mu.Lock()
		f.valid["tok-1"] = true
		f.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "hrm_session", Value: "tok-1"})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(identity)
	})

	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("hrm_session")
		f.mu.Lock()
		ok := err == nil && f.valid[cookie.Value]
		f.mu.Unlock()
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"unauthenticated"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(identity)
	})

	mux.HandleFunc("POST /api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.revokeAll()
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func newTestPortal(t *testing.T, sessionTTL, snapshotTTL time.Duration) (http.Handler, *fakeUpstream, *httptest.Server) {
	t.Helper()
	fake := &fakeUpstream{valid: map[string]bool{}}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	api, err := apiclient.New(srv.URL)
	if err != nil {
		t.Fatalf("apiclient: %v", err)
	}
	store := session.NewStore(session.NewMemoryBackend(), upstream.New(api), sessionTTL, time.Minute)

	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		NewHandler(store, nil, testSecret, sessionTTL, snapshotTTL, false).RegisterRoutes(r, nil)
	})
	return router, fake, srv
}

func do(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func loginBody() string {
	return `{"email":"hr@example.com","password":"secret"}`
}

func TestLoginSetsSessionAndSnapshotCookies(t *testing.T) {
	portal, _, _ := newTestPortal(t, 12*time.Hour, 15*time.Minute)

	rec := do(portal, http.MethodPost, "/api/v1/auth/login", loginBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}

	sess := cookieByName(rec, guard.SessionCookie)
	if sess == nil {
		t.Fatal("expected session cookie")
	}
	if !sess.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if sess.MaxAge != int((12 * time.Hour).Seconds()) {
		t.Errorf("session cookie MaxAge = %d, want %d", sess.MaxAge, int((12 * time.Hour).Seconds()))
	}

	hint := cookieByName(rec, SnapshotCookie)
	if hint == nil {
		t.Fatal("expected snapshot cookie")
	}
	if hint.HttpOnly {
		t.Error("snapshot cookie must be readable by the SPA")
	}
	if hint.MaxAge != int((15 * time.Minute).Seconds()) {
		t.Errorf("snapshot cookie MaxAge = %d, want %d", hint.MaxAge, int((15 * time.Minute).Seconds()))
	}

	claims, err := session.ParseSnapshot(testSecret, hint.Value)
	if err != nil {
		t.Fatalf("snapshot token: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("snapshot uid = %q", claims.UserID)
	}
	found := false
	for _, p := range claims.Permissions {
		if p == "manage_users" {
			found = true
		}
	}
	if !found {
		t.Errorf("snapshot permissions = %v, want normalized manage_users", claims.Permissions)
	}
}

func TestCookieLifetimesFollowTheirOwnTTLs(t *testing.T) {
	// Asymmetric TTLs so a session/snapshot mix-up cannot cancel out.
	sessionTTL := 2 * time.Hour
	snapshotTTL := 5 * time.Minute
	portal, _, _ := newTestPortal(t, sessionTTL, snapshotTTL)

	rec := do(portal, http.MethodPost, "/api/v1/auth/login", loginBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}

	if got := cookieByName(rec, guard.SessionCookie).MaxAge; got != 7200 {
		t.Errorf("session cookie MaxAge = %d, want 7200", got)
	}
	hint := cookieByName(rec, SnapshotCookie)
	if hint.MaxAge != 300 {
		t.Errorf("snapshot cookie MaxAge = %d, want 300", hint.MaxAge)
	}

	claims, err := session.ParseSnapshot(testSecret, hint.Value)
	if err != nil {
		t.Fatalf("snapshot token: %v", err)
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl > snapshotTTL || ttl < snapshotTTL-time.Minute {
		t.Errorf("snapshot token expires in %v, want about %v", ttl, snapshotTTL)
	}
}

func TestLoginInvalidCredentialsPassesThrough(t *testing.T) {
	portal, _, _ := newTestPortal(t, time.Hour, 15*time.Minute)

	rec := do(portal, http.MethodPost, "/api/v1/auth/login", `{"email":"hr@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	var env struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Success || env.Message != "invalid credentials" {
		t.Errorf("envelope = %+v, want upstream message passed through", env)
	}
	if cookieByName(rec, guard.SessionCookie) != nil {
		t.Error("failed login must not set a session cookie")
	}
}

func TestLoginUpstreamUnreachableIs502(t *testing.T) {
	portal, _, srv := newTestPortal(t, time.Hour, 15*time.Minute)
	srv.Close()

	rec := do(portal, http.MethodPost, "/api/v1/auth/login", loginBody())
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestLoginRejectsMissingFields(t *testing.T) {
	portal, _, _ := newTestPortal(t, time.Hour, 15*time.Minute)

	rec := do(portal, http.MethodPost, "/api/v1/auth/login", `{"email":"hr@example.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMeWithoutCookie(t *testing.T) {
	portal, _, _ := newTestPortal(t, time.Hour, 15*time.Minute)

	rec := do(portal, http.MethodGet, "/api/v1/auth/me", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestMeRevokedSessionClearsCookies(t *testing.T) {
	portal, fake, _ := newTestPortal(t, time.Hour, 15*time.Minute)

	login := do(portal, http.MethodPost, "/api/v1/auth/login", loginBody())
	sess := cookieByName(login, guard.SessionCookie)
	if sess == nil {
		t.Fatal("expected session cookie")
	}

	fake.revokeAll()

	rec := do(portal, http.MethodGet, "/api/v1/auth/me", "", sess)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	for _, name := range []string{guard.SessionCookie, SnapshotCookie} {
		cleared := cookieByName(rec, name)
		if cleared == nil || cleared.MaxAge >= 0 {
			t.Errorf("expected %s cleared, got %+v", name, cleared)
		}
	}
}

func TestLogoutClearsCookies(t *testing.T) {
	portal, _, _ := newTestPortal(t, time.Hour, 15*time.Minute)

	login := do(portal, http.MethodPost, "/api/v1/auth/login", loginBody())
	sess := cookieByName(login, guard.SessionCookie)

	rec := do(portal, http.MethodPost, "/api/v1/auth/logout", "", sess)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	for _, name := range []string{guard.SessionCookie, SnapshotCookie} {
		cleared := cookieByName(rec, name)
		if cleared == nil || cleared.MaxAge >= 0 {
			t.Errorf("expected %s cleared, got %+v", name, cleared)
		}
	}

	// The portal-side session is gone even though the upstream cookie
	// jar went with it.
	after := do(portal, http.MethodGet, "/api/v1/auth/me", "", sess)
	if after.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout = %d, want 401", after.Code)
	}
}
