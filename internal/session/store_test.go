package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"hrmportal/internal/apiclient"
	"hrmportal/internal/perm"
	"hrmportal/internal/upstream"
)

// fakeHRM is a minimal upstream: one account, cookie-based sessions that
// can be revoked out from under the portal.
type fakeHRM struct {
	mu      sync.Mutex
	valid   map[string]bool
	logins  int
	probes  int
	logouts int
}

func newFakeHRM() *fakeHRM {
	return &fakeHRM{valid: map[string]bool{}}
}

func (f *fakeHRM) revokeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token := range f.valid {
		f.valid[token] = false
	}
}

func (f *fakeHRM) handler() http.Handler {
	mux := http.NewServeMux()
	identity := map[string]any{
		"id":    "u1",
		"email": "hr@example.com",
		"name":  "Holly Rivers",
		"role":  "hr",
		"permissions": []any{
			"Manage_Users",
			map[string]string{"code": "manage_roles"},
			map[string]string{"name": "Manage_Attendance"},
		},
	}

	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.logins++
		f.mu.Unlock()
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
		f.mu.Lock()
		f.probes++
		f.mu.Unlock()
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
		f.mu.Lock()
		f.logouts++
		f.mu.Unlock()
		f.revokeAll()
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func newTestStore(t *testing.T, refresh time.Duration) (*Store, *fakeHRM) {
	t.Helper()
	fake := newFakeHRM()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	api, err := apiclient.New(srv.URL)
	if err != nil {
		t.Fatalf("apiclient: %v", err)
	}
	return NewStore(NewMemoryBackend(), upstream.New(api), time.Hour, refresh), fake
}

func TestLoginCreatesSession(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)

	sess, err := store.Login(context.Background(), "hr@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !sess.Authenticated() {
		t.Fatal("expected authenticated session")
	}
	if sess.ID == "" {
		t.Fatal("expected session id")
	}
	if !perm.HasAny(sess.Identity.Permissions, []string{"manage_users"}) {
		t.Fatalf("expected manage_users permission, got %+v", sess.Identity.Permissions)
	}

	stored, err := store.Resolve(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !stored.Authenticated() {
		t.Fatal("expected stored session to resolve")
	}
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)

	_, err := store.Login(context.Background(), "hr@example.com", "wrong")
	if err == nil {
		t.Fatal("expected login error")
	}
	if err.Error() != "invalid credentials" {
		t.Fatalf("expected upstream message, got %q", err.Error())
	}
}

func TestFetchIdentityClearsRevokedSession(t *testing.T) {
	store, fake := newTestStore(t, time.Minute)

	sess, err := store.Login(context.Background(), "hr@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	fake.revokeAll()

	refreshed, err := store.FetchIdentity(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("fetch identity must not error on 401: %v", err)
	}
	if refreshed.Authenticated() {
		t.Fatal("expected unauthenticated session after revocation")
	}

	// The local record is gone too.
	again, err := store.Resolve(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if again.Authenticated() {
		t.Fatal("expected cleared session")
	}
}

func TestResolveSkipsProbeWhileFresh(t *testing.T) {
	store, fake := newTestStore(t, time.Hour)

	sess, err := store.Login(context.Background(), "hr@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	for range 3 {
		if _, err := store.Resolve(context.Background(), sess.ID); err != nil {
			t.Fatalf("resolve: %v", err)
		}
	}

	fake.mu.Lock()
	probes := fake.probes
	fake.mu.Unlock()
	if probes != 0 {
		t.Fatalf("expected no probes within refresh window, got %d", probes)
	}
}

func TestResolveReprobesWhenStale(t *testing.T) {
	store, fake := newTestStore(t, time.Nanosecond)

	sess, err := store.Login(context.Background(), "hr@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	time.Sleep(time.Millisecond)

	if _, err := store.Resolve(context.Background(), sess.ID); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	fake.mu.Lock()
	probes := fake.probes
	fake.mu.Unlock()
	if probes == 0 {
		t.Fatal("expected a probe once the snapshot went stale")
	}
}

func TestLogoutClearsLocallyEvenIfUpstreamFails(t *testing.T) {
	fake := newFakeHRM()
	srv := httptest.NewServer(fake.handler())
	api, err := apiclient.New(srv.URL)
	if err != nil {
		t.Fatalf("apiclient: %v", err)
	}
	store := NewStore(NewMemoryBackend(), upstream.New(api), time.Hour, time.Minute)

	sess, err := store.Login(context.Background(), "hr@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Upstream is unreachable from here on.
	srv.Close()

	if err := store.Logout(context.Background(), sess.ID); err != nil {
		t.Fatalf("logout must succeed locally: %v", err)
	}
	after, err := store.Resolve(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if after.Authenticated() {
		t.Fatal("expected cleared session after logout")
	}
}

func TestSubscribersNotifiedInOrder(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)

	var events []EventType
	store.Subscribe(func(evt Event) {
		events = append(events, evt.Type)
	})

	sess, err := store.Login(context.Background(), "hr@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := store.Logout(context.Background(), sess.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if len(events) != 2 || events[0] != EventLogin || events[1] != EventLogout {
		t.Fatalf("unexpected event sequence: %v", events)
	}
}

func TestResolveUnknownIDIsUnauthenticated(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	sess, err := store.Resolve(context.Background(), "no-such-session")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if sess.Authenticated() {
		t.Fatal("unknown id must resolve unauthenticated")
	}
}

func TestFetchIdentityCancelledContext(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)

	sess, err := store.Login(context.Background(), "hr@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.FetchIdentity(ctx, sess.ID); err == nil {
		t.Fatal("expected context error")
	}

	// The abandoned navigation must not have destroyed the session.
	still, err := store.Resolve(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !still.Authenticated() {
		t.Fatal("cancelled probe must not clear the session")
	}
}
