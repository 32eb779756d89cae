package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrmportal/internal/upstream"
)

// Cookie is the serializable subset of an upstream cookie held in the
// session record. Backends persist sessions as JSON, so http.Cookie is
// narrowed to the fields the upstream actually needs back.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session is one browser session at the portal. Identity is non-nil iff
// the last upstream identity probe succeeded. Readers must treat the
// returned value as immutable; only the Store writes sessions.
type Session struct {
	ID              string             `json:"id"`
	Identity        *upstream.Identity `json:"identity,omitempty"`
	UpstreamCookies []Cookie           `json:"upstreamCookies,omitempty"`
	FetchedAt       time.Time          `json:"fetchedAt"`
}

func (s Session) Authenticated() bool {
	return s.Identity != nil
}

// HTTPCookies converts the stored upstream cookies back to http.Cookie
// for forwarding on API calls.
func (s Session) HTTPCookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(s.UpstreamCookies))
	for _, c := range s.UpstreamCookies {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// Backend persists session records. Implementations: in-memory map and
// Redis. A missing session is (zero, false, nil), not an error.
type Backend interface {
	Get(ctx context.Context, id string) (Session, bool, error)
	Put(ctx context.Context, s Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// EventType classifies session state changes delivered to subscribers.
type EventType string

const (
	EventLogin     EventType = "login"
	EventLogout    EventType = "logout"
	EventRefreshed EventType = "refreshed"
	EventExpired   EventType = "expired"
)

type Event struct {
	Type    EventType
	Session Session
}

// Store is the single writer of session state. Route guarding and
// navigation filtering read through it; nothing else mutates sessions.
// Subscribers are notified synchronously after each state change, in
// registration order.
type Store struct {
	backend Backend
	up      *upstream.Client
	ttl     time.Duration
	refresh time.Duration

	mu   sync.Mutex
	subs []func(Event)
}

func NewStore(backend Backend, up *upstream.Client, ttl, refresh time.Duration) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if refresh <= 0 {
		refresh = time.Minute
	}
	return &Store{backend: backend, up: up, ttl: ttl, refresh: refresh}
}

func (st *Store) Subscribe(fn func(Event)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.subs = append(st.subs, fn)
}

func (st *Store) notify(evt Event) {
	st.mu.Lock()
	subs := make([]func(Event), len(st.subs))
	copy(subs, st.subs)
	st.mu.Unlock()
	for _, fn := range subs {
		fn(evt)
	}
}

// Login authenticates against the upstream API and creates a session.
// On failure no session is created and the upstream error propagates.
func (st *Store) Login(ctx context.Context, email, password string) (Session, error) {
	identity, cookies, err := st.up.Login(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	sess := Session{
		ID:              uuid.NewString(),
		Identity:        &identity,
		UpstreamCookies: narrowCookies(cookies),
		FetchedAt:       time.Now().UTC(),
	}
	if err := st.backend.Put(ctx, sess, st.ttl); err != nil {
		return Session{}, err
	}
	st.notify(Event{Type: EventLogin, Session: sess})
	return sess, nil
}

// Logout invalidates the upstream session and clears local state. Local
// clearing proceeds even when the upstream call fails: the user intent
// is to leave.
func (st *Store) Logout(ctx context.Context, id string) error {
	sess, ok, err := st.backend.Get(ctx, id)
	if err != nil {
		return err
	}
	if ok {
		if err := st.up.Logout(ctx, sess.HTTPCookies()); err != nil {
			slog.Warn("upstream logout failed, clearing local session anyway", "err", err)
		}
	}
	if err := st.backend.Delete(ctx, id); err != nil {
		return err
	}
	st.notify(Event{Type: EventLogout, Session: Session{ID: id}})
	return nil
}

// FetchIdentity re-probes the upstream for the identity bound to the
// session. Any probe failure (401, network) clears the session and
// returns an unauthenticated session rather than an error, so route
// guards treat "not logged in" as a normal state.
func (st *Store) FetchIdentity(ctx context.Context, id string) (Session, error) {
	sess, ok, err := st.backend.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, nil
	}

	identity, probeErr := st.up.Me(ctx, sess.HTTPCookies())
	if probeErr != nil {
		if ctx.Err() != nil {
			// Navigation was abandoned mid-probe; leave the stored
			// session untouched rather than applying a stale verdict.
			return Session{}, ctx.Err()
		}
		if err := st.backend.Delete(ctx, id); err != nil {
			return Session{}, err
		}
		st.notify(Event{Type: EventExpired, Session: Session{ID: id}})
		return Session{}, nil
	}

	sess.Identity = &identity
	sess.FetchedAt = time.Now().UTC()
	if err := st.backend.Put(ctx, sess, st.ttl); err != nil {
		return Session{}, err
	}
	st.notify(Event{Type: EventRefreshed, Session: sess})
	return sess, nil
}

// Resolve returns the session for id, re-probing the upstream when the
// identity snapshot is older than the refresh interval. This is the
// staleness policy: identity is refreshed on navigation, never pushed.
func (st *Store) Resolve(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, nil
	}
	sess, ok, err := st.backend.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, nil
	}
	if sess.Authenticated() && time.Since(sess.FetchedAt) < st.refresh {
		return sess, nil
	}
	return st.FetchIdentity(ctx, id)
}

func narrowCookies(cookies []*http.Cookie) []Cookie {
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}
