package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	ActionLogin          = "auth.login"
	ActionLoginFailed    = "auth.login_failed"
	ActionLogout         = "auth.logout"
	ActionSessionExpired = "auth.session_expired"
	ActionDenied         = "guard.denied"
)

// Event is one auth or guard occurrence worth keeping. Path is the
// route the actor was navigating to when relevant.
type Event struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actorId"`
	Action    string    `json:"action"`
	Path      string    `json:"path,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	IP        string    `json:"ip,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Recorder sinks audit events. Recording is best-effort: callers log
// failures and carry on, since auditing must never block a login.
type Recorder interface {
	Record(ctx context.Context, evt Event) error
}

// Store persists events in Postgres.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the audit table if it does not exist. The
// portal owns no other tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
    CREATE TABLE IF NOT EXISTS portal_audit_events (
      id BIGSERIAL PRIMARY KEY,
      actor_id TEXT NOT NULL DEFAULT '',
      action TEXT NOT NULL,
      path TEXT NOT NULL DEFAULT '',
      detail TEXT NOT NULL DEFAULT '',
      request_id TEXT NOT NULL DEFAULT '',
      ip TEXT NOT NULL DEFAULT '',
      created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`)
	return err
}

func (s *Store) Record(ctx context.Context, evt Event) error {
	_, err := s.db.Exec(ctx, `
    INSERT INTO portal_audit_events (actor_id, action, path, detail, request_id, ip)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, evt.ActorID, evt.Action, evt.Path, evt.Detail, evt.RequestID, evt.IP)
	return err
}

// List returns recent events, newest first, optionally filtered by
// action.
func (s *Store) List(ctx context.Context, action string, limit, offset int) ([]Event, error) {
	query := `
    SELECT id::text, actor_id, action, path, detail, request_id, ip, created_at
    FROM portal_audit_events`
	args := []any{}
	if action != "" {
		query += " WHERE action = $1"
		args = append(args, action)
	}
	query += " ORDER BY created_at DESC"
	if action != "" {
		query += " LIMIT $2 OFFSET $3"
	} else {
		query += " LIMIT $1 OFFSET $2"
	}
	args = append(args, limit, offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		if err := rows.Scan(&evt.ID, &evt.ActorID, &evt.Action, &evt.Path, &evt.Detail, &evt.RequestID, &evt.IP, &evt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

// LogRecorder is the fallback sink when no DATABASE_URL is configured:
// events go to the structured log instead of Postgres.
type LogRecorder struct{}

func (LogRecorder) Record(ctx context.Context, evt Event) error {
	slog.Info("audit",
		"action", evt.Action,
		"actor", evt.ActorID,
		"path", evt.Path,
		"detail", evt.Detail,
		"requestId", evt.RequestID,
		"ip", evt.IP,
	)
	return nil
}
