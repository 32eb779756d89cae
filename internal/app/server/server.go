package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"hrmportal/internal/apiclient"
	"hrmportal/internal/audit"
	"hrmportal/internal/guard"
	"hrmportal/internal/nav"
	"hrmportal/internal/platform/config"
	"hrmportal/internal/platform/db"
	"hrmportal/internal/platform/metrics"
	"hrmportal/internal/session"
	auditloghandler "hrmportal/internal/transport/http/handlers/auditlog"
	authhandler "hrmportal/internal/transport/http/handlers/auth"
	navhandler "hrmportal/internal/transport/http/handlers/nav"
	resourceshandler "hrmportal/internal/transport/http/handlers/resources"
	"hrmportal/internal/transport/http/middleware"
	"hrmportal/internal/upstream"
)

// App is the assembled portal: router plus the pieces the lifecycle
// needs to hold on to.
type App struct {
	Config   config.Config
	Router   http.Handler
	Sessions *session.Store
	Menu     nav.Menu

	memory  *session.MemoryBackend
	cleanup []func()
}

// New wires the portal from configuration. It does not listen; Run
// does.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	menu, err := nav.Load(cfg.NavManifest)
	if err != nil {
		return nil, err
	}

	api, err := apiclient.New(cfg.APIBaseURL)
	if err != nil {
		return nil, err
	}
	up := upstream.New(api)

	app := &App{Config: cfg, Menu: menu}

	var backend session.Backend
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		backend = session.NewRedisBackend(client)
		app.cleanup = append(app.cleanup, func() { _ = client.Close() })
	} else {
		memory := session.NewMemoryBackend()
		backend = memory
		app.memory = memory
	}

	sessions := session.NewStore(backend, up, cfg.SessionTTL, cfg.IdentityRefresh)
	app.Sessions = sessions

	var recorder audit.Recorder = audit.LogRecorder{}
	var auditStore *audit.Store
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		store := audit.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("audit schema: %w", err)
		}
		recorder = store
		auditStore = store
		app.cleanup = append(app.cleanup, pool.Close)
	}

	sessions.Subscribe(func(evt session.Event) {
		if evt.Type != session.EventExpired {
			return
		}
		if err := recorder.Record(context.Background(), audit.Event{Action: audit.ActionSessionExpired}); err != nil {
			log.Printf("audit record failed: %v", err)
		}
	})

	collector := metrics.New()

	guardOpts := []guard.Option{
		guard.WithDenyHook(func(r *http.Request, d guard.Decision) {
			forbidden := d.State == guard.StateForbidden
			collector.RecordDenied(forbidden)
			actor := ""
			if d.Session.Authenticated() {
				actor = d.Session.Identity.ID
			}
			if err := recorder.Record(context.WithoutCancel(r.Context()), audit.Event{
				Action:    audit.ActionDenied,
				ActorID:   actor,
				Path:      r.URL.Path,
				Detail:    string(d.State),
				RequestID: middleware.GetRequestID(r.Context()),
				IP:        r.RemoteAddr,
			}); err != nil {
				log.Printf("audit record failed: %v", err)
			}
		}),
	}
	if cfg.ForbiddenPath != "" {
		guardOpts = append(guardOpts, guard.WithForbiddenPath(cfg.ForbiddenPath))
	}
	g := guard.New(sessions, cfg.LoginPath, guardOpts...)

	app.Router = app.buildRouter(g, up, sessions, recorder, auditStore, collector)
	return app, nil
}

func (a *App) buildRouter(g *guard.Guard, up *upstream.Client, sessions *session.Store, recorder audit.Recorder, auditStore *audit.Store, collector *metrics.Collector) http.Handler {
	cfg := a.Config
	isProd := cfg.Environment == "production"

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(isProd))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			writeSnapshot(w, collector)
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(sessions, recorder, cfg.SessionSecret, cfg.SessionTTL, cfg.SnapshotTTL, isProd).
			RegisterRoutes(r, middleware.LoginRateLimit(cfg.LoginRatePerMinute, time.Minute))

		navhandler.NewHandler(a.Menu).RegisterRoutes(r, g)
		resourceshandler.NewHandler(up).RegisterRoutes(r, g)
		if auditStore != nil {
			auditloghandler.NewHandler(auditStore).RegisterRoutes(r, g)
		}
	})

	spa := spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"}
	router.Mount("/", a.pageHandler(g, spa))

	return router
}

// pageHandler serves the SPA shell, guarding page paths the navigation
// manifest declares requirements for. Unknown paths fall through to the
// shell unguarded; the SPA and the upstream API still enforce access on
// everything behind them.
func (a *App) pageHandler(g *guard.Guard, spa spaHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path != a.Config.LoginPath {
			if required, known := a.Menu.Requirements(r.URL.Path); known {
				g.RequireAny(required...)(spa).ServeHTTP(w, r)
				return
			}
		}
		spa.ServeHTTP(w, r)
	})
}

func writeSnapshot(w http.ResponseWriter, collector *metrics.Collector) {
	if err := json.NewEncoder(w).Encode(collector.Snapshot()); err != nil {
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
	}
}

// Run assembles the portal and serves it until the listener fails.
func Run() {
	cfg := config.Load()

	ctx := context.Background()
	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("portal startup failed: %v", err)
	}
	defer app.Close()

	if app.memory != nil {
		go func() {
			ticker := time.NewTicker(cfg.SessionPurgeEvery)
			defer ticker.Stop()
			for range ticker.C {
				if removed := app.memory.Purge(); removed > 0 {
					log.Printf("purged %d expired sessions", removed)
				}
			}
		}()
	}

	log.Printf("HRM portal listening on %s (upstream %s)", cfg.Addr, cfg.APIBaseURL)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func (a *App) Close() {
	for _, fn := range a.cleanup {
		fn()
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
}
