package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/voicedraft/voicedraft/internal/api/handlers"
	"github.com/voicedraft/voicedraft/internal/api/middleware"
	"github.com/voicedraft/voicedraft/internal/archive"
	"github.com/voicedraft/voicedraft/internal/audio"
	"github.com/voicedraft/voicedraft/internal/auth"
	"github.com/voicedraft/voicedraft/internal/cache"
	"github.com/voicedraft/voicedraft/internal/config"
	"github.com/voicedraft/voicedraft/internal/generate"
	"github.com/voicedraft/voicedraft/internal/prompts"
	"github.com/voicedraft/voicedraft/internal/queue"
	"github.com/voicedraft/voicedraft/internal/transcribe"
)

type Router struct {
	mux         *chi.Mux
	db          *pgxpool.Pool
	redis       *redis.Client
	cfg         *config.Config
	auth        *auth.Middleware
	promptStore *prompts.Store
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, promptStore *prompts.Store) *Router {
	return &Router{
		mux:         chi.NewRouter(),
		db:          db,
		redis:       rdb,
		cfg:         cfg,
		auth:        auth.NewMiddleware(cfg.Auth.JWTSecret, cfg.Auth.APIKey, cfg.Auth.APIKeyHeader),
		promptStore: promptStore,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Core wiring: cache backend, provider registries, dispatcher
	var store cache.Store
	if rt.cfg.Cache.Backend == "redis" && rt.redis != nil {
		store = cache.NewRedis(rt.redis, rt.cfg.Cache.TTL)
	} else {
		store = cache.NewMemory(rt.cfg.Cache.TTL)
	}

	dispatcher := transcribe.NewDispatcher(
		audio.NewNormalizer(),
		transcribe.NewRegistry(rt.cfg.Speech),
		store,
		rt.cfg.Speech.RequestTimeout,
	)
	generator := generate.NewService(generate.NewRegistry(rt.cfg.Generate), store, rt.cfg.Generate.RequestTimeout)

	var archiveSvc *archive.Service
	var queueClient *queue.Client
	if rt.db != nil {
		archiveSvc = archive.NewService(rt.db)
		queueClient = queue.NewClient(rt.cfg.Redis)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.auth.Authenticate)

		transcriptionH := handlers.NewTranscriptionHandler(dispatcher, archiveSvc, queueClient)
		r.Route("/transcriptions", func(r chi.Router) {
			r.Post("/", transcriptionH.Create)
			r.Post("/jobs", transcriptionH.SubmitJob)
			r.Get("/jobs/{id}", transcriptionH.GetJob)
		})

		documentH := handlers.NewDocumentHandler(generator, rt.promptStore)
		r.Post("/documents", documentH.Create)

		scoreH := handlers.NewScoreHandler()
		r.Post("/scores", scoreH.Create)

		promptH := handlers.NewPromptHandler(rt.promptStore)
		r.Route("/prompts", func(r chi.Router) {
			r.Get("/", promptH.List)
			r.Post("/", promptH.Create)
			r.Get("/{name}", promptH.Get)
			r.Delete("/{name}", promptH.Delete)
		})
	})

	return r
}
