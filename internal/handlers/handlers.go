package handlers

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/iceprop/prop-lab/internal/logic"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// SchemaInstaller applies database migrations.
type SchemaInstaller interface {
	InstallSchema(ctx context.Context) (map[string]string, bool)
}

type Config struct {
	ArchiveQueue logic.ArchiveQueue
	Checks       map[string]HealthCheck
	Installer    SchemaInstaller
	Logger       *zap.Logger
	// Services
	Props  logic.PropService
	Roster logic.RosterService
	Board  logic.BoardService
}

type Handler struct {
	queue     logic.ArchiveQueue
	checks    map[string]HealthCheck
	installer SchemaInstaller
	logger    *zap.SugaredLogger
	props     logic.PropService
	roster    logic.RosterService
	board     logic.BoardService
}

func New(cfg Config) *Handler {
	return &Handler{
		queue:     cfg.ArchiveQueue,
		checks:    cfg.Checks,
		installer: cfg.Installer,
		logger:    cfg.Logger.Sugar(),
		props:     cfg.Props,
		roster:    cfg.Roster,
		board:     cfg.Board,
	}
}

// Routes mounts every endpoint on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/doc.json", h.SwaggerDoc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/teams", h.ListTeams)
		r.Get("/lines", h.ListLines)
		r.Delete("/cache", h.ClearCache)

		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.ListPlayers)
			r.Get("/search", h.SearchPlayer)
			r.Get("/{playerId}/props", h.GetPropReport)
			r.Get("/{playerId}/hitrate", h.GetHitRate)
			r.Get("/{playerId}/minutes", h.GetMinutesTrend)
		})

		r.Route("/board/{sessionId}", func(r chi.Router) {
			r.Get("/", h.GetBoard)
			r.Delete("/", h.ResetBoard)
			r.Post("/pins", h.PinProp)
			r.Delete("/pins", h.ClearBoard)
			r.Delete("/pins/{pinId}", h.UnpinProp)
			r.Put("/opponent", h.SetOpponent)
			r.Put("/games", h.SetGamesToShow)
			r.Get("/export", h.ExportBoard)
			r.Post("/import", h.ImportBoard)
		})

		r.Post("/system/install", h.InstallDatabase)
	})

	return r
}
