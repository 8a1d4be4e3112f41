package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/iceprop/prop-lab/internal/app"
	"github.com/iceprop/prop-lab/internal/config"
	"github.com/iceprop/prop-lab/internal/logic"
)

func main() {
	once := flag.Bool("once", false, "run a single refresh and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	deps, err := app.Connect(connectCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to connect", zap.Error(err))
	}
	defer deps.Close()

	deps.Pool.Start(ctx)
	defer deps.Pool.Stop()

	r := &refresher{cfg: cfg, roster: deps.Roster, logger: logger.Sugar()}

	if *once {
		r.run(ctx)
		return
	}

	c := cron.New(cron.WithLocation(cfg.RefreshTimezone))
	if _, err := c.AddFunc(cfg.RefreshSchedule, func() { r.run(ctx) }); err != nil {
		logger.Fatal("Invalid refresh schedule", zap.String("schedule", cfg.RefreshSchedule), zap.Error(err))
	}

	r.run(ctx)
	c.Start()
	logger.Info("Refresh scheduler started",
		zap.String("schedule", cfg.RefreshSchedule),
		zap.String("timezone", cfg.RefreshTimezone.String()))

	<-ctx.Done()
	logger.Info("Shutdown signal received")
	<-c.Stop().Done()
}

type refresher struct {
	cfg    *config.Config
	roster logic.RosterService
	logger *zap.SugaredLogger

	// cron may fire while a slow run is still archiving
	mu sync.Mutex
}

func (r *refresher) run(ctx context.Context) {
	if !r.mu.TryLock() {
		r.logger.Warn("Previous refresh still running, skipping")
		return
	}
	defer r.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	res, err := r.roster.Refresh(ctx)
	if err != nil {
		r.logger.Errorw("Roster refresh failed", "error", err)
		return
	}

	if _, err := r.roster.ListActivePlayers(ctx); err != nil {
		r.logger.Warnw("Warming roster cache failed", "error", err)
	}

	if r.cfg.RefreshArchiveLogs {
		season := res.Season
		if season == "" {
			season = logic.CurrentSeason(time.Now().In(r.cfg.RefreshTimezone))
		}
		n, err := r.roster.ArchiveActiveLogs(ctx, season, r.cfg.RefreshConcurrency)
		if err != nil {
			r.logger.Errorw("Archiving game logs failed", "season", season, "error", err)
		}
		res.ArchivedLogs = n
	}

	r.logger.Infow("Refresh complete",
		"players", res.Players,
		"active_players", res.ActivePlayers,
		"season", res.Season,
		"archived_logs", res.ArchivedLogs,
		"duration", res.Duration)
}
