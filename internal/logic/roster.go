package logic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iceprop/prop-lab/internal/models"
)

// minActiveRows guards against partial league tables early in a season.
const minActiveRows = 80

var (
	rosterRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proplab_roster_refresh_total",
		Help: "Roster refresh runs by outcome",
	}, []string{"outcome"})

	rosterRefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "proplab_roster_refresh_duration_seconds",
		Help:    "Duration of roster refresh runs",
		Buckets: prometheus.DefBuckets,
	})
)

// RosterConfig wires the collaborators of the roster service.
type RosterConfig struct {
	Source StatsSource
	Store  RosterStore
	Cache  LogCache
	Queue  ArchiveQueue
	Logger *zap.Logger
}

type rosterService struct {
	source StatsSource
	store  RosterStore
	cache  LogCache
	queue  ArchiveQueue
	now    func() time.Time
	logger *zap.SugaredLogger
}

func NewRosterService(cfg RosterConfig) RosterService {
	return &rosterService{
		source: cfg.Source,
		store:  cfg.Store,
		cache:  cfg.Cache,
		queue:  cfg.Queue,
		now:    time.Now,
		logger: cfg.Logger.Sugar(),
	}
}

// ListActivePlayers returns active players sorted by name, served from the
// roster cache when warm.
func (s *rosterService) ListActivePlayers(ctx context.Context) ([]models.ActivePlayer, error) {
	if s.cache != nil {
		players, ok, err := s.cache.GetRoster(ctx)
		if err != nil {
			s.logger.Warnw("Roster cache read failed", "error", err)
		} else if ok {
			return players, nil
		}
	}

	players, err := s.store.ListActivePlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active players: %w", err)
	}
	sortPlayers(players)

	if s.cache != nil && len(players) > 0 {
		if err := s.cache.SetRoster(ctx, players); err != nil {
			s.logger.Warnw("Roster cache write failed", "error", err)
		}
	}
	return players, nil
}

// ResolvePlayer finds a player by full name, ignoring case. Active players
// are searched first, then the full index.
func (s *rosterService) ResolvePlayer(ctx context.Context, name string) (*models.ActivePlayer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty player name", ErrNoData)
	}

	players, err := s.ListActivePlayers(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		if strings.EqualFold(p.FullName, name) {
			found := p
			return &found, nil
		}
	}

	p, err := s.store.FindPlayerByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("player %q: %w", name, err)
	}
	return &models.ActivePlayer{ID: p.ID, FullName: p.FullName}, nil
}

// Refresh pulls the player index and the active team map, current season
// first, and replaces the stored copies.
func (s *rosterService) Refresh(ctx context.Context) (*models.RefreshResult, error) {
	start := s.now()

	res, err := s.refresh(ctx)
	rosterRefreshDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		rosterRefreshes.WithLabelValues("error").Inc()
		return nil, err
	}
	rosterRefreshes.WithLabelValues("success").Inc()
	res.Duration = time.Since(start)

	s.logger.Infow("Roster refreshed", "players", res.Players, "active", res.ActivePlayers, "season", res.Season, "duration", res.Duration)
	return res, nil
}

func (s *rosterService) refresh(ctx context.Context) (*models.RefreshResult, error) {
	players, err := s.source.FetchAllPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch players: %w", err)
	}
	if err := s.store.UpsertPlayers(ctx, players); err != nil {
		return nil, fmt.Errorf("save players: %w", err)
	}
	s.logger.Infow("Saved players", "count", len(players))

	res := &models.RefreshResult{Players: len(players)}

	teams, season, err := FirstNonEmpty(ctx, SeasonsToTry(s.now()), func(ctx context.Context, season string) ([]models.TeamAssignment, error) {
		rows, err := s.source.FetchActiveTeams(ctx, season)
		if err != nil {
			return nil, err
		}
		if len(rows) <= minActiveRows {
			s.logger.Warnw("Active team table too small, skipping season", "season", season, "rows", len(rows))
			return nil, nil
		}
		return withTeams(rows), nil
	})
	if errors.Is(err, ErrNoData) {
		s.logger.Warnw("No active team data retrieved", "error", err)
		return res, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplaceTeamAssignments(ctx, season, teams); err != nil {
		return nil, fmt.Errorf("save team assignments: %w", err)
	}
	res.ActivePlayers = len(teams)
	res.Season = season

	if s.cache != nil {
		if err := s.cache.InvalidateRoster(ctx); err != nil {
			s.logger.Warnw("Roster cache invalidation failed", "error", err)
		}
	}
	return res, nil
}

// ArchiveActiveLogs fetches every active player's log for season and hands
// it to the archive queue, at most concurrency fetches at a time.
func (s *rosterService) ArchiveActiveLogs(ctx context.Context, season string, concurrency int) (int, error) {
	if s.queue == nil {
		return 0, errors.New("no archive queue configured")
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	players, err := s.store.ListActivePlayers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active players: %w", err)
	}

	var archived atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, p := range players {
		p := p
		g.Go(func() error {
			games, err := s.source.FetchGameLog(gctx, p.ID, season)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warnw("Game log fetch failed during archive", "player", p.ID, "season", season, "error", err)
				return nil
			}
			if len(games) == 0 {
				return nil
			}
			log := &models.GameLog{PlayerID: p.ID, Season: season, Source: "api", Games: sortNewestFirst(games)}
			if s.queue.Enqueue(log) {
				archived.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(archived.Load()), err
	}
	return int(archived.Load()), nil
}

// withTeams drops rows without a team abbreviation.
func withTeams(rows []models.TeamAssignment) []models.TeamAssignment {
	out := make([]models.TeamAssignment, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r.TeamAbbr) != "" {
			out = append(out, r)
		}
	}
	return out
}

func sortPlayers(players []models.ActivePlayer) {
	sort.Slice(players, func(i, j int) bool {
		return players[i].FullName < players[j].FullName
	})
}
