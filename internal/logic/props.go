package logic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iceprop/prop-lab/internal/models"
)

var gameLogLoads = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "proplab_game_log_loads_total",
	Help: "Game log loads by source (cache, api, archive, none)",
}, []string{"source"})

// PropConfig wires the collaborators of the prop service.
type PropConfig struct {
	Source          StatsSource
	Cache           LogCache
	Archive         ArchiveReader
	Queue           ArchiveQueue
	Roster          RosterService
	Boards          BoardStore
	DefaultOpponent string
	Logger          *zap.Logger
}

type propService struct {
	source          StatsSource
	cache           LogCache
	archive         ArchiveReader
	queue           ArchiveQueue
	roster          RosterService
	boards          BoardStore
	defaultOpponent string
	now             func() time.Time
	logger          *zap.SugaredLogger
}

func NewPropService(cfg PropConfig) PropService {
	return &propService{
		source:          cfg.Source,
		cache:           cfg.Cache,
		archive:         cfg.Archive,
		queue:           cfg.Queue,
		roster:          cfg.Roster,
		boards:          cfg.Boards,
		defaultOpponent: cfg.DefaultOpponent,
		now:             time.Now,
		logger:          cfg.Logger.Sugar(),
	}
}

// LoadGameLog returns the player's log newest first. It tries the cache,
// then the provider (current season, then previous), then the archive.
func (s *propService) LoadGameLog(ctx context.Context, playerID int64) (*models.GameLog, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetGameLog(ctx, playerID)
		if err != nil {
			s.logger.Warnw("Game log cache read failed", "player", playerID, "error", err)
		} else if ok {
			gameLogLoads.WithLabelValues("cache").Inc()
			cached.Source = "cache"
			return cached, nil
		}
	}

	seasons := SeasonsToTry(s.now())

	games, season, err := FirstNonEmpty(ctx, seasons, func(ctx context.Context, season string) ([]models.GameRecord, error) {
		return s.source.FetchGameLog(ctx, playerID, season)
	})
	if err == nil {
		log := &models.GameLog{PlayerID: playerID, Season: season, Source: "api", Games: sortNewestFirst(games)}
		if s.cache != nil {
			if err := s.cache.SetGameLog(ctx, log); err != nil {
				s.logger.Warnw("Game log cache write failed", "player", playerID, "error", err)
			}
		}
		if s.queue != nil && !s.queue.Enqueue(log) {
			s.logger.Warnw("Archive queue rejected game log", "player", playerID, "season", season)
		}
		gameLogLoads.WithLabelValues("api").Inc()
		return log, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	s.logger.Warnw("Provider game log fetch failed, trying archive", "player", playerID, "error", err)

	if s.archive != nil {
		archived, season, archErr := FirstNonEmpty(ctx, seasons, func(ctx context.Context, season string) ([]models.GameRecord, error) {
			return s.archive.LoadGameLog(ctx, playerID, season)
		})
		if archErr == nil {
			gameLogLoads.WithLabelValues("archive").Inc()
			return &models.GameLog{PlayerID: playerID, Season: season, Source: "archive", Games: sortNewestFirst(archived)}, nil
		}
		s.logger.Warnw("Archive game log read failed", "player", playerID, "error", archErr)
	}

	gameLogLoads.WithLabelValues("none").Inc()
	return nil, fmt.Errorf("player %d: %w", playerID, ErrNoData)
}

// derivedGames copies the log's games and adds composite columns.
func derivedGames(log *models.GameLog) ([]models.GameRecord, error) {
	games := make([]models.GameRecord, len(log.Games))
	for i, g := range log.Games {
		stats := make(map[models.Stat]int, len(g.Stats)+5)
		for k, v := range g.Stats {
			stats[k] = v
		}
		g.Stats = stats
		games[i] = g
	}
	if err := DeriveLog(games); err != nil {
		return nil, err
	}
	return games, nil
}

func (s *propService) loadDerived(ctx context.Context, playerID int64) (*models.GameLog, []models.GameRecord, error) {
	log, err := s.LoadGameLog(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}
	games, err := derivedGames(log)
	if err != nil {
		return nil, nil, fmt.Errorf("player %d: %w", playerID, err)
	}
	return log, games, nil
}

// sessionBoard loads the caller's board when the query leaves a setting
// open. A missing or unreadable board yields nil.
func (s *propService) sessionBoard(ctx context.Context, sessionID string, needed bool) *models.Board {
	if !needed || sessionID == "" || s.boards == nil {
		return nil
	}
	b, err := s.boards.LoadBoard(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrNoData) {
			s.logger.Warnw("Board read failed", "session", sessionID, "error", err)
		}
		return nil
	}
	return b
}

// GetPropReport assembles the whole dashboard for one player.
func (s *propService) GetPropReport(ctx context.Context, q models.PropQuery) (*models.PropReport, error) {
	for _, l := range q.Lines {
		if !models.IsPropStat(l.Stat) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStat, l.Stat)
		}
		if err := ValidateLine(l.Line); err != nil {
			return nil, fmt.Errorf("%s: %w", l.Stat, err)
		}
	}
	windows := q.Windows
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	gamesToShow := q.GamesToShow
	opponent := strings.ToUpper(q.Opponent)
	if b := s.sessionBoard(ctx, q.SessionID, gamesToShow <= 0 || opponent == ""); b != nil {
		if gamesToShow <= 0 {
			gamesToShow = b.GamesToShow
		}
		if opponent == "" {
			opponent = b.Opponent
		}
	}
	if gamesToShow <= 0 {
		gamesToShow = defaultGamesToShow
	}
	if opponent == "" {
		opponent = s.defaultOpponent
	}

	var (
		log   *models.GameLog
		games []models.GameRecord
		name  = q.PlayerName
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		log, games, err = s.loadDerived(gctx, q.PlayerID)
		return err
	})
	if name == "" && s.roster != nil {
		g.Go(func() error {
			name = s.playerName(gctx, q.PlayerID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &models.PropReport{
		PlayerID:       q.PlayerID,
		PlayerName:     name,
		Season:         log.Season,
		Source:         log.Source,
		GamesAvailable: len(games),
		HitRates:       make([]models.HitRateResult, 0, len(q.Lines)),
		Performance:    make([]models.PerformanceSeries, 0, len(q.Lines)),
		GeneratedAt:    s.now().UTC(),
	}

	for _, l := range q.Lines {
		hr, err := ComputeHitRate(games, l.Stat, l.Line, windows)
		if err != nil {
			return nil, fmt.Errorf("%s %.1f: %w", l.Stat, l.Line, err)
		}
		report.HitRates = append(report.HitRates, *hr)
		report.Performance = append(report.Performance, PerformanceSeries(games, l.Stat, l.Line, gamesToShow))
	}

	report.Minutes = MinutesSeries(games, gamesToShow)
	trend, err := ProjectMinutes(games, gamesToShow)
	if err != nil {
		return nil, err
	}
	report.MinutesTrend = *trend

	vs := FilterByOpponent(games, opponent)
	report.VsOpponent = models.MatchupReport{
		Opponent: opponent,
		Games:    vs,
		Average:  ComputeAverages("AVG vs "+opponent, vs),
	}

	report.RecentGames = RecentGames(games, gamesToShow)
	report.RecentAverage = ComputeAverages("AVG", report.RecentGames)

	return report, nil
}

func (s *propService) playerName(ctx context.Context, playerID int64) string {
	players, err := s.roster.ListActivePlayers(ctx)
	if err != nil {
		s.logger.Warnw("Roster lookup failed", "player", playerID, "error", err)
		return ""
	}
	for _, p := range players {
		if p.ID == playerID {
			return p.FullName
		}
	}
	return ""
}

func (s *propService) GetHitRate(ctx context.Context, playerID int64, line models.PropLine, windows []int) (*models.HitRateResult, error) {
	if !models.IsPropStat(line.Stat) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStat, line.Stat)
	}
	if err := ValidateLine(line.Line); err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	_, games, err := s.loadDerived(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return ComputeHitRate(games, line.Stat, line.Line, windows)
}

func (s *propService) GetMinutesTrend(ctx context.Context, playerID int64, games int) (*models.MinutesTrendResult, error) {
	if games < minTrendGames {
		return nil, fmt.Errorf("%w: trend needs at least %d games, got %d", ErrInvalidWindow, minTrendGames, games)
	}
	log, err := s.LoadGameLog(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return ProjectMinutes(log.Games, games)
}

// InvalidateCache drops every cached provider response.
func (s *propService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return errors.New("no cache configured")
	}
	return s.cache.Invalidate(ctx)
}

// sortNewestFirst orders games by date, most recent first.
func sortNewestFirst(games []models.GameRecord) []models.GameRecord {
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Date.After(games[j].Date)
	})
	return games
}
