package logic

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/iceprop/prop-lab/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RedisClient defines the subset of the Redis client the cache uses
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// StatsSource is the upstream provider of game logs and roster data.
type StatsSource interface {
	FetchGameLog(ctx context.Context, playerID int64, season string) ([]models.GameRecord, error)
	FetchAllPlayers(ctx context.Context) ([]models.Player, error)
	FetchActiveTeams(ctx context.Context, season string) ([]models.TeamAssignment, error)
}

// LogCache holds short-lived copies of provider responses.
type LogCache interface {
	GetGameLog(ctx context.Context, playerID int64) (*models.GameLog, bool, error)
	SetGameLog(ctx context.Context, log *models.GameLog) error
	GetRoster(ctx context.Context) ([]models.ActivePlayer, bool, error)
	SetRoster(ctx context.Context, players []models.ActivePlayer) error
	InvalidateRoster(ctx context.Context) error
	Invalidate(ctx context.Context) error
}

// ArchiveReader reads game logs previously archived to ClickHouse.
type ArchiveReader interface {
	LoadGameLog(ctx context.Context, playerID int64, season string) ([]models.GameRecord, error)
}

// ArchiveQueue accepts fetched logs for asynchronous archiving.
type ArchiveQueue interface {
	Enqueue(log *models.GameLog) bool
	QueueDepth() int
}

// RosterStore persists the player index and team assignments.
type RosterStore interface {
	UpsertPlayers(ctx context.Context, players []models.Player) error
	ReplaceTeamAssignments(ctx context.Context, season string, teams []models.TeamAssignment) error
	ListActivePlayers(ctx context.Context) ([]models.ActivePlayer, error)
	FindPlayerByName(ctx context.Context, name string) (*models.Player, error)
}

// BoardStore persists one board per session.
type BoardStore interface {
	LoadBoard(ctx context.Context, sessionID string) (*models.Board, error)
	SaveBoard(ctx context.Context, board *models.Board) error
	DeleteBoard(ctx context.Context, sessionID string) error
}

// PropService builds prop reports for a player.
type PropService interface {
	GetPropReport(ctx context.Context, query models.PropQuery) (*models.PropReport, error)
	GetHitRate(ctx context.Context, playerID int64, line models.PropLine, windows []int) (*models.HitRateResult, error)
	GetMinutesTrend(ctx context.Context, playerID int64, games int) (*models.MinutesTrendResult, error)
	LoadGameLog(ctx context.Context, playerID int64) (*models.GameLog, error)
	InvalidateCache(ctx context.Context) error
}

// RosterService serves and refreshes roster reference data.
type RosterService interface {
	ListActivePlayers(ctx context.Context) ([]models.ActivePlayer, error)
	ResolvePlayer(ctx context.Context, name string) (*models.ActivePlayer, error)
	Refresh(ctx context.Context) (*models.RefreshResult, error)
	ArchiveActiveLogs(ctx context.Context, season string, concurrency int) (int, error)
}

// BoardService applies board transitions and persists the result.
type BoardService interface {
	GetBoard(ctx context.Context, sessionID string) (*models.Board, error)
	Pin(ctx context.Context, sessionID string, req models.PinRequest) (*models.PinResponse, error)
	Unpin(ctx context.Context, sessionID, pinID string) (*models.Board, error)
	Clear(ctx context.Context, sessionID string) (*models.Board, error)
	Reset(ctx context.Context, sessionID string) (*models.Board, error)
	SetOpponent(ctx context.Context, sessionID, opponent string) (*models.Board, error)
	SetGamesToShow(ctx context.Context, sessionID string, games int) (*models.Board, error)
	Export(ctx context.Context, sessionID string) (*models.BoardExport, error)
	Import(ctx context.Context, sessionID string, export models.BoardExport) (*models.Board, error)
}
