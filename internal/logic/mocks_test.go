package logic

import (
	"context"
	"sync"
	"time"

	"github.com/iceprop/prop-lab/internal/models"
)

// MockStatsSource implements StatsSource for testing
type MockStatsSource struct {
	FetchGameLogFunc     func(ctx context.Context, playerID int64, season string) ([]models.GameRecord, error)
	FetchAllPlayersFunc  func(ctx context.Context) ([]models.Player, error)
	FetchActiveTeamsFunc func(ctx context.Context, season string) ([]models.TeamAssignment, error)

	mu       sync.Mutex
	Requests []string
}

func (m *MockStatsSource) FetchGameLog(ctx context.Context, playerID int64, season string) ([]models.GameRecord, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, "gamelog:"+season)
	m.mu.Unlock()
	if m.FetchGameLogFunc != nil {
		return m.FetchGameLogFunc(ctx, playerID, season)
	}
	return nil, nil
}

func (m *MockStatsSource) FetchAllPlayers(ctx context.Context) ([]models.Player, error) {
	if m.FetchAllPlayersFunc != nil {
		return m.FetchAllPlayersFunc(ctx)
	}
	return nil, nil
}

func (m *MockStatsSource) FetchActiveTeams(ctx context.Context, season string) ([]models.TeamAssignment, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, "teams:"+season)
	m.mu.Unlock()
	if m.FetchActiveTeamsFunc != nil {
		return m.FetchActiveTeamsFunc(ctx, season)
	}
	return nil, nil
}

// MockLogCache is an in-memory LogCache
type MockLogCache struct {
	Logs        map[int64]models.GameLog
	Roster      []models.ActivePlayer
	GetErr      error
	Invalidated int
}

func NewMockLogCache() *MockLogCache {
	return &MockLogCache{Logs: map[int64]models.GameLog{}}
}

func (m *MockLogCache) GetGameLog(ctx context.Context, playerID int64) (*models.GameLog, bool, error) {
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	l, ok := m.Logs[playerID]
	if !ok {
		return nil, false, nil
	}
	return &l, true, nil
}

func (m *MockLogCache) SetGameLog(ctx context.Context, log *models.GameLog) error {
	m.Logs[log.PlayerID] = *log
	return nil
}

func (m *MockLogCache) GetRoster(ctx context.Context) ([]models.ActivePlayer, bool, error) {
	if m.Roster == nil {
		return nil, false, nil
	}
	return m.Roster, true, nil
}

func (m *MockLogCache) SetRoster(ctx context.Context, players []models.ActivePlayer) error {
	m.Roster = players
	return nil
}

func (m *MockLogCache) InvalidateRoster(ctx context.Context) error {
	m.Roster = nil
	return nil
}

func (m *MockLogCache) Invalidate(ctx context.Context) error {
	m.Invalidated++
	m.Logs = map[int64]models.GameLog{}
	m.Roster = nil
	return nil
}

// MockArchiveReader implements ArchiveReader for testing
type MockArchiveReader struct {
	LoadGameLogFunc func(ctx context.Context, playerID int64, season string) ([]models.GameRecord, error)
}

func (m *MockArchiveReader) LoadGameLog(ctx context.Context, playerID int64, season string) ([]models.GameRecord, error) {
	if m.LoadGameLogFunc != nil {
		return m.LoadGameLogFunc(ctx, playerID, season)
	}
	return nil, nil
}

// MockArchiveQueue records enqueued logs
type MockArchiveQueue struct {
	mu     sync.Mutex
	Logs   []*models.GameLog
	Reject bool
}

func (m *MockArchiveQueue) Enqueue(log *models.GameLog) bool {
	if m.Reject {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return true
}

func (m *MockArchiveQueue) QueueDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Logs)
}

// MockRosterStore implements RosterStore for testing
type MockRosterStore struct {
	Players []models.Player
	Active  []models.ActivePlayer
	Teams   []models.TeamAssignment
	Season  string

	UpsertErr error
	ListErr   error
}

func (m *MockRosterStore) UpsertPlayers(ctx context.Context, players []models.Player) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.Players = players
	return nil
}

func (m *MockRosterStore) ReplaceTeamAssignments(ctx context.Context, season string, teams []models.TeamAssignment) error {
	m.Season = season
	m.Teams = teams
	return nil
}

func (m *MockRosterStore) ListActivePlayers(ctx context.Context) ([]models.ActivePlayer, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]models.ActivePlayer, len(m.Active))
	copy(out, m.Active)
	return out, nil
}

func (m *MockRosterStore) FindPlayerByName(ctx context.Context, name string) (*models.Player, error) {
	for _, p := range m.Players {
		if p.FullName == name {
			found := p
			return &found, nil
		}
	}
	return nil, ErrNoData
}

// MockBoardStore keeps boards in memory
type MockBoardStore struct {
	Boards  map[string]models.Board
	Deleted []string
	LoadErr error
	SaveErr error
}

func NewMockBoardStore() *MockBoardStore {
	return &MockBoardStore{Boards: map[string]models.Board{}}
}

func (m *MockBoardStore) LoadBoard(ctx context.Context, sessionID string) (*models.Board, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	b, ok := m.Boards[sessionID]
	if !ok {
		return nil, ErrNoData
	}
	return &b, nil
}

func (m *MockBoardStore) SaveBoard(ctx context.Context, b *models.Board) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Boards[b.SessionID] = *b
	return nil
}

func (m *MockBoardStore) DeleteBoard(ctx context.Context, sessionID string) error {
	m.Deleted = append(m.Deleted, sessionID)
	delete(m.Boards, sessionID)
	return nil
}

// game builds a record with every base stat set; pts is the points value
// and the rest are fixed small numbers.
func game(id string, daysAgo int, minutes float64, pts int) models.GameRecord {
	return models.GameRecord{
		GameID:  id,
		Date:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo),
		Matchup: "BOS vs. NYK",
		Minutes: minutes,
		Stats: map[models.Stat]int{
			models.StatPoints:    pts,
			models.StatRebounds:  5,
			models.StatAssists:   4,
			models.StatSteals:    1,
			models.StatBlocks:    1,
			models.StatTurnovers: 2,
			models.StatThrees:    3,
		},
	}
}

// pointsLog builds a newest-first log from point totals.
func pointsLog(points ...int) []models.GameRecord {
	log := make([]models.GameRecord, len(points))
	for i, p := range points {
		log[i] = game("g"+string(rune('a'+i)), i, 34, p)
	}
	return log
}

// minutesLog builds a newest-first log from minute totals.
func minutesLog(minutes ...float64) []models.GameRecord {
	log := make([]models.GameRecord, len(minutes))
	for i, m := range minutes {
		log[i] = game("m"+string(rune('a'+i)), i, m, 20)
	}
	return log
}
