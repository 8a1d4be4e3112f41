package handlers

import (
	"context"

	"github.com/iceprop/prop-lab/internal/logic"
	"github.com/iceprop/prop-lab/internal/models"
)

// MockPropService
type MockPropService struct {
	GetPropReportFunc   func(ctx context.Context, q models.PropQuery) (*models.PropReport, error)
	GetHitRateFunc      func(ctx context.Context, playerID int64, line models.PropLine, windows []int) (*models.HitRateResult, error)
	GetMinutesTrendFunc func(ctx context.Context, playerID int64, games int) (*models.MinutesTrendResult, error)
	InvalidateCacheFunc func(ctx context.Context) error
}

func (m *MockPropService) GetPropReport(ctx context.Context, q models.PropQuery) (*models.PropReport, error) {
	if m.GetPropReportFunc != nil {
		return m.GetPropReportFunc(ctx, q)
	}
	return &models.PropReport{PlayerID: q.PlayerID}, nil
}

func (m *MockPropService) GetHitRate(ctx context.Context, playerID int64, line models.PropLine, windows []int) (*models.HitRateResult, error) {
	if m.GetHitRateFunc != nil {
		return m.GetHitRateFunc(ctx, playerID, line, windows)
	}
	return &models.HitRateResult{Stat: line.Stat, Line: line.Line}, nil
}

func (m *MockPropService) GetMinutesTrend(ctx context.Context, playerID int64, games int) (*models.MinutesTrendResult, error) {
	if m.GetMinutesTrendFunc != nil {
		return m.GetMinutesTrendFunc(ctx, playerID, games)
	}
	return &models.MinutesTrendResult{}, nil
}

func (m *MockPropService) LoadGameLog(ctx context.Context, playerID int64) (*models.GameLog, error) {
	return nil, logic.ErrNoData
}

func (m *MockPropService) InvalidateCache(ctx context.Context) error {
	if m.InvalidateCacheFunc != nil {
		return m.InvalidateCacheFunc(ctx)
	}
	return nil
}

// MockRosterService
type MockRosterService struct {
	ListActivePlayersFunc func(ctx context.Context) ([]models.ActivePlayer, error)
	ResolvePlayerFunc     func(ctx context.Context, name string) (*models.ActivePlayer, error)
}

func (m *MockRosterService) ListActivePlayers(ctx context.Context) ([]models.ActivePlayer, error) {
	if m.ListActivePlayersFunc != nil {
		return m.ListActivePlayersFunc(ctx)
	}
	return []models.ActivePlayer{}, nil
}

func (m *MockRosterService) ResolvePlayer(ctx context.Context, name string) (*models.ActivePlayer, error) {
	if m.ResolvePlayerFunc != nil {
		return m.ResolvePlayerFunc(ctx, name)
	}
	return nil, logic.ErrNoData
}

func (m *MockRosterService) Refresh(ctx context.Context) (*models.RefreshResult, error) {
	return &models.RefreshResult{}, nil
}

func (m *MockRosterService) ArchiveActiveLogs(ctx context.Context, season string, concurrency int) (int, error) {
	return 0, nil
}

// MockBoardStore keeps boards in memory so the real board service can be
// exercised end to end.
type MockBoardStore struct {
	Boards map[string]models.Board
}

func NewMockBoardStore() *MockBoardStore {
	return &MockBoardStore{Boards: map[string]models.Board{}}
}

func (m *MockBoardStore) LoadBoard(ctx context.Context, sessionID string) (*models.Board, error) {
	b, ok := m.Boards[sessionID]
	if !ok {
		return nil, logic.ErrNoData
	}
	return &b, nil
}

func (m *MockBoardStore) SaveBoard(ctx context.Context, b *models.Board) error {
	m.Boards[b.SessionID] = *b
	return nil
}

func (m *MockBoardStore) DeleteBoard(ctx context.Context, sessionID string) error {
	delete(m.Boards, sessionID)
	return nil
}

type MockArchiveQueue struct {
	Depth int
}

func (m *MockArchiveQueue) Enqueue(log *models.GameLog) bool { return true }
func (m *MockArchiveQueue) QueueDepth() int                  { return m.Depth }

type MockInstaller struct {
	Results map[string]string
	OK      bool
}

func (m *MockInstaller) InstallSchema(ctx context.Context) (map[string]string, bool) {
	return m.Results, m.OK
}
