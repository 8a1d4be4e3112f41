package logic

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/iceprop/prop-lab/internal/models"
)

func teamRows(season string, n int) []models.TeamAssignment {
	rows := make([]models.TeamAssignment, n)
	for i := range rows {
		rows[i] = models.TeamAssignment{PlayerID: int64(i + 1), TeamAbbr: "BOS", Season: season}
	}
	return rows
}

func newTestRosterService(source StatsSource, store RosterStore, cache LogCache, queue ArchiveQueue) *rosterService {
	s := NewRosterService(RosterConfig{
		Source: source,
		Store:  store,
		Cache:  cache,
		Queue:  queue,
		Logger: zap.NewNop(),
	}).(*rosterService)
	s.now = func() time.Time { return propNow }
	return s
}

func TestRosterRefresh(t *testing.T) {
	players := []models.Player{{ID: 1, FullName: "A", IsActive: true}, {ID: 2, FullName: "B"}}

	tests := []struct {
		name       string
		teams      map[string][]models.TeamAssignment
		wantSeason string
		wantActive int
		wantCalls  []string
	}{
		{
			name: "current season",
			teams: map[string][]models.TeamAssignment{
				"2025-26": append(teamRows("2025-26", 81), models.TeamAssignment{PlayerID: 500, Season: "2025-26"}),
			},
			wantSeason: "2025-26",
			wantActive: 81,
			wantCalls:  []string{"teams:2025-26"},
		},
		{
			name: "partial current table falls back",
			teams: map[string][]models.TeamAssignment{
				"2025-26": teamRows("2025-26", 80),
				"2024-25": teamRows("2024-25", 450),
			},
			wantSeason: "2024-25",
			wantActive: 450,
			wantCalls:  []string{"teams:2025-26", "teams:2024-25"},
		},
		{
			name:      "no team data",
			teams:     map[string][]models.TeamAssignment{},
			wantCalls: []string{"teams:2025-26", "teams:2024-25"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &MockStatsSource{
				FetchAllPlayersFunc: func(ctx context.Context) ([]models.Player, error) {
					return players, nil
				},
				FetchActiveTeamsFunc: func(ctx context.Context, season string) ([]models.TeamAssignment, error) {
					return tt.teams[season], nil
				},
			}
			store := &MockRosterStore{}
			cache := NewMockLogCache()
			cache.Roster = []models.ActivePlayer{{ID: 9, FullName: "Stale"}}

			res, err := newTestRosterService(source, store, cache, nil).Refresh(context.Background())
			if err != nil {
				t.Fatalf("Refresh failed: %v", err)
			}
			if res.Players != 2 || len(store.Players) != 2 {
				t.Errorf("Players = %d stored %d, want 2", res.Players, len(store.Players))
			}
			if res.Season != tt.wantSeason || res.ActivePlayers != tt.wantActive {
				t.Errorf("Got %d active in %q, want %d in %q", res.ActivePlayers, res.Season, tt.wantActive, tt.wantSeason)
			}
			if store.Season != tt.wantSeason || len(store.Teams) != tt.wantActive {
				t.Errorf("Stored %d rows for %q", len(store.Teams), store.Season)
			}
			if fmt.Sprint(source.Requests) != fmt.Sprint(tt.wantCalls) {
				t.Errorf("Calls = %v, want %v", source.Requests, tt.wantCalls)
			}
			if tt.wantSeason != "" && cache.Roster != nil {
				t.Error("Roster cache should be invalidated after a refresh")
			}
		})
	}
}

func TestRosterRefresh_Errors(t *testing.T) {
	boom := errors.New("boom")

	source := &MockStatsSource{FetchAllPlayersFunc: func(ctx context.Context) ([]models.Player, error) {
		return nil, boom
	}}
	if _, err := newTestRosterService(source, &MockRosterStore{}, nil, nil).Refresh(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Expected fetch error, got %v", err)
	}

	source = &MockStatsSource{FetchAllPlayersFunc: func(ctx context.Context) ([]models.Player, error) {
		return []models.Player{{ID: 1, FullName: "A"}}, nil
	}}
	store := &MockRosterStore{UpsertErr: boom}
	if _, err := newTestRosterService(source, store, nil, nil).Refresh(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Expected save error, got %v", err)
	}
}

func TestListActivePlayers(t *testing.T) {
	store := &MockRosterStore{Active: []models.ActivePlayer{
		{ID: 2, FullName: "Zion Williamson", TeamAbbr: "NOP"},
		{ID: 1, FullName: "Anthony Davis", TeamAbbr: "LAL"},
	}}
	cache := NewMockLogCache()
	svc := newTestRosterService(&MockStatsSource{}, store, cache, nil)

	players, err := svc.ListActivePlayers(context.Background())
	if err != nil {
		t.Fatalf("ListActivePlayers failed: %v", err)
	}
	if len(players) != 2 || players[0].FullName != "Anthony Davis" {
		t.Errorf("Expected sorted players, got %+v", players)
	}
	if len(cache.Roster) != 2 {
		t.Error("Roster should be cached")
	}

	store.ListErr = errors.New("db down")
	if _, err := svc.ListActivePlayers(context.Background()); err != nil {
		t.Errorf("Warm cache should serve the roster: %v", err)
	}
}

func TestResolvePlayer(t *testing.T) {
	store := &MockRosterStore{
		Active:  []models.ActivePlayer{{ID: 1628369, FullName: "Jayson Tatum", TeamAbbr: "BOS"}},
		Players: []models.Player{{ID: 2544, FullName: "LeBron James"}},
	}
	svc := newTestRosterService(&MockStatsSource{}, store, nil, nil)
	ctx := context.Background()

	p, err := svc.ResolvePlayer(ctx, "  jayson TATUM ")
	if err != nil || p.ID != 1628369 || p.TeamAbbr != "BOS" {
		t.Errorf("Active lookup = %+v, %v", p, err)
	}

	p, err = svc.ResolvePlayer(ctx, "LeBron James")
	if err != nil || p.ID != 2544 || p.TeamAbbr != "" {
		t.Errorf("Index lookup = %+v, %v", p, err)
	}

	for _, name := range []string{"", "Nobody"} {
		if _, err := svc.ResolvePlayer(ctx, name); !errors.Is(err, ErrNoData) {
			t.Errorf("ResolvePlayer(%q): expected ErrNoData, got %v", name, err)
		}
	}
}

func TestArchiveActiveLogs(t *testing.T) {
	store := &MockRosterStore{Active: []models.ActivePlayer{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}}
	source := &MockStatsSource{FetchGameLogFunc: func(ctx context.Context, id int64, season string) ([]models.GameRecord, error) {
		switch id {
		case 2:
			return nil, errors.New("timeout")
		case 3:
			return nil, nil
		}
		return pointsLog(20, 25), nil
	}}
	queue := &MockArchiveQueue{}

	n, err := newTestRosterService(source, store, nil, queue).ArchiveActiveLogs(context.Background(), "2025-26", 2)
	if err != nil {
		t.Fatalf("ArchiveActiveLogs failed: %v", err)
	}
	if n != 2 || len(queue.Logs) != 2 {
		t.Errorf("Archived %d (queued %d), want 2", n, len(queue.Logs))
	}
	for _, l := range queue.Logs {
		if l.Season != "2025-26" || len(l.Games) != 2 {
			t.Errorf("Unexpected queued log %+v", l)
		}
	}

	if _, err := newTestRosterService(source, store, nil, nil).ArchiveActiveLogs(context.Background(), "2025-26", 2); err == nil {
		t.Error("Expected error without a queue")
	}
}
