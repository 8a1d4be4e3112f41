package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/iceprop/prop-lab/internal/logic"
	"github.com/iceprop/prop-lab/internal/models"
)

func TestUpsertPlayers(t *testing.T) {
	pg := &MockPgPool{}
	s := NewPostgresStore(pg)

	players := []models.Player{
		{ID: 1, FullName: "One", IsActive: true},
		{ID: 2, FullName: "Two"},
	}
	if err := s.UpsertPlayers(context.Background(), players); err != nil {
		t.Fatalf("UpsertPlayers() error = %v", err)
	}
	if len(pg.Tx.Batches) != 1 || pg.Tx.Batches[0].Len() != 2 {
		t.Fatalf("expected one batch of 2 statements, got %+v", pg.Tx.Batches)
	}
	if !pg.Tx.Committed {
		t.Error("transaction was not committed")
	}
}

func TestUpsertPlayersBatchErrorRollsBack(t *testing.T) {
	pg := &MockPgPool{Tx: &MockTx{BatchErr: errors.New("constraint")}}
	s := NewPostgresStore(pg)

	err := s.UpsertPlayers(context.Background(), []models.Player{{ID: 1, FullName: "One"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if pg.Tx.Committed || !pg.Tx.RolledBack {
		t.Errorf("committed=%v rolledBack=%v", pg.Tx.Committed, pg.Tx.RolledBack)
	}
}

func TestReplaceTeamAssignments(t *testing.T) {
	pg := &MockPgPool{}
	s := NewPostgresStore(pg)

	teams := []models.TeamAssignment{{PlayerID: 1, TeamAbbr: "BOS"}, {PlayerID: 2, TeamAbbr: "LAL"}}
	if err := s.ReplaceTeamAssignments(context.Background(), "2024-25", teams); err != nil {
		t.Fatalf("ReplaceTeamAssignments() error = %v", err)
	}
	if len(pg.Tx.Execs) != 1 || !strings.Contains(pg.Tx.Execs[0], "DELETE FROM active_player_teams") {
		t.Errorf("expected table clear first, got %v", pg.Tx.Execs)
	}
	if pg.Tx.Batches[0].Len() != 2 || !pg.Tx.Committed {
		t.Error("expected 2 inserts in a committed transaction")
	}
}

func TestListActivePlayers(t *testing.T) {
	pg := &MockPgPool{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &MockPGXRows{rows: [][]any{
				{int64(1), "Anthony Edwards", "MIN"},
				{int64(2), "Jayson Tatum", "BOS"},
			}}, nil
		},
	}

	players, err := NewPostgresStore(pg).ListActivePlayers(context.Background())
	if err != nil {
		t.Fatalf("ListActivePlayers() error = %v", err)
	}
	want := []models.ActivePlayer{{ID: 1, FullName: "Anthony Edwards", TeamAbbr: "MIN"}, {ID: 2, FullName: "Jayson Tatum", TeamAbbr: "BOS"}}
	if len(players) != len(want) || players[0] != want[0] || players[1] != want[1] {
		t.Errorf("players = %+v, want %+v", players, want)
	}
}

func TestFindPlayerByName(t *testing.T) {
	pg := &MockPgPool{}
	s := NewPostgresStore(pg)

	if _, err := s.FindPlayerByName(context.Background(), "Nobody"); !errors.Is(err, logic.ErrNoData) {
		t.Errorf("missing player error = %v, want ErrNoData", err)
	}

	pg.QueryRowFunc = func(ctx context.Context, sql string, args ...any) pgx.Row {
		return &MockRow{ScanFunc: func(dest ...any) error {
			return assign([]any{int64(203999), "Nikola Jokic", true}, dest)
		}}
	}
	p, err := s.FindPlayerByName(context.Background(), "nikola jokic")
	if err != nil {
		t.Fatalf("FindPlayerByName() error = %v", err)
	}
	if p.ID != 203999 || !p.IsActive {
		t.Errorf("player = %+v", p)
	}
}

func TestBoardRoundTrip(t *testing.T) {
	stored := map[string][]byte{}
	pg := &MockPgPool{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			if strings.Contains(sql, "DELETE") {
				delete(stored, args[0].(string))
				return pgconn.CommandTag{}, nil
			}
			stored[args[0].(string)] = args[1].([]byte)
			return pgconn.CommandTag{}, nil
		},
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &MockRow{ScanFunc: func(dest ...any) error {
				raw, ok := stored[args[0].(string)]
				if !ok {
					return pgx.ErrNoRows
				}
				return assign([]any{raw}, dest)
			}}
		},
	}
	s := NewPostgresStore(pg)
	ctx := context.Background()

	if _, err := s.LoadBoard(ctx, "abc"); !errors.Is(err, logic.ErrNoData) {
		t.Fatalf("missing board error = %v, want ErrNoData", err)
	}

	board := &models.Board{
		SessionID:   "abc",
		Opponent:    "NYK",
		GamesToShow: 10,
		Pins: []models.PinnedProp{{
			ID: "p1", Player: "Jalen Brunson", Stat: models.StatPoints, Line: "25.5",
			Odds: "-115", HitRateSummary: "60% | 70% | —", Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}
	if err := s.SaveBoard(ctx, board); err != nil {
		t.Fatalf("SaveBoard() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(stored["abc"], &decoded); err != nil {
		t.Fatalf("stored board is not JSON: %v", err)
	}

	got, err := s.LoadBoard(ctx, "abc")
	if err != nil {
		t.Fatalf("LoadBoard() error = %v", err)
	}
	if got.Opponent != "NYK" || len(got.Pins) != 1 || got.Pins[0].Line != "25.5" {
		t.Errorf("loaded board = %+v", got)
	}

	if err := s.DeleteBoard(ctx, "abc"); err != nil {
		t.Fatalf("DeleteBoard() error = %v", err)
	}
	if _, err := s.LoadBoard(ctx, "abc"); !errors.Is(err, logic.ErrNoData) {
		t.Errorf("deleted board error = %v, want ErrNoData", err)
	}
}

func TestArchiveReaderLoadGameLog(t *testing.T) {
	pts, reb := int32(31), int32(8)
	ch := &MockClickHouseConn{Rows: [][]any{
		{"g2", time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), "DEN @ LAL", float32(36.5), &pts, &reb, nil, nil, nil, nil, nil},
	}}

	games, err := NewArchiveReader(ch).LoadGameLog(context.Background(), 203999, "2024-25")
	if err != nil {
		t.Fatalf("LoadGameLog() error = %v", err)
	}
	if ch.QueryArgs[0] != uint64(203999) || ch.QueryArgs[1] != "2024-25" {
		t.Errorf("query args = %v", ch.QueryArgs)
	}
	if len(games) != 1 {
		t.Fatalf("got %d games", len(games))
	}
	g := games[0]
	if g.Minutes != 36.5 || g.Stats[models.StatPoints] != 31 || g.Stats[models.StatRebounds] != 8 {
		t.Errorf("game = %+v", g)
	}
	if _, ok := g.Value(models.StatAssists); ok {
		t.Error("NULL assists should be absent")
	}
}

func TestInstallSchema(t *testing.T) {
	var pgSQL string
	pg := &MockPgPool{ExecFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
		pgSQL = sql
		return pgconn.CommandTag{}, nil
	}}
	ch := &MockClickHouseConn{}

	results, ok := NewSchemaInstaller(pg, ch, zap.NewNop()).InstallSchema(context.Background())
	if !ok {
		t.Fatalf("InstallSchema() failed: %v", results)
	}
	if !strings.Contains(pgSQL, "board_sessions") {
		t.Error("postgres schema should create board_sessions")
	}
	if len(ch.Statements) != 2 {
		t.Fatalf("clickhouse statements = %d, want 2", len(ch.Statements))
	}
	if !strings.HasPrefix(ch.Statements[1], "CREATE TABLE IF NOT EXISTS proplab.game_logs") {
		t.Errorf("unexpected statement %q", ch.Statements[1])
	}
}

func TestInstallSchemaReportsFailure(t *testing.T) {
	pg := &MockPgPool{}
	ch := &MockClickHouseConn{ExecErr: errors.New("readonly")}

	results, ok := NewSchemaInstaller(pg, ch, zap.NewNop()).InstallSchema(context.Background())
	if ok {
		t.Fatal("expected failure")
	}
	if results["postgres"] != "success" || !strings.HasPrefix(results["clickhouse"], "failed: ") {
		t.Errorf("results = %v", results)
	}
}
