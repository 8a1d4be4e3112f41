// Package store persists roster and board data in PostgreSQL and reads
// archived game logs from ClickHouse.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iceprop/prop-lab/internal/logic"
	"github.com/iceprop/prop-lab/internal/models"
)

// PostgresStore implements logic.RosterStore and logic.BoardStore.
type PostgresStore struct {
	pg logic.PgPool
}

var (
	_ logic.RosterStore = (*PostgresStore)(nil)
	_ logic.BoardStore  = (*PostgresStore)(nil)
)

func NewPostgresStore(pg logic.PgPool) *PostgresStore {
	return &PostgresStore{pg: pg}
}

const upsertPlayer = `
	INSERT INTO players (id, full_name, is_active, updated_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (id) DO UPDATE
	SET full_name = EXCLUDED.full_name,
	    is_active = EXCLUDED.is_active,
	    updated_at = NOW()`

// UpsertPlayers writes the player index in one transaction.
func (s *PostgresStore) UpsertPlayers(ctx context.Context, players []models.Player) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := s.pg.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, p := range players {
		batch.Queue(upsertPlayer, p.ID, p.FullName, p.IsActive)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert players: %w", err)
	}
	return tx.Commit(ctx)
}

// ReplaceTeamAssignments swaps the whole active team table for season's.
func (s *PostgresStore) ReplaceTeamAssignments(ctx context.Context, season string, teams []models.TeamAssignment) error {
	tx, err := s.pg.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM active_player_teams`); err != nil {
		return fmt.Errorf("clear team assignments: %w", err)
	}

	batch := &pgx.Batch{}
	for _, t := range teams {
		batch.Queue(`
			INSERT INTO active_player_teams (player_id, team_abbr, season, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (player_id) DO UPDATE
			SET team_abbr = EXCLUDED.team_abbr, season = EXCLUDED.season, updated_at = NOW()`,
			t.PlayerID, t.TeamAbbr, season)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert team assignments: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) ListActivePlayers(ctx context.Context) ([]models.ActivePlayer, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT p.id, p.full_name, t.team_abbr
		FROM active_player_teams t
		JOIN players p ON p.id = t.player_id
		ORDER BY p.full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []models.ActivePlayer{}
	for rows.Next() {
		var p models.ActivePlayer
		if err := rows.Scan(&p.ID, &p.FullName, &p.TeamAbbr); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// FindPlayerByName matches case-insensitively, preferring active players.
func (s *PostgresStore) FindPlayerByName(ctx context.Context, name string) (*models.Player, error) {
	var p models.Player
	err := s.pg.QueryRow(ctx, `
		SELECT id, full_name, is_active
		FROM players
		WHERE LOWER(full_name) = LOWER($1)
		ORDER BY is_active DESC, id DESC
		LIMIT 1`, name).Scan(&p.ID, &p.FullName, &p.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, logic.ErrNoData
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) LoadBoard(ctx context.Context, sessionID string) (*models.Board, error) {
	var raw []byte
	err := s.pg.QueryRow(ctx, `SELECT board FROM board_sessions WHERE session_id = $1`, sessionID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, logic.ErrNoData
	}
	if err != nil {
		return nil, err
	}

	var b models.Board
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode board %s: %w", sessionID, err)
	}
	b.SessionID = sessionID
	if b.Pins == nil {
		b.Pins = []models.PinnedProp{}
	}
	return &b, nil
}

func (s *PostgresStore) SaveBoard(ctx context.Context, b *models.Board) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	_, err = s.pg.Exec(ctx, `
		INSERT INTO board_sessions (session_id, board, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (session_id) DO UPDATE
		SET board = EXCLUDED.board, updated_at = NOW()`, b.SessionID, raw)
	return err
}

func (s *PostgresStore) DeleteBoard(ctx context.Context, sessionID string) error {
	_, err := s.pg.Exec(ctx, `DELETE FROM board_sessions WHERE session_id = $1`, sessionID)
	return err
}
