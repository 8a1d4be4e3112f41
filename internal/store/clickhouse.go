package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/iceprop/prop-lab/internal/logic"
	"github.com/iceprop/prop-lab/internal/models"
)

// ArchiveReader reads game logs written by the archive pool.
type ArchiveReader struct {
	ch driver.Conn
}

var _ logic.ArchiveReader = (*ArchiveReader)(nil)

func NewArchiveReader(ch driver.Conn) *ArchiveReader {
	return &ArchiveReader{ch: ch}
}

// LoadGameLog returns the archived season for a player, newest first.
// NULL stat columns stay absent from the record's map.
func (r *ArchiveReader) LoadGameLog(ctx context.Context, playerID int64, season string) ([]models.GameRecord, error) {
	rows, err := r.ch.Query(ctx, `
		SELECT game_id, game_date, matchup, minutes, pts, reb, ast, stl, blk, tov, fg3m
		FROM proplab.game_logs FINAL
		WHERE player_id = ? AND season = ?
		ORDER BY game_date DESC`, uint64(playerID), season)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	defer rows.Close()

	var games []models.GameRecord
	for rows.Next() {
		var (
			g       models.GameRecord
			date    time.Time
			minutes float32
			cols    [7]*int32
		)
		if err := rows.Scan(&g.GameID, &date, &g.Matchup, &minutes,
			&cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5], &cols[6]); err != nil {
			return nil, err
		}
		g.Date = date
		g.Minutes = float64(minutes)
		g.Stats = make(map[models.Stat]int, len(models.BaseStats))
		for i, stat := range models.BaseStats {
			if cols[i] != nil {
				g.Stats[stat] = int(*cols[i])
			}
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
