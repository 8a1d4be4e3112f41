package models

import "time"

// Stat names a box-score column. Base stats come from the provider,
// composite stats are derived from them.
type Stat string

const (
	StatPoints    Stat = "PTS"
	StatRebounds  Stat = "REB"
	StatAssists   Stat = "AST"
	StatSteals    Stat = "STL"
	StatBlocks    Stat = "BLK"
	StatTurnovers Stat = "TOV"
	StatThrees    Stat = "FG3M"

	StatPtsAst Stat = "Pts+Ast"
	StatPtsReb Stat = "Pts+Reb"
	StatAstReb Stat = "Ast+Reb"
	StatStlBlk Stat = "Stl+Blk"
	StatPRA    Stat = "PRA"
)

// BaseStats are the counting stats every box score row must carry.
var BaseStats = []Stat{
	StatPoints, StatRebounds, StatAssists, StatSteals, StatBlocks, StatTurnovers, StatThrees,
}

// PropStats is the display order of every stat a line can be set on.
var PropStats = []Stat{
	StatPoints, StatRebounds, StatPtsReb, StatAssists, StatSteals, StatBlocks,
	StatTurnovers, StatThrees, StatPtsAst, StatAstReb, StatStlBlk, StatPRA,
}

// IsPropStat reports whether s is one of PropStats.
func IsPropStat(s Stat) bool {
	for _, p := range PropStats {
		if p == s {
			return true
		}
	}
	return false
}

// GameRecord is one row of a player's game log.
type GameRecord struct {
	GameID  string       `json:"game_id"`
	Date    time.Time    `json:"date"`
	Matchup string       `json:"matchup"` // "LAL vs. BOS" (home) or "LAL @ BOS" (away)
	Minutes float64      `json:"minutes"`
	Stats   map[Stat]int `json:"stats"`
}

// Value returns the stat value and whether the row carries it.
func (g GameRecord) Value(s Stat) (int, bool) {
	v, ok := g.Stats[s]
	return v, ok
}

// DateLabel is the short MM/DD label used on charts.
func (g GameRecord) DateLabel() string {
	return g.Date.Format("01/02")
}

// GameLog is a player's log for one season, newest game first.
type GameLog struct {
	PlayerID int64        `json:"player_id"`
	Season   string       `json:"season"`
	Source   string       `json:"source"` // "cache", "api" or "archive"
	Games    []GameRecord `json:"games"`
}
