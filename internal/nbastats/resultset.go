package nbastats

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/iceprop/prop-lab/internal/logic"
	"github.com/iceprop/prop-lab/internal/models"
)

// response is the envelope every stats endpoint returns.
type response struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string              `json:"name"`
	Headers []string            `json:"headers"`
	RowSet  [][]json.RawMessage `json:"rowSet"`
}

// set returns the named result set, or the first one when the name is absent.
func (r response) set(name string) (*resultSet, error) {
	for i := range r.ResultSets {
		if r.ResultSets[i].Name == name {
			return &r.ResultSets[i], nil
		}
	}
	if len(r.ResultSets) > 0 {
		return &r.ResultSets[0], nil
	}
	return nil, fmt.Errorf("result set %s: not found", name)
}

// row is one rowSet entry addressed by header.
type row struct {
	index  map[string]int
	values []json.RawMessage
}

func (rs *resultSet) rows() []row {
	index := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		index[strings.ToUpper(h)] = i
	}
	out := make([]row, len(rs.RowSet))
	for i, v := range rs.RowSet {
		out[i] = row{index: index, values: v}
	}
	return out
}

func (r row) raw(col string) (json.RawMessage, bool) {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return nil, false
	}
	v := r.values[i]
	if len(v) == 0 || string(v) == "null" {
		return nil, false
	}
	return v, true
}

func (r row) str(col string) string {
	v, ok := r.raw(col)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return strings.Trim(string(v), `"`)
}

// number reads a numeric cell. Strings holding numbers and "MM:SS" clocks
// are accepted.
func (r row) number(col string) (float64, bool) {
	v, ok := r.raw(col)
	if !ok {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if mins, secs, found := strings.Cut(s, ":"); found {
		m, err1 := strconv.ParseFloat(mins, 64)
		sec, err2 := strconv.ParseFloat(secs, 64)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return m + sec/60, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var statColumns = map[models.Stat]string{
	models.StatPoints:    "PTS",
	models.StatRebounds:  "REB",
	models.StatAssists:   "AST",
	models.StatSteals:    "STL",
	models.StatBlocks:    "BLK",
	models.StatTurnovers: "TOV",
	models.StatThrees:    "FG3M",
}

var gameDateLayouts = []string{"Jan 02, 2006", "2006-01-02T15:04:05", "2006-01-02"}

func parseGameDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range gameDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised game date %q", s)
}

// decodeGameLog maps playergamelog rows to game records. Stats absent from
// a row are left out of its map so the engine can report them as missing.
func decodeGameLog(rs *resultSet) ([]models.GameRecord, error) {
	rows := rs.rows()
	games := make([]models.GameRecord, 0, len(rows))
	for _, r := range rows {
		gameID := r.str("GAME_ID")
		date, err := parseGameDate(r.str("GAME_DATE"))
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", gameID, err)
		}
		minutes, ok := r.number("MIN")
		if !ok {
			return nil, fmt.Errorf("game %s: %w: MIN", gameID, logic.ErrMissingField)
		}

		stats := make(map[models.Stat]int, len(statColumns))
		for stat, col := range statColumns {
			if v, ok := r.number(col); ok {
				stats[stat] = int(math.Round(v))
			}
		}

		games = append(games, models.GameRecord{
			GameID:  gameID,
			Date:    date,
			Matchup: r.str("MATCHUP"),
			Minutes: minutes,
			Stats:   stats,
		})
	}
	return games, nil
}

func decodePlayers(rs *resultSet) ([]models.Player, error) {
	rows := rs.rows()
	players := make([]models.Player, 0, len(rows))
	for _, r := range rows {
		id, ok := r.number("PERSON_ID")
		if !ok {
			return nil, fmt.Errorf("player row without PERSON_ID")
		}
		status, _ := r.number("ROSTERSTATUS")
		players = append(players, models.Player{
			ID:       int64(id),
			FullName: r.str("DISPLAY_FIRST_LAST"),
			IsActive: status == 1,
		})
	}
	return players, nil
}

func decodeTeams(rs *resultSet, season string) ([]models.TeamAssignment, error) {
	rows := rs.rows()
	teams := make([]models.TeamAssignment, 0, len(rows))
	for _, r := range rows {
		id, ok := r.number("PLAYER_ID")
		if !ok {
			return nil, fmt.Errorf("team row without PLAYER_ID")
		}
		teams = append(teams, models.TeamAssignment{
			PlayerID: int64(id),
			TeamAbbr: r.str("TEAM_ABBREVIATION"),
			Season:   season,
		})
	}
	return teams, nil
}
