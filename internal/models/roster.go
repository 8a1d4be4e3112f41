package models

import "time"

// Player is an entry of the league-wide player index.
type Player struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}

// TeamAssignment maps an active player to a team for a season.
type TeamAssignment struct {
	PlayerID int64  `json:"player_id"`
	TeamAbbr string `json:"team_abbr"`
	Season   string `json:"season"`
}

// ActivePlayer is a player with a current team assignment.
type ActivePlayer struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	TeamAbbr string `json:"team_abbr"`
}

// RefreshResult summarises one run of the roster refresh job.
type RefreshResult struct {
	Players       int           `json:"players"`
	ActivePlayers int           `json:"active_players"`
	Season        string        `json:"season"`
	ArchivedLogs  int           `json:"archived_logs"`
	Duration      time.Duration `json:"duration"`
}
