package models

import "time"

// PinnedProp is one entry on a user's board. Line is kept as a one-decimal
// string and Odds as the raw American odds string so exports round-trip.
type PinnedProp struct {
	ID                 string   `json:"id,omitempty"`
	Player             string   `json:"player" validate:"required"`
	Team               string   `json:"team"`
	Matchup            string   `json:"matchup"`
	Stat               Stat     `json:"stat" validate:"required"`
	Line               string   `json:"line" validate:"required"`
	Odds               string   `json:"odds"`
	HitRateSummary     string   `json:"hitrate_str"`
	Timestamp          string   `json:"timestamp" validate:"required"`
	ImpliedProbability *float64 `json:"implied_probability,omitempty"`
}

// Board is the per-session state handed to and returned from every board
// interaction.
type Board struct {
	SessionID   string       `json:"session_id"`
	Pins        []PinnedProp `json:"pins"`
	Opponent    string       `json:"opponent"`
	GamesToShow int          `json:"games_to_show"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// BoardExport is the flat container exchanged on export and import.
type BoardExport struct {
	MyBoard []PinnedProp `json:"my_board" validate:"dive"`
}
