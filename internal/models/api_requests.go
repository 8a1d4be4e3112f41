package models

// PropQuery selects the lines, opponent and window for a prop report.
type PropQuery struct {
	PlayerID    int64      `json:"player_id" validate:"required,gt=0"`
	SessionID   string     `json:"session_id" validate:"omitempty,max=128"`
	PlayerName  string     `json:"player_name"`
	Lines       []PropLine `json:"lines" validate:"dive"`
	Opponent    string     `json:"opponent" validate:"omitempty,alpha,max=7"`
	GamesToShow int        `json:"games_to_show" validate:"omitempty,oneof=5 10 15 20"`
	Windows     []int      `json:"windows" validate:"dive,gt=0"`
}

// PinRequest pins a prop line to the caller's board.
type PinRequest struct {
	Player         string  `json:"player" validate:"required"`
	Team           string  `json:"team"`
	Matchup        string  `json:"matchup"`
	Stat           Stat    `json:"stat" validate:"required"`
	Line           float64 `json:"line" validate:"gt=0"`
	Odds           string  `json:"odds"`
	HitRateSummary string  `json:"hitrate_str"`
}

type SetOpponentRequest struct {
	Opponent string `json:"opponent" validate:"required,alpha,max=7"`
}

type SetGamesRequest struct {
	GamesToShow int `json:"games_to_show" validate:"required,oneof=5 10 15 20"`
}

type PinResponse struct {
	Board  Board  `json:"board"`
	Pinned bool   `json:"pinned"`
	Reason string `json:"reason,omitempty"`
}
