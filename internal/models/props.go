package models

import "time"

// Confidence buckets a hit-rate percentage.
type Confidence string

const (
	ConfidenceStrong   Confidence = "strong"
	ConfidenceModerate Confidence = "moderate"
	ConfidenceWeak     Confidence = "weak"
	ConfidenceNone     Confidence = "none"
)

// PropLine is a (stat, threshold) pair. Lines sit on half points.
type PropLine struct {
	Stat Stat    `json:"stat"`
	Line float64 `json:"line"`
}

// WindowHitRate is the hit rate over the most recent Window games.
// Percentage is nil when the log is shorter than the window.
type WindowHitRate struct {
	Window     int        `json:"window"`
	Available  bool       `json:"available"`
	Overs      int        `json:"overs"`
	Percentage *float64   `json:"percentage"`
	Confidence Confidence `json:"confidence"`
}

// HitRateResult is the hit-rate report for one prop line.
type HitRateResult struct {
	Stat            Stat            `json:"stat"`
	Line            float64         `json:"line"`
	Windows         []WindowHitRate `json:"windows"`
	AverageOver     *float64        `json:"average_over"`
	AverageUnder    *float64        `json:"average_under"`
	OverConfidence  Confidence      `json:"over_confidence"`
	UnderConfidence Confidence      `json:"under_confidence"`
	Summary         string          `json:"summary"`
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

// MinutesTrendResult is a linear fit over recent minutes played.
type MinutesTrendResult struct {
	Available  bool           `json:"available"`
	GamesUsed  int            `json:"games_used"`
	Slope      float64        `json:"slope"`
	Intercept  float64        `json:"intercept"`
	Mean       float64        `json:"mean"`
	Projection float64        `json:"projection"`
	Risk       RiskLevel      `json:"risk,omitempty"`
	Trend      TrendDirection `json:"trend,omitempty"`
}

// PerformancePoint is one bar of the recent-performance chart.
type PerformancePoint struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
	Over  bool   `json:"over"`
}

type PerformanceSeries struct {
	Stat   Stat               `json:"stat"`
	Line   float64            `json:"line"`
	Points []PerformancePoint `json:"points"`
}

// MinutesPoint is one bar of the minutes chart; Band is a 1-5 colour class.
type MinutesPoint struct {
	Date    string  `json:"date"`
	Minutes float64 `json:"minutes"`
	Band    int     `json:"band"`
}

type MinutesSeries struct {
	Points  []MinutesPoint `json:"points"`
	Average float64        `json:"average"`
}

// AveragesRow is a column-wise mean over a set of games, one decimal.
type AveragesRow struct {
	Label   string           `json:"label"`
	Games   int              `json:"games"`
	Minutes float64          `json:"minutes"`
	Stats   map[Stat]float64 `json:"stats"`
}

// MatchupReport is the game log against one opponent plus its averages row.
type MatchupReport struct {
	Opponent string       `json:"opponent"`
	Games    []GameRecord `json:"games"`
	Average  *AveragesRow `json:"average"`
}

// PropReport bundles everything the dashboard shows for one player.
type PropReport struct {
	PlayerID       int64               `json:"player_id"`
	PlayerName     string              `json:"player_name,omitempty"`
	Season         string              `json:"season"`
	Source         string              `json:"source"`
	GamesAvailable int                 `json:"games_available"`
	HitRates       []HitRateResult     `json:"hit_rates"`
	Performance    []PerformanceSeries `json:"performance"`
	Minutes        MinutesSeries       `json:"minutes"`
	MinutesTrend   MinutesTrendResult  `json:"minutes_trend"`
	VsOpponent     MatchupReport       `json:"vs_opponent"`
	RecentGames    []GameRecord        `json:"recent_games"`
	RecentAverage  *AveragesRow        `json:"recent_average"`
	GeneratedAt    time.Time           `json:"generated_at"`
}
