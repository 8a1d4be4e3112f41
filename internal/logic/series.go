package logic

import "github.com/iceprop/prop-lab/internal/models"

// Minutes chart bands, highest first.
var minutesBands = []float64{35, 30, 25, 20}

// RecentGames returns up to n of the newest games.
func RecentGames(log []models.GameRecord, n int) []models.GameRecord {
	if n <= 0 || n > len(log) {
		n = len(log)
	}
	return log[:n]
}

// PerformanceSeries builds the recent-performance bars for one line.
func PerformanceSeries(log []models.GameRecord, stat models.Stat, line float64, n int) models.PerformanceSeries {
	games := RecentGames(log, n)
	series := models.PerformanceSeries{
		Stat:   stat,
		Line:   line,
		Points: make([]models.PerformancePoint, 0, len(games)),
	}
	for _, g := range games {
		v, ok := g.Value(stat)
		if !ok {
			continue
		}
		series.Points = append(series.Points, models.PerformancePoint{
			Date:  g.DateLabel(),
			Value: v,
			Over:  float64(v) > line,
		})
	}
	return series
}

// MinutesSeries builds the minutes bars with their colour bands.
func MinutesSeries(log []models.GameRecord, n int) models.MinutesSeries {
	games := RecentGames(log, n)
	series := models.MinutesSeries{Points: make([]models.MinutesPoint, 0, len(games))}

	var total float64
	for _, g := range games {
		series.Points = append(series.Points, models.MinutesPoint{
			Date:    g.DateLabel(),
			Minutes: g.Minutes,
			Band:    MinutesBand(g.Minutes),
		})
		total += g.Minutes
	}
	if len(games) > 0 {
		series.Average = round1(total / float64(len(games)))
	}
	return series
}

// MinutesBand returns 1 for 35+ minutes down to 5 for under 20.
func MinutesBand(minutes float64) int {
	for i, floor := range minutesBands {
		if minutes >= floor {
			return i + 1
		}
	}
	return len(minutesBands) + 1
}
