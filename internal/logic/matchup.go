package logic

import (
	"math"
	"strings"

	"github.com/iceprop/prop-lab/internal/models"
)

// FilterByOpponent keeps the games played against abbr, home or away.
func FilterByOpponent(log []models.GameRecord, abbr string) []models.GameRecord {
	abbr = strings.ToUpper(strings.TrimSpace(abbr))
	out := make([]models.GameRecord, 0)
	if abbr == "" {
		return out
	}

	home := "VS. " + abbr
	away := "@ " + abbr
	for _, g := range log {
		m := strings.ToUpper(g.Matchup)
		if strings.Contains(m, home) || strings.Contains(m, away) || strings.HasSuffix(m, abbr) {
			out = append(out, g)
		}
	}
	return out
}

// ComputeAverages returns the column-wise mean of minutes and every prop
// stat over games, rounded to one decimal. It returns nil for no games.
func ComputeAverages(label string, games []models.GameRecord) *models.AveragesRow {
	if len(games) == 0 {
		return nil
	}

	n := float64(len(games))
	var minutes float64
	sums := make(map[models.Stat]float64, len(models.PropStats))
	counts := make(map[models.Stat]int, len(models.PropStats))
	for _, g := range games {
		minutes += g.Minutes
		for _, s := range models.PropStats {
			if v, ok := g.Value(s); ok {
				sums[s] += float64(v)
				counts[s]++
			}
		}
	}

	row := &models.AveragesRow{
		Label:   label,
		Games:   len(games),
		Minutes: round1(minutes / n),
		Stats:   make(map[models.Stat]float64, len(sums)),
	}
	for s, sum := range sums {
		row.Stats[s] = round1(sum / float64(counts[s]))
	}
	return row
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
