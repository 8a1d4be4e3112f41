package logic

import (
	"fmt"

	"github.com/iceprop/prop-lab/internal/models"
)

const (
	minTrendGames = 3

	lowRiskMinutes      = 32.0
	moderateRiskMinutes = 28.0

	trendSlopeThreshold = 0.3
)

// ProjectMinutes fits a least-squares line to the minutes of the most
// recent count games (log newest first, index 0 = newest) and projects the
// next game as mean + slope. Fewer than three games gives an unavailable
// result rather than an error.
func ProjectMinutes(log []models.GameRecord, count int) (*models.MinutesTrendResult, error) {
	if count < minTrendGames {
		return nil, fmt.Errorf("%w: trend needs at least %d games, got %d", ErrInvalidWindow, minTrendGames, count)
	}

	n := count
	if len(log) < n {
		n = len(log)
	}
	if n < minTrendGames {
		return &models.MinutesTrendResult{Available: false, GamesUsed: n}, nil
	}

	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		ys[i] = log[i].Minutes
	}

	slope, intercept, mean := linearFit(ys)
	projection := mean + slope

	return &models.MinutesTrendResult{
		Available:  true,
		GamesUsed:  n,
		Slope:      slope,
		Intercept:  intercept,
		Mean:       mean,
		Projection: projection,
		Risk:       MinutesRisk(projection),
		Trend:      MinutesTrend(slope),
	}, nil
}

// linearFit returns the first-degree least-squares fit of ys against their
// indexes, plus the mean of ys. len(ys) must be at least 2.
func linearFit(ys []float64) (slope, intercept, meanY float64) {
	n := float64(len(ys))
	var sumX, sumY float64
	for i, y := range ys {
		sumX += float64(i)
		sumY += y
	}
	meanX := sumX / n
	meanY = sumY / n

	var sxy, sxx float64
	for i, y := range ys {
		dx := float64(i) - meanX
		sxy += dx * (y - meanY)
		sxx += dx * dx
	}
	slope = sxy / sxx
	intercept = meanY - slope*meanX
	return slope, intercept, meanY
}

// MinutesRisk buckets a projected minutes value.
func MinutesRisk(projection float64) models.RiskLevel {
	switch {
	case projection >= lowRiskMinutes:
		return models.RiskLow
	case projection >= moderateRiskMinutes:
		return models.RiskModerate
	default:
		return models.RiskHigh
	}
}

// MinutesTrend turns a slope into an arrow direction.
func MinutesTrend(slope float64) models.TrendDirection {
	switch {
	case slope > trendSlopeThreshold:
		return models.TrendUp
	case slope < -trendSlopeThreshold:
		return models.TrendDown
	default:
		return models.TrendFlat
	}
}
