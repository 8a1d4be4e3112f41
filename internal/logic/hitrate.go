package logic

import (
	"fmt"
	"math"
	"strings"

	"github.com/iceprop/prop-lab/internal/models"
)

// DefaultWindows are the recent-game sample sizes shown for every line.
var DefaultWindows = []int{5, 10, 15}

// Per-window and aggregate confidence scales. The two scales disagree
// between 73 and 75; both are kept as they are.
const (
	windowStrongPct   = 73.0
	windowModeratePct = 60.0

	aggregateStrongPct   = 75.0
	aggregateModeratePct = 61.0
)

// ValidateLine rejects thresholds that are not positive half points.
func ValidateLine(line float64) error {
	if math.IsNaN(line) || math.IsInf(line, 0) || line <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidLine, line)
	}
	doubled := line * 2
	if doubled != math.Trunc(doubled) || math.Mod(doubled, 2) != 1 {
		return fmt.Errorf("%w: %v", ErrInvalidLine, line)
	}
	return nil
}

// WindowConfidence classifies a single window's percentage.
func WindowConfidence(pct float64) models.Confidence {
	switch {
	case pct >= windowStrongPct:
		return models.ConfidenceStrong
	case pct >= windowModeratePct:
		return models.ConfidenceModerate
	default:
		return models.ConfidenceWeak
	}
}

// AggregateConfidence classifies an averaged over or under percentage.
func AggregateConfidence(pct float64) models.Confidence {
	switch {
	case pct > aggregateStrongPct:
		return models.ConfidenceStrong
	case pct >= aggregateModeratePct:
		return models.ConfidenceModerate
	default:
		return models.ConfidenceWeak
	}
}

// ComputeHitRate reports how often stat went over line in the most recent
// games of log, which must be sorted newest first. A value equal to the
// line is a push and does not count as over.
func ComputeHitRate(log []models.GameRecord, stat models.Stat, line float64, windows []int) (*models.HitRateResult, error) {
	if err := ValidateLine(line); err != nil {
		return nil, err
	}
	for _, w := range windows {
		if w <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, w)
		}
	}

	res := &models.HitRateResult{
		Stat:            stat,
		Line:            line,
		Windows:         make([]models.WindowHitRate, 0, len(windows)),
		OverConfidence:  models.ConfidenceNone,
		UnderConfidence: models.ConfidenceNone,
	}

	var sum float64
	available := 0
	for _, w := range windows {
		wr := models.WindowHitRate{Window: w, Confidence: models.ConfidenceNone}
		if len(log) < w {
			res.Windows = append(res.Windows, wr)
			continue
		}

		overs := 0
		for _, g := range log[:w] {
			v, ok := g.Value(stat)
			if !ok {
				return nil, &MissingFieldError{GameID: g.GameID, Stat: stat}
			}
			if float64(v) > line {
				overs++
			}
		}

		pct := float64(overs) / float64(w) * 100
		wr.Available = true
		wr.Overs = overs
		wr.Percentage = &pct
		wr.Confidence = WindowConfidence(pct)
		res.Windows = append(res.Windows, wr)

		sum += pct
		available++
	}

	if available > 0 {
		over := sum / float64(available)
		under := 100 - over
		res.AverageOver = &over
		res.AverageUnder = &under
		res.OverConfidence = AggregateConfidence(over)
		res.UnderConfidence = AggregateConfidence(under)
	}

	res.Summary = FormatHitRateSummary(res)
	return res, nil
}

// FormatHitRateSummary renders "60% | 70% | — — AVG: O 63% / U 37%".
// Unavailable windows print as a dash and a missing aggregate as "— —".
func FormatHitRateSummary(res *models.HitRateResult) string {
	parts := make([]string, 0, len(res.Windows))
	for _, w := range res.Windows {
		if w.Percentage == nil {
			parts = append(parts, "—")
			continue
		}
		parts = append(parts, fmt.Sprintf("%.0f%%", *w.Percentage))
	}

	var b strings.Builder
	b.WriteString(strings.Join(parts, " | "))
	if res.AverageOver == nil {
		b.WriteString(" — —")
	} else {
		fmt.Fprintf(&b, " — AVG: O %.0f%% / U %.0f%%", *res.AverageOver, *res.AverageUnder)
	}
	return b.String()
}

// FormatLine renders a line the way pinned props store it.
func FormatLine(line float64) string {
	return fmt.Sprintf("%.1f", line)
}

// LineOptions are the selectable prop lines, 0.5 through 60.5.
func LineOptions() []float64 {
	opts := make([]float64, 0, 61)
	for x := 0.5; x <= 60.5; x++ {
		opts = append(opts, x)
	}
	return opts
}
