package logic

import (
	"context"
	"fmt"
	"time"
)

// CurrentSeason returns the season label ("2025-26") in play at now.
// A season starts in October.
func CurrentSeason(now time.Time) string {
	start := now.Year()
	if now.Month() < time.October {
		start--
	}
	return seasonLabel(start)
}

// PreviousSeason returns the season before season.
func PreviousSeason(season string) string {
	var start int
	if _, err := fmt.Sscanf(season, "%d-", &start); err != nil {
		return ""
	}
	return seasonLabel(start - 1)
}

// SeasonsToTry is the current season followed by the previous one.
func SeasonsToTry(now time.Time) []string {
	cur := CurrentSeason(now)
	return []string{cur, PreviousSeason(cur)}
}

func seasonLabel(start int) string {
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// FirstNonEmpty calls fetch for each season in order and returns the first
// non-empty result with the season it came from. Errors move on to the next
// season; when every season fails or is empty the last error is wrapped in
// ErrNoData.
func FirstNonEmpty[T any](ctx context.Context, seasons []string, fetch func(ctx context.Context, season string) ([]T, error)) ([]T, string, error) {
	var lastErr error
	for _, season := range seasons {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		items, err := fetch(ctx, season)
		if err != nil {
			lastErr = fmt.Errorf("season %s: %w", season, err)
			continue
		}
		if len(items) > 0 {
			return items, season, nil
		}
	}
	if lastErr != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNoData, lastErr)
	}
	return nil, "", ErrNoData
}
