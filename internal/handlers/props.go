package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iceprop/prop-lab/internal/models"
)

// reservedParams are query keys that never name a stat.
var reservedParams = map[string]bool{
	"opponent": true,
	"games":    true,
	"windows":  true,
	"name":     true,
	"session":  true,
}

func playerIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "playerId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid player id %q", chi.URLParam(r, "playerId"))
	}
	return id, nil
}

// statParam matches a query key against the prop stats, ignoring case.
// A decoded "Pts Ast" is read as "Pts+Ast".
func statParam(key string) (models.Stat, bool) {
	key = strings.ReplaceAll(strings.TrimSpace(key), " ", "+")
	for _, s := range models.PropStats {
		if strings.EqualFold(string(s), key) {
			return s, true
		}
	}
	return "", false
}

func parseWindows(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	var windows []int
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid window %q", part)
		}
		windows = append(windows, n)
	}
	return windows, nil
}

func parseIntParam(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}

// parsePropQuery reads "?PTS=20.5&AST=6.5&opponent=BOS&games=15" style
// parameters. Lines are ordered as in the stat display order.
func parsePropQuery(r *http.Request) (models.PropQuery, error) {
	var q models.PropQuery

	id, err := playerIDParam(r)
	if err != nil {
		return q, err
	}
	q.PlayerID = id

	values := r.URL.Query()
	q.Opponent = strings.ToUpper(strings.TrimSpace(values.Get("opponent")))
	q.PlayerName = strings.TrimSpace(values.Get("name"))
	q.SessionID = strings.TrimSpace(values.Get("session"))
	if q.GamesToShow, err = parseIntParam(values, "games"); err != nil {
		return q, err
	}
	if q.Windows, err = parseWindows(values.Get("windows")); err != nil {
		return q, err
	}

	lines := make(map[models.Stat]float64)
	for key, vals := range values {
		if reservedParams[strings.ToLower(key)] || len(vals) == 0 {
			continue
		}
		stat, ok := statParam(key)
		if !ok {
			return q, fmt.Errorf("unknown stat %q", key)
		}
		line, err := strconv.ParseFloat(vals[0], 64)
		if err != nil {
			return q, fmt.Errorf("invalid line %q for %s", vals[0], stat)
		}
		lines[stat] = line
	}
	for _, s := range models.PropStats {
		if line, ok := lines[s]; ok {
			q.Lines = append(q.Lines, models.PropLine{Stat: s, Line: line})
		}
	}
	return q, nil
}

// GetPropReport builds the full prop dashboard for one player
// @Summary Prop report
// @Description Hit rates per selected line, performance and minutes series, minutes trend, head-to-head and recent averages
// @Tags Props
// @Produce json
// @Param playerId path int true "Player ID"
// @Param PTS query number false "Points line, e.g. 20.5 (any prop stat may be used as a key)"
// @Param opponent query string false "Opponent abbreviation"
// @Param games query int false "Games to show (5, 10, 15, 20)"
// @Param windows query string false "Comma separated hit-rate windows"
// @Param session query string false "Board session supplying opponent and games when omitted"
// @Success 200 {object} models.PropReport
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/players/{playerId}/props [get]
func (h *Handler) GetPropReport(w http.ResponseWriter, r *http.Request) {
	q, err := parsePropQuery(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := ValidateStruct(&q); err != nil {
		h.errorResponse(w, http.StatusBadRequest, validationMessage(err).Error())
		return
	}

	report, err := h.props.GetPropReport(r.Context(), q)
	if err != nil {
		h.serviceError(w, err, "Failed to build prop report", "player", q.PlayerID)
		return
	}
	h.jsonResponse(w, http.StatusOK, report)
}

// GetHitRate computes the hit rate of one line
// @Summary Hit rate for a single line
// @Tags Props
// @Produce json
// @Param playerId path int true "Player ID"
// @Param stat query string true "Stat, e.g. PTS or PRA"
// @Param line query number true "Half-point line"
// @Param windows query string false "Comma separated windows, default 5,10,15"
// @Success 200 {object} models.HitRateResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/players/{playerId}/hitrate [get]
func (h *Handler) GetHitRate(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDParam(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	values := r.URL.Query()

	stat, ok := statParam(values.Get("stat"))
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("unknown stat %q", values.Get("stat")))
		return
	}
	line, err := strconv.ParseFloat(values.Get("line"), 64)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "line must be a number")
		return
	}
	windows, err := parseWindows(values.Get("windows"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.props.GetHitRate(r.Context(), id, models.PropLine{Stat: stat, Line: line}, windows)
	if err != nil {
		h.serviceError(w, err, "Failed to compute hit rate", "player", id, "stat", stat)
		return
	}
	h.jsonResponse(w, http.StatusOK, result)
}

// GetMinutesTrend projects next-game minutes
// @Summary Minutes trend
// @Tags Props
// @Produce json
// @Param playerId path int true "Player ID"
// @Param games query int false "Games used for the fit, default 10"
// @Success 200 {object} models.MinutesTrendResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/players/{playerId}/minutes [get]
func (h *Handler) GetMinutesTrend(w http.ResponseWriter, r *http.Request) {
	id, err := playerIDParam(r)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	games, err := parseIntParam(r.URL.Query(), "games")
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if games == 0 {
		games = 10
	}

	result, err := h.props.GetMinutesTrend(r.Context(), id, games)
	if err != nil {
		h.serviceError(w, err, "Failed to project minutes", "player", id)
		return
	}
	h.jsonResponse(w, http.StatusOK, result)
}

// ClearCache drops cached provider responses so the next request refetches
// @Summary Refresh data
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/cache [delete]
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.props.InvalidateCache(r.Context()); err != nil {
		h.serviceError(w, err, "Failed to clear cache")
		return
	}
	h.logger.Infow("Cache cleared")
	h.jsonResponse(w, http.StatusOK, map[string]string{"status": "cleared"})
}
