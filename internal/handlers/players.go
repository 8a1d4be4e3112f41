package handlers

import (
	"net/http"
	"strings"

	"github.com/iceprop/prop-lab/internal/logic"
	"github.com/iceprop/prop-lab/internal/models"
)

// ListPlayers returns every active player with a team
// @Summary List active players
// @Tags Players
// @Produce json
// @Success 200 {array} models.ActivePlayer
// @Failure 500 {object} map[string]string
// @Router /api/v1/players [get]
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.roster.ListActivePlayers(r.Context())
	if err != nil {
		h.serviceError(w, err, "Failed to list players")
		return
	}
	if team := strings.ToUpper(r.URL.Query().Get("team")); team != "" {
		filtered := make([]models.ActivePlayer, 0)
		for _, p := range players {
			if p.TeamAbbr == team {
				filtered = append(filtered, p)
			}
		}
		players = filtered
	}
	h.jsonResponse(w, http.StatusOK, players)
}

// SearchPlayer resolves a full name to a player id
// @Summary Resolve player by name
// @Tags Players
// @Produce json
// @Param name query string true "Full player name"
// @Success 200 {object} models.ActivePlayer
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/players/search [get]
func (h *Handler) SearchPlayer(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		h.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	player, err := h.roster.ResolvePlayer(r.Context(), name)
	if err != nil {
		h.serviceError(w, err, "Failed to resolve player", "name", name)
		return
	}
	h.jsonResponse(w, http.StatusOK, player)
}

type teamResponse struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
}

// ListTeams returns the selectable opponents
// @Summary List opponent teams
// @Tags Reference
// @Produce json
// @Success 200 {array} teamResponse
// @Router /api/v1/teams [get]
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	abbrs := logic.TeamAbbreviations()
	teams := make([]teamResponse, 0, len(abbrs))
	for _, a := range abbrs {
		teams = append(teams, teamResponse{Abbreviation: a, Name: logic.TeamName(a)})
	}
	h.jsonResponse(w, http.StatusOK, teams)
}

// ListLines returns the stats and line values a report can be built for
// @Summary List selectable lines
// @Tags Reference
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/lines [get]
func (h *Handler) ListLines(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"stats":   models.PropStats,
		"lines":   logic.LineOptions(),
		"windows": logic.DefaultWindows,
		"games":   []int{5, 10, 15, 20},
	})
}
