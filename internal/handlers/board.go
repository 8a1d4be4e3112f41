package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iceprop/prop-lab/internal/models"
)

func sessionParam(r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "sessionId"))
	return id, id != "" && len(id) <= 128
}

// GetBoard returns the session's board
// @Summary Get board
// @Tags Board
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} models.Board
// @Router /api/v1/board/{sessionId} [get]
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionParam(r)
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}
	b, err := h.board.GetBoard(r.Context(), sid)
	if err != nil {
		h.serviceError(w, err, "Failed to load board", "session", sid)
		return
	}
	h.jsonResponse(w, http.StatusOK, b)
}

// ResetBoard forgets the session entirely
// @Summary Reset board session
// @Tags Board
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} models.Board
// @Router /api/v1/board/{sessionId} [delete]
func (h *Handler) ResetBoard(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionParam(r)
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}
	b, err := h.board.Reset(r.Context(), sid)
	if err != nil {
		h.serviceError(w, err, "Failed to reset board", "session", sid)
		return
	}
	h.jsonResponse(w, http.StatusOK, b)
}

// PinProp adds a line to the board unless it is already pinned
// @Summary Pin a prop
// @Tags Board
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body models.PinRequest true "Prop to pin"
// @Success 201 {object} models.PinResponse
// @Success 200 {object} models.PinResponse "Already pinned"
// @Failure 400 {object} map[string]string
// @Router /api/v1/board/{sessionId}/pins [post]
func (h *Handler) PinProp(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionParam(r)
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}
	var req models.PinRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.board.Pin(r.Context(), sid, req)
	if err != nil {
		h.serviceError(w, err, "Failed to pin prop", "session", sid)
		return
	}
	status := http.StatusOK
	if resp.Pinned {
		status = http.StatusCreated
	}
	h.jsonResponse(w, status, resp)
}

// UnpinProp removes one entry
// @Summary Unpin a prop
// @Tags Board
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param pinId path string true "Pin ID"
// @Success 200 {object} models.Board
// @Failure 404 {object} map[string]string
// @Router /api/v1/board/{sessionId}/pins/{pinId} [delete]
func (h *Handler) UnpinProp(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionParam(r)
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}
	pinID := chi.URLParam(r, "pinId")
	b, err := h.board.Unpin(r.Context(), sid, pinID)
	if err != nil {
		h.serviceError(w, err, "Failed to unpin prop", "session", sid, "pin", pinID)
		return
	}
	h.jsonResponse(w, http.StatusOK, b)
}

// ClearBoard removes every pin
// @Summary Clear board
// @Tags Board
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} models.Board
// @Router /api/v1/board/{sessionId}/pins [delete]
func (h *Handler) ClearBoard(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionParam(r)
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}
	b, err := h.board.Clear(r.Context(), sid)
	if err != nil {
		h.serviceError(w, err, "Failed to clear board", "session", sid)
		return
	}
	h.jsonResponse(w, http.StatusOK, b)
}

// SetOpponent selects the head-to-head opponent
// @Summary Set opponent
// @Tags Board
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body models.SetOpponentRequest true "Opponent"
// @Success 200 {object} models.Board
// @Failure 400 {object} map[string]string
// @Router /api/v1/board/{sessionId}/opponent [put]
func (h *Handler) SetOpponent(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionParam(r)
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}
	var req models.SetOpponentRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := h.board.SetOpponent(r.Context(), sid, req.Opponent)
	if err != nil {
		h.serviceError(w, err, "Failed to set opponent", "session", sid)
		return
	}
	h.jsonResponse(w, http.StatusOK, b)
}

// SetGamesToShow selects how many recent games the report rows show
// @Summary Set games to show
// @Tags Board
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body models.SetGamesRequest true "Games to show (5, 10, 15, 20)"
// @Success 200 {object} models.Board
// @Failure 400 {object} map[string]string
// @Router /api/v1/board/{sessionId}/games [put]
func (h *Handler) SetGamesToShow(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionParam(r)
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}
	var req models.SetGamesRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := h.board.SetGamesToShow(r.Context(), sid, req.GamesToShow)
	if err != nil {
		h.serviceError(w, err, "Failed to set games to show", "session", sid)
		return
	}
	h.jsonResponse(w, http.StatusOK, b)
}

// ExportBoard downloads the pins as {"my_board": [...]}
// @Summary Export board
// @Tags Board
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} models.BoardExport
// @Router /api/v1/board/{sessionId}/export [get]
func (h *Handler) ExportBoard(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionParam(r)
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}
	exp, err := h.board.Export(r.Context(), sid)
	if err != nil {
		h.serviceError(w, err, "Failed to export board", "session", sid)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="my_board.json"`)
	h.jsonResponse(w, http.StatusOK, exp)
}

// ImportBoard replaces the pins with an uploaded export
// @Summary Import board
// @Tags Board
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body models.BoardExport true "Exported board"
// @Success 200 {object} models.Board
// @Failure 400 {object} map[string]string
// @Router /api/v1/board/{sessionId}/import [post]
func (h *Handler) ImportBoard(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionParam(r)
	if !ok {
		h.errorResponse(w, http.StatusBadRequest, "invalid session id")
		return
	}
	var exp models.BoardExport
	if err := h.decodeJSON(w, r, &exp); err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := h.board.Import(r.Context(), sid, exp)
	if err != nil {
		h.serviceError(w, err, "Failed to import board", "session", sid)
		return
	}
	h.jsonResponse(w, http.StatusOK, b)
}
