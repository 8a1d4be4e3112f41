package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iceprop/prop-lab/internal/logic"
)

var validate = validator.New()

// ValidateStruct runs the struct's validate tags.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Health check endpoint
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
// @Summary Readiness probe
// @Description Pings Postgres, ClickHouse and Redis and reports the archive queue depth
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := make(map[string]bool, len(h.checks))
	allHealthy := true
	for name, check := range h.checks {
		ok := check(ctx) == nil
		checks[name] = ok
		if !ok {
			allHealthy = false
		}
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}

	depth := 0
	if h.queue != nil {
		depth = h.queue.QueueDepth()
	}
	h.jsonResponse(w, status, map[string]interface{}{
		"ready":      allHealthy,
		"checks":     checks,
		"queueDepth": depth,
	})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON reads a size-limited JSON body into dst and validates it.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := ValidateStruct(dst); err != nil {
		return validationMessage(err)
	}
	return nil
}

// validationMessage flattens validator errors into one readable error.
func validationMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, logic.ErrNoData), errors.Is(err, logic.ErrUnknownPin):
		return http.StatusNotFound
	case errors.Is(err, logic.ErrInvalidLine),
		errors.Is(err, logic.ErrInvalidWindow),
		errors.Is(err, logic.ErrUnknownStat),
		errors.Is(err, logic.ErrInvalidPin),
		errors.Is(err, logic.ErrInvalidOdds),
		errors.Is(err, logic.ErrUnknownOpponent),
		errors.Is(err, logic.ErrInvalidGames):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// serviceError logs unexpected failures and writes the mapped status.
func (h *Handler) serviceError(w http.ResponseWriter, err error, msg string, kv ...interface{}) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Errorw(msg, append(kv, "error", err)...)
		h.errorResponse(w, status, msg)
		return
	}
	if status == http.StatusNotFound && errors.Is(err, logic.ErrNoData) {
		h.errorResponse(w, status, "no data available")
		return
	}
	h.errorResponse(w, status, err.Error())
}
