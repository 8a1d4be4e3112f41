package handlers

import (
	"net/http"

	"github.com/swaggo/swag"
)

// InstallDatabase installs the bundled schema on both databases
// @Summary Install Database Schema
// @Description Executes the bundled SQL migrations for ClickHouse and PostgreSQL
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/system/install [post]
func (h *Handler) InstallDatabase(w http.ResponseWriter, r *http.Request) {
	if h.installer == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "schema installer not configured")
		return
	}

	results, ok := h.installer.InstallSchema(r.Context())

	statusCode := http.StatusOK
	if !ok {
		statusCode = http.StatusInternalServerError
	}

	h.jsonResponse(w, statusCode, map[string]interface{}{
		"status":  "completed",
		"results": results,
		"error":   !ok,
	})
}

// SwaggerDoc serves the registered OpenAPI document.
func (h *Handler) SwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		h.errorResponse(w, http.StatusNotFound, "api documentation not registered")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}
