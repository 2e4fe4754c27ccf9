package httpapi

import (
	"net/http"
)

func (h *Handler) handleCrew(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.CrewOptions()

	if err != nil {
		h.logger.Error("crew list unavailable", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJson(w, options)
}
