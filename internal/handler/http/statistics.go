package http

import (
	"net/http"

	"github.com/reqdesk/reqdesk/internal/utils"
)

func (h *Handler) getStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := callerFromRequest(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	statistics, err := h.services.StatisticsService.GetStatistics(ctx, caller.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, statistics, http.StatusOK)
}
