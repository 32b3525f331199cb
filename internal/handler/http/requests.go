package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/utils"
	"github.com/reqdesk/reqdesk/models"
)

func (h *Handler) createRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	caller, ok := callerFromRequest(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var request models.Request
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	created, err := h.services.RequestService.CreateRequest(ctx, caller, request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Int64("id", created.RequestID).Str("type", string(created.Type)).Msg("request created")
	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := callerFromRequest(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	list, err := h.services.RequestService.ListRequests(ctx, caller, requestFilterFromQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, list, http.StatusOK)
}

func (h *Handler) getRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := callerFromRequest(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}

	detail, err := h.services.RequestService.GetRequest(ctx, caller, requestID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, detail, http.StatusOK)
}

func (h *Handler) updateRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	caller, ok := callerFromRequest(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}

	var update models.RequestUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	updated, err := h.services.RequestService.UpdateRequest(ctx, caller, requestID, update)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, updated, http.StatusOK)
}

func (h *Handler) deleteRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	caller, ok := callerFromRequest(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid request id", http.StatusBadRequest)
		return
	}

	if err := h.services.RequestService.DeleteRequest(ctx, caller, requestID); err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Int64("id", requestID).Msg("request deleted")
	w.WriteHeader(http.StatusNoContent)
}

// requestFilterFromQuery reads the listing filter from URL query parameters.
// Unparsable numeric values fall back to zero and are then clamped or
// rejected by the service layer.
func requestFilterFromQuery(r *http.Request) models.RequestFilter {
	query := r.URL.Query()

	filter := models.RequestFilter{
		Status: models.RequestStatus(query.Get("status")),
		Type:   models.RequestType(query.Get("type")),
		Search: query.Get("search"),
	}

	filter.DepartmentID, _ = strconv.ParseInt(query.Get("department_id"), 10, 64)
	filter.CreatedByID, _ = strconv.ParseInt(query.Get("created_by_id"), 10, 64)
	filter.Offset, _ = strconv.Atoi(query.Get("offset"))
	filter.Limit, _ = strconv.Atoi(query.Get("limit"))

	return filter
}
