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

func (h *Handler) listDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.services.DepartmentService.ListDepartments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, departments, http.StatusOK)
}

func (h *Handler) getDepartment(w http.ResponseWriter, r *http.Request) {
	departmentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid department id", http.StatusBadRequest)
		return
	}

	department, err := h.services.DepartmentService.GetDepartment(r.Context(), departmentID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, department, http.StatusOK)
}

func (h *Handler) createDepartment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	caller, ok := callerFromRequest(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var department models.Department
	if err := json.NewDecoder(r.Body).Decode(&department); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	created, err := h.services.DepartmentService.CreateDepartment(ctx, caller.Role, department)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Int64("id", created.DepartmentID).Str("name", created.Name).Msg("department created")
	utils.WriteJSON(w, created, http.StatusCreated)
}
