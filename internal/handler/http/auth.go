package http

import (
	"encoding/json"
	"net/http"

	"github.com/reqdesk/reqdesk/internal/logger"
	"github.com/reqdesk/reqdesk/internal/utils"
	"github.com/reqdesk/reqdesk/models"
)

// credentialsRequest is the body of the register and login endpoints: the
// public user fields plus the plain-text password.
type credentialsRequest struct {
	models.User
	Password string `json:"password"`
}

// edsLoginRequest carries the signed XML document produced by the client's
// NCALayer signing step.
type edsLoginRequest struct {
	SignedXML string `json:"signed_xml"`
}

func tokenResponse(token models.Token, role models.UserRole) models.TokenResponse {
	return models.TokenResponse{
		AccessToken: token.SignedString,
		TokenType:   "Bearer",
		Role:        role,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	// self-registration never picks its own role or status
	req.User.Role = ""
	req.User.Status = ""

	registeredUser, err := h.services.AuthService.RegisterUser(ctx, req.User, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.services.AuthService.CreateToken(ctx, registeredUser)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Int64("id", registeredUser.UserID).Str("role", string(registeredUser.Role)).Msg("user registered")
	utils.WriteJSON(w, tokenResponse(token, registeredUser.Role), http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	foundUser, err := h.services.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.services.AuthService.CreateToken(ctx, foundUser)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Debug().Int64("id", foundUser.UserID).Msg("user successfully logged in")
	utils.WriteJSON(w, tokenResponse(token, foundUser.Role), http.StatusOK)
}

func (h *Handler) edsLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req edsLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, isNewUser, err := h.services.AuthService.EDSLogin(ctx, req.SignedXML)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.services.AuthService.CreateToken(ctx, user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Int64("id", user.UserID).Bool("is_new_user", isNewUser).Msg("eds login succeeded")
	utils.WriteJSON(w, models.EDSTokenResponse{
		TokenResponse: tokenResponse(token, user.Role),
		IsNewUser:     isNewUser,
	}, http.StatusOK)
}

func (h *Handler) completeRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	caller, ok := callerFromRequest(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var update models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, err := h.services.AuthService.CompleteRegistration(ctx, caller.UserID, update)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// the old token still carries the pending profile; issue a fresh one
	token, err := h.services.AuthService.CreateToken(ctx, user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Int64("id", user.UserID).Msg("registration completed")
	utils.WriteJSON(w, tokenResponse(token, user.Role), http.StatusOK)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := callerFromRequest(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	user, err := h.services.UserService.GetUser(ctx, caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	caller, ok := callerFromRequest(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var update models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, err := h.services.UserService.UpdateProfile(ctx, caller.UserID, update)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}
