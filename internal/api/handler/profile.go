package handler

import (
	"net/http"

	"github.com/mcoot/pokernotes/internal/api/middleware"
	"github.com/mcoot/pokernotes/internal/api/request"
	"github.com/mcoot/pokernotes/internal/api/response"
	"github.com/mcoot/pokernotes/internal/services/profiles"
)

// ProfileHandler handles profile directory endpoints
type ProfileHandler struct {
	profileService *profiles.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *profiles.Service) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// List handles GET /api/v1/profiles
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.profileService.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileListFromModel(list))
}

// Rename handles PATCH /api/v1/profiles/me
func (h *ProfileHandler) Rename(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.RenameProfileRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	profile, err := h.profileService.Rename(r.Context(), *identity, req.Nickname)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromModel(profile))
}
