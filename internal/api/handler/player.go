package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pokernotes/internal/api/middleware"
	"github.com/mcoot/pokernotes/internal/api/request"
	"github.com/mcoot/pokernotes/internal/api/response"
	"github.com/mcoot/pokernotes/internal/model"
	"github.com/mcoot/pokernotes/internal/services/players"
)

// PlayerHandler handles player note endpoints
type PlayerHandler struct {
	playerService *players.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService *players.Service) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
	}
}

// List handles GET /api/v1/players?q=
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.playerService.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerListFromModel(list))
}

// Create handles POST /api/v1/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.CreatePlayerRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.playerService.Create(r.Context(), *identity, players.CreateInput{
		GameID:    req.GameID,
		Nickname:  req.Nickname,
		PlayStyle: req.PlayStyle,
		Notes:     req.Notes,
		Tells:     req.Tells,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(player))
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	view, err := h.playerService.View(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerDetailFromView(view))
}

// GetByGameID handles GET /api/v1/players/by-game/{gameID}
func (h *PlayerHandler) GetByGameID(w http.ResponseWriter, r *http.Request) {
	view, err := h.playerService.ViewByGameID(r.Context(), mux.Vars(r)["gameID"])
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerDetailFromView(view))
}

// Edit handles PATCH /api/v1/players/{id}
func (h *PlayerHandler) Edit(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	id := model.PlayerID(mux.Vars(r)["id"])

	var req request.EditPlayerRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.playerService.Edit(r.Context(), *identity, id, players.EditInput{
		Nickname:        req.Nickname,
		PlayStyle:       req.PlayStyle,
		NewNotes:        req.NewNotes,
		NewTells:        req.NewTells,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Stats handles GET /api/v1/stats
func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.playerService.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(stats))
}
