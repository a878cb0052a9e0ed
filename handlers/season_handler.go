package handlers

import (
	"net/http"
	"time"

	"github.com/courtline/tennis-ladder/services"
)

type SeasonHandler struct {
	seasonService services.SeasonService
	exportService services.ExportService
}

func NewSeasonHandler(seasonService services.SeasonService, exportService services.ExportService) *SeasonHandler {
	return &SeasonHandler{seasonService: seasonService, exportService: exportService}
}

func (h *SeasonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name             string `json:"name"`
		EloEnabled       bool   `json:"elo_enabled"`
		EloKFactor       int    `json:"elo_k_factor"`
		EloInitialRating int    `json:"elo_initial_rating"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	season, err := h.seasonService.CreateSeason(r.Context(), input.Name, input.EloEnabled, input.EloKFactor, input.EloInitialRating)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"season": season}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeasonHandler) Get(w http.ResponseWriter, r *http.Request) {
	seasonID, err := readIDParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	season, err := h.seasonService.GetSeason(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"season": season}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeasonHandler) Complete(w http.ResponseWriter, r *http.Request) {
	seasonID, err := readIDParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	season, err := h.seasonService.CompleteSeason(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"season": season}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeasonHandler) AddMatch(w http.ResponseWriter, r *http.Request) {
	seasonID, err := readIDParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		MatchDate time.Time `json:"match_date"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.seasonService.AddMatch(r.Context(), seasonID, input.MatchDate)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeasonHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	seasonID, err := readIDParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matches, err := h.seasonService.ListMatches(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeasonHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	seasonID, err := readIDParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		PlayerID int `json:"player_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	seasonPlayer, err := h.seasonService.AddPlayer(r.Context(), seasonID, input.PlayerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"season_player": seasonPlayer}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeasonHandler) Standings(w http.ResponseWriter, r *http.Request) {
	seasonID, err := readIDParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	standings, err := h.seasonService.Standings(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeasonHandler) PlayerRatingHistory(w http.ResponseWriter, r *http.Request) {
	seasonID, err := readIDParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := readIDParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	history, err := h.seasonService.PlayerRatingHistory(r.Context(), seasonID, playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"history": history}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeasonHandler) ListLadder(w http.ResponseWriter, r *http.Request) {
	players, err := h.seasonService.ListLadderPlayers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SeasonHandler) ExportStandings(w http.ResponseWriter, r *http.Request) {
	seasonID, err := readIDParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	result, err := h.exportService.ExportStandings(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"export": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
