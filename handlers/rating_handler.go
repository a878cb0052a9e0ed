package handlers

import (
	"net/http"

	"github.com/courtline/tennis-ladder/services"
)

type RatingHandler struct {
	ratingService services.RatingService
}

func NewRatingHandler(ratingService services.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// Recalculate wipes the season's rating history and replays every verified
// result. Submissions are rejected for the duration.
func (h *RatingHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	seasonID, err := readIDParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	replayed, err := h.ratingService.RecalculateSeason(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"fixtures_replayed": replayed}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RatingHandler) Predict(w http.ResponseWriter, r *http.Request) {
	seasonID, err := readIDParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		Team1PlayerIDs []int `json:"team1_player_ids"`
		Team2PlayerIDs []int `json:"team2_player_ids"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	prediction, err := h.ratingService.Predict(r.Context(), seasonID, input.Team1PlayerIDs, input.Team2PlayerIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"prediction": prediction}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
