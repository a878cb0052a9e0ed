package handlers

import (
	"errors"
	"net/http"

	"github.com/courtline/tennis-ladder/schedule"
	"github.com/courtline/tennis-ladder/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// GenerateFixtures takes the attendance list for a match night and produces
// the full court and rotation plan in one shot.
func (h *ScheduleHandler) GenerateFixtures(w http.ResponseWriter, r *http.Request) {
	matchID, err := readIDParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Players []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
			Rank *int   `json:"rank"`
		} `json:"players"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input.Players) == 0 {
		badRequestResponse(w, r, errors.New("players must not be empty"))
		return
	}

	available := make([]schedule.Player, len(input.Players))
	for i, p := range input.Players {
		available[i] = schedule.Player{ID: p.ID, Name: p.Name, Rank: p.Rank}
	}

	fixtures, err := h.scheduleService.GenerateFixtures(r.Context(), matchID, available)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"fixtures": fixtures}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	matchID, err := readIDParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	fixtures, err := h.scheduleService.ListFixtures(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"fixtures": fixtures}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
