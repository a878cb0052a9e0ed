package handlers

import (
	"net/http"

	"github.com/courtline/tennis-ladder/middleware"
	"github.com/courtline/tennis-ladder/models"
	"github.com/courtline/tennis-ladder/services"
)

type ScoreHandler struct {
	scoreService services.ScoreService
}

func NewScoreHandler(scoreService services.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

// SubmitScore records a score for a fixture. A disputed submission is not an
// HTTP error: the response carries accepted=false and the conflict record.
func (h *ScoreHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := readIDParam(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	submittedBy, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	var input struct {
		Pair1Score int `json:"pair1_score"`
		Pair2Score int `json:"pair2_score"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.scoreService.SubmitScore(r.Context(), fixtureID, input.Pair1Score, input.Pair2Score, submittedBy)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusCreated
	if !outcome.Accepted {
		status = http.StatusConflict
	}
	if err := writeJSON(w, status, jsonResponse{"outcome": outcome}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoreHandler) ListConflicts(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := readIDParam(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	conflicts, err := h.scoreService.ListConflicts(r.Context(), fixtureID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"conflicts": conflicts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoreHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := readIDParam(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	challengerID, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	var input struct {
		ProposedPair1Score int    `json:"proposed_pair1_score"`
		ProposedPair2Score int    `json:"proposed_pair2_score"`
		Reason             string `json:"reason"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	challenge, err := h.scoreService.Challenge(r.Context(), fixtureID, challengerID,
		input.ProposedPair1Score, input.ProposedPair2Score, input.Reason)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"challenge": challenge}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoreHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	status := models.ChallengeStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.ChallengeStatusPending
	}
	challenges, err := h.scoreService.ListChallenges(r.Context(), status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"challenges": challenges}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScoreHandler) ResolveChallenge(w http.ResponseWriter, r *http.Request) {
	challengeID, err := readIDParam(r, "challengeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	resolvedBy, err := middleware.GetPlayerIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	var input struct {
		Approve  bool   `json:"approve"`
		Decision string `json:"decision"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	challenge, err := h.scoreService.ResolveChallenge(r.Context(), challengeID, input.Approve, input.Decision, resolvedBy)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"challenge": challenge}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
