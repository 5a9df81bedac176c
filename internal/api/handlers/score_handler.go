package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/falling-game-be/internal/models"
	"github.com/isdelr/falling-game-be/internal/services"
	"github.com/rs/zerolog/hlog"
)

// ScoreHandler handles HTTP requests for submitting and ranking scores.
type ScoreHandler struct {
	service services.ScoreServiceProvider
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(service services.ScoreServiceProvider) *ScoreHandler {
	return &ScoreHandler{service: service}
}

// ScorePayload defines the structure for score submissions.
type ScorePayload struct {
	Score *int64 `json:"score"`
}

// Create records a score for the authenticated user.
func (h *ScoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var payload ScorePayload
	if err := decodeJSON(r, &payload); err != nil || payload.Score == nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	score, err := h.service.Submit(r.Context(), user, *payload.Score)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Int64("score_id", score.ID).Int64("score", score.Score).Msg("Score recorded")
	writeJSON(w, http.StatusCreated, score)
}

// Top handles the public leaderboard request.
func (h *ScoreHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = services.DefaultLeaderboardLimit
	}
	scope := models.ParseScope(r.URL.Query().Get("scope"))

	scores, err := h.service.Top(r.Context(), limit, scope)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, scores)
}
