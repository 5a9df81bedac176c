package handlers

import (
	"net/http"

	"github.com/isdelr/falling-game-be/internal/services"
	"github.com/rs/zerolog/hlog"
)

// AuthHandler handles HTTP requests for signup, login and the current user.
type AuthHandler struct {
	service services.AuthServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupPayload defines the structure for registration requests.
type SignupPayload struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Nickname *string `json:"nickname"`
}

// Signup handles new user registration.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Signup(r.Context(), services.SignupInput{
		Email:    payload.Email,
		Password: payload.Password,
		Nickname: payload.Nickname,
	})
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("email", payload.Email).Msg("Signup rejected")
		writeServiceError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Int64("user_id", user.ID).Msg("User registered")
	writeJSON(w, http.StatusCreated, user.Public())
}

// Login handles credential verification and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

// Me returns the user the request's bearer token belongs to.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}
