package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/calebw/tasklist-api/internal/service"
	"github.com/go-chi/chi/v5"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

type LoginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutResponse struct {
	SessionID int64 `json:"session_id"`
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Request body is not valid JSON")
		return
	}

	var messages []string
	messages = appendRequired(messages, req.Username, "Username")
	messages = appendRequired(messages, req.Password, "Password")
	if len(messages) > 0 {
		respondError(w, http.StatusBadRequest, messages...)
		return
	}

	tokens, err := h.sessionService.Login(r.Context(), service.LoginInput{
		Username: *req.Username,
		Password: *req.Password,
	})
	if err != nil {
		respondDomainError(w, err, "There was an issue logging in - please try again")
		return
	}

	respondSuccess(w, http.StatusCreated, tokens, "Logged in")
}

func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	accessToken := bearerToken(r)
	if accessToken == "" {
		respondError(w, http.StatusUnauthorized, "Access token is missing from the header")
		return
	}

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Request body is not valid JSON")
		return
	}
	if req.RefreshToken == "" {
		respondError(w, http.StatusBadRequest, "Refresh token not supplied")
		return
	}

	tokens, err := h.sessionService.Refresh(r.Context(), sessionID, accessToken, req.RefreshToken)
	if err != nil {
		respondDomainError(w, err, "There was an issue refreshing the access token - please log in again")
		return
	}

	respondSuccess(w, http.StatusOK, tokens, "Token refreshed")
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	accessToken := bearerToken(r)
	if accessToken == "" {
		respondError(w, http.StatusUnauthorized, "Access token is missing from the header")
		return
	}

	if err := h.sessionService.Logout(r.Context(), sessionID, accessToken); err != nil {
		respondDomainError(w, err, "There was an issue logging out - please try again")
		return
	}

	respondSuccess(w, http.StatusOK, LogoutResponse{SessionID: sessionID}, "Logged out")
}

func sessionIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "sessionID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "Session ID must be numeric")
		return 0, false
	}
	return id, true
}

// bearerToken returns the access token from the Authorization header. The
// "Bearer" scheme prefix is optional.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		return after
	}
	return header
}
