package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/calebw/tasklist-api/internal/domain"
	"github.com/rs/zerolog/log"
)

// Envelope is the common response shape for every endpoint.
type Envelope struct {
	StatusCode int      `json:"statusCode"`
	Success    bool     `json:"success"`
	Messages   []string `json:"messages,omitempty"`
	Data       any      `json:"data,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, env Envelope, cacheable bool) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	if cacheable {
		w.Header().Set("Cache-Control", "max-age=60")
	} else {
		w.Header().Set("Cache-Control", "no-cache, no-store")
	}
	w.WriteHeader(env.StatusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}

func respondSuccess(w http.ResponseWriter, status int, data any, messages ...string) {
	writeEnvelope(w, Envelope{StatusCode: status, Success: true, Messages: messages, Data: data}, false)
}

// respondCached is respondSuccess for task reads that may be cached briefly.
func respondCached(w http.ResponseWriter, status int, data any, messages ...string) {
	writeEnvelope(w, Envelope{StatusCode: status, Success: true, Messages: messages, Data: data}, true)
}

func respondError(w http.ResponseWriter, status int, messages ...string) {
	writeEnvelope(w, Envelope{StatusCode: status, Success: false, Messages: messages}, false)
}

// respondDomainError maps a service error onto a transport status. Unknown
// errors are infrastructure failures: they are logged in full server-side
// and surfaced as a generic message only.
func respondDomainError(w http.ResponseWriter, err error, generic string) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(w, http.StatusBadRequest, vErr.Messages...)
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrAccountInactive),
		errors.Is(err, domain.ErrAccountLocked),
		errors.Is(err, domain.ErrRefreshTokenExpired),
		errors.Is(err, domain.ErrInvalidSession),
		errors.Is(err, domain.ErrRefreshConflict),
		errors.Is(err, domain.ErrMissingToken),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrAccessTokenExpired):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUsernameTaken):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrPageNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		log.Err(err).Msg(generic)
		respondError(w, http.StatusInternalServerError, generic)
	}
}
