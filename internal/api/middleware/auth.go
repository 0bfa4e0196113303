package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/calebw/tasklist-api/internal/domain"
	"github.com/calebw/tasklist-api/internal/service"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
)

// Auth is the authorization gate: it resolves the bearer token to a user id
// and stores it in the request context. Task handlers scope every storage
// operation by that id.
func Auth(sessionService *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)

			userID, err := sessionService.Authorize(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrMissingToken),
					errors.Is(err, domain.ErrInvalidToken),
					errors.Is(err, domain.ErrAccountInactive),
					errors.Is(err, domain.ErrAccessTokenExpired),
					errors.Is(err, domain.ErrAccountLocked):
					unauthorized(w, err.Error())
				default:
					log.Err(err).Msg("authorization check failed")
					serverError(w, "There was an issue checking your access token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		return after
	}
	return header
}

type errorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Success    bool     `json:"success"`
	Messages   []string `json:"messages"`
}

func unauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, message)
}

func serverError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, message)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorEnvelope{StatusCode: status, Success: false, Messages: []string{message}})
}
