package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fjod/storefront/internal/domain"
	"github.com/rs/zerolog"
)

const maxRequestBodySize = 1 << 20 // 1MB

// envelope is the body of every response: success, optional message, then payload keys.
type envelope map[string]any

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("failed to encode response")
	}
}

func respondOK(w http.ResponseWriter, r *http.Request, status int, message string, payload envelope) {
	body := envelope{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	respondJSON(w, r, status, body)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, r, status, envelope{"success": false, "message": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrBadCredentials):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// handleError maps a service error onto a response. Anything that is not a domain.Error is
// logged and reported without detail.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		respondError(w, r, statusFor(de), de.Message)
		return
	}
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	respondError(w, r, http.StatusInternalServerError, "Internal server error.")
}

// decodeJSON reads the body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return domain.Validation("Invalid JSON body.")
	}
	return domain.ValidateRequest(dst)
}
