// Package handler exposes the gateway's JSON API: form authoring, the
// published client surface, intake sessions, and BRD generation.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	briefingsvc "clientbrief/internal/gateway/service/briefing"
	formsvc "clientbrief/internal/gateway/service/forms"
	intakesvc "clientbrief/internal/gateway/service/intake"
)

// statusFor maps service errors onto HTTP statuses. Errors outside the
// known set keep the caller's fallback, which differs between endpoints
// that validate user input and endpoints that only touch storage.
func statusFor(err error, fallback int) int {
	switch {
	case errors.Is(err, formsvc.ErrNotFound),
		errors.Is(err, intakesvc.ErrFormNotFound),
		errors.Is(err, intakesvc.ErrSessionNotFound),
		errors.Is(err, briefingsvc.ErrSessionNotFound),
		errors.Is(err, briefingsvc.ErrNoDocument):
		return http.StatusNotFound
	case errors.Is(err, formsvc.ErrPublished),
		errors.Is(err, intakesvc.ErrAlreadySubmitted),
		errors.Is(err, briefingsvc.ErrNotSubmitted):
		return http.StatusConflict
	default:
		return fallback
	}
}

func writeError(w http.ResponseWriter, err error, fallback int) {
	http.Error(w, err.Error(), statusFor(err, fallback))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
