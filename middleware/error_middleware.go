package middleware

import (
	"encoding/json"
	"log"
	"net/http"

	"tweet-server/utils/errors"
)

// ErrorMiddleware recovers from handler panics and converts them into a
// generic 500 response, so a single bad request never takes the process
// down or leaks internals.
func ErrorMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Printf("Panic recovered: %v", rec)
					WriteError(w, errors.ErrInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// errorEnvelope is the failure half of the uniform response envelope.
type errorEnvelope struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// WriteError writes an error in the uniform envelope, mapping unknown
// error types to a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*errors.APIError)
	if !ok {
		apiErr = errors.Wrap(err, "UNKNOWN_ERROR", errors.ErrInternal.Message, errors.ErrInternal.Status)
	}
	if apiErr.Status >= 500 {
		log.Printf("Server error %s (Details: %s)", apiErr.Error(), apiErr.Details)
	}
	WriteJSON(w, apiErr.Status, errorEnvelope{Message: apiErr.Message, Success: false})
}

// WriteJSON writes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
