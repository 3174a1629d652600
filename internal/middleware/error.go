package middleware

import (
	"encoding/json"
	"net/http"

	"craftmarket/internal/httperr"

	"go.uber.org/zap"
)

// ErrorResponse is the body of every error reply: a single user-facing
// message. The HTTP status code carries the error category.
type ErrorResponse struct {
	Message string `json:"message"`
}

// RespondWithError sends a JSON error body with the given status code.
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Message: message})
}

// RenderError is the terminal error stage: it unwraps the typed error and
// renders it, defaulting to 500 with a generic message for anything untyped.
func RenderError(w http.ResponseWriter, err error) {
	he := httperr.From(err)
	RespondWithError(w, he.Code, he.Message)
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, http.StatusInternalServerError, "An unknown error occurred!")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
