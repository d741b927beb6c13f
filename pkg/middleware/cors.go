package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS allows any origin when origins is empty, otherwise only the listed ones.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept", "Authorization", HeaderRequestID}),
		handlers.ExposedHeaders([]string{HeaderRequestID}),
		handlers.MaxAge(600),
	)
}
