package middleware

import (
	"mime"
	"net/http"

	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/logger"
)

const (
	ContentTypeJSON      = "application/json"
	ContentTypeForm      = "application/x-www-form-urlencoded"
	ContentTypeMultipart = "multipart/form-data"
	ContentTypeText      = "text/plain"
)

var allowedContentTypes = map[string]bool{
	ContentTypeJSON:      true,
	ContentTypeForm:      true,
	ContentTypeMultipart: true,
}

// ContentTypeValidation rejects bodies that are neither JSON nor form data.
// A bodyless POST without a Content-Type is let through. Paths listed in
// plainTextPaths also take text/plain, which is what navigator.sendBeacon
// sends for a string body.
func ContentTypeValidation(log *logger.Logger, plainTextPaths ...string) func(http.Handler) http.Handler {
	plainText := make(map[string]bool, len(plainTextPaths))
	for _, p := range plainTextPaths {
		plainText[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r.Method) {
				header := r.Header.Get("Content-Type")
				contentType := extractContentType(header)

				if header == "" && r.ContentLength == 0 {
					next.ServeHTTP(w, r)
					return
				}

				if !allowedContentTypes[contentType] && !(contentType == ContentTypeText && plainText[r.URL.Path]) {
					rejectInvalidContentType(w, log, r, contentType)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

func extractContentType(header string) string {
	if header == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return mediaType
}

func rejectInvalidContentType(w http.ResponseWriter, log *logger.Logger, r *http.Request, contentType string) {
	log.Warn("Invalid Content-Type header",
		"request_id", logger.RequestID(r.Context()),
		"content_type", contentType,
		"path", r.URL.Path,
		"method", r.Method,
	)

	appErr := apperrors.New(apperrors.CodeInvalidInput, "Content-Type must be application/json or form data", http.StatusUnsupportedMediaType)
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(appErr.StatusCode())
	_, _ = w.Write(appErr.ToJSON())
}
