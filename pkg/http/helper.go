package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"

	apperrors "hotelbooking/pkg/errors"
)

const (
	HeaderForwardedFor = "X-Forwarded-For"
	HeaderUserAgent    = "User-Agent"

	maxMultipartMemory = 1 << 20
)

// ClientIP returns the first X-Forwarded-For entry, falling back to the socket peer.
// The header is caller-controlled; use it for recording, not for access control.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get(HeaderForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return PeerIP(r)
}

// PeerIP returns the host of the socket peer, ignoring forwarding headers.
func PeerIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// DecodeBody fills dst from a JSON body or, for form submissions, from the
// posted form values keyed by each field's json tag name. Any other body,
// text/plain beacons included, is decoded as JSON. An empty body leaves dst
// untouched.
func DecodeBody(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := parseForm(r, mediaType); err != nil {
			return apperrors.InvalidInput("Invalid form body")
		}
		values := make(map[string]string, len(r.PostForm))
		for key := range r.PostForm {
			values[key] = r.PostForm.Get(key)
		}
		raw, err := json.Marshal(values)
		if err != nil {
			return apperrors.InvalidInput("Invalid form body")
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return apperrors.InvalidInput("Invalid form body")
		}
		return nil
	default:
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return apperrors.InvalidInput("Invalid request body")
		}
		return nil
	}
}

func parseForm(r *http.Request, mediaType string) error {
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxMultipartMemory)
	}
	return r.ParseForm()
}
