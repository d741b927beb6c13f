package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedError struct {
	name string
	err  error
}

type mockReporter struct {
	mu     sync.Mutex
	errors []capturedError
}

func (m *mockReporter) CaptureError(_ context.Context, name string, err error, _ map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, capturedError{name: name, err: err})
}

func (m *mockReporter) Publish(context.Context, string, string, any) {}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func decodeError(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestRecovery_ReturnsJSONAndReports(t *testing.T) {
	reporter := &mockReporter{}
	h := Recovery(logger.Discard(), reporter)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nil map write")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/book", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w.Body.Bytes())
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal server error", body["error"])

	require.Len(t, reporter.errors, 1)
	assert.Equal(t, "http.panic", reporter.errors[0].name)
	assert.Contains(t, reporter.errors[0].err.Error(), "nil map write")
}

func TestRequestLogging_AssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf})

	var seen string
	h := RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/book", nil))

	assert.Len(t, seen, 36, "uuid v4 string")
	assert.Equal(t, seen, w.Header().Get(HeaderRequestID))
	assert.Contains(t, buf.String(), `"status":418`)

	r := httptest.NewRequest(http.MethodGet, "/api/book", nil)
	r.Header.Set(HeaderRequestID, "caller-id")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, "caller-id", seen)
}

func TestContentTypeValidation(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		want        int
	}{
		{"json", http.MethodPost, "application/json", "{}", http.StatusOK},
		{"json with charset", http.MethodPost, "application/json; charset=utf-8", "{}", http.StatusOK},
		{"urlencoded", http.MethodPost, "application/x-www-form-urlencoded", "a=b", http.StatusOK},
		{"multipart", http.MethodPost, "multipart/form-data; boundary=xyz", "--xyz--", http.StatusOK},
		{"xml rejected", http.MethodPost, "application/xml", "<a/>", http.StatusUnsupportedMediaType},
		{"missing with body", http.MethodPost, "", "{}", http.StatusUnsupportedMediaType},
		{"bodyless post", http.MethodPost, "", "", http.StatusOK},
		{"get ignored", http.MethodGet, "text/plain", "", http.StatusOK},
		{"text rejected elsewhere", http.MethodPost, "text/plain;charset=UTF-8", "{}", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/api/book", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			ContentTypeValidation(logger.Discard())(okHandler()).ServeHTTP(w, r)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestContentTypeValidation_PlainTextPaths(t *testing.T) {
	h := ContentTypeValidation(logger.Discard(), "/api/log-session")(okHandler())

	send := func(path string) int {
		r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"sessionId":"s-1"}`))
		r.Header.Set("Content-Type", "text/plain;charset=UTF-8")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("/api/log-session"))
	assert.Equal(t, http.StatusUnsupportedMediaType, send("/api/book"))
}

func TestRateLimit_PerClient(t *testing.T) {
	m := metrics.NewForTest()
	limiter := NewClientRateLimiter(2, time.Minute, nil, logger.Discard(), m)
	defer limiter.Stop()

	h := RateLimit(limiter)(okHandler())

	send := func(ip string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/book", nil)
		r.RemoteAddr = ip + ":40000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.1"))
	assert.Equal(t, http.StatusOK, send("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.1"))
	assert.Equal(t, http.StatusOK, send("203.0.113.2"), "other clients have their own bucket")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimited))
}

func TestRateLimit_ForwardedForDoesNotResetBucket(t *testing.T) {
	limiter := NewClientRateLimiter(2, time.Minute, nil, logger.Discard(), nil)
	defer limiter.Stop()

	h := RateLimit(limiter)(okHandler())

	var codes []int
	for i := 0; i < 4; i++ {
		r := httptest.NewRequest(http.MethodPost, "/api/book", nil)
		r.RemoteAddr = "198.51.100.9:40000"
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestClientRateLimiter_EvictIdle(t *testing.T) {
	limiter := NewClientRateLimiter(1, time.Minute, nil, logger.Discard(), nil)
	defer limiter.Stop()

	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))

	limiter.evictIdle(time.Now().Add(2 * time.Minute))
	assert.True(t, limiter.Allow("a"), "evicted clients start with a full bucket")
	assert.True(t, limiter.Allow(""), "requests without a key are not limited")
}

func TestRequestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	w := httptest.NewRecorder()
	RequestTimeout(20*time.Millisecond)(slow).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/book", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Request timeout", decodeError(t, w.Body.Bytes())["error"])

	w = httptest.NewRecorder()
	RequestTimeout(time.Second)(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestTimeout_LateHandlerCannotTouchResponse(t *testing.T) {
	release := make(chan struct{})
	writeErr := make(chan error, 1)
	late := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("X-Late", "1")
		_, err := w.Write([]byte("late"))
		writeErr <- err
	})

	w := httptest.NewRecorder()
	RequestTimeout(20*time.Millisecond)(late).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/book", nil))
	close(release)

	select {
	case err := <-writeErr:
		assert.ErrorIs(t, err, http.ErrHandlerTimeout)
	case <-time.After(time.Second):
		t.Fatal("handler never finished")
	}
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, w.Header().Get("X-Late"))
	assert.NotContains(t, w.Body.String(), "late")
}

func TestRequestTimeout_CopiesHandlerHeaders(t *testing.T) {
	h := RequestTimeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Kind", "booking")
		w.WriteHeader(http.StatusCreated)
		w.Header().Set("X-Too-Late", "1")
		_, _ = w.Write([]byte("ok"))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/book", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "booking", w.Header().Get("X-Request-Kind"))
	assert.Empty(t, w.Header().Get("X-Too-Late"))
	assert.Equal(t, "ok", w.Body.String())
}

func TestRequestTimeout_PropagatesPanic(t *testing.T) {
	reporter := &mockReporter{}
	h := Recovery(logger.Discard(), reporter)(RequestTimeout(time.Second)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, reporter.errors, 1)
}

func TestMaxRequestSize(t *testing.T) {
	h := MaxRequestSize(8)(okHandler())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/book", strings.NewReader(`{"guest_name":"too long"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/book", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://hotel.example"})(okHandler())

	r := httptest.NewRequest(http.MethodOptions, "/api/book", nil)
	r.Header.Set("Origin", "https://hotel.example")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://hotel.example", w.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodGet, "/api/book", nil)
	r.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_AnyOrigin(t *testing.T) {
	h := CORS(nil)(okHandler())

	r := httptest.NewRequest(http.MethodGet, "/api/book", nil)
	r.Header.Set("Origin", "https://anywhere.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetrics(t *testing.T) {
	m := metrics.NewForTest()
	h := Metrics(m, func(*http.Request) string { return "/api/book" })(okHandler())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/book", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/book", "200")))
}
