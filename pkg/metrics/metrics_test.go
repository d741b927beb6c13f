package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New(Namespace, prometheus.NewRegistry())
	b := New(Namespace, prometheus.NewRegistry())

	a.BookingSubmissions.WithLabelValues(OutcomePersisted).Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.BookingSubmissions.WithLabelValues(OutcomePersisted)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.BookingSubmissions.WithLabelValues(OutcomePersisted)))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := NewForTest()
	m.BookingSubmissions.WithLabelValues(OutcomeDuplicate).Inc()
	m.RateLimited.Inc()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hotel_booking_booking_submissions_total{outcome="duplicate"} 1`)
	assert.Contains(t, w.Body.String(), `hotel_booking_rate_limited_requests_total 1`)
}
