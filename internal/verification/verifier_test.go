package verification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type siteverify struct {
	status int
	body   string
	form   chan map[string]string
}

func (s *siteverify) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if s.form != nil {
			s.form <- map[string]string{
				"secret":   r.PostForm.Get("secret"),
				"response": r.PostForm.Get("response"),
				"remoteip": r.PostForm.Get("remoteip"),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		_, _ = w.Write([]byte(s.body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRecaptchaVerifier_Verify(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		token   string
		wantErr error
	}{
		{"pass", http.StatusOK, `{"success":true,"score":0.9}`, "tok", nil},
		{"threshold is inclusive", http.StatusOK, `{"success":true,"score":0.5}`, "tok", nil},
		{"low score", http.StatusOK, `{"success":true,"score":0.3}`, "tok", ErrLowScore},
		{"missing score counts as zero", http.StatusOK, `{"success":true}`, "tok", ErrLowScore},
		{"rejected", http.StatusOK, `{"success":false,"error-codes":["invalid-input-response"]}`, "tok", ErrRejected},
		{"provider error", http.StatusBadGateway, ``, "tok", ErrUnavailable},
		{"garbage body", http.StatusOK, `<html>`, "tok", ErrUnavailable},
		{"missing token", http.StatusOK, `{"success":true,"score":1}`, "  ", ErrMissingToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := (&siteverify{status: tt.status, body: tt.body}).server(t)
			v := NewRecaptchaVerifier(srv.URL, "secret", 0.5, time.Second)

			_, err := v.Verify(context.Background(), tt.token, "203.0.113.7")
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRecaptchaVerifier_SendsForm(t *testing.T) {
	sv := &siteverify{status: http.StatusOK, body: `{"success":true,"score":0.8}`, form: make(chan map[string]string, 1)}
	srv := sv.server(t)
	v := NewRecaptchaVerifier(srv.URL, "s3cret", 0, time.Second)

	res, err := v.Verify(context.Background(), "tok-1", "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, 0.8, res.Score)
	assert.True(t, v.Enabled())

	form := <-sv.form
	assert.Equal(t, "s3cret", form["secret"])
	assert.Equal(t, "tok-1", form["response"])
	assert.Equal(t, "203.0.113.7", form["remoteip"])
}

func TestRecaptchaVerifier_ZeroThresholdAcceptsAnyScore(t *testing.T) {
	for _, body := range []string{`{"success":true,"score":0.1}`, `{"success":true}`} {
		srv := (&siteverify{status: http.StatusOK, body: body}).server(t)
		v := NewRecaptchaVerifier(srv.URL, "secret", 0, time.Second)

		_, err := v.Verify(context.Background(), "tok", "")
		assert.NoError(t, err, body)
	}
}

func TestRecaptchaVerifier_OutOfRangeThresholdFallsBack(t *testing.T) {
	srv := (&siteverify{status: http.StatusOK, body: `{"success":true,"score":0.3}`}).server(t)
	v := NewRecaptchaVerifier(srv.URL, "secret", 1.5, time.Second)

	_, err := v.Verify(context.Background(), "tok", "")
	assert.ErrorIs(t, err, ErrLowScore)
}

func TestRecaptchaVerifier_Unreachable(t *testing.T) {
	v := NewRecaptchaVerifier("http://127.0.0.1:1", "secret", 0.5, 200*time.Millisecond)

	_, err := v.Verify(context.Background(), "tok", "")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDisabled(t *testing.T) {
	var v Verifier = Disabled{}
	_, err := v.Verify(context.Background(), "", "")
	assert.NoError(t, err)
	assert.False(t, v.Enabled())
}
