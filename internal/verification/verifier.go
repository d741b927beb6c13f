package verification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hotelbooking/pkg/client"
)

const DefaultMinScore = 0.5

var (
	ErrMissingToken = errors.New("verification token is missing")
	ErrRejected     = errors.New("verification provider rejected the token")
	ErrLowScore     = errors.New("verification score below threshold")
	ErrUnavailable  = errors.New("verification provider call failed")
)

// Verifier decides whether a submission came from a human. Any non-nil
// error means the submission must be rejected.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (*Result, error)
	Enabled() bool
}

type Result struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	Action     string   `json:"action,omitempty"`
	Hostname   string   `json:"hostname,omitempty"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}

// RecaptchaVerifier calls a reCAPTCHA-compatible siteverify endpoint.
type RecaptchaVerifier struct {
	http     *client.HttpClient
	secret   string
	minScore float64
}

// NewRecaptchaVerifier treats a minScore of 0 as "any successful token".
// Values outside [0, 1] fall back to DefaultMinScore.
func NewRecaptchaVerifier(verifyURL, secret string, minScore float64, timeout time.Duration) *RecaptchaVerifier {
	if minScore < 0 || minScore > 1 {
		minScore = DefaultMinScore
	}
	return &RecaptchaVerifier{
		http:     client.NewHttpClient(verifyURL, timeout),
		secret:   secret,
		minScore: minScore,
	}
}

func (v *RecaptchaVerifier) Enabled() bool { return true }

func (v *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) (*Result, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	form := url.Values{
		"secret":   {v.secret},
		"response": {token},
	}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	resp, err := v.http.POSTForm(ctx, "", form)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var result Result
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrUnavailable, err)
	}

	if !result.Success {
		return &result, fmt.Errorf("%w: %s", ErrRejected, strings.Join(result.ErrorCodes, ","))
	}
	if result.Score < v.minScore {
		return &result, fmt.Errorf("%w: %.2f < %.2f", ErrLowScore, result.Score, v.minScore)
	}

	return &result, nil
}

// Disabled accepts every submission.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) Verify(context.Context, string, string) (*Result, error) {
	return &Result{Success: true, Score: 1}, nil
}
