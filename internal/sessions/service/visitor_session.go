package service

import (
	"context"
	"errors"
	"time"

	"hotelbooking/internal/sessions/repository"
	"hotelbooking/pkg/config"
	mongodb "hotelbooking/pkg/db/mongo"
	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/metrics"
	"hotelbooking/pkg/model"
	"hotelbooking/pkg/sanitizer"
	"hotelbooking/pkg/telemetry"
)

const MsgInitializing = "Server initializing, try again"

type Caller struct {
	IP        string
	UserAgent string
}

type VisitorSessionService interface {
	Log(ctx context.Context, req *model.VisitorSessionRequest, caller Caller) (string, error)
}

type visitorSessionService struct {
	repo     repository.VisitorSessionRepository
	reporter telemetry.Reporter
	metrics  *metrics.Metrics
	cfg      *config.Config
	now      func() time.Time
}

func NewVisitorSessionService(
	repo repository.VisitorSessionRepository,
	reporter telemetry.Reporter,
	m *metrics.Metrics,
	cfg *config.Config,
) VisitorSessionService {
	return &visitorSessionService{
		repo:     repo,
		reporter: reporter,
		metrics:  m,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Log appends one visitor event. Fields are stored as sent; a missing or
// unreadable client timestamp is replaced by the receive time.
func (s *visitorSessionService) Log(ctx context.Context, req *model.VisitorSessionRequest, caller Caller) (string, error) {
	session := &model.VisitorSession{
		SessionID: sanitizer.TrimAndNormalize(req.SessionID.String()),
		Page:      sanitizer.TrimAndNormalize(req.Page.String()),
		EventType: sanitizer.TrimAndNormalize(req.EventType.String()),
		UserAgent: caller.UserAgent,
		IP:        caller.IP,
	}

	ts, ok := model.ParseClientTime(req.Timestamp)
	if !ok {
		ts = s.now()
	}
	session.Timestamp = ts.Truncate(time.Millisecond)

	if !s.repo.Ready() {
		s.count(session.EventType, "unavailable")
		return "", apperrors.Unavailable(MsgInitializing)
	}

	if err := s.repo.Create(ctx, session); err != nil {
		if errors.Is(err, mongodb.ErrNotReady) {
			s.count(session.EventType, "unavailable")
			return "", apperrors.Unavailable(MsgInitializing)
		}
		s.cfg.Log.FromContext(ctx).Error("Failed to log visitor session",
			"session_id", session.SessionID,
			"event_type", session.EventType,
			"error", err,
		)
		s.count(session.EventType, "error")
		s.reporter.CaptureError(ctx, "sessions.log", err, map[string]any{"event_type": session.EventType})
		return "", apperrors.Store(err)
	}

	s.cfg.Log.FromContext(ctx).Debug("Visitor session logged",
		"id", session.ID,
		"session_id", session.SessionID,
		"event_type", session.EventType,
		"page", session.Page,
	)
	s.count(session.EventType, "logged")
	return session.ID, nil
}

func (s *visitorSessionService) count(eventType, status string) {
	if s.metrics == nil {
		return
	}
	switch eventType {
	case model.EventPageVisit, model.EventPageExit:
	default:
		eventType = "other"
	}
	s.metrics.SessionEvents.WithLabelValues(eventType, status).Inc()
}
