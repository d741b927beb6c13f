package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/internal/bookings/repository"
	"hotelbooking/internal/bookings/validator"
	"hotelbooking/internal/verification"
	"hotelbooking/pkg/config"
	mongodb "hotelbooking/pkg/db/mongo"
	apperrors "hotelbooking/pkg/errors"
	"hotelbooking/pkg/metrics"
	"hotelbooking/pkg/model"
	"hotelbooking/pkg/sanitizer"
	"hotelbooking/pkg/telemetry"
)

const (
	MsgDBNotReady         = "DB not ready"
	MsgInitializing       = "Server initializing, try again"
	MsgMissingFields      = "Missing required fields"
	MsgVerificationFailed = "Bot verification failed"
	MsgDuplicateBooking   = "Duplicate booking"
)

// Caller is the request metadata the service needs from the transport.
type Caller struct {
	IP        string
	UserAgent string
}

type BookingService interface {
	List(ctx context.Context) ([]*model.Booking, error)
	Submit(ctx context.Context, req *model.BookingRequest, caller Caller) (*model.SubmitResult, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	verifier  verification.Verifier
	reporter  telemetry.Reporter
	metrics   *metrics.Metrics
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	verifier verification.Verifier,
	reporter telemetry.Reporter,
	m *metrics.Metrics,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		validator: validator,
		verifier:  verifier,
		reporter:  reporter,
		metrics:   m,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *bookingService) List(ctx context.Context) ([]*model.Booking, error) {
	if !s.repo.Ready() {
		return nil, apperrors.Unavailable(MsgDBNotReady)
	}

	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotReady) {
			return nil, apperrors.Unavailable(MsgDBNotReady)
		}
		s.cfg.Log.FromContext(ctx).Error("Failed to list bookings", "error", err)
		s.reporter.CaptureError(ctx, "bookings.list", err, nil)
		return nil, apperrors.Store(err)
	}

	return bookings, nil
}

// Submit runs ready check, validation, verification, duplicate check and
// insert, in that order. A duplicate is returned as a result, not an error.
func (s *bookingService) Submit(ctx context.Context, req *model.BookingRequest, caller Caller) (*model.SubmitResult, error) {
	log := s.cfg.Log.FromContext(ctx)

	if !s.repo.Ready() {
		s.outcome(metrics.OutcomeUnavailable)
		return nil, apperrors.Unavailable(MsgInitializing)
	}

	booking := req.ToBooking()
	s.sanitize(booking)

	if err := s.validator.Validate(booking); err != nil {
		log.Warn("Booking validation failed", "error", err)
		s.outcome(metrics.OutcomeValidationFailed)
		details := map[string]any{"error": err.Error()}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details = map[string]any{"missing": verrs.Fields()}
		}
		return nil, apperrors.Validation(MsgMissingFields, details)
	}

	if err := s.verify(ctx, req.VerificationToken(), caller.IP); err != nil {
		log.Warn("Booking rejected by bot verification", "ip", caller.IP, "user_agent", caller.UserAgent, "error", err)
		s.outcome(metrics.OutcomeVerificationFailed)
		return nil, apperrors.VerificationFailed(MsgVerificationFailed, err)
	}

	s.applyDefaults(booking)

	_, err := s.repo.FindDuplicate(ctx, booking)
	switch {
	case err == nil:
		return s.duplicate(ctx, booking), nil
	case errors.Is(err, bookingserrors.ErrNotFound):
	default:
		return nil, s.storeFailure(ctx, "bookings.duplicate_check", err)
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, bookingserrors.ErrDuplicate) {
			return s.duplicate(ctx, booking), nil
		}
		return nil, s.storeFailure(ctx, "bookings.create", err)
	}

	log.Info("Booking saved", "id", booking.ID, "room_type", booking.RoomType, "check_in", booking.CheckIn)
	s.outcome(metrics.OutcomePersisted)
	s.reporter.Publish(ctx, telemetry.EventBookingCreated, booking.ID, booking)

	return &model.SubmitResult{ID: booking.ID}, nil
}

func (s *bookingService) verify(ctx context.Context, token, ip string) error {
	if !s.verifier.Enabled() {
		return nil
	}

	_, err := s.verifier.Verify(ctx, token, ip)
	s.verificationResult(err)
	if err != nil && errors.Is(err, verification.ErrUnavailable) {
		s.reporter.CaptureError(ctx, "bookings.verification", err, map[string]any{"ip": ip})
	}
	return err
}

func (s *bookingService) duplicate(ctx context.Context, booking *model.Booking) *model.SubmitResult {
	s.cfg.Log.FromContext(ctx).Info("Duplicate booking ignored",
		"room_type", booking.RoomType,
		"check_in", booking.CheckIn,
		"check_out", booking.CheckOut,
	)
	s.outcome(metrics.OutcomeDuplicate)
	return &model.SubmitResult{Duplicate: true}
}

func (s *bookingService) storeFailure(ctx context.Context, op string, err error) error {
	if errors.Is(err, mongodb.ErrNotReady) {
		s.outcome(metrics.OutcomeUnavailable)
		return apperrors.Unavailable(MsgInitializing)
	}

	s.cfg.Log.FromContext(ctx).Error("Failed to save booking", "operation", op, "error", err)
	s.outcome(metrics.OutcomeError)
	s.reporter.CaptureError(ctx, op, err, nil)
	return apperrors.Store(err)
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.GuestName = sanitizer.NormalizeName(b.GuestName)
	b.Contact = sanitizer.NormalizeContact(b.Contact, s.cfg.DefaultPhoneRegion)
	b.CheckIn = sanitizer.TrimAndNormalize(b.CheckIn)
	b.CheckOut = sanitizer.TrimAndNormalize(b.CheckOut)
	b.RoomType = sanitizer.TrimAndNormalize(b.RoomType)
	b.Message = sanitizer.NormalizeFreeText(b.Message)
	b.Device = sanitizer.TrimAndNormalize(b.Device)
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Message == "" {
		b.Message = model.DefaultBookingMessage
	}
	if b.Device == "" {
		b.Device = model.DefaultBookingDevice
	}
	b.Timestamp = s.now().Truncate(time.Millisecond)
}

func (s *bookingService) outcome(outcome string) {
	if s.metrics != nil {
		s.metrics.BookingSubmissions.WithLabelValues(outcome).Inc()
	}
}

func (s *bookingService) verificationResult(err error) {
	if s.metrics == nil {
		return
	}

	result := metrics.VerificationPassed
	switch {
	case err == nil:
	case errors.Is(err, verification.ErrMissingToken):
		result = metrics.VerificationMissingToken
	case errors.Is(err, verification.ErrLowScore):
		result = metrics.VerificationLowScore
	case errors.Is(err, verification.ErrRejected):
		result = metrics.VerificationRejected
	default:
		result = metrics.VerificationError
	}
	s.metrics.VerificationResults.WithLabelValues(result).Inc()
}
