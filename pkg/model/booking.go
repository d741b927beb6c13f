package model

import (
	"strings"
	"time"
)

const (
	DefaultBookingMessage = "None"
	DefaultBookingDevice  = "Unknown"
)

type Booking struct {
	ID        string    `json:"_id,omitempty" bson:"_id,omitempty"`
	GuestName string    `json:"guest_name" bson:"guest_name" validate:"required"`
	Contact   string    `json:"contact" bson:"contact" validate:"required"`
	CheckIn   string    `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut  string    `json:"check_out" bson:"check_out" validate:"required"`
	RoomType  string    `json:"room_type" bson:"room_type" validate:"required"`
	Message   string    `json:"message" bson:"message"`
	Device    string    `json:"device" bson:"device"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// BookingRequest is the submitted booking form. Older forms post the contact
// as phone or email; Contact wins when more than one is present. Contact
// fields accept bare numbers, which some forms send for phones.
type BookingRequest struct {
	GuestName      string     `json:"guest_name"`
	Contact        FlexString `json:"contact,omitempty"`
	Phone          FlexString `json:"phone,omitempty"`
	Email          FlexString `json:"email,omitempty"`
	CheckIn        string     `json:"check_in"`
	CheckOut       string     `json:"check_out"`
	RoomType       string     `json:"room_type"`
	Message        string     `json:"message,omitempty"`
	Device         string     `json:"device,omitempty"`
	RecaptchaToken string     `json:"recaptcha_token,omitempty"`
	WidgetResponse string     `json:"g-recaptcha-response,omitempty"`
	Token          string     `json:"token,omitempty"`
}

func (r *BookingRequest) ResolvedContact() string {
	for _, c := range []FlexString{r.Contact, r.Phone, r.Email} {
		if strings.TrimSpace(c.String()) != "" {
			return c.String()
		}
	}
	return ""
}

// VerificationToken returns the first non-blank of recaptcha_token, the
// widget's own g-recaptcha-response field, and token.
func (r *BookingRequest) VerificationToken() string {
	for _, t := range []string{r.RecaptchaToken, r.WidgetResponse, r.Token} {
		if token := strings.TrimSpace(t); token != "" {
			return token
		}
	}
	return ""
}

// ToBooking copies the form fields into an unsaved booking without defaults.
func (r *BookingRequest) ToBooking() *Booking {
	return &Booking{
		GuestName: r.GuestName,
		Contact:   r.ResolvedContact(),
		CheckIn:   r.CheckIn,
		CheckOut:  r.CheckOut,
		RoomType:  r.RoomType,
		Message:   r.Message,
		Device:    r.Device,
	}
}

// SubmitResult is the outcome of a booking submission that did not fail.
// Duplicate results are soft rejections, not errors.
type SubmitResult struct {
	ID        string
	Duplicate bool
}
