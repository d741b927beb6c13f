package handler

import (
	"net/http"

	"hotelbooking/internal/bookings/service"
	httputil "hotelbooking/pkg/http"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const BookingsPath = "/api/book"

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.List(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteList(w, bookings); err != nil {
		h.log.Error("failed to write list response", "handler", "List", "operation", "WriteList", "error", err)
	}
}

func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Submit", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	caller := service.Caller{
		IP:        httputil.ClientIP(r),
		UserAgent: r.Header.Get(httputil.HeaderUserAgent),
	}

	result, err := h.service.Submit(r.Context(), &req, caller)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Submit", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if result.Duplicate {
		if err := httputil.WriteMessage(w, false, service.MsgDuplicateBooking); err != nil {
			h.log.Error("failed to write duplicate response", "handler", "Submit", "operation", "WriteMessage", "error", err)
		}
		return
	}

	if err := httputil.WriteCreated(w, result.ID); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET(BookingsPath, h.List)
	router.POST(BookingsPath, h.Submit)
}
