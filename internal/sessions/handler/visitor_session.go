package handler

import (
	"net/http"

	"hotelbooking/internal/sessions/service"
	httputil "hotelbooking/pkg/http"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const LogSessionPath = "/api/log-session"

type VisitorSessionHandler struct {
	service service.VisitorSessionService
	log     *logger.Logger
}

func NewVisitorSessionHandler(service service.VisitorSessionService, log *logger.Logger) *VisitorSessionHandler {
	return &VisitorSessionHandler{
		service: service,
		log:     log,
	}
}

func (h *VisitorSessionHandler) Log(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.VisitorSessionRequest
	if err := httputil.DecodeBody(r, &req); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Log", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	caller := service.Caller{
		IP:        httputil.ClientIP(r),
		UserAgent: r.Header.Get(httputil.HeaderUserAgent),
	}

	id, err := h.service.Log(r.Context(), &req, caller)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Log", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, id); err != nil {
		h.log.Error("failed to write created response", "handler", "Log", "operation", "WriteCreated", "error", err)
	}
}

func (h *VisitorSessionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST(LogSessionPath, h.Log)
}

// PlainTextPaths lists the beacon endpoint, whose text/plain bodies are JSON.
func (h *VisitorSessionHandler) PlainTextPaths() []string {
	return []string{LogSessionPath}
}
