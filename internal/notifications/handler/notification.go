package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"rentcar/internal/notifications/service"
	apperrors "rentcar/pkg/errors"
	httputil "rentcar/pkg/http"
	"rentcar/pkg/logger"
	"rentcar/pkg/model"
)

type NotificationHandler struct {
	service service.NotificationService
	log     *logger.Logger
}

func NewNotificationHandler(service service.NotificationService, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

func (h *NotificationHandler) GetByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	notifications, err := h.service.GetByUser(r.Context(), ps.ByName("userId"))
	if err != nil {
		h.writeError(w, "GetByUser", err)
		return
	}
	if err := httputil.WriteSuccess(w, notifications); err != nil {
		h.log.Error("failed to write response", "handler", "GetByUser", "error", err)
	}
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var notification model.Notification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &notification); err != nil {
		h.writeError(w, "Create", err)
		return
	}
	if err := httputil.WriteCreated(w, notification); err != nil {
		h.log.Error("failed to write response", "handler", "Create", "error", err)
	}
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	notification, err := h.service.MarkRead(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "MarkRead", err)
		return
	}
	if err := httputil.WriteSuccess(w, notification); err != nil {
		h.log.Error("failed to write response", "handler", "MarkRead", "error", err)
	}
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/notifications/:userId", h.GetByUser)
	router.POST("/api/notifications", h.Create)
	router.PUT("/api/notifications/:id/read", h.MarkRead)
}
