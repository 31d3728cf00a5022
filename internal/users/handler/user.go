package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"rentcar/internal/users/service"
	apperrors "rentcar/pkg/errors"
	httputil "rentcar/pkg/http"
	"rentcar/pkg/logger"
)

type UserHandler struct {
	service service.UserService
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.service.GetAll(r.Context())
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}
	if err := httputil.WriteSuccess(w, users); err != nil {
		h.log.Error("failed to write response", "handler", "GetAll", "error", err)
	}
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write response", "handler", "GetByID", "error", err)
	}
}

func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "UpdateStatus", apperrors.InvalidInput("Invalid request body"))
		return
	}

	user, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), body.Status)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}
	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write response", "handler", "UpdateStatus", "error", err)
	}
}

func (h *UserHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/users", h.GetAll)
	router.GET("/api/users/:id", h.GetByID)
	router.PUT("/api/users/:id/status", h.UpdateStatus)
}
