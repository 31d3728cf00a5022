package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"rentcar/internal/cars/service"
	apperrors "rentcar/pkg/errors"
	httputil "rentcar/pkg/http"
	"rentcar/pkg/logger"
	"rentcar/pkg/model"
)

type CarHandler struct {
	service service.CarService
	log     *logger.Logger
}

func NewCarHandler(service service.CarService, log *logger.Logger) *CarHandler {
	return &CarHandler{
		service: service,
		log:     log,
	}
}

func (h *CarHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cars, err := h.service.GetAll(r.Context())
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}
	if err := httputil.WriteSuccess(w, cars); err != nil {
		h.log.Error("failed to write response", "handler", "GetAll", "error", err)
	}
}

func (h *CarHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	car, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	if err := httputil.WriteSuccess(w, car); err != nil {
		h.log.Error("failed to write response", "handler", "GetByID", "error", err)
	}
}

func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var car model.Car
	if err := json.NewDecoder(r.Body).Decode(&car); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &car); err != nil {
		h.writeError(w, "Create", err)
		return
	}
	if err := httputil.WriteCreated(w, car); err != nil {
		h.log.Error("failed to write response", "handler", "Create", "error", err)
	}
}

func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.CarUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	car, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}
	if err := httputil.WriteSuccess(w, car); err != nil {
		h.log.Error("failed to write response", "handler", "Update", "error", err)
	}
}

func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *CarHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *CarHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/cars", h.GetAll)
	router.GET("/api/cars/:id", h.GetByID)
	router.POST("/api/cars", h.Create)
	router.PUT("/api/cars/:id", h.Update)
	router.DELETE("/api/cars/:id", h.Delete)
}
