package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"rentcar/internal/auth/service"
	apperrors "rentcar/pkg/errors"
	httputil "rentcar/pkg/http"
	"rentcar/pkg/logger"
)

type AuthHandler struct {
	service service.AuthService
	log     *logger.Logger
}

func NewAuthHandler(service service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Register", apperrors.InvalidInput("Invalid request body"))
		return
	}

	result, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}
	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write response", "handler", "Register", "error", err)
	}
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "VerifyOTP", apperrors.InvalidInput("Invalid request body"))
		return
	}

	user, err := h.service.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		h.writeError(w, "VerifyOTP", err)
		return
	}
	if err := httputil.WriteCreated(w, map[string]any{"user": user}); err != nil {
		h.log.Error("failed to write response", "handler", "VerifyOTP", "error", err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Login", apperrors.InvalidInput("Invalid request body"))
		return
	}

	user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}
	if err := httputil.WriteSuccess(w, map[string]any{"user": user}); err != nil {
		h.log.Error("failed to write response", "handler", "Login", "error", err)
	}
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "ForgotPassword", apperrors.InvalidInput("Invalid request body"))
		return
	}

	result, err := h.service.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		h.writeError(w, "ForgotPassword", err)
		return
	}
	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write response", "handler", "ForgotPassword", "error", err)
	}
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "ResetPassword", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		h.writeError(w, "ResetPassword", err)
		return
	}
	body := map[string]string{
		"message": "Password reset successfully. You can now log in with your new password.",
	}
	if err := httputil.WriteSuccess(w, body); err != nil {
		h.log.Error("failed to write response", "handler", "ResetPassword", "error", err)
	}
}

// Cleanup triggers an immediate expired-OTP purge; the same work the
// background sweep does, exposed for external schedulers.
func (h *AuthHandler) Cleanup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	deleted, err := h.service.CleanupExpired(r.Context())
	if err != nil {
		h.writeError(w, "Cleanup", err)
		return
	}
	body := map[string]string{
		"message": fmt.Sprintf("Cleaned up %d expired OTPs", deleted),
	}
	if err := httputil.WriteSuccess(w, body); err != nil {
		h.log.Error("failed to write response", "handler", "Cleanup", "error", err)
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", h.Register)
	router.POST("/api/auth/verify-otp", h.VerifyOTP)
	router.POST("/api/auth/login", h.Login)
	router.POST("/api/auth/forgot-password", h.ForgotPassword)
	router.POST("/api/auth/reset-password", h.ResetPassword)
	router.GET("/api/auth/cleanup", h.Cleanup)
}
