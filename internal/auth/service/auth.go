package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	autherrors "rentcar/internal/auth/errors"
	"rentcar/internal/auth/repository"
	"rentcar/internal/auth/validator"
	userserrors "rentcar/internal/users/errors"
	usersrepo "rentcar/internal/users/repository"
	"rentcar/pkg/config"
	apperrors "rentcar/pkg/errors"
	"rentcar/pkg/mail"
	"rentcar/pkg/model"
	"rentcar/pkg/sanitizer"
)

const bcryptCost = 10

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`
}

// OTPDispatched is the response for register and forgot-password: the code
// went out by email, nothing was persisted to the users collection yet.
type OTPDispatched struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*OTPDispatched, error)
	VerifyOTP(ctx context.Context, email, code string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	ForgotPassword(ctx context.Context, email string) (*OTPDispatched, error)
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	// CleanupExpired deletes OTPs past their expiry and returns the count.
	CleanupExpired(ctx context.Context) (int64, error)
}

type authService struct {
	otpRepo  repository.OTPRepository
	userRepo usersrepo.UserRepository
	sender   mail.Sender
	cfg      *config.Config
}

func NewAuthService(otpRepo repository.OTPRepository, userRepo usersrepo.UserRepository, sender mail.Sender, cfg *config.Config) AuthService {
	return &authService{
		otpRepo:  otpRepo,
		userRepo: userRepo,
		sender:   sender,
		cfg:      cfg,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*OTPDispatched, error) {
	if msg := validator.ValidateName(req.Name); msg != "" {
		return nil, apperrors.Validation(msg, nil)
	}
	if msg := validator.ValidateEmail(req.Email); msg != "" {
		return nil, apperrors.Validation(msg, nil)
	}
	if msg := validator.ValidatePassword(req.Password); msg != "" {
		return nil, apperrors.Validation(msg, nil)
	}
	if msg := validator.ValidatePhone(req.Phone); msg != "" {
		return nil, apperrors.Validation(msg, nil)
	}

	email := sanitizer.NormalizeEmail(req.Email)
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, apperrors.Validation("Invalid role", nil)
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.InvalidInput("User already exists with this email")
	} else if !errors.Is(err, userserrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to check existing user", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to send OTP. Please try again.", err)
	}

	if _, err := s.otpRepo.FindActiveByEmail(ctx, email, model.OTPRegistration); err == nil {
		return nil, apperrors.InvalidInput("OTP already sent. Please check your email or wait before requesting a new one.")
	} else if !errors.Is(err, autherrors.ErrOTPNotFound) {
		s.cfg.Log.Error("Failed to check existing otp", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to send OTP. Please try again.", err)
	}

	code, err := generateOTP()
	if err != nil {
		s.cfg.Log.Error("Failed to generate otp", "error", err)
		return nil, apperrors.Internal("Failed to send OTP. Please try again.", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		s.cfg.Log.Error("Failed to hash password", "error", err)
		return nil, apperrors.Internal("Failed to send OTP. Please try again.", err)
	}

	otp := &model.OTP{
		Email:     email,
		Code:      code,
		Type:      model.OTPRegistration,
		ExpiresAt: time.Now().Add(s.cfg.OTPTTL),
		UserData: &model.PendingUser{
			Name:     sanitizer.NormalizeName(req.Name),
			Password: string(hashed),
			Phone:    sanitizer.NormalizePhone(req.Phone),
			Role:     role,
		},
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		s.cfg.Log.Error("Failed to store otp", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to send OTP. Please try again.", err)
	}

	if err := s.sender.SendRegistrationOTP(ctx, email, code); err != nil {
		s.cfg.Log.Error("Failed to send registration otp", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to send OTP. Please try again.", err)
	}

	s.cfg.Log.Info("Registration OTP dispatched", "email", email)
	return &OTPDispatched{
		Message: "OTP sent to your email. Please verify to complete registration.",
		Email:   email,
	}, nil
}

func (s *authService) VerifyOTP(ctx context.Context, email, code string) (*model.User, error) {
	if email == "" || code == "" {
		return nil, apperrors.InvalidInput("Email and OTP are required")
	}
	email = sanitizer.NormalizeEmail(email)

	otp, err := s.otpRepo.FindActive(ctx, email, code, model.OTPRegistration)
	if err != nil {
		if errors.Is(err, autherrors.ErrOTPNotFound) {
			return nil, apperrors.InvalidInput("Invalid or expired OTP")
		}
		s.cfg.Log.Error("Failed to look up otp", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to verify OTP. Please try again.", err)
	}
	if otp.UserData == nil {
		s.cfg.Log.Error("Registration otp has no pending user payload", "email", email, "id", otp.ID)
		return nil, apperrors.InvalidInput("Invalid or expired OTP")
	}

	user := &model.User{
		Name:     otp.UserData.Name,
		Email:    otp.Email,
		Password: otp.UserData.Password,
		Phone:    otp.UserData.Phone,
		Role:     otp.UserData.Role,
		Status:   model.UserActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.InvalidInput("User already exists with this email")
		}
		s.cfg.Log.Error("Failed to create user from otp", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to verify OTP. Please try again.", err)
	}

	// The account exists now; a failing delete only leaves a code that can no
	// longer create anything, so log and move on.
	if err := s.otpRepo.Delete(ctx, otp.ID); err != nil {
		s.cfg.Log.Warn("Failed to delete consumed otp", "id", otp.ID, "error", err)
	}

	s.cfg.Log.Info("User registered", "id", user.ID, "email", user.Email, "role", user.Role)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.InvalidInput("Email and password are required")
	}
	email = sanitizer.NormalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("User not found")
		}
		s.cfg.Log.Error("Failed to look up user for login", "email", email, "error", err)
		return nil, apperrors.Internal("Login failed. Please try again.", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.InvalidInput("Invalid password")
	}

	if user.Status != model.UserActive {
		return nil, apperrors.InvalidInput("Your account is not active. Please contact support.")
	}

	s.cfg.Log.Info("User logged in", "id", user.ID, "email", user.Email)
	return user, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) (*OTPDispatched, error) {
	if email == "" {
		return nil, apperrors.InvalidInput("Email is required")
	}
	if msg := validator.ValidateEmail(email); msg != "" {
		return nil, apperrors.Validation(msg, nil)
	}
	email = sanitizer.NormalizeEmail(email)

	if _, err := s.userRepo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("No account found with this email address")
		}
		s.cfg.Log.Error("Failed to check user for password reset", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to send password reset OTP. Please try again.", err)
	}

	if _, err := s.otpRepo.FindActiveByEmail(ctx, email, model.OTPPasswordReset); err == nil {
		return nil, apperrors.InvalidInput("Password reset OTP already sent. Please check your email or wait before requesting a new one.")
	} else if !errors.Is(err, autherrors.ErrOTPNotFound) {
		s.cfg.Log.Error("Failed to check existing reset otp", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to send password reset OTP. Please try again.", err)
	}

	code, err := generateOTP()
	if err != nil {
		s.cfg.Log.Error("Failed to generate otp", "error", err)
		return nil, apperrors.Internal("Failed to send password reset OTP. Please try again.", err)
	}

	otp := &model.OTP{
		Email:     email,
		Code:      code,
		Type:      model.OTPPasswordReset,
		ExpiresAt: time.Now().Add(s.cfg.OTPTTL),
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		s.cfg.Log.Error("Failed to store reset otp", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to send password reset OTP. Please try again.", err)
	}

	if err := s.sender.SendPasswordResetOTP(ctx, email, code); err != nil {
		s.cfg.Log.Error("Failed to send reset otp", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to send password reset OTP. Please try again.", err)
	}

	s.cfg.Log.Info("Password reset OTP dispatched", "email", email)
	return &OTPDispatched{
		Message: "Password reset OTP sent to your email. Please verify to reset your password.",
		Email:   email,
	}, nil
}

func (s *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if email == "" || code == "" || newPassword == "" {
		return apperrors.InvalidInput("Email, OTP, and new password are required")
	}
	if msg := validator.ValidatePassword(newPassword); msg != "" {
		return apperrors.Validation(msg, nil)
	}
	email = sanitizer.NormalizeEmail(email)

	otp, err := s.otpRepo.FindActive(ctx, email, code, model.OTPPasswordReset)
	if err != nil {
		if errors.Is(err, autherrors.ErrOTPNotFound) {
			return apperrors.InvalidInput("Invalid or expired OTP")
		}
		s.cfg.Log.Error("Failed to look up reset otp", "email", email, "error", err)
		return apperrors.Internal("Failed to reset password. Please try again.", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.InvalidInput("User not found")
		}
		s.cfg.Log.Error("Failed to look up user for reset", "email", email, "error", err)
		return apperrors.Internal("Failed to reset password. Please try again.", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		s.cfg.Log.Error("Failed to hash new password", "error", err)
		return apperrors.Internal("Failed to reset password. Please try again.", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		s.cfg.Log.Error("Failed to update password", "id", user.ID, "error", err)
		return apperrors.Internal("Failed to reset password. Please try again.", err)
	}

	if err := s.otpRepo.Delete(ctx, otp.ID); err != nil {
		s.cfg.Log.Warn("Failed to delete consumed otp", "id", otp.ID, "error", err)
	}

	s.cfg.Log.Info("Password reset", "id", user.ID, "email", email)
	return nil
}

func (s *authService) CleanupExpired(ctx context.Context) (int64, error) {
	deleted, err := s.otpRepo.DeleteExpired(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to clean up expired otps", "error", err)
		return 0, apperrors.Internal("Failed to clean up expired OTPs", err)
	}
	if deleted > 0 {
		s.cfg.Log.Info("Cleaned up expired otps", "count", deleted)
	}
	return deleted, nil
}

// generateOTP returns a 6-digit code in [100000, 999999].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
