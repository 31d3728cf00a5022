package service

import (
	"context"
	"io"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	autherrors "rentcar/internal/auth/errors"
	userserrors "rentcar/internal/users/errors"
	"rentcar/pkg/config"
	apperrors "rentcar/pkg/errors"
	"rentcar/pkg/logger"
	"rentcar/pkg/model"
)

// --- Mocks ---

type mockOTPRepo struct {
	createFn            func(ctx context.Context, otp *model.OTP) error
	findActiveFn        func(ctx context.Context, email, code, otpType string) (*model.OTP, error)
	findActiveByEmailFn func(ctx context.Context, email, otpType string) (*model.OTP, error)
	deleteFn            func(ctx context.Context, id string) error
	deleteExpiredFn     func(ctx context.Context) (int64, error)
}

func (m *mockOTPRepo) Create(ctx context.Context, otp *model.OTP) error {
	return m.createFn(ctx, otp)
}

func (m *mockOTPRepo) FindActive(ctx context.Context, email, code, otpType string) (*model.OTP, error) {
	return m.findActiveFn(ctx, email, code, otpType)
}

func (m *mockOTPRepo) FindActiveByEmail(ctx context.Context, email, otpType string) (*model.OTP, error) {
	return m.findActiveByEmailFn(ctx, email, otpType)
}

func (m *mockOTPRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockOTPRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return m.deleteExpiredFn(ctx)
}

type mockUserRepo struct {
	createFn      func(ctx context.Context, user *model.User) error
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	passwords     map[string]string
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.createFn(ctx, user)
}

func (m *mockUserRepo) FindByID(context.Context, string) (*model.User, error) {
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.findByEmailFn(ctx, email)
}

func (m *mockUserRepo) FindByIDs(context.Context, []string) (map[string]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) FindAll(context.Context) ([]*model.User, error) { return nil, nil }

func (m *mockUserRepo) UpdateStatus(context.Context, string, string) error { return nil }

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, hashed string) error {
	if m.passwords == nil {
		m.passwords = make(map[string]string)
	}
	m.passwords[id] = hashed
	return nil
}

type mockSender struct {
	registration []string
	reset        []string
	lastOTP      string
}

func (m *mockSender) SendRegistrationOTP(_ context.Context, email, otp string) error {
	m.registration = append(m.registration, email)
	m.lastOTP = otp
	return nil
}

func (m *mockSender) SendPasswordResetOTP(_ context.Context, email, otp string) error {
	m.reset = append(m.reset, email)
	m.lastOTP = otp
	return nil
}

// --- Helpers ---

func testConfig() *config.Config {
	return &config.Config{
		Log:    logger.New(logger.Config{Output: io.Discard}),
		OTPTTL: 10 * time.Minute,
	}
}

func noUser(context.Context, string) (*model.User, error) {
	return nil, userserrors.ErrNotFound
}

func noActiveOTP(context.Context, string, string) (*model.OTP, error) {
	return nil, autherrors.ErrOTPNotFound
}

func validRegistration() *RegisterRequest {
	return &RegisterRequest{
		Name:     "Jane Doe",
		Email:    "Jane@Gmail.com",
		Password: "Abc12345!",
		Phone:    "+1 555 010 2030",
	}
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus != want {
		t.Fatalf("expected HTTP status %d, got %d (%v)", want, appErr.HTTPStatus, err)
	}
}

// --- Register ---

func TestRegister(t *testing.T) {
	var stored *model.OTP
	otpRepo := &mockOTPRepo{
		createFn: func(_ context.Context, otp *model.OTP) error {
			stored = otp
			return nil
		},
		findActiveByEmailFn: noActiveOTP,
	}
	userRepo := &mockUserRepo{findByEmailFn: noUser}
	sender := &mockSender{}
	svc := NewAuthService(otpRepo, userRepo, sender, testConfig())

	result, err := svc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Email != "jane@gmail.com" {
		t.Errorf("expected normalized email, got %q", result.Email)
	}
	if stored == nil {
		t.Fatal("expected an OTP record to be stored")
	}
	if stored.Type != model.OTPRegistration {
		t.Errorf("expected registration OTP, got %q", stored.Type)
	}
	if len(stored.Code) != 6 {
		t.Errorf("expected a 6-digit code, got %q", stored.Code)
	}
	if stored.UserData == nil {
		t.Fatal("expected the pending user payload on the OTP")
	}
	if stored.UserData.Password == "Abc12345!" {
		t.Error("password must be hashed before storage")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.UserData.Password), []byte("Abc12345!")); err != nil {
		t.Error("stored hash does not match the submitted password")
	}
	if stored.UserData.Role != model.RoleUser {
		t.Errorf("expected default role user, got %q", stored.UserData.Role)
	}
	if len(sender.registration) != 1 || sender.registration[0] != "jane@gmail.com" {
		t.Errorf("expected one registration email to jane@gmail.com, got %v", sender.registration)
	}
	if sender.lastOTP != stored.Code {
		t.Error("emailed code must match the stored code")
	}
}

func TestRegisterExistingEmail(t *testing.T) {
	otpRepo := &mockOTPRepo{
		createFn: func(_ context.Context, _ *model.OTP) error {
			t.Fatal("no OTP may be stored for an existing account")
			return nil
		},
		findActiveByEmailFn: noActiveOTP,
	}
	userRepo := &mockUserRepo{
		findByEmailFn: func(_ context.Context, _ string) (*model.User, error) {
			return &model.User{ID: "64f1a2b3c4d5e6f7a8b9c0d1"}, nil
		},
	}
	svc := NewAuthService(otpRepo, userRepo, &mockSender{}, testConfig())

	_, err := svc.Register(context.Background(), validRegistration())
	assertStatus(t, err, 400)
}

func TestRegisterActiveOTPExists(t *testing.T) {
	otpRepo := &mockOTPRepo{
		findActiveByEmailFn: func(_ context.Context, _, _ string) (*model.OTP, error) {
			return &model.OTP{Email: "jane@gmail.com"}, nil
		},
	}
	userRepo := &mockUserRepo{findByEmailFn: noUser}
	svc := NewAuthService(otpRepo, userRepo, &mockSender{}, testConfig())

	_, err := svc.Register(context.Background(), validRegistration())
	assertStatus(t, err, 400)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *RegisterRequest)
	}{
		{"short name", func(r *RegisterRequest) { r.Name = "J" }},
		{"bad email", func(r *RegisterRequest) { r.Email = "not an email" }},
		{"short password", func(r *RegisterRequest) { r.Password = "Ab1!" }},
		{"no uppercase", func(r *RegisterRequest) { r.Password = "abc12345!" }},
		{"no lowercase", func(r *RegisterRequest) { r.Password = "ABC12345!" }},
		{"no digit", func(r *RegisterRequest) { r.Password = "Abcdefgh!" }},
		{"no special", func(r *RegisterRequest) { r.Password = "Abc123456" }},
		{"bad phone", func(r *RegisterRequest) { r.Phone = "12ab" }},
		{"bad role", func(r *RegisterRequest) { r.Role = "owner" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(&mockOTPRepo{}, &mockUserRepo{findByEmailFn: noUser}, &mockSender{}, testConfig())
			req := validRegistration()
			tt.mutate(req)
			_, err := svc.Register(context.Background(), req)
			assertStatus(t, err, 400)
		})
	}
}

// --- VerifyOTP ---

func TestVerifyOTP(t *testing.T) {
	deleted := []string{}
	otpRepo := &mockOTPRepo{
		findActiveFn: func(_ context.Context, email, code, otpType string) (*model.OTP, error) {
			if email != "jane@gmail.com" || code != "123456" || otpType != model.OTPRegistration {
				return nil, autherrors.ErrOTPNotFound
			}
			return &model.OTP{
				ID:    "64f1a2b3c4d5e6f7a8b9c0aa",
				Email: email,
				Code:  code,
				Type:  otpType,
				UserData: &model.PendingUser{
					Name:     "Jane Doe",
					Password: "$2a$10$hash",
					Role:     model.RoleUser,
				},
			}, nil
		},
		deleteFn: func(_ context.Context, id string) error {
			deleted = append(deleted, id)
			return nil
		},
	}
	var created *model.User
	userRepo := &mockUserRepo{
		createFn: func(_ context.Context, user *model.User) error {
			created = user
			user.ID = "64f1a2b3c4d5e6f7a8b9c0d1"
			return nil
		},
	}
	svc := NewAuthService(otpRepo, userRepo, &mockSender{}, testConfig())

	user, err := svc.VerifyOTP(context.Background(), "Jane@Gmail.com", "123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected a user to be created")
	}
	if user.Name != "Jane Doe" || user.Email != "jane@gmail.com" {
		t.Errorf("user does not match the pending payload: %+v", user)
	}
	if user.Status != model.UserActive {
		t.Errorf("expected new user to be active, got %q", user.Status)
	}
	if len(deleted) != 1 || deleted[0] != "64f1a2b3c4d5e6f7a8b9c0aa" {
		t.Errorf("expected the consumed OTP to be deleted once, got %v", deleted)
	}
}

func TestVerifyOTPInvalidCode(t *testing.T) {
	otpRepo := &mockOTPRepo{
		findActiveFn: func(_ context.Context, _, _, _ string) (*model.OTP, error) {
			return nil, autherrors.ErrOTPNotFound
		},
	}
	userRepo := &mockUserRepo{
		createFn: func(_ context.Context, _ *model.User) error {
			t.Fatal("no user may be created from an invalid code")
			return nil
		},
	}
	svc := NewAuthService(otpRepo, userRepo, &mockSender{}, testConfig())

	_, err := svc.VerifyOTP(context.Background(), "jane@gmail.com", "000000")
	assertStatus(t, err, 400)
	if apperrors.AsAppError(err).Message != "Invalid or expired OTP" {
		t.Errorf("unexpected message: %q", apperrors.AsAppError(err).Message)
	}
}

func TestVerifyOTPMissingFields(t *testing.T) {
	svc := NewAuthService(&mockOTPRepo{}, &mockUserRepo{}, &mockSender{}, testConfig())
	_, err := svc.VerifyOTP(context.Background(), "", "123456")
	assertStatus(t, err, 400)
	_, err = svc.VerifyOTP(context.Background(), "jane@gmail.com", "")
	assertStatus(t, err, 400)
}

func TestVerifyOTPDuplicateUser(t *testing.T) {
	otpRepo := &mockOTPRepo{
		findActiveFn: func(_ context.Context, email, code, otpType string) (*model.OTP, error) {
			return &model.OTP{
				ID:       "64f1a2b3c4d5e6f7a8b9c0aa",
				Email:    email,
				Code:     code,
				Type:     otpType,
				UserData: &model.PendingUser{Name: "Jane Doe", Password: "x", Role: model.RoleUser},
			}, nil
		},
	}
	userRepo := &mockUserRepo{
		createFn: func(_ context.Context, _ *model.User) error {
			return userserrors.ErrDuplicateEmail
		},
	}
	svc := NewAuthService(otpRepo, userRepo, &mockSender{}, testConfig())

	_, err := svc.VerifyOTP(context.Background(), "jane@gmail.com", "123456")
	assertStatus(t, err, 400)
}

// --- Login ---

func TestLogin(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("Abc12345!"), bcrypt.MinCost)
	account := &model.User{
		ID:       "64f1a2b3c4d5e6f7a8b9c0d1",
		Email:    "jane@gmail.com",
		Password: string(hash),
		Status:   model.UserActive,
	}
	userRepo := &mockUserRepo{
		findByEmailFn: func(_ context.Context, email string) (*model.User, error) {
			if email != "jane@gmail.com" {
				return nil, userserrors.ErrNotFound
			}
			return account, nil
		},
	}
	svc := NewAuthService(&mockOTPRepo{}, userRepo, &mockSender{}, testConfig())

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  string
	}{
		{"success", "Jane@Gmail.com", "Abc12345!", ""},
		{"unknown email", "nobody@gmail.com", "Abc12345!", "User not found"},
		{"wrong password", "jane@gmail.com", "Wrong123!", "Invalid password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if user.ID != account.ID {
					t.Errorf("unexpected user: %+v", user)
				}
				return
			}
			assertStatus(t, err, 400)
			if got := apperrors.AsAppError(err).Message; got != tt.wantErr {
				t.Errorf("expected message %q, got %q", tt.wantErr, got)
			}
		})
	}
}

func TestLoginSuspendedAccount(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("Abc12345!"), bcrypt.MinCost)
	userRepo := &mockUserRepo{
		findByEmailFn: func(_ context.Context, _ string) (*model.User, error) {
			return &model.User{Password: string(hash), Status: model.UserSuspended}, nil
		},
	}
	svc := NewAuthService(&mockOTPRepo{}, userRepo, &mockSender{}, testConfig())

	_, err := svc.Login(context.Background(), "jane@gmail.com", "Abc12345!")
	assertStatus(t, err, 400)
	if got := apperrors.AsAppError(err).Message; got != "Your account is not active. Please contact support." {
		t.Errorf("unexpected message: %q", got)
	}
}

// --- Password reset ---

func TestForgotPassword(t *testing.T) {
	var stored *model.OTP
	otpRepo := &mockOTPRepo{
		createFn: func(_ context.Context, otp *model.OTP) error {
			stored = otp
			return nil
		},
		findActiveByEmailFn: noActiveOTP,
	}
	userRepo := &mockUserRepo{
		findByEmailFn: func(_ context.Context, _ string) (*model.User, error) {
			return &model.User{ID: "64f1a2b3c4d5e6f7a8b9c0d1"}, nil
		},
	}
	sender := &mockSender{}
	svc := NewAuthService(otpRepo, userRepo, sender, testConfig())

	result, err := svc.ForgotPassword(context.Background(), "jane@gmail.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Email != "jane@gmail.com" {
		t.Errorf("unexpected email: %q", result.Email)
	}
	if stored == nil || stored.Type != model.OTPPasswordReset {
		t.Fatalf("expected a password reset OTP, got %+v", stored)
	}
	if stored.UserData != nil {
		t.Error("a reset OTP must not carry a pending user payload")
	}
	if len(sender.reset) != 1 {
		t.Errorf("expected one reset email, got %d", len(sender.reset))
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc := NewAuthService(&mockOTPRepo{}, &mockUserRepo{findByEmailFn: noUser}, &mockSender{}, testConfig())
	_, err := svc.ForgotPassword(context.Background(), "nobody@gmail.com")
	assertStatus(t, err, 400)
	if got := apperrors.AsAppError(err).Message; got != "No account found with this email address" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestResetPassword(t *testing.T) {
	deleted := []string{}
	otpRepo := &mockOTPRepo{
		findActiveFn: func(_ context.Context, email, code, otpType string) (*model.OTP, error) {
			if code != "654321" || otpType != model.OTPPasswordReset {
				return nil, autherrors.ErrOTPNotFound
			}
			return &model.OTP{ID: "64f1a2b3c4d5e6f7a8b9c0bb", Email: email, Code: code, Type: otpType}, nil
		},
		deleteFn: func(_ context.Context, id string) error {
			deleted = append(deleted, id)
			return nil
		},
	}
	userRepo := &mockUserRepo{
		findByEmailFn: func(_ context.Context, _ string) (*model.User, error) {
			return &model.User{ID: "64f1a2b3c4d5e6f7a8b9c0d1", Email: "jane@gmail.com"}, nil
		},
	}
	svc := NewAuthService(otpRepo, userRepo, &mockSender{}, testConfig())

	if err := svc.ResetPassword(context.Background(), "jane@gmail.com", "654321", "NewPass123!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hashed := userRepo.passwords["64f1a2b3c4d5e6f7a8b9c0d1"]
	if hashed == "" {
		t.Fatal("expected the password to be updated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte("NewPass123!")); err != nil {
		t.Error("stored hash does not match the new password")
	}
	if len(deleted) != 1 {
		t.Errorf("expected the consumed OTP to be deleted once, got %v", deleted)
	}
}

func TestResetPasswordWeakPassword(t *testing.T) {
	svc := NewAuthService(&mockOTPRepo{}, &mockUserRepo{}, &mockSender{}, testConfig())
	err := svc.ResetPassword(context.Background(), "jane@gmail.com", "654321", "weak")
	assertStatus(t, err, 400)
}

func TestResetPasswordInvalidOTP(t *testing.T) {
	otpRepo := &mockOTPRepo{
		findActiveFn: func(_ context.Context, _, _, _ string) (*model.OTP, error) {
			return nil, autherrors.ErrOTPNotFound
		},
	}
	userRepo := &mockUserRepo{}
	svc := NewAuthService(otpRepo, userRepo, &mockSender{}, testConfig())

	err := svc.ResetPassword(context.Background(), "jane@gmail.com", "000000", "NewPass123!")
	assertStatus(t, err, 400)
	if len(userRepo.passwords) != 0 {
		t.Error("password must not change on an invalid code")
	}
}

// --- Cleanup ---

func TestCleanupExpired(t *testing.T) {
	otpRepo := &mockOTPRepo{
		deleteExpiredFn: func(_ context.Context) (int64, error) {
			return 3, nil
		},
	}
	svc := NewAuthService(otpRepo, &mockUserRepo{}, &mockSender{}, testConfig())

	deleted, err := svc.CleanupExpired(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deletions, got %d", deleted)
	}
}
