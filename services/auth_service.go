package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/KeshavX3/ERP-2/apperrors"
	"github.com/KeshavX3/ERP-2/models"
	"github.com/KeshavX3/ERP-2/repository"
)

var (
	usernameFormat = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	emailFormat    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

type ResendOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

type UpdateProfileRequest struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// RegisterResult is returned before the email is verified; no token yet.
type RegisterResult struct {
	UserID            primitive.ObjectID `json:"userId"`
	Email             string             `json:"email"`
	NeedsVerification bool               `json:"needsVerification"`
}

// AuthResult carries a signed token and the sanitized user.
type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// AuthService covers registration, email verification, login, Google
// sign-in linking and profile management.
type AuthService struct {
	users  repository.UserRepository
	carts  repository.CartStore
	tokens *TokenService
	mailer *Mailer
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, carts repository.CartStore, tokens *TokenService, mailer *Mailer) *AuthService {
	return &AuthService{
		users:  users,
		carts:  carts,
		tokens: tokens,
		mailer: mailer,
		now:    time.Now,
	}
}

// Register creates an inactive, unverified account and mails it an OTP.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResult, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !usernameFormat.MatchString(username) {
		return nil, apperrors.Validation("Username must be 3-30 characters of letters, numbers, and underscores")
	}
	if !emailFormat.MatchString(email) {
		return nil, apperrors.Validation("Please enter a valid email")
	}
	if len(req.Password) < 6 {
		return nil, apperrors.Validation("Password must be at least 6 characters long")
	}

	if existing, err := s.users.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.Validation("Email already registered")
	}
	if existing, err := s.users.FindByUsername(ctx, username); err == nil && existing != nil {
		return nil, apperrors.Validation("Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Server error during registration", err)
	}

	now := s.now().UTC()
	otp := GenerateOTP()
	otpExpires := OTPExpiration(now)

	user := models.User{
		Username:             username,
		Email:                email,
		Password:             string(hash),
		Role:                 models.RoleUser,
		IsActive:             false,
		IsEmailVerified:      false,
		EmailVerificationOTP: otp,
		OTPExpires:           &otpExpires,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.Validation("Email already registered")
		}
		return nil, apperrors.Internal("Server error during registration", err)
	}

	go s.mailer.SendOTP(email, username, otp)

	return &RegisterResult{
		UserID:            user.ID,
		Email:             user.Email,
		NeedsVerification: true,
	}, nil
}

// VerifyEmail checks the submitted OTP, activates the account and returns
// a token for immediate login.
func (s *AuthService) VerifyEmail(ctx context.Context, req *VerifyEmailRequest) (*AuthResult, error) {
	if !ValidOTPFormat(req.OTP) {
		return nil, apperrors.Validation("OTP must be 6 digits")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Internal("Server error during verification", err)
	}

	if user.IsEmailVerified {
		return nil, apperrors.Validation("Email is already verified")
	}
	if user.EmailVerificationOTP == "" {
		return nil, apperrors.Validation("No verification code found. Please request a new one")
	}
	if IsOTPExpired(user.OTPExpires, s.now()) {
		return nil, apperrors.Validation("OTP has expired. Please request a new one")
	}
	if user.EmailVerificationOTP != req.OTP {
		return nil, apperrors.Validation("Invalid OTP")
	}

	updates := bson.M{
		"isActive":             true,
		"isEmailVerified":      true,
		"emailVerificationOTP": "",
		"otpExpires":           nil,
	}
	if err := s.users.Update(ctx, user.ID, updates); err != nil {
		return nil, apperrors.Internal("Server error during verification", err)
	}
	user.IsActive = true
	user.IsEmailVerified = true

	go s.mailer.SendWelcome(user.Email, user.Username)

	return s.issueToken(user)
}

// ResendOTP rotates the verification code for an unverified account.
func (s *AuthService) ResendOTP(ctx context.Context, req *ResendOTPRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NotFound("User not found")
		}
		return apperrors.Internal("Server error", err)
	}
	if user.IsEmailVerified {
		return apperrors.Validation("Email is already verified")
	}

	now := s.now().UTC()
	otp := GenerateOTP()
	otpExpires := OTPExpiration(now)
	updates := bson.M{
		"emailVerificationOTP": otp,
		"otpExpires":           otpExpires,
	}
	if err := s.users.Update(ctx, user.ID, updates); err != nil {
		return apperrors.Internal("Server error", err)
	}

	go s.mailer.SendOTP(user.Email, user.Username, otp)
	return nil
}

// Login checks credentials. Unknown email and wrong password report the
// same message so the endpoint does not confirm which emails exist.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.Validation("Invalid credentials")
		}
		return nil, apperrors.Internal("Server error during login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.Validation("Invalid credentials")
	}

	if !user.IsActive || !user.IsEmailVerified {
		return nil, apperrors.Validation("Please verify your email address before logging in")
	}

	return s.issueToken(user)
}

// Logout clears the session-scoped cart. Token invalidation is client-side
// (tokens are short-lived and stateless).
func (s *AuthService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	if s.carts == nil {
		return nil
	}
	if err := s.carts.Clear(ctx, userID.Hex()); err != nil {
		zap.L().Warn("Failed to clear cart on logout",
			zap.String("user_id", userID.Hex()), zap.Error(err))
	}
	return nil
}

// Me returns the sanitized profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID) (*models.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Internal("Server error", err)
	}
	pub := user.Public()
	return &pub, nil
}

// UpdateProfile changes username and avatar only.
func (s *AuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *UpdateProfileRequest) (*models.PublicUser, error) {
	updates := bson.M{}
	if req.Username != "" {
		username := strings.TrimSpace(req.Username)
		if !usernameFormat.MatchString(username) {
			return nil, apperrors.Validation("Username must be 3-30 characters of letters, numbers, and underscores")
		}
		if existing, err := s.users.FindByUsername(ctx, username); err == nil && existing != nil && existing.ID != userID {
			return nil, apperrors.Validation("Username already taken")
		}
		updates["username"] = username
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("Nothing to update")
	}

	if err := s.users.Update(ctx, userID, updates); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Internal("Server error", err)
	}
	return s.Me(ctx, userID)
}

func (s *AuthService) issueToken(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID.Hex(), user.Username, user.Role)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token", err)
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}
