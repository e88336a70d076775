package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/KeshavX3/ERP-2/apperrors"
	"github.com/KeshavX3/ERP-2/models"
	"github.com/KeshavX3/ERP-2/repository"
)

// --- Mock user repository ---

type mockUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (m *mockUserRepo) add(user *models.User) *models.User {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = user
	return user
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserRepo) FindByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	for _, u := range m.users {
		if u.GoogleID == googleID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		}
	}
	m.add(user)
	return nil
}

func (m *mockUserRepo) Update(_ context.Context, id primitive.ObjectID, updates bson.M) error {
	u, ok := m.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for key, value := range updates {
		switch key {
		case "isActive":
			u.IsActive = value.(bool)
		case "isEmailVerified":
			u.IsEmailVerified = value.(bool)
		case "emailVerificationOTP":
			u.EmailVerificationOTP = value.(string)
		case "otpExpires":
			if value == nil {
				u.OTPExpires = nil
			} else if expires, ok := value.(time.Time); ok {
				u.OTPExpires = &expires
			}
		case "username":
			u.Username = value.(string)
		case "avatar":
			u.Avatar = value.(string)
		}
	}
	return nil
}

// --- helpers ---

func newTestAuthService(users *mockUserRepo, carts repository.CartStore, now time.Time) *AuthService {
	return &AuthService{
		users:  users,
		carts:  carts,
		tokens: NewTokenService("test-secret"),
		mailer: nil,
		now:    func() time.Time { return now },
	}
}

func seedUnverifiedUser(t *testing.T, repo *mockUserRepo, now time.Time) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	expires := OTPExpiration(now)
	return repo.add(&models.User{
		Username:             "ada",
		Email:                "ada@example.com",
		Password:             string(hash),
		Role:                 models.RoleUser,
		EmailVerificationOTP: "123456",
		OTPExpires:           &expires,
	})
}

func seedVerifiedUser(t *testing.T, repo *mockUserRepo, now time.Time) *models.User {
	t.Helper()
	user := seedUnverifiedUser(t, repo, now)
	user.IsActive = true
	user.IsEmailVerified = true
	user.EmailVerificationOTP = ""
	user.OTPExpires = nil
	return user
}

func assertValidationMessage(t *testing.T, err error, message string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, message, appErr.Message)
}

// --- tests ---

func TestRegisterCreatesUnverifiedAccount(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	repo := newMockUserRepo()
	svc := newTestAuthService(repo, nil, now)

	result, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "grace_h",
		Email:    "Grace@Example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.True(t, result.NeedsVerification)
	assert.Equal(t, "grace@example.com", result.Email, "email is normalized to lowercase")

	stored, err := repo.FindByID(context.Background(), result.UserID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.False(t, stored.IsEmailVerified)
	assert.True(t, ValidOTPFormat(stored.EmailVerificationOTP))
	require.NotNil(t, stored.OTPExpires)
	assert.Equal(t, now.Add(10*time.Minute), *stored.OTPExpires)
	assert.NotEqual(t, "hunter22", stored.Password, "password must be hashed")
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(newMockUserRepo(), nil, time.Now())

	cases := []struct {
		name    string
		req     RegisterRequest
		message string
	}{
		{"short username", RegisterRequest{Username: "ab", Email: "a@b.co", Password: "hunter22"},
			"Username must be 3-30 characters of letters, numbers, and underscores"},
		{"bad username chars", RegisterRequest{Username: "ada lovelace", Email: "a@b.co", Password: "hunter22"},
			"Username must be 3-30 characters of letters, numbers, and underscores"},
		{"bad email", RegisterRequest{Username: "ada", Email: "not-an-email", Password: "hunter22"},
			"Please enter a valid email"},
		{"short password", RegisterRequest{Username: "ada", Email: "a@b.co", Password: "12345"},
			"Password must be at least 6 characters long"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), &tc.req)
			assertValidationMessage(t, err, tc.message)
		})
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	now := time.Now()
	repo := newMockUserRepo()
	seedVerifiedUser(t, repo, now)
	svc := newTestAuthService(repo, nil, now)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "someone_else", Email: "ada@example.com", Password: "hunter22",
	})
	assertValidationMessage(t, err, "Email already registered")

	_, err = svc.Register(context.Background(), &RegisterRequest{
		Username: "ada", Email: "fresh@example.com", Password: "hunter22",
	})
	assertValidationMessage(t, err, "Username already taken")
}

func TestVerifyEmailActivatesAndIssuesToken(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	repo := newMockUserRepo()
	user := seedUnverifiedUser(t, repo, now)
	svc := newTestAuthService(repo, nil, now.Add(5*time.Minute))

	result, err := svc.VerifyEmail(context.Background(), &VerifyEmailRequest{
		Email: "ada@example.com", OTP: "123456",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "ada", result.User.Username)

	stored := repo.users[user.ID]
	assert.True(t, stored.IsActive)
	assert.True(t, stored.IsEmailVerified)
	assert.Empty(t, stored.EmailVerificationOTP, "code is cleared after use")

	claims, err := NewTokenService("test-secret").Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
}

func TestVerifyEmailRejections(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("malformed code", func(t *testing.T) {
		svc := newTestAuthService(newMockUserRepo(), nil, now)
		_, err := svc.VerifyEmail(context.Background(), &VerifyEmailRequest{Email: "ada@example.com", OTP: "12ab56"})
		assertValidationMessage(t, err, "OTP must be 6 digits")
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := newTestAuthService(newMockUserRepo(), nil, now)
		_, err := svc.VerifyEmail(context.Background(), &VerifyEmailRequest{Email: "ghost@example.com", OTP: "123456"})
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.Code)
	})

	t.Run("already verified", func(t *testing.T) {
		repo := newMockUserRepo()
		seedVerifiedUser(t, repo, now)
		svc := newTestAuthService(repo, nil, now)
		_, err := svc.VerifyEmail(context.Background(), &VerifyEmailRequest{Email: "ada@example.com", OTP: "123456"})
		assertValidationMessage(t, err, "Email is already verified")
	})

	t.Run("expired code", func(t *testing.T) {
		repo := newMockUserRepo()
		seedUnverifiedUser(t, repo, now)
		svc := newTestAuthService(repo, nil, now.Add(11*time.Minute))
		_, err := svc.VerifyEmail(context.Background(), &VerifyEmailRequest{Email: "ada@example.com", OTP: "123456"})
		assertValidationMessage(t, err, "OTP has expired. Please request a new one")
	})

	t.Run("wrong code", func(t *testing.T) {
		repo := newMockUserRepo()
		seedUnverifiedUser(t, repo, now)
		svc := newTestAuthService(repo, nil, now)
		_, err := svc.VerifyEmail(context.Background(), &VerifyEmailRequest{Email: "ada@example.com", OTP: "654321"})
		assertValidationMessage(t, err, "Invalid OTP")
	})
}

func TestResendOTPRotatesCode(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	repo := newMockUserRepo()
	user := seedUnverifiedUser(t, repo, now)
	later := now.Add(15 * time.Minute)
	svc := newTestAuthService(repo, nil, later)

	err := svc.ResendOTP(context.Background(), &ResendOTPRequest{Email: "ada@example.com"})
	require.NoError(t, err)

	stored := repo.users[user.ID]
	assert.True(t, ValidOTPFormat(stored.EmailVerificationOTP))
	require.NotNil(t, stored.OTPExpires)
	assert.Equal(t, later.Add(10*time.Minute), *stored.OTPExpires)
}

func TestLogin(t *testing.T) {
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		repo := newMockUserRepo()
		seedVerifiedUser(t, repo, now)
		svc := newTestAuthService(repo, nil, now)

		result, err := svc.Login(context.Background(), &LoginRequest{Email: "Ada@Example.com", Password: "hunter22"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "ada@example.com", result.User.Email)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		repo := newMockUserRepo()
		seedVerifiedUser(t, repo, now)
		svc := newTestAuthService(repo, nil, now)

		_, unknownErr := svc.Login(context.Background(), &LoginRequest{Email: "ghost@example.com", Password: "hunter22"})
		_, wrongErr := svc.Login(context.Background(), &LoginRequest{Email: "ada@example.com", Password: "wrong-pass"})
		assertValidationMessage(t, unknownErr, "Invalid credentials")
		assertValidationMessage(t, wrongErr, "Invalid credentials")
	})

	t.Run("unverified account", func(t *testing.T) {
		repo := newMockUserRepo()
		seedUnverifiedUser(t, repo, now)
		svc := newTestAuthService(repo, nil, now)

		_, err := svc.Login(context.Background(), &LoginRequest{Email: "ada@example.com", Password: "hunter22"})
		assertValidationMessage(t, err, "Please verify your email address before logging in")
	})
}

func TestLogoutClearsCart(t *testing.T) {
	now := time.Now()
	repo := newMockUserRepo()
	user := seedVerifiedUser(t, repo, now)
	carts := &mockCartStore{}
	svc := newTestAuthService(repo, carts, now)

	require.NoError(t, svc.Logout(context.Background(), user.ID))
	assert.Equal(t, []string{user.ID.Hex()}, carts.cleared)
}

func TestUpdateProfile(t *testing.T) {
	now := time.Now()
	repo := newMockUserRepo()
	user := seedVerifiedUser(t, repo, now)
	svc := newTestAuthService(repo, nil, now)

	pub, err := svc.UpdateProfile(context.Background(), user.ID, &UpdateProfileRequest{
		Username: "ada_l", Avatar: "https://cdn.example.com/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada_l", pub.Username)
	assert.Equal(t, "https://cdn.example.com/a.png", pub.Avatar)

	_, err = svc.UpdateProfile(context.Background(), user.ID, &UpdateProfileRequest{})
	assertValidationMessage(t, err, "Nothing to update")
}
