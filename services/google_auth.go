package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/api/idtoken"

	"github.com/KeshavX3/ERP-2/apperrors"
	"github.com/KeshavX3/ERP-2/models"
	"github.com/KeshavX3/ERP-2/repository"
)

type GoogleSignInRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// tokenVerifier is swapped out in tests.
type tokenVerifier func(ctx context.Context, credential, audience string) (*idtoken.Payload, error)

// GoogleAuthService signs users in with a Google ID token: verified
// accounts are matched by email or Google id, linked when the email is
// already registered, and created pre-verified otherwise.
type GoogleAuthService struct {
	users    repository.UserRepository
	tokens   *TokenService
	clientID string
	verify   tokenVerifier
	now      func() time.Time
}

func NewGoogleAuthService(users repository.UserRepository, tokens *TokenService, clientID string) *GoogleAuthService {
	return &GoogleAuthService{
		users:    users,
		tokens:   tokens,
		clientID: clientID,
		verify:   idtoken.Validate,
		now:      time.Now,
	}
}

func (s *GoogleAuthService) SignIn(ctx context.Context, req *GoogleSignInRequest) (*AuthResult, error) {
	if s.clientID == "" {
		return nil, apperrors.Internal("Google sign-in is not configured", nil)
	}

	payload, err := s.verify(ctx, req.Credential, s.clientID)
	if err != nil {
		return nil, apperrors.Auth("Invalid Google credential")
	}

	googleID, _ := payload.Claims["sub"].(string)
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	if googleID == "" || email == "" {
		return nil, apperrors.Auth("Google credential is missing required claims")
	}
	email = strings.ToLower(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.Internal("Server error during Google sign-in", err)
	}
	if user == nil || errors.Is(err, mongo.ErrNoDocuments) {
		if byGoogle, gerr := s.users.FindByGoogleID(ctx, googleID); gerr == nil {
			user = byGoogle
		}
	}

	if user != nil {
		// Link the Google identity to an existing password account.
		updates := bson.M{}
		if user.GoogleID == "" {
			updates["googleId"] = googleID
		}
		if !user.IsEmailVerified {
			updates["isEmailVerified"] = true
			updates["isActive"] = true
		}
		if user.Avatar == "" && picture != "" {
			updates["avatar"] = picture
		}
		if len(updates) > 0 {
			if err := s.users.Update(ctx, user.ID, updates); err != nil {
				return nil, apperrors.Internal("Server error during Google sign-in", err)
			}
			user.IsEmailVerified = true
			user.IsActive = true
		}
		return s.issueToken(user)
	}

	now := s.now().UTC()
	newUser := models.User{
		Username:        s.usernameFor(ctx, name, email),
		Email:           email,
		Role:            models.RoleUser,
		Avatar:          picture,
		GoogleID:        googleID,
		IsActive:        true,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.users.Create(ctx, &newUser); err != nil {
		return nil, apperrors.Internal("Server error during Google sign-in", err)
	}
	return s.issueToken(&newUser)
}

// usernameFor derives a free username from the Google profile name, or the
// email local part, suffixing digits until one is unclaimed.
func (s *GoogleAuthService) usernameFor(ctx context.Context, name, email string) string {
	base := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return -1
	}, base)
	if len(base) < 3 {
		base = strings.SplitN(email, "@", 2)[0]
		if len(base) < 3 {
			base = "user"
		}
	}
	if len(base) > 24 {
		base = base[:24]
	}

	candidate := base
	for i := 0; i < 20; i++ {
		if _, err := s.users.FindByUsername(ctx, candidate); errors.Is(err, mongo.ErrNoDocuments) {
			return candidate
		}
		candidate = fmt.Sprintf("%s%d", base, s.now().UnixNano()%10000)
	}
	return fmt.Sprintf("%s%d", base, s.now().UnixNano())
}

func (s *GoogleAuthService) issueToken(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID.Hex(), user.Username, user.Role)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token", err)
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}
