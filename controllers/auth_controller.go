package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KeshavX3/ERP-2/apperrors"
	"github.com/KeshavX3/ERP-2/middleware"
	"github.com/KeshavX3/ERP-2/services"
)

type AuthController struct {
	authService   *services.AuthService
	googleService *services.GoogleAuthService
}

func NewAuthController(authService *services.AuthService, googleService *services.GoogleAuthService) *AuthController {
	return &AuthController{authService: authService, googleService: googleService}
}

func (ac *AuthController) Register(ctx *gin.Context) {
	var req services.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	result, err := ac.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":           "Registration initiated. Please check your email for verification code.",
		"userId":            result.UserID,
		"email":             result.Email,
		"needsVerification": result.NeedsVerification,
	})
}

func (ac *AuthController) Login(ctx *gin.Context) {
	var req services.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	result, err := ac.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

func (ac *AuthController) VerifyEmail(ctx *gin.Context) {
	var req services.VerifyEmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	result, err := ac.authService.VerifyEmail(ctx.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Email verified successfully",
		"token":   result.Token,
		"user":    result.User,
	})
}

func (ac *AuthController) ResendOTP(ctx *gin.Context) {
	var req services.ResendOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	if err := ac.authService.ResendOTP(ctx.Request.Context(), &req); err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "New verification code sent"})
}

func (ac *AuthController) GoogleSignIn(ctx *gin.Context) {
	var req services.GoogleSignInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	result, err := ac.googleService.SignIn(ctx.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

func (ac *AuthController) Me(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	user, serviceErr := ac.authService.Me(ctx.Request.Context(), userID)
	if serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

func (ac *AuthController) UpdateProfile(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req services.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}

	user, serviceErr := ac.authService.UpdateProfile(ctx.Request.Context(), userID, &req)
	if serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

// Logout clears the session cart; the token simply expires client-side.
func (ac *AuthController) Logout(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	if serviceErr := ac.authService.Logout(ctx.Request.Context(), userID); serviceErr != nil {
		apperrors.Respond(ctx, serviceErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
