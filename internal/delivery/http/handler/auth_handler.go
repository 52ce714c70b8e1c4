package handler

import (
	"net/http"
	"project-pilot/internal/middleware"
	"project-pilot/internal/usecase/user"
	"project-pilot/pkg/utils"
	"time"

	"github.com/gin-gonic/gin"
)

const refreshTokenCookie = "refreshToken"

type AuthHandler struct {
	service       *user.Service
	secureCookies bool
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthHandler(service *user.Service, secureCookies bool, accessTTL, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		service:       service,
		secureCookies: secureCookies,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RegisterRoutes mounts /auth. credentialLimit guards the endpoints that take
// a password or send mail; requireAuth guards the session routes.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth, credentialLimit gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", credentialLimit, h.Register)
		auth.POST("/login", credentialLimit, h.Login)
		auth.GET("/verify-email/:token", h.VerifyEmail)
		auth.POST("/refresh-token", h.RefreshAccessToken)
		auth.POST("/forgot-password", credentialLimit, h.ForgotPassword)
		auth.POST("/reset-password/:token", credentialLimit, h.ResetPassword)

		session := auth.Group("", requireAuth)
		session.POST("/logout", h.Logout)
		session.POST("/resend-email-verification", credentialLimit, h.ResendEmailVerification)
		session.POST("/change-password", credentialLimit, h.ChangePassword)
		session.GET("/current-user", h.CurrentUser)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "User registered successfully and verification email has been sent on your email", gin.H{"user": resp})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.setSessionCookies(c, resp.AccessToken, resp.RefreshToken)
	utils.SuccessResponse(c, http.StatusOK, "User logged in successfully", resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.clearSessionCookies(c)
	utils.SuccessResponse(c, http.StatusOK, "User logged out", gin.H{})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.service.VerifyEmail(c.Request.Context(), c.Param("token")); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Email is verified", gin.H{"isEmailVerified": true})
}

func (h *AuthHandler) ResendEmailVerification(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.service.ResendVerificationEmail(c.Request.Context(), userID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Mail has been sent to your email ID", gin.H{})
}

// RefreshAccessToken accepts the refresh token from the JSON body or, when the
// body carries none, from the refresh token cookie.
func (h *AuthHandler) RefreshAccessToken(c *gin.Context) {
	var req user.RefreshTokenRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(refreshTokenCookie)
	}

	resp, err := h.service.RefreshAccessToken(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.setCookie(c, middleware.AccessTokenCookie, resp.AccessToken, h.accessTTL)
	utils.SuccessResponse(c, http.StatusOK, "Access token refreshed", resp)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req user.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password reset mail has been sent on your mail id", gin.H{})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req user.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), c.Param("token"), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password reset successfully", gin.H{})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req user.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password changed successfully", gin.H{})
}

func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Current user fetched successfully", resp)
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, accessToken, refreshToken string) {
	h.setCookie(c, middleware.AccessTokenCookie, accessToken, h.accessTTL)
	h.setCookie(c, refreshTokenCookie, refreshToken, h.refreshTTL)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	h.setCookie(c, middleware.AccessTokenCookie, "", -time.Second)
	h.setCookie(c, refreshTokenCookie, "", -time.Second)
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", h.secureCookies, true)
}
