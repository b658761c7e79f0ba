package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/accountdesk/account-backend/pkg/accounts"
	mw "github.com/accountdesk/account-backend/pkg/apihelpers/middlewares"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) AddAuthAPI(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", mw.RequirePayload(), h.login)
		authGroup.POST("/token/refresh", mw.RequirePayload(), h.refreshToken)
		authGroup.GET("/logout", mw.ResolveAccount(h.identityProvider), h.logout)
	}
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *HttpEndpoints) login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email == "" || req.Password == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	token, err := h.accountService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login attempt failed", slog.String("email", req.Email), slog.String("error", err.Error()))
		if errors.Is(err, accounts.ErrNotAuthorized) {
			randomWait(1, 5)
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidLogin})
			return
		}
		// provider outage or similar, not a credential problem
		respondError(c, err)
		return
	}

	slog.Info("login successful", slog.String("email", req.Email))
	c.JSON(http.StatusOK, token)
}

type RefreshTokenReq struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *HttpEndpoints) refreshToken(c *gin.Context) {
	var req RefreshTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.RefreshToken == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	token, err := h.accountService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		slog.Warn("token refresh failed", slog.String("error", err.Error()))
		if errors.Is(err, accounts.ErrNotAuthorized) {
			randomWait(1, 5)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

func (h *HttpEndpoints) logout(c *gin.Context) {
	token, err := currentAccessToken(c)
	if err != nil {
		slog.Error("could not get access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := h.accountService.Logout(c.Request.Context(), token); err != nil {
		slog.Warn("logout failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
