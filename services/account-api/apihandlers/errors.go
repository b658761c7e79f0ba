package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/accountdesk/account-backend/pkg/accounts"
	"github.com/gin-gonic/gin"
)

const msgInvalidLogin = "invalid email or password"

// respondError maps service errors onto HTTP responses in one place.
// Provider internals never reach the client; a partial failure returns only
// the correlation id for the support ticket.
func respondError(c *gin.Context, err error) {
	var vErr *accounts.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
		return
	}

	var pErr *accounts.PartialFailureError
	if errors.As(err, &pErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":         "account could not be fully created, please contact support",
			"correlationId": pErr.CorrelationID,
		})
		return
	}

	switch {
	case errors.Is(err, accounts.ErrAccountExists):
		c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
	case errors.Is(err, accounts.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
	case errors.Is(err, accounts.ErrNotAuthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidLogin})
	case errors.Is(err, accounts.ErrInvalidCode):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid verification code"})
	case errors.Is(err, accounts.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many failed attempts"})
	default:
		slog.Error("unexpected error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
