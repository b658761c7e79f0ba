package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/accountdesk/account-backend/pkg/idp"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	HeaderAuthorization = "Authorization"

	ContextKeyAccountEmail = "accountEmail"
	ContextKeyAccessToken  = "accessToken"
)

// ResolveAccount extracts the bearer token, rejects obviously expired tokens
// locally, and asks the identity provider who the token belongs to. The
// provider is the single authority on token validity; the local parse only
// spares it calls for tokens that already expired.
func ResolveAccount(identityProvider idp.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			slog.Warn("no Authorization token found")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if tokenExpired(token) {
			slog.Warn("expired token rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
			c.Abort()
			return
		}

		attributes, err := identityProvider.DescribeAccount(c.Request.Context(), token)
		if err != nil {
			slog.Warn("token validation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
			c.Abort()
			return
		}

		c.Set(ContextKeyAccessToken, token)
		c.Set(ContextKeyAccountEmail, attributes.Email)
	}
}

// tokenExpired inspects the token claims without verifying the signature.
// Verification happens at the provider; an unparseable token is passed on so
// the provider gives the authoritative answer.
func tokenExpired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func extractToken(c *gin.Context) (string, error) {
	req := c.Request

	var token string
	tokens, ok := req.Header[HeaderAuthorization]
	if ok && len(tokens) > 0 {
		token = tokens[0]
		token = strings.TrimPrefix(token, "Bearer ")
		if len(token) == 0 {
			return token, errors.New("No token found in Authorization header")
		}
	} else {
		return token, errors.New("No Authorization header found")
	}
	return token, nil
}
