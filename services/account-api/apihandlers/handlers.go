package apihandlers

import (
	"net/http"

	"github.com/accountdesk/account-backend/pkg/accounts"
	"github.com/accountdesk/account-backend/pkg/idp"
	"github.com/gin-gonic/gin"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	accountService   *accounts.Service
	identityProvider idp.Client
}

func NewHTTPHandler(
	accountService *accounts.Service,
	identityProvider idp.Client,
) *HttpEndpoints {
	return &HttpEndpoints{
		accountService:   accountService,
		identityProvider: identityProvider,
	}
}
