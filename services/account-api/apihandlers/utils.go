package apihandlers

import (
	"errors"
	"math/rand"
	"time"

	mw "github.com/accountdesk/account-backend/pkg/apihelpers/middlewares"
	"github.com/gin-gonic/gin"
)

func randomWait(minTimeSec int, maxTimeSec int) {
	time.Sleep(time.Duration(rand.Intn(maxTimeSec-minTimeSec)+minTimeSec) * time.Second)
}

func currentAccountEmail(c *gin.Context) (string, error) {
	email := c.GetString(mw.ContextKeyAccountEmail)
	if email == "" {
		return "", errors.New("no account resolved for request")
	}
	return email, nil
}

func currentAccessToken(c *gin.Context) (string, error) {
	token := c.GetString(mw.ContextKeyAccessToken)
	if token == "" {
		return "", errors.New("no access token attached to request")
	}
	return token, nil
}
