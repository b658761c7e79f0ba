package apihandlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/accountdesk/account-backend/pkg/accounts"
	"github.com/accountdesk/account-backend/pkg/idp"
	"github.com/gin-gonic/gin"
)

type unavailableIdP struct{}

func (u *unavailableIdP) Register(ctx context.Context, email string, password string, attributes idp.Attributes) error {
	return &idp.ProviderError{Code: http.StatusBadGateway, Message: "upstream unavailable"}
}

func (u *unavailableIdP) ConfirmRegistration(ctx context.Context, email string) error {
	return &idp.ProviderError{Code: http.StatusBadGateway, Message: "upstream unavailable"}
}

func (u *unavailableIdP) Authenticate(ctx context.Context, credentials idp.Credentials) (idp.Token, error) {
	return idp.Token{}, &idp.ProviderError{Code: http.StatusBadGateway, Message: "upstream unavailable"}
}

func (u *unavailableIdP) UpdateAttributes(ctx context.Context, email string, attributes idp.Attributes) error {
	return &idp.ProviderError{Code: http.StatusBadGateway, Message: "upstream unavailable"}
}

func (u *unavailableIdP) SetPassword(ctx context.Context, email string, newPassword string, permanent bool) error {
	return &idp.ProviderError{Code: http.StatusBadGateway, Message: "upstream unavailable"}
}

func (u *unavailableIdP) ChangePassword(ctx context.Context, accessToken string, oldPassword string, newPassword string) error {
	return &idp.ProviderError{Code: http.StatusBadGateway, Message: "upstream unavailable"}
}

func (u *unavailableIdP) GlobalSignOut(ctx context.Context, accessToken string) error {
	return &idp.ProviderError{Code: http.StatusBadGateway, Message: "upstream unavailable"}
}

func (u *unavailableIdP) DeleteAccount(ctx context.Context, email string) error {
	return &idp.ProviderError{Code: http.StatusBadGateway, Message: "upstream unavailable"}
}

func (u *unavailableIdP) DescribeAccount(ctx context.Context, accessToken string) (idp.Attributes, error) {
	return idp.Attributes{}, &idp.ProviderError{Code: http.StatusBadGateway, Message: "upstream unavailable"}
}

func newAuthTestRouter(provider idp.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	accountService := accounts.NewService(provider, nil, nil, nil, time.Minute, 3)
	h := NewHTTPHandler(accountService, provider)

	router := gin.New()
	h.AddAuthAPI(router.Group("/v1"))
	return router
}

func TestLoginWithUnavailableProvider(t *testing.T) {
	router := newAuthTestRouter(&unavailableIdP{})

	body := bytes.NewBufferString(`{"email": "user@example.com", "password": "Tt1,.Lo%4abc"}`)
	req, _ := http.NewRequest(http.MethodPost, "/v1/auth/login", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// a provider outage is not a credential problem and must not look like one
	if w.Code != http.StatusInternalServerError {
		t.Errorf("unexpected status code: %d", w.Code)
	}
}

func TestRefreshTokenWithUnavailableProvider(t *testing.T) {
	router := newAuthTestRouter(&unavailableIdP{})

	body := bytes.NewBufferString(`{"refreshToken": "some-refresh-token"}`)
	req, _ := http.NewRequest(http.MethodPost, "/v1/auth/token/refresh", body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("unexpected status code: %d", w.Code)
	}
}
