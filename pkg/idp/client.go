package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

type ClientConfig struct {
	RootURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPClient talks to the identity provider over its JSON admin/auth API.
type HTTPClient struct {
	config     ClientConfig
	httpClient *http.Client
}

func NewHTTPClient(config ClientConfig) *HTTPClient {
	return &HTTPClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type providerErrorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPClient) runRequest(ctx context.Context, method string, pathname string, payload interface{}, response interface{}) error {
	var body *bytes.Buffer
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(jsonData)
	} else {
		body = bytes.NewBuffer(nil)
	}

	url := c.config.RootURL + pathname
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		slog.Error("unexpected error in preparing http request", slog.String("error", err.Error()))
		return err
	}
	if c.config.APIKey != "" {
		req.Header.Set("Api-Key", c.config.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("unexpected error in http call", slog.String("error", err.Error()))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(resp)
	}

	if response != nil {
		if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
			slog.Error("Error decoding response", slog.String("error", err.Error()))
			return err
		}
	}
	return nil
}

func (c *HTTPClient) mapError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusConflict:
		return ErrAccountExists
	case http.StatusNotFound:
		return ErrAccountNotFound
	case http.StatusUnauthorized:
		return ErrNotAuthorized
	}

	var errResp providerErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return &ProviderError{Code: resp.StatusCode, Message: "unexpected provider response"}
	}
	return &ProviderError{
		Code:    resp.StatusCode,
		Message: SanitizeProviderMessage(errResp.Error),
	}
}

func (c *HTTPClient) Register(ctx context.Context, email string, password string, attributes Attributes) error {
	attributes.Email = email
	attributes.Status = ""
	payload := struct {
		Email      string     `json:"email"`
		Password   string     `json:"password"`
		Attributes Attributes `json:"attributes"`
	}{
		Email:      email,
		Password:   password,
		Attributes: attributes,
	}
	return c.runRequest(ctx, http.MethodPost, "/accounts", payload, nil)
}

func (c *HTTPClient) ConfirmRegistration(ctx context.Context, email string) error {
	payload := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.runRequest(ctx, http.MethodPost, "/accounts/confirm", payload, nil)
}

func (c *HTTPClient) Authenticate(ctx context.Context, credentials Credentials) (Token, error) {
	var token Token
	err := c.runRequest(ctx, http.MethodPost, "/auth/token", credentials, &token)
	if err != nil {
		return Token{}, err
	}
	token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return token, nil
}

func (c *HTTPClient) UpdateAttributes(ctx context.Context, email string, attributes Attributes) error {
	attributes.Email = email
	attributes.Status = ""
	return c.runRequest(ctx, http.MethodPut, "/accounts/attributes", attributes, nil)
}

func (c *HTTPClient) SetPassword(ctx context.Context, email string, newPassword string, permanent bool) error {
	payload := struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		Permanent bool   `json:"permanent"`
	}{
		Email:     email,
		Password:  newPassword,
		Permanent: permanent,
	}
	return c.runRequest(ctx, http.MethodPut, "/accounts/password", payload, nil)
}

func (c *HTTPClient) ChangePassword(ctx context.Context, accessToken string, oldPassword string, newPassword string) error {
	payload := struct {
		AccessToken string `json:"accessToken"`
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}{
		AccessToken: accessToken,
		OldPassword: oldPassword,
		NewPassword: newPassword,
	}
	return c.runRequest(ctx, http.MethodPut, "/auth/password", payload, nil)
}

func (c *HTTPClient) GlobalSignOut(ctx context.Context, accessToken string) error {
	payload := struct {
		AccessToken string `json:"accessToken"`
	}{AccessToken: accessToken}
	return c.runRequest(ctx, http.MethodPost, "/auth/sign-out", payload, nil)
}

func (c *HTTPClient) DeleteAccount(ctx context.Context, email string) error {
	payload := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.runRequest(ctx, http.MethodDelete, "/accounts", payload, nil)
}

func (c *HTTPClient) DescribeAccount(ctx context.Context, accessToken string) (Attributes, error) {
	var attributes Attributes
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.RootURL+"/accounts/me", nil)
	if err != nil {
		return attributes, err
	}
	if c.config.APIKey != "" {
		req.Header.Set("Api-Key", c.config.APIKey)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("unexpected error in http call", slog.String("error", err.Error()))
		return attributes, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return attributes, c.mapError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&attributes); err != nil {
		slog.Error("Error decoding response", slog.String("error", err.Error()))
		return attributes, err
	}
	return attributes, nil
}
