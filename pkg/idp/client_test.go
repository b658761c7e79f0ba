package idp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAuthenticate(t *testing.T) {
	t.Run("password flow returns token with absolute expiry", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/token" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			var creds Credentials
			if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
				t.Errorf("should not fail: %v", err)
			}
			if creds.AuthFlow != AUTH_FLOW_PASSWORD {
				t.Errorf("unexpected auth flow: %s", creds.AuthFlow)
			}
			json.NewEncoder(w).Encode(Token{
				IDToken:      "id",
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresIn:    3600,
				TokenType:    "Bearer",
			})
		}))
		defer server.Close()

		client := NewHTTPClient(ClientConfig{RootURL: server.URL, Timeout: time.Second})
		before := time.Now()
		token, err := client.Authenticate(context.Background(), Credentials{
			AuthFlow: AUTH_FLOW_PASSWORD,
			Username: "user@example.com",
			Password: "pw",
		})
		if err != nil {
			t.Errorf("should not fail: %v", err)
			return
		}
		if token.AccessToken != "access" {
			t.Errorf("unexpected token: %v", token)
		}
		if token.ExpiresAt.Before(before.Add(3599 * time.Second)) {
			t.Errorf("expiry not stamped as absolute time: %v", token.ExpiresAt)
		}
	})

	t.Run("unauthorized maps to sentinel", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewHTTPClient(ClientConfig{RootURL: server.URL, Timeout: time.Second})
		_, err := client.Authenticate(context.Background(), Credentials{AuthFlow: AUTH_FLOW_PASSWORD})
		if err != ErrNotAuthorized {
			t.Errorf("expected ErrNotAuthorized, got: %v", err)
		}
	})
}

func TestRegister(t *testing.T) {
	t.Run("conflict maps to exists", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer server.Close()

		client := NewHTTPClient(ClientConfig{RootURL: server.URL, Timeout: time.Second})
		err := client.Register(context.Background(), "user@example.com", "pw", Attributes{Name: "User"})
		if err != ErrAccountExists {
			t.Errorf("expected ErrAccountExists, got: %v", err)
		}
	})

	t.Run("api key header is sent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Api-Key") != "secret" {
				t.Errorf("missing api key header")
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewHTTPClient(ClientConfig{RootURL: server.URL, APIKey: "secret", Timeout: time.Second})
		if err := client.Register(context.Background(), "user@example.com", "pw", Attributes{}); err != nil {
			t.Errorf("should not fail: %v", err)
		}
	})
}

func TestDescribeAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(Attributes{Email: "user@example.com", Name: "User", Status: ACCOUNT_STATUS_ACTIVE})
	}))
	defer server.Close()

	client := NewHTTPClient(ClientConfig{RootURL: server.URL, Timeout: time.Second})

	attributes, err := client.DescribeAccount(context.Background(), "access")
	if err != nil {
		t.Errorf("should not fail: %v", err)
	}
	if attributes.Email != "user@example.com" {
		t.Errorf("unexpected attributes: %v", attributes)
	}
	if attributes.Status != ACCOUNT_STATUS_ACTIVE {
		t.Errorf("unexpected status: %s", attributes.Status)
	}

	_, err = client.DescribeAccount(context.Background(), "wrong")
	if err != ErrNotAuthorized {
		t.Errorf("expected ErrNotAuthorized, got: %v", err)
	}
}

func TestProviderErrorSanitized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid parameter (Service: IdentityService; Status: 400)"})
	}))
	defer server.Close()

	client := NewHTTPClient(ClientConfig{RootURL: server.URL, Timeout: time.Second})
	err := client.ConfirmRegistration(context.Background(), "user@example.com")

	var pErr *ProviderError
	if !errors.As(err, &pErr) {
		t.Errorf("expected ProviderError, got: %v", err)
		return
	}
	if pErr.Message != "Invalid parameter" {
		t.Errorf("message not sanitized: %s", pErr.Message)
	}
}
