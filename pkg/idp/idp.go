// Package idp wraps the remote identity provider's admin and auth HTTP API.
// The provider is the authority for credentials and sessions, the local
// profile store only mirrors attributes.
package idp

import (
	"context"
	"time"
)

// Auth flows accepted by Authenticate.
const (
	AUTH_FLOW_PASSWORD      = "password"
	AUTH_FLOW_REFRESH_TOKEN = "refreshToken"
)

// Account lifecycle states as reported by the provider. An account stays
// PENDING when the post-registration confirmation step did not go through.
const (
	ACCOUNT_STATUS_PENDING  = "PENDING"
	ACCOUNT_STATUS_ACTIVE   = "ACTIVE"
	ACCOUNT_STATUS_DISABLED = "DISABLED"
)

// Attributes carries the identity fields the provider owns. Status is set
// only on responses from the provider, it cannot be written through
// UpdateAttributes.
type Attributes struct {
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Status      string `json:"status,omitempty"`
}

type Credentials struct {
	AuthFlow     string `json:"authFlow"`
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Token is the provider's session bundle. ExpiresAt is stamped by the client
// the moment the bundle is received, so callers never have to interpret
// ExpiresIn relative to an unknown wall clock.
type Token struct {
	IDToken      string    `json:"idToken"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresIn    int       `json:"expiresIn"`
	TokenType    string    `json:"tokenType"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type Client interface {
	Register(ctx context.Context, email string, password string, attributes Attributes) error
	ConfirmRegistration(ctx context.Context, email string) error
	Authenticate(ctx context.Context, credentials Credentials) (Token, error)
	UpdateAttributes(ctx context.Context, email string, attributes Attributes) error
	SetPassword(ctx context.Context, email string, newPassword string, permanent bool) error
	ChangePassword(ctx context.Context, accessToken string, oldPassword string, newPassword string) error
	GlobalSignOut(ctx context.Context, accessToken string) error
	DeleteAccount(ctx context.Context, email string) error
	DescribeAccount(ctx context.Context, accessToken string) (Attributes, error)
}
