package accounts

import (
	"context"
	"errors"

	"github.com/accountdesk/account-backend/pkg/idp"
	"github.com/accountdesk/account-backend/pkg/utils"
)

// Login exchanges username and password for a session token bundle. Unknown
// accounts and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email string, password string) (idp.Token, error) {
	email = utils.SanitizeEmail(email)

	token, err := s.identityProvider.Authenticate(ctx, idp.Credentials{
		AuthFlow: idp.AUTH_FLOW_PASSWORD,
		Username: email,
		Password: password,
	})
	if err != nil {
		if errors.Is(err, idp.ErrAccountNotFound) || errors.Is(err, idp.ErrNotAuthorized) {
			return idp.Token{}, ErrNotAuthorized
		}
		return idp.Token{}, err
	}
	return token, nil
}

// Refresh exchanges a refresh token for a fresh bundle. The provider may
// omit a new refresh token, in which case the old one stays valid.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (idp.Token, error) {
	token, err := s.identityProvider.Authenticate(ctx, idp.Credentials{
		AuthFlow:     idp.AUTH_FLOW_REFRESH_TOKEN,
		RefreshToken: refreshToken,
	})
	if err != nil {
		if errors.Is(err, idp.ErrAccountNotFound) || errors.Is(err, idp.ErrNotAuthorized) {
			return idp.Token{}, ErrNotAuthorized
		}
		return idp.Token{}, err
	}
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}
	return token, nil
}

// Logout revokes every session of the account behind the access token.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	if err := s.identityProvider.GlobalSignOut(ctx, accessToken); err != nil {
		if errors.Is(err, idp.ErrNotAuthorized) || errors.Is(err, idp.ErrAccountNotFound) {
			return ErrNotAuthorized
		}
		return err
	}
	return nil
}
