package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/accountdesk/account-backend/pkg/idp"
)

func TestLogin(t *testing.T) {
	t.Run("passes through the token bundle", func(t *testing.T) {
		provider := &fakeIdP{
			authenticateFn: func(credentials idp.Credentials) (idp.Token, error) {
				if credentials.AuthFlow != idp.AUTH_FLOW_PASSWORD {
					t.Errorf("unexpected auth flow: %s", credentials.AuthFlow)
				}
				if credentials.Username != testEmail {
					t.Errorf("unexpected username: %s", credentials.Username)
				}
				return idp.Token{AccessToken: "access", ExpiresAt: time.Now().Add(time.Hour)}, nil
			},
		}
		s := newTestService(provider, newFakeProfileStore(), newFakeVerificationStore(), &fakeNotifier{})

		token, err := s.Login(context.Background(), "User@Example.com", "pw")
		if err != nil {
			t.Errorf("should not fail: %v", err)
			return
		}
		if token.AccessToken != "access" {
			t.Errorf("unexpected token: %v", token)
		}
	})

	t.Run("unknown account and wrong password look the same", func(t *testing.T) {
		notFound := &fakeIdP{
			authenticateFn: func(credentials idp.Credentials) (idp.Token, error) {
				return idp.Token{}, idp.ErrAccountNotFound
			},
		}
		wrongPassword := &fakeIdP{
			authenticateFn: func(credentials idp.Credentials) (idp.Token, error) {
				return idp.Token{}, idp.ErrNotAuthorized
			},
		}

		s1 := newTestService(notFound, newFakeProfileStore(), newFakeVerificationStore(), &fakeNotifier{})
		s2 := newTestService(wrongPassword, newFakeProfileStore(), newFakeVerificationStore(), &fakeNotifier{})

		_, err1 := s1.Login(context.Background(), testEmail, "pw")
		_, err2 := s2.Login(context.Background(), testEmail, "pw")
		if !errors.Is(err1, ErrNotAuthorized) || !errors.Is(err2, ErrNotAuthorized) {
			t.Errorf("expected uniform ErrNotAuthorized, got: %v / %v", err1, err2)
		}
	})
}

func TestRefresh(t *testing.T) {
	t.Run("keeps the old refresh token if none is returned", func(t *testing.T) {
		provider := &fakeIdP{
			authenticateFn: func(credentials idp.Credentials) (idp.Token, error) {
				if credentials.AuthFlow != idp.AUTH_FLOW_REFRESH_TOKEN {
					t.Errorf("unexpected auth flow: %s", credentials.AuthFlow)
				}
				return idp.Token{AccessToken: "fresh"}, nil
			},
		}
		s := newTestService(provider, newFakeProfileStore(), newFakeVerificationStore(), &fakeNotifier{})

		token, err := s.Refresh(context.Background(), "refresh-token")
		if err != nil {
			t.Errorf("should not fail: %v", err)
			return
		}
		if token.RefreshToken != "refresh-token" {
			t.Errorf("old refresh token should be kept: %v", token)
		}
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		provider := &fakeIdP{
			authenticateFn: func(credentials idp.Credentials) (idp.Token, error) {
				return idp.Token{}, idp.ErrNotAuthorized
			},
		}
		s := newTestService(provider, newFakeProfileStore(), newFakeVerificationStore(), &fakeNotifier{})

		_, err := s.Refresh(context.Background(), "bad")
		if !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("expected ErrNotAuthorized, got: %v", err)
		}
	})
}

func TestLogout(t *testing.T) {
	provider := &fakeIdP{}
	s := newTestService(provider, newFakeProfileStore(), newFakeVerificationStore(), &fakeNotifier{})

	if err := s.Logout(context.Background(), "access"); err != nil {
		t.Errorf("should not fail: %v", err)
	}
	if len(provider.signOutCalls) != 1 {
		t.Error("provider sign out not called")
	}
}
