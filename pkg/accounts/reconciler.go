package accounts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/accountdesk/account-backend/pkg/db/profiles"
	"github.com/accountdesk/account-backend/pkg/idp"
	"github.com/accountdesk/account-backend/pkg/utils"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// Register creates the account at the identity provider first, then mirrors
// it into the profile store. A provider conflict means no profile is written.
// A profile write failure after the provider accepted is surfaced as a
// partial failure so operators can reconcile, the provider side is not
// rolled back. Consent codes from the signup request are recorded alongside
// the profile; a consent write failure is logged but does not undo the
// registration.
func (s *Service) Register(ctx context.Context, email string, password string, attributes idp.Attributes, consents []string) error {
	email = utils.SanitizeEmail(email)
	if !utils.CheckEmailFormat(email) {
		return &ValidationError{Field: "email", Reason: "not a valid email address"}
	}
	if !utils.CheckPasswordFormat(password) {
		return &ValidationError{Field: "password", Reason: "does not fulfill password rules"}
	}

	s.locks.Lock(email)
	defer s.locks.Unlock(email)

	if err := s.identityProvider.Register(ctx, email, password, attributes); err != nil {
		if errors.Is(err, idp.ErrAccountExists) {
			return ErrAccountExists
		}
		return err
	}

	// The provider creates accounts unconfirmed; confirmation is an admin
	// step here, not a user one. If it fails the account stays unconfirmed
	// and support re-confirms, registration itself already succeeded.
	if err := s.identityProvider.ConfirmRegistration(ctx, email); err != nil {
		slog.Warn("could not confirm registration at identity provider",
			slog.String("email", email),
			slog.String("error", err.Error()))
	}

	now := time.Now()
	profile := profiles.Profile{
		Email:       email,
		Name:        attributes.Name,
		PhoneNumber: utils.SanitizePhoneNumber(attributes.PhoneNumber),
		CreatedAt:   now,
		UpdatedAt:   now,
		Creator:     email,
		Updater:     email,
	}
	if _, err := s.profileStore.SaveProfile(profile); err != nil {
		pErr := &PartialFailureError{
			Email:         email,
			Step:          "profile-create",
			CorrelationID: uuid.NewString(),
			Err:           err,
		}
		slog.Error("account created at provider but profile write failed",
			slog.String("email", email),
			slog.String("step", pErr.Step),
			slog.String("correlationID", pErr.CorrelationID),
			slog.String("error", err.Error()))
		s.reportPartialFailure(pErr.Step)
		return pErr
	}

	if len(consents) > 0 {
		if err := s.profileStore.SaveAgreeReceives(email, consents); err != nil {
			slog.Warn("could not record signup consents",
				slog.String("email", email),
				slog.String("error", err.Error()))
		}
	}

	s.notifier.AccountCreated(email)
	return nil
}

// Update pushes changed attributes to the identity provider and the profile
// store. A provider failure does not abort the profile update, it is logged
// and the local record still moves forward (the provider copy is advisory
// for these fields).
func (s *Service) Update(ctx context.Context, email string, attributes idp.Attributes) (profiles.Profile, error) {
	s.locks.Lock(email)
	defer s.locks.Unlock(email)

	if err := s.identityProvider.UpdateAttributes(ctx, email, attributes); err != nil {
		slog.Warn("could not update attributes at identity provider",
			slog.String("email", email),
			slog.String("error", err.Error()))
	}

	profile, err := s.profileStore.GetProfile(email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return profiles.Profile{}, ErrNotFound
		}
		return profiles.Profile{}, err
	}

	if attributes.Name != "" {
		profile.Name = attributes.Name
	}
	if attributes.PhoneNumber != "" {
		profile.PhoneNumber = utils.SanitizePhoneNumber(attributes.PhoneNumber)
	}
	profile.UpdatedAt = time.Now()
	profile.Updater = email

	updated, err := s.profileStore.SaveProfile(profile)
	if err != nil {
		return profiles.Profile{}, err
	}

	s.notifier.AccountUpdated(email)
	return updated, nil
}

// ChangePicture updates the profile picture reference. Pictures live only in
// the profile store, the identity provider is not involved.
func (s *Service) ChangePicture(ctx context.Context, email string, picture string) (profiles.Profile, error) {
	s.locks.Lock(email)
	defer s.locks.Unlock(email)

	profile, err := s.profileStore.GetProfile(email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return profiles.Profile{}, ErrNotFound
		}
		return profiles.Profile{}, err
	}

	profile.Picture = picture
	profile.UpdatedAt = time.Now()
	profile.Updater = email

	updated, err := s.profileStore.SaveProfile(profile)
	if err != nil {
		return profiles.Profile{}, err
	}

	s.notifier.AccountUpdated(email)
	return updated, nil
}

// Delete removes the profile synchronously, then revokes sessions and
// deletes the provider account in the background. The caller observes the
// account as gone as soon as the profile delete returns; the provider side
// is best effort and must not be aborted by the caller's context.
func (s *Service) Delete(ctx context.Context, email string, accessToken string) error {
	s.locks.Lock(email)
	defer s.locks.Unlock(email)

	deleted, err := s.profileStore.DeleteProfile(email)
	if err != nil {
		return err
	}
	if deleted < 1 {
		return ErrNotFound
	}

	if err := s.profileStore.DeleteAgreeReceives(email); err != nil {
		slog.Error("could not remove consents of deleted account",
			slog.String("email", email),
			slog.String("error", err.Error()))
	}

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.identityProvider.GlobalSignOut(bgCtx, accessToken); err != nil {
			slog.Error("could not sign out deleted account at identity provider",
				slog.String("email", email),
				slog.String("error", err.Error()))
		}
		if err := s.identityProvider.DeleteAccount(bgCtx, email); err != nil {
			slog.Error("could not delete account at identity provider",
				slog.String("email", email),
				slog.String("error", err.Error()))
		}
	}()

	s.notifier.AccountDeleted(email)
	return nil
}

// Exists reports ErrAccountExists when the email is already taken. Used by
// the signup pre-check.
func (s *Service) Exists(ctx context.Context, email string) error {
	email = utils.SanitizeEmail(email)
	exists, err := s.profileStore.ProfileExists(email)
	if err != nil {
		return err
	}
	if exists {
		return ErrAccountExists
	}
	return nil
}

func (s *Service) Get(ctx context.Context, email string) (profiles.Profile, error) {
	profile, err := s.profileStore.GetProfile(email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return profiles.Profile{}, ErrNotFound
		}
		return profiles.Profile{}, err
	}
	return profile, nil
}

// Consents returns the consent records given by the account at signup.
func (s *Service) Consents(ctx context.Context, email string) ([]profiles.AgreeReceive, error) {
	return s.profileStore.FindAgreeReceivesByEmail(email)
}

func (s *Service) List(ctx context.Context, template profiles.Profile, page int64, limit int64) ([]profiles.Profile, error) {
	return s.profileStore.FindProfiles(template, page, limit)
}

func (s *Service) Count(ctx context.Context, template profiles.Profile) (int64, error) {
	return s.profileStore.CountProfiles(template)
}

// FindByNameAndPhone looks up the account email behind a name and phone
// number pair. The caller has to prove ownership of the phone number first,
// the code is consumed here.
func (s *Service) FindByNameAndPhone(ctx context.Context, name string, phoneNumber string, code string) (profiles.Profile, error) {
	phoneNumber = utils.SanitizePhoneNumber(phoneNumber)
	if err := s.ConfirmAndConsume(ctx, phoneNumber, code); err != nil {
		return profiles.Profile{}, err
	}

	profile, err := s.profileStore.FindProfileByNameAndPhone(name, phoneNumber)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return profiles.Profile{}, ErrNotFound
		}
		return profiles.Profile{}, err
	}
	return profile, nil
}

// ResetPassword sets a new permanent password after the caller proved
// ownership of the account email with a verification code.
func (s *Service) ResetPassword(ctx context.Context, email string, code string, newPassword string) error {
	email = utils.SanitizeEmail(email)
	if !utils.CheckPasswordFormat(newPassword) {
		return &ValidationError{Field: "password", Reason: "does not fulfill password rules"}
	}

	if err := s.ConfirmAndConsume(ctx, email, code); err != nil {
		return err
	}

	exists, err := s.profileStore.ProfileExists(email)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	if err := s.identityProvider.SetPassword(ctx, email, newPassword, true); err != nil {
		if errors.Is(err, idp.ErrAccountNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ChangePassword is the self service variant, authorized by the caller's
// access token instead of a verification code.
func (s *Service) ChangePassword(ctx context.Context, accessToken string, oldPassword string, newPassword string) error {
	if !utils.CheckPasswordFormat(newPassword) {
		return &ValidationError{Field: "password", Reason: "does not fulfill password rules"}
	}

	if err := s.identityProvider.ChangePassword(ctx, accessToken, oldPassword, newPassword); err != nil {
		if errors.Is(err, idp.ErrNotAuthorized) {
			return ErrNotAuthorized
		}
		return err
	}
	return nil
}
