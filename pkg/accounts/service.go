// Package accounts implements the account front door: reconciling register,
// update and delete across the identity provider and the local profile
// store, session issuance, and the proof of ownership verification protocol.
package accounts

import (
	"sync"
	"time"

	"github.com/accountdesk/account-backend/pkg/db/profiles"
	"github.com/accountdesk/account-backend/pkg/db/verifications"
	"github.com/accountdesk/account-backend/pkg/idp"
)

const (
	DEFAULT_CODE_TTL             = 10 * time.Minute
	DEFAULT_MAX_CONFIRM_ATTEMPTS = 10
)

type profileStore interface {
	SaveProfile(profile profiles.Profile) (profiles.Profile, error)
	GetProfile(email string) (profiles.Profile, error)
	ProfileExists(email string) (bool, error)
	DeleteProfile(email string) (int64, error)
	FindProfileByNameAndPhone(name string, phoneNumber string) (profiles.Profile, error)
	FindProfiles(template profiles.Profile, page int64, limit int64) ([]profiles.Profile, error)
	CountProfiles(template profiles.Profile) (int64, error)
	SaveAgreeReceives(email string, codes []string) error
	FindAgreeReceivesByEmail(email string) ([]profiles.AgreeReceive, error)
	DeleteAgreeReceives(email string) error
}

type verificationStore interface {
	UpsertVerification(checker string, code string) error
	GetVerification(checker string) (verifications.VerificationEntry, error)
	DeleteVerification(checker string) error
	AddFailedAttempt(checker string) error
	CountFailedAttempts(checker string) (int64, error)
	DeleteFailedAttempts(checker string) error
}

type notifier interface {
	AccountCreated(email string)
	AccountUpdated(email string)
	AccountDeleted(email string)
}

type Service struct {
	identityProvider   idp.Client
	profileStore       profileStore
	verificationStore  verificationStore
	notifier           notifier
	codeTTL            time.Duration
	maxConfirmAttempts int64

	// OnPartialFailure is called with the failed step name whenever the
	// provider accepted a change but the profile store did not follow.
	// Used to feed the alerting counter, may stay nil.
	OnPartialFailure func(step string)

	locks *keyedLock
	bg    sync.WaitGroup
}

func NewService(
	identityProvider idp.Client,
	profileStore profileStore,
	verificationStore verificationStore,
	notifier notifier,
	codeTTL time.Duration,
	maxConfirmAttempts int64,
) *Service {
	if codeTTL < 1 {
		codeTTL = DEFAULT_CODE_TTL
	}
	if maxConfirmAttempts < 1 {
		maxConfirmAttempts = DEFAULT_MAX_CONFIRM_ATTEMPTS
	}
	return &Service{
		identityProvider:   identityProvider,
		profileStore:       profileStore,
		verificationStore:  verificationStore,
		notifier:           notifier,
		codeTTL:            codeTTL,
		maxConfirmAttempts: maxConfirmAttempts,
		locks:              newKeyedLock(),
	}
}

// WaitForBackgroundTasks blocks until pending best effort provider calls
// finished. Called on shutdown.
func (s *Service) WaitForBackgroundTasks() {
	s.bg.Wait()
}

func (s *Service) reportPartialFailure(step string) {
	if s.OnPartialFailure != nil {
		s.OnPartialFailure(step)
	}
}
