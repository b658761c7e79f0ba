package accounts

import (
	"context"
	"time"

	"github.com/accountdesk/account-backend/pkg/db/profiles"
	"github.com/accountdesk/account-backend/pkg/db/verifications"
	"github.com/accountdesk/account-backend/pkg/idp"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeIdP struct {
	registerErr       error
	confirmErr        error
	authenticateFn    func(credentials idp.Credentials) (idp.Token, error)
	updateErr         error
	setPasswordErr    error
	changePasswordErr error
	globalSignOutErr  error
	deleteErr         error
	describeFn        func(accessToken string) (idp.Attributes, error)

	registerCalls       []string
	confirmCalls        []string
	updateCalls         []string
	setPasswordCalls    []string
	signOutCalls        []string
	deleteCalls         []string
	changePasswordCalls []string
}

func (f *fakeIdP) Register(ctx context.Context, email string, password string, attributes idp.Attributes) error {
	f.registerCalls = append(f.registerCalls, email)
	return f.registerErr
}

func (f *fakeIdP) ConfirmRegistration(ctx context.Context, email string) error {
	f.confirmCalls = append(f.confirmCalls, email)
	return f.confirmErr
}

func (f *fakeIdP) Authenticate(ctx context.Context, credentials idp.Credentials) (idp.Token, error) {
	if f.authenticateFn != nil {
		return f.authenticateFn(credentials)
	}
	return idp.Token{}, nil
}

func (f *fakeIdP) UpdateAttributes(ctx context.Context, email string, attributes idp.Attributes) error {
	f.updateCalls = append(f.updateCalls, email)
	return f.updateErr
}

func (f *fakeIdP) SetPassword(ctx context.Context, email string, newPassword string, permanent bool) error {
	f.setPasswordCalls = append(f.setPasswordCalls, email)
	return f.setPasswordErr
}

func (f *fakeIdP) ChangePassword(ctx context.Context, accessToken string, oldPassword string, newPassword string) error {
	f.changePasswordCalls = append(f.changePasswordCalls, accessToken)
	return f.changePasswordErr
}

func (f *fakeIdP) GlobalSignOut(ctx context.Context, accessToken string) error {
	f.signOutCalls = append(f.signOutCalls, accessToken)
	return f.globalSignOutErr
}

func (f *fakeIdP) DeleteAccount(ctx context.Context, email string) error {
	f.deleteCalls = append(f.deleteCalls, email)
	return f.deleteErr
}

func (f *fakeIdP) DescribeAccount(ctx context.Context, accessToken string) (idp.Attributes, error) {
	if f.describeFn != nil {
		return f.describeFn(accessToken)
	}
	return idp.Attributes{}, nil
}

type fakeProfileStore struct {
	profiles      map[string]profiles.Profile
	agreeReceives map[string][]profiles.AgreeReceive
	saveErr       error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{
		profiles:      map[string]profiles.Profile{},
		agreeReceives: map[string][]profiles.AgreeReceive{},
	}
}

func (f *fakeProfileStore) SaveProfile(profile profiles.Profile) (profiles.Profile, error) {
	if f.saveErr != nil {
		return profile, f.saveErr
	}
	f.profiles[profile.Email] = profile
	return profile, nil
}

func (f *fakeProfileStore) GetProfile(email string) (profiles.Profile, error) {
	profile, ok := f.profiles[email]
	if !ok {
		return profiles.Profile{}, mongo.ErrNoDocuments
	}
	return profile, nil
}

func (f *fakeProfileStore) ProfileExists(email string) (bool, error) {
	_, ok := f.profiles[email]
	return ok, nil
}

func (f *fakeProfileStore) DeleteProfile(email string) (int64, error) {
	if _, ok := f.profiles[email]; !ok {
		return 0, nil
	}
	delete(f.profiles, email)
	return 1, nil
}

func (f *fakeProfileStore) FindProfileByNameAndPhone(name string, phoneNumber string) (profiles.Profile, error) {
	for _, profile := range f.profiles {
		if profile.Name == name && profile.PhoneNumber == phoneNumber {
			return profile, nil
		}
	}
	return profiles.Profile{}, mongo.ErrNoDocuments
}

func (f *fakeProfileStore) FindProfiles(template profiles.Profile, page int64, limit int64) ([]profiles.Profile, error) {
	res := []profiles.Profile{}
	for _, profile := range f.profiles {
		res = append(res, profile)
	}
	return res, nil
}

func (f *fakeProfileStore) CountProfiles(template profiles.Profile) (int64, error) {
	return int64(len(f.profiles)), nil
}

func (f *fakeProfileStore) SaveAgreeReceives(email string, codes []string) error {
	for _, code := range codes {
		f.agreeReceives[email] = append(f.agreeReceives[email], profiles.AgreeReceive{
			Email:    email,
			Code:     code,
			AgreedAt: time.Now(),
		})
	}
	return nil
}

func (f *fakeProfileStore) FindAgreeReceivesByEmail(email string) ([]profiles.AgreeReceive, error) {
	return f.agreeReceives[email], nil
}

func (f *fakeProfileStore) DeleteAgreeReceives(email string) error {
	delete(f.agreeReceives, email)
	return nil
}

type fakeVerificationStore struct {
	entries        map[string]verifications.VerificationEntry
	failedAttempts map[string]int64
}

func newFakeVerificationStore() *fakeVerificationStore {
	return &fakeVerificationStore{
		entries:        map[string]verifications.VerificationEntry{},
		failedAttempts: map[string]int64{},
	}
}

func (f *fakeVerificationStore) UpsertVerification(checker string, code string) error {
	f.entries[checker] = verifications.VerificationEntry{
		Checker:   checker,
		Code:      code,
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeVerificationStore) GetVerification(checker string) (verifications.VerificationEntry, error) {
	entry, ok := f.entries[checker]
	if !ok {
		return verifications.VerificationEntry{}, mongo.ErrNoDocuments
	}
	return entry, nil
}

func (f *fakeVerificationStore) DeleteVerification(checker string) error {
	delete(f.entries, checker)
	return nil
}

func (f *fakeVerificationStore) AddFailedAttempt(checker string) error {
	f.failedAttempts[checker]++
	return nil
}

func (f *fakeVerificationStore) CountFailedAttempts(checker string) (int64, error) {
	return f.failedAttempts[checker], nil
}

func (f *fakeVerificationStore) DeleteFailedAttempts(checker string) error {
	delete(f.failedAttempts, checker)
	return nil
}

type fakeNotifier struct {
	created []string
	updated []string
	deleted []string
}

func (f *fakeNotifier) AccountCreated(email string) { f.created = append(f.created, email) }
func (f *fakeNotifier) AccountUpdated(email string) { f.updated = append(f.updated, email) }
func (f *fakeNotifier) AccountDeleted(email string) { f.deleted = append(f.deleted, email) }

func newTestService(provider *fakeIdP, store *fakeProfileStore, vStore *fakeVerificationStore, n *fakeNotifier) *Service {
	return NewService(provider, store, vStore, n, 10*time.Minute, 3)
}
