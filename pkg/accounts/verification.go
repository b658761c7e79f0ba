package accounts

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	verificationCodeLength = 6
	codeCharSet            = "1234567890"
)

// generateVerificationCode returns a random numeric code of the fixed width,
// zero padding included by construction.
func generateVerificationCode() (string, error) {
	buffer := make([]byte, verificationCodeLength)
	_, err := rand.Read(buffer)
	if err != nil {
		return "", err
	}

	charsetLength := len(codeCharSet)
	for i := 0; i < verificationCodeLength; i++ {
		buffer[i] = codeCharSet[int(buffer[i])%charsetLength]
	}
	return string(buffer), nil
}

// IssueVerification generates a fresh code for the checker (phone number or
// email), stores it replacing any previous code, and hands it to send for
// delivery. The code never travels back to the API caller; if delivery
// fails the stored entry is removed again so no un-dispatched code lingers.
func (s *Service) IssueVerification(ctx context.Context, checker string, send func(code string) error) error {
	code, err := generateVerificationCode()
	if err != nil {
		return err
	}

	if err := s.verificationStore.UpsertVerification(checker, code); err != nil {
		return err
	}

	if err := send(code); err != nil {
		slog.Error("verification code delivery failed",
			slog.String("checker", checker),
			slog.String("error", err.Error()))
		if dErr := s.verificationStore.DeleteVerification(checker); dErr != nil {
			slog.Error("could not remove undelivered verification code",
				slog.String("checker", checker),
				slog.String("error", dErr.Error()))
		}
		return err
	}
	return nil
}

// Confirm checks a code without consuming it, so it can be presented again
// to the operation it gates. Missing, expired and mismatched codes are
// indistinguishable to the caller.
func (s *Service) Confirm(ctx context.Context, checker string, code string) error {
	return s.confirm(ctx, checker, code, false)
}

// ConfirmAndConsume checks a code and removes it, a second presentation
// fails.
func (s *Service) ConfirmAndConsume(ctx context.Context, checker string, code string) error {
	return s.confirm(ctx, checker, code, true)
}

func (s *Service) confirm(ctx context.Context, checker string, code string, consume bool) error {
	attempts, err := s.verificationStore.CountFailedAttempts(checker)
	if err != nil {
		return err
	}
	if attempts >= s.maxConfirmAttempts {
		// Drop the live code as well, guessing exhausted it.
		if err := s.verificationStore.DeleteVerification(checker); err != nil {
			slog.Error("could not remove verification code after too many attempts",
				slog.String("checker", checker),
				slog.String("error", err.Error()))
		}
		return ErrTooManyAttempts
	}

	entry, err := s.verificationStore.GetVerification(checker)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return s.recordMiss(checker)
		}
		return err
	}

	// The TTL index on the collection only garbage collects, expiry is
	// decided here.
	if time.Since(entry.CreatedAt) > s.codeTTL {
		return s.recordMiss(checker)
	}
	if entry.Code != code {
		return s.recordMiss(checker)
	}

	if consume {
		if err := s.verificationStore.DeleteVerification(checker); err != nil {
			return err
		}
	}
	if err := s.verificationStore.DeleteFailedAttempts(checker); err != nil {
		slog.Error("could not reset failed verification attempts",
			slog.String("checker", checker),
			slog.String("error", err.Error()))
	}
	return nil
}

func (s *Service) recordMiss(checker string) error {
	if err := s.verificationStore.AddFailedAttempt(checker); err != nil {
		slog.Error("could not record failed verification attempt",
			slog.String("checker", checker),
			slog.String("error", err.Error()))
	}
	return ErrInvalidCode
}
