package idp

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
	ErrNotAuthorized   = errors.New("not authorized")
)

// ProviderError carries a provider response the client could not map to one
// of the sentinel errors above.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider error (status %d): %s", e.Code, e.Message)
}

var parentheticalDiagnostics = regexp.MustCompile(` \(.*\)`)

// SanitizeProviderMessage strips the parenthetical diagnostics the provider
// appends to its error messages, so internals are not leaked to API clients.
func SanitizeProviderMessage(msg string) string {
	return parentheticalDiagnostics.ReplaceAllString(msg, "")
}
