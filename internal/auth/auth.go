// Package auth is the authentication capability: session identity,
// auth-state change notification, and the sign-in / sign-up /
// password-reset operations. Provider error codes map to a fixed
// table of user-facing messages; anything unmapped falls back to a
// generic line.
package auth

import (
	"context"
	"errors"
)

// Code identifies a provider error condition.
type Code string

const (
	CodeWeakPassword      Code = "auth/weak-password"
	CodeEmailInUse        Code = "auth/email-already-in-use"
	CodeInvalidEmail      Code = "auth/invalid-email"
	CodeInvalidCredential Code = "auth/invalid-credential"
)

const fallbackMessage = "An error occurred. Please try again"

var messages = map[Code]string{
	CodeWeakPassword:      "The password is too weak.",
	CodeEmailInUse:        "The email address is already taken",
	CodeInvalidEmail:      "The email address you entered is not valid.",
	CodeInvalidCredential: "Incorrect username or password.",
}

// Error is a provider error carrying its code.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

// Message maps any error to its fixed user-facing string. Unknown
// codes and non-provider errors yield the generic fallback.
func Message(err error) string {
	var provider *Error
	if errors.As(err, &provider) {
		if msg, ok := messages[provider.Code]; ok {
			return msg
		}
	}
	return fallbackMessage
}

// Profile is the merchant profile captured at registration.
type Profile struct {
	BusinessName string
	PhoneNumber  string
}

// Service is the authentication capability consumed by screens and
// data-sync feeds.
type Service interface {
	// CurrentUserID returns the signed-in owner id, or "" when signed
	// out.
	CurrentUserID() string

	// OnAuthStateChange registers fn and invokes it immediately with
	// the current identity, then again on every sign-in and sign-out.
	// The returned function removes the listener.
	OnAuthStateChange(fn func(uid string)) (unsubscribe func())

	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string, profile Profile) error
	SignOut() error
	SendPasswordReset(ctx context.Context, email string) error
}
