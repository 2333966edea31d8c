package auth

import "errors"

var (
	// ErrUserExists is returned by Signup when the email is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNoRefreshToken is returned when a refresh or logout request
	// carries no refresh token cookie.
	ErrNoRefreshToken = errors.New("no refresh token provided")
	// ErrRefreshMismatch is returned when a presented refresh token is
	// well-formed but does not match the server-side session record.
	ErrRefreshMismatch = errors.New("refresh token mismatch")
)
