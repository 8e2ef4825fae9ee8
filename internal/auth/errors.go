package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for any login failure. It is
	// deliberately coarse: callers cannot tell an unknown email from a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidSignature means a session token's signature did not verify.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrTokenExpired means a session token is past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMalformed means a token could not be decoded at all.
	ErrTokenMalformed = errors.New("malformed token")

	// ErrResetTokenNotFound means no live reset entry exists for the token.
	ErrResetTokenNotFound = errors.New("reset token not found")

	// ErrResetTokenExpired means the reset entry existed but was past its
	// expiry. The entry is removed when this is reported.
	ErrResetTokenExpired = errors.New("reset token expired")

	// ErrMissingSecret means the signing secret was not configured. This is
	// a startup invariant, never a per-request failure.
	ErrMissingSecret = errors.New("signing secret not configured")
)
