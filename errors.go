package warden

import "errors"

var (
	// ErrAlreadyRegistered is an exported constant or variable used by the identity engine.
	ErrAlreadyRegistered = errors.New("account already registered")
	// ErrNotRegistered is an exported constant or variable used by the identity engine.
	ErrNotRegistered = errors.New("no account registered")
	// ErrNameRequired is an exported constant or variable used by the identity engine.
	ErrNameRequired = errors.New("account name required")
	// ErrPasswordPolicy is an exported constant or variable used by the identity engine.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrPasswordReuse is an exported constant or variable used by the identity engine.
	ErrPasswordReuse = errors.New("new password must be different from current password")
	// ErrSeedLength is an exported constant or variable used by the identity engine.
	ErrSeedLength = errors.New("recovery seed must be 24 words")
	// ErrIncorrectPassword is an exported constant or variable used by the identity engine.
	ErrIncorrectPassword = errors.New("incorrect password")
	// ErrUnauthorized is an exported constant or variable used by the identity engine.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidToken is an exported constant or variable used by the identity engine.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSeedEncrypt is an exported constant or variable used by the identity engine.
	ErrSeedEncrypt = errors.New("seed encryption failed")
	// ErrSeedDecrypt is an exported constant or variable used by the identity engine.
	ErrSeedDecrypt = errors.New("unable to decrypt seed")
	// ErrSeedDerivation is an exported constant or variable used by the identity engine.
	ErrSeedDerivation = errors.New("entropy seed derivation failed")
	// ErrPersist is an exported constant or variable used by the identity engine.
	ErrPersist = errors.New("record persistence failed")
	// ErrSystemPassword is an exported constant or variable used by the identity engine.
	ErrSystemPassword = errors.New("system password propagation failed")
	// ErrSystemCommunication is an exported constant or variable used by the identity engine.
	ErrSystemCommunication = errors.New("system trigger channel failed")
	// ErrTokenIssue is an exported constant or variable used by the identity engine.
	ErrTokenIssue = errors.New("token issuance failed")
	// ErrWalletInit is an exported constant or variable used by the identity engine.
	ErrWalletInit = errors.New("wallet initialization failed")
	// ErrTOTPInvalid is an exported constant or variable used by the identity engine.
	ErrTOTPInvalid = errors.New("invalid totp code")
	// ErrTOTPNotConfigured is an exported constant or variable used by the identity engine.
	ErrTOTPNotConfigured = errors.New("totp not configured")
	// ErrTOTPAlreadyDisabled is an exported constant or variable used by the identity engine.
	ErrTOTPAlreadyDisabled = errors.New("totp already disabled")
	// ErrEngineNotReady is an exported constant or variable used by the identity engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
