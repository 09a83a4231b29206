package activity

import "errors"

// Configuration errors. The HTTP layer maps these to 400.
var (
	ErrMissingWallet = errors.New("wallet is required")
	ErrNoCredential  = errors.New("provider api key is not configured")
)

// IsConfigurationError reports whether err is a request/configuration
// validation failure rather than an upstream one.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrMissingWallet) || errors.Is(err, ErrNoCredential)
}
