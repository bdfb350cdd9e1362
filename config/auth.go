package config

import "time"

const (
	minJWTSecretLen = 32

	minBcryptCost     = 4
	maxBcryptCost     = 31
	defaultBcryptCost = 10

	defaultTokenTTL = 7 * 24 * time.Hour
)

// AuthConfig groups token signing and password hashing configuration.
type AuthConfig struct {
	// JWTSecret is the HMAC key used to sign authToken cookies.
	// Required outside dev mode; dev mode generates a random key per process.
	JWTSecret string `env:"JWT_SECRET"`

	// TokenTTL is the lifetime of issued tokens and of the authToken cookie.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"168h"`

	// BcryptCost is the work factor used when hashing new passwords.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

// Sanitize clamps token lifetime and bcrypt cost to usable values.
func (a *AuthConfig) Sanitize() {
	if a.TokenTTL <= 0 {
		a.TokenTTL = defaultTokenTTL
	}
	if a.BcryptCost == 0 {
		a.BcryptCost = defaultBcryptCost
	}
	if a.BcryptCost < minBcryptCost {
		a.BcryptCost = minBcryptCost
	}
	if a.BcryptCost > maxBcryptCost {
		a.BcryptCost = maxBcryptCost
	}
}
