package i

import (
	dmn "github.com/gridwalk/gridwalk-api/domain"
)

// Authenticator handles user registration and sign-in.
type Authenticator interface {
	Register(username, password string) error

	// SignIn verifies credentials and returns the user with a signed
	// access token.
	SignIn(username, password string) (*dmn.User, string, error)
}
