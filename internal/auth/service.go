// Package auth verifies caller identity and issues signed access tokens. The
// rest of the system only ever sees the verified principal name it yields.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	pkgerrors "medrec/pkg/errors"
)

// Service authenticates username/password pairs against a seeded credential
// set and exchanges them for signed tokens.
type Service struct {
	jwt   *JWTService
	users map[string][]byte
}

func NewService(jwt *JWTService) *Service {
	return &Service{jwt: jwt, users: make(map[string][]byte)}
}

// Seed registers a user with a bcrypt-hashed password.
func (s *Service) Seed(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.users[username] = hash
	return nil
}

// Authenticate verifies credentials and returns a signed access token.
func (s *Service) Authenticate(username, password string) (string, error) {
	hash, ok := s.users[username]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	return s.jwt.GenerateToken(username)
}
