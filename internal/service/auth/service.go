package auth

import (
	"encoding/base64"
	"errors"
	"strings"

	"log/slog"

	"github.com/Danny-Devs/rocket-app/pkg/config"
	"github.com/Danny-Devs/rocket-app/pkg/crypto"
)

// ErrUnauthorized covers every Basic-auth failure: missing header, wrong
// scheme, bad encoding, or credential mismatch. Callers get no finer detail.
var ErrUnauthorized = errors.New("unauthorized")

// Identity is the verified principal attached to the request context.
type Identity struct {
	Username string
}

// Service verifies HTTP Basic credentials against the configured source.
type Service struct {
	username     string
	passwordHash []byte
	password     string
	logger       *slog.Logger
}

// New constructs a Service from the configured credential source. A bcrypt
// hash takes precedence; the plaintext password is a development fallback.
func New(cfg config.APIConfig, logger *slog.Logger) Service {
	return Service{
		username:     cfg.BasicAuthUser,
		passwordHash: []byte(cfg.BasicAuthPasswordHash),
		password:     cfg.BasicAuthPassword,
		logger:       logger,
	}
}

// Authorize parses an Authorization header value and verifies the embedded
// Basic credentials, returning the identity on success.
func (s Service) Authorize(header string) (Identity, error) {
	username, password, err := decodeBasic(header)
	if err != nil {
		return Identity{}, err
	}
	if err := s.verify(username, password); err != nil {
		return Identity{}, err
	}
	s.logger.Debug("basic auth verified", "user", username)
	return Identity{Username: username}, nil
}

func (s Service) verify(username, password string) error {
	if !crypto.ConstantTimeEquals(username, s.username) {
		return ErrUnauthorized
	}
	if len(s.passwordHash) > 0 {
		if err := crypto.ComparePassword(s.passwordHash, password); err != nil {
			return ErrUnauthorized
		}
		return nil
	}
	if s.password == "" || !crypto.ConstantTimeEquals(password, s.password) {
		return ErrUnauthorized
	}
	return nil
}

// decodeBasic extracts username and password from a Basic scheme header.
func decodeBasic(header string) (string, string, error) {
	if strings.TrimSpace(header) == "" {
		return "", "", ErrUnauthorized
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Basic") {
		return "", "", ErrUnauthorized
	}
	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", "", ErrUnauthorized
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", ErrUnauthorized
	}
	return username, password, nil
}
