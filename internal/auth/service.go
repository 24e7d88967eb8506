// Package auth implements registration, login, and stateless session
// tokens. Tokens are signed JWTs carrying user ID, role, and expiry;
// verification is a pure signature-and-expiry check with no store
// lookup.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tasktrack/internal/crypto"
	"tasktrack/internal/password"
	"tasktrack/internal/policy"
	"tasktrack/internal/store"
)

// Password length bounds. The upper bound is bcrypt's 72-byte input limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// Config holds the token-signing configuration. The secret is explicit
// wiring, never hidden package state, so tests can run with distinct
// secrets.
type Config struct {
	// Secret is the process-wide HMAC signing key.
	Secret string

	// TokenTTL is how long issued tokens are valid.
	TokenTTL time.Duration

	// ClockSkew is the leeway allowed when checking token expiry.
	ClockSkew time.Duration
}

// Service is the authentication component: it proves identity and
// carries role forward inside signed tokens.
type Service struct {
	config *Config
	users  store.UserStore
	hasher password.Hasher
}

// NewService creates an authentication service.
func NewService(cfg *Config, users store.UserStore, hasher password.Hasher) *Service {
	return &Service{
		config: cfg,
		users:  users,
		hasher: hasher,
	}
}

// Register creates a new account. The role defaults to "user" for any
// unrecognized value; only the irreversible password hash is stored.
// Returns store.ErrDuplicateEmail when the email is already taken.
func (s *Service) Register(ctx context.Context, name, email, pw, role string) (*store.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || pw == "" {
		return nil, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(pw) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	if len(pw) > MaxPasswordLength {
		return nil, ErrPasswordTooLong
	}

	hash, err := s.hasher.Hash(pw)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &store.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         policy.NormalizeRole(role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAccount creates an account on behalf of an administrator. The
// password is optional; an account created without one has an empty
// hash, which never verifies, so it cannot log in until a password is
// set through some other channel.
func (s *Service) CreateAccount(ctx context.Context, name, email, pw, role string) (*store.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" {
		return nil, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	var hash string
	if pw != "" {
		if len(pw) < MinPasswordLength {
			return nil, ErrWeakPassword
		}
		if len(pw) > MaxPasswordLength {
			return nil, ErrPasswordTooLong
		}
		var err error
		hash, err = s.hasher.Hash(pw)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	now := time.Now()
	user := &store.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         policy.NormalizeRole(role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a signed token. Unknown email
// and hash mismatch return the identical ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, pw string) (string, *store.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := s.hasher.Verify(pw, user.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Verify validates a token string and returns the identity it asserts.
// It is a pure computation: signature check plus expiry comparison.
func (s *Service) Verify(tokenString string) (policy.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalidSig
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithLeeway(s.config.ClockSkew))

	if err != nil {
		return policy.Identity{}, mapJWTError(err)
	}
	if !token.Valid {
		return policy.Identity{}, ErrTokenMalformed
	}

	return claims.Identity(), nil
}

// issueToken signs a token embedding the user's ID, role, and expiry.
func (s *Service) issueToken(user *store.User) (string, error) {
	jti, err := crypto.GenerateID()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := &Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}

// mapJWTError maps JWT library errors to our sentinel errors.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrTokenNotYetValid
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrSignatureInvalid),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenInvalidSig
	default:
		return ErrTokenMalformed
	}
}
