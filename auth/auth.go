// Package auth issues and verifies the bearer tokens guarding mutation
// endpoints. Tokens are HMAC-signed with a bounded lifetime; passwords are
// stored as bcrypt hashes.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oyarzun/hoteltv/store"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// SeedAdminUsername is the account provisioned on first start when the user
// table is empty.
const SeedAdminUsername = "admin"

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	users  store.UserStore
	secret []byte
	ttl    time.Duration
}

func NewAuthenticator(users store.UserStore, secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// SeedAdmin provisions the initial admin account when no users exist.
// A no-op when the table already has any user or no password is configured.
func (a *Authenticator) SeedAdmin(password string) error {
	if password == "" {
		return nil
	}
	count, err := a.users.CountUsers()
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}
	if _, err := a.users.CreateUser(SeedAdminUsername, string(hash)); err != nil {
		return fmt.Errorf("failed to create seed admin: %w", err)
	}
	slog.Info("seeded initial admin account", "username", SeedAdminUsername)
	return nil
}

// Login verifies the credentials and issues a signed token. Unknown users
// and wrong passwords both map to ErrInvalidCredentials.
func (a *Authenticator) Login(username, password string) (string, error) {
	user, err := a.users.GetUserByUsername(username)
	if errors.Is(err, store.ErrUserNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// VerifyToken parses and validates a bearer token, returning its claims.
// Malformed, expired, and badly signed tokens all map to ErrInvalidToken.
func (a *Authenticator) VerifyToken(tokenStr string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// HashPassword is the shared bcrypt wrapper used by the provisioning CLI.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
