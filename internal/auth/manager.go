package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// Claims identifies an admin page session. Tokens live only in page memory.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Config holds admin gate configuration
type Config struct {
	Secret          string
	SecretFile      string
	SigningKey      string
	TokenExpiration time.Duration
}

// Manager compares submitted passwords to the shared secret and issues tokens
type Manager struct {
	mu         sync.RWMutex
	config     Config
	secret     string
	signingKey []byte
}

const (
	RoleAdmin = "admin"
	issuer    = "proposal-box"
)

// NewManager creates the admin gate. A secret file, when set, wins over
// the inline secret.
func NewManager(config Config) (*Manager, error) {
	key := config.SigningKey
	if key == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
		key = base64.StdEncoding.EncodeToString(b)
		log.Warn().Msg("using generated token signing key; admin sessions end on restart")
	}

	m := &Manager{
		config:     config,
		secret:     config.Secret,
		signingKey: []byte(key),
	}

	if config.SecretFile != "" {
		if err := m.LoadSecretFile(config.SecretFile); err != nil {
			return nil, err
		}
	}

	if m.currentSecret() == "" {
		log.Warn().Msg("no admin secret configured; admin login is disabled")
	}

	return m, nil
}

// CheckSecret compares value to the shared secret.
func (m *Manager) CheckSecret(value string) error {
	if value == "" {
		return ErrEmptySecret
	}

	secret := m.currentSecret()
	if secret == "" || subtle.ConstantTimeCompare([]byte(value), []byte(secret)) != 1 {
		return ErrInvalidCredentials
	}

	return nil
}

// GenerateToken issues a signed admin token
func (m *Manager) GenerateToken() (string, time.Time, error) {
	expiration := m.config.TokenExpiration
	if expiration == 0 {
		expiration = time.Hour
	}

	now := time.Now()
	expiresAt := now.Add(expiration)

	claims := &Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken verifies a token issued by GenerateToken
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.signingKey, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != RoleAdmin {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// LoadSecretFile replaces the shared secret with the trimmed file content.
func (m *Manager) LoadSecretFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read secret file: %w", err)
	}

	m.setSecret(strings.TrimSpace(string(data)))
	log.Info().Str("path", path).Msg("admin secret loaded")
	return nil
}

func (m *Manager) setSecret(secret string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secret = secret
}

func (m *Manager) currentSecret() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.secret
}

// Error types
var (
	ErrEmptySecret        = &AuthError{"Password required"}
	ErrInvalidCredentials = &AuthError{"Invalid credentials"}
)

// AuthError represents authentication error
type AuthError struct {
	message string
}

func (e *AuthError) Error() string {
	return e.message
}
