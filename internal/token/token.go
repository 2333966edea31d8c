package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// AccessTTL is the access-token lifetime. Fixed by the cookie contract.
	AccessTTL = 15 * time.Minute
	// RefreshTTL is the refresh-token lifetime and the cache TTL of the
	// server-side session entry.
	RefreshTTL = 7 * 24 * time.Hour
)

// ErrTokenInvalid is returned for any signature, expiry, or claims failure.
var ErrTokenInvalid = errors.New("invalid token")

// Config configures a [Manager]. Zero TTLs fall back to the contract
// defaults; both secrets are required and must be distinct.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Manager signs and verifies the access/refresh token pair. Both tokens are
// HS256 JWTs carrying the user id; they differ only in secret and lifetime.
//
// Manager is immutable after construction and safe for concurrent use.
type Manager struct {
	config Config
}

// Claims is the token payload. UserID is the only application claim.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// NewManager validates cfg and returns a ready Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("token: both secrets are required")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("token: access and refresh secrets must differ")
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = AccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = RefreshTTL
	}
	return &Manager{config: cfg}, nil
}

// IssuePair produces a signed access and refresh token for userID with
// distinct secrets and expirations.
func (m *Manager) IssuePair(userID string) (accessToken, refreshToken string, err error) {
	accessToken, err = m.sign(userID, m.config.AccessSecret, m.config.AccessTTL)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = m.sign(userID, m.config.RefreshSecret, m.config.RefreshTTL)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// IssueAccess produces a new access token only. Used by the refresh flow,
// which does not rotate refresh tokens.
func (m *Manager) IssueAccess(userID string) (string, error) {
	return m.sign(userID, m.config.AccessSecret, m.config.AccessTTL)
}

// VerifyAccess checks signature and expiry against the access secret and
// returns the embedded user id.
func (m *Manager) VerifyAccess(tokenStr string) (string, error) {
	return m.parse(tokenStr, m.config.AccessSecret)
}

// VerifyRefresh checks signature and expiry against the refresh secret and
// returns the embedded user id.
func (m *Manager) VerifyRefresh(tokenStr string) (string, error) {
	return m.parse(tokenStr, m.config.RefreshSecret)
}

func (m *Manager) sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (m *Manager) parse(tokenStr string, secret []byte) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return "", errors.Join(ErrTokenInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrTokenInvalid
	}
	return claims.UserID, nil
}
