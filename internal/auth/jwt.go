package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("missing authorization token")
	ErrWrongKind    = errors.New("token is of the wrong kind")
)

// Token kinds. An access token cannot be used to refresh and a refresh
// token cannot call the API.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

const issuer = "salvo"

// Claims holds the JWT payload. ClientID names the bot client the token was
// issued to.
type Claims struct {
	ClientID string `json:"client_id"`
	Kind     string `json:"kind"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates HMAC-signed tokens.
type JWTManager struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewJWTManager creates a JWTManager with 15 minute access tokens and
// 7 day refresh tokens.
func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{
		secret:        []byte(secret),
		accessExpiry:  15 * time.Minute,
		refreshExpiry: 7 * 24 * time.Hour,
		now:           time.Now,
	}
}

func (m *JWTManager) sign(clientID, kind string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := &Claims{
		ClientID: clientID,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// GenerateAccessToken creates a short-lived token for API calls.
func (m *JWTManager) GenerateAccessToken(clientID string) (string, error) {
	return m.sign(clientID, KindAccess, m.accessExpiry)
}

// GenerateRefreshToken creates a long-lived token that can only mint new pairs.
func (m *JWTManager) GenerateRefreshToken(clientID string) (string, error) {
	return m.sign(clientID, KindRefresh, m.refreshExpiry)
}

// ValidateToken parses a token and checks its signature, expiry, issuer and kind.
func (m *JWTManager) ValidateToken(tokenStr, kind string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ClientID == "" {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrWrongKind
	}
	return claims, nil
}

// TokenPair holds an access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // seconds
}

// GenerateTokenPair creates both tokens for a client.
func (m *JWTManager) GenerateTokenPair(clientID string) (*TokenPair, error) {
	access, err := m.GenerateAccessToken(clientID)
	if err != nil {
		return nil, err
	}
	refresh, err := m.GenerateRefreshToken(clientID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(m.accessExpiry.Seconds()),
	}, nil
}
