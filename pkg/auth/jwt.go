package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/models"
)

// ErrInvalidToken is returned for tokens that fail verification.
var ErrInvalidToken = errors.New("invalid token")

// ErrForbidden is returned when a principal acts on an owner it does not control.
var ErrForbidden = errors.New("forbidden")

// DefaultTokenTTL is how long a session token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the payload of a partner session token.
type Claims struct {
	jwt.RegisteredClaims
	PartnerID string      `json:"partner_id"`
	Role      models.Role `json:"role"`
}

// Principal is the authenticated caller of a request.
type Principal struct {
	PartnerID string
	Role      models.Role
}

// Owner returns the link owner the principal acts as.
func (p Principal) Owner() models.Owner {
	return models.PartnerOwner(p.PartnerID)
}

// IsAdmin reports whether the principal may act on any owner.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// ActingAs resolves the owner a request targets. An empty ownerID means the principal
// itself. Only admins may target other owners, including the starter owner.
func (p Principal) ActingAs(ownerID string) (models.Owner, error) {
	if ownerID == "" || ownerID == p.PartnerID {
		return p.Owner(), nil
	}
	if !p.IsAdmin() {
		return models.Owner{}, ErrForbidden
	}
	return models.ParseOwner(ownerID), nil
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// NewTokenIssuer creates a new TokenIssuer.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

// Issue returns a signed token for the partner and its expiry.
func (t *TokenIssuer) Issue(partnerID string, role models.Role) (string, time.Time, error) {
	now := t.Now()
	expiresAt := now.Add(t.TTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   partnerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		PartnerID: partnerID,
		Role:      role,
	})

	signed, err := token.SignedString(t.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies a token and returns its principal.
func (t *TokenIssuer) Parse(tokenString string) (*Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.Now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.PartnerID == "" {
		return nil, ErrInvalidToken
	}

	return &Principal{PartnerID: claims.PartnerID, Role: claims.Role}, nil
}
