package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pravacash/internal/models"
)

// Claims is the JWT payload issued by the external auth collaborator. The
// service only verifies it; credentials are never checked here.
type Claims struct {
	OwnerID string `json:"owner_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService verifies (and, for tooling and tests, issues) owner tokens.
type TokenService struct {
	secret []byte
}

// NewTokenService returns configured token service.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token carrying the given identity.
func (t *TokenService) Issue(ident models.Identity, ttl time.Duration) (string, error) {
	if ident.OwnerID == "" {
		return "", errors.New("token: owner id is required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	now := time.Now().UTC()
	claims := Claims{
		OwnerID: ident.OwnerID,
		Role:    ident.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify decodes the token and returns the identity it asserts.
func (t *TokenService) Verify(tokenString string) (models.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("token: unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return models.Identity{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.OwnerID == "" {
		return models.Identity{}, errors.New("token: invalid claims")
	}

	role := claims.Role
	if role == "" {
		role = models.RoleUser
	}
	return models.Identity{OwnerID: claims.OwnerID, Role: role}, nil
}
