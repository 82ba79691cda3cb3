package security

import (
	"context"
	stderrors "errors"
	"time"

	"firebase-web/internal/shared/errors"
	"firebase-web/internal/web/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of generated tenant tokens.
const DefaultTokenTTL = time.Hour

// TenantClaims carries the tenant and the actor (subject) of a request.
type TenantClaims struct {
	TenantDomain string `json:"tenant_domain,omitempty"`
	TenantEmail  string `json:"tenant_email,omitempty"`
	TenantValue  string `json:"tenant_value,omitempty"`
	jwt.RegisteredClaims
}

// Tenant returns the tenant named by the claims.
func (c *TenantClaims) Tenant() model.TenantID {
	return model.TenantID{Domain: c.TenantDomain, Email: c.TenantEmail, Value: c.TenantValue}
}

// TokenConfig configures a TenantTokenService.
type TokenConfig struct {
	SecretKey string
	Issuer    string
	TTL       time.Duration
}

// TenantTokenService signs and validates HS256 tenant tokens.
type TenantTokenService struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

// NewTenantTokenService creates a token service. A zero TTL uses DefaultTokenTTL.
func NewTenantTokenService(cfg TokenConfig) (*TenantTokenService, error) {
	if cfg.SecretKey == "" {
		return nil, stderrors.New("jwt secret key cannot be empty")
	}
	if cfg.Issuer == "" {
		return nil, stderrors.New("jwt issuer cannot be empty")
	}
	if cfg.TTL < 0 {
		return nil, stderrors.New("jwt token TTL must not be negative")
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTokenTTL
	}
	return &TenantTokenService{
		secretKey: []byte(cfg.SecretKey),
		issuer:    cfg.Issuer,
		ttl:       cfg.TTL,
	}, nil
}

// GenerateToken signs a token for actor acting on behalf of tenant.
func (s *TenantTokenService) GenerateToken(_ context.Context, actor string, tenant model.TenantID) (string, error) {
	if err := tenant.Validate(); err != nil {
		return "", err
	}
	now := time.Now()
	claims := &TenantClaims{
		TenantDomain: tenant.Domain,
		TenantEmail:  tenant.Email,
		TenantValue:  tenant.Value,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
}

// ValidateToken checks the signature, issuer and lifetime of tokenString.
// Failures wrap errors.ErrInvalidToken or errors.ErrTokenExpired.
func (s *TenantTokenService) ValidateToken(_ context.Context, tokenString string) (*TenantClaims, error) {
	if tokenString == "" {
		return nil, errors.ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &TenantClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*TenantClaims)
	if !ok || !token.Valid {
		return nil, errors.ErrInvalidToken
	}
	if err := claims.Tenant().Validate(); err != nil {
		return nil, errors.ErrInvalidToken
	}
	return claims, nil
}
