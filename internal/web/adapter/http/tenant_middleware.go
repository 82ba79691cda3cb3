package http

import (
	"context"
	"strings"

	"firebase-web/internal/shared/contextkeys"
	"firebase-web/internal/shared/errors"
	"firebase-web/internal/shared/logger"
	"firebase-web/internal/shared/utils"
	"firebase-web/internal/web/adapter/security"
	"firebase-web/internal/web/domain/model"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Headers naming the tenant and actor of unauthenticated requests.
const (
	HeaderTenantDomain = "X-Tenant-Domain"
	HeaderTenantEmail  = "X-Tenant-Email"
	HeaderTenantValue  = "X-Tenant-Value"
	HeaderActor        = "X-Actor"
)

// TokenValidator validates bearer tokens carrying the tenant of a request.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*security.TenantClaims, error)
}

// TenantMiddleware resolves the tenant and actor of a request and stores them in the
// user context. A bearer token takes precedence over the tenant headers; an invalid
// token is rejected with 401. A nil validator ignores the Authorization header.
func TenantMiddleware(tokens TokenValidator, log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if id, ok := c.Locals(string(contextkeys.RequestIDKey)).(string); ok && id != "" {
			ctx = utils.WithRequestID(ctx, id)
		}

		tenant, actor, err := resolveTenant(c, tokens)
		if err != nil {
			return respondError(c, log, err)
		}
		ctx = model.ContextWithTenant(ctx, tenant)
		if actor != "" {
			ctx = utils.WithActor(ctx, actor)
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func resolveTenant(c *fiber.Ctx, tokens TokenValidator) (model.TenantID, string, error) {
	if auth := c.Get(fiber.HeaderAuthorization); tokens != nil && auth != "" {
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok {
			return model.TenantID{}, "", errors.NewAuthenticationError("authorization must use the Bearer scheme").
				WithCause(errors.ErrInvalidToken)
		}
		claims, err := tokens.ValidateToken(c.UserContext(), token)
		if err != nil {
			return model.TenantID{}, "", errors.NewAuthenticationError("invalid token").WithCause(err)
		}
		return claims.Tenant(), claims.Subject, nil
	}

	tenant := model.TenantID{
		Domain: c.Get(HeaderTenantDomain),
		Email:  c.Get(HeaderTenantEmail),
		Value:  c.Get(HeaderTenantValue),
	}
	if err := tenant.Validate(); err != nil {
		return model.TenantID{}, "", errors.NewValidationError(err.Error()).WithCause(err)
	}
	return tenant, c.Get(HeaderActor), nil
}

// RequestID assigns X-Request-ID and exposes it to TenantMiddleware.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		ContextKey: string(contextkeys.RequestIDKey),
	})
}
