package usecase

import (
	"context"
	"time"

	"firebase-web/internal/shared/errors"
	"firebase-web/internal/shared/utils"
	"firebase-web/internal/web/domain/model"
)

// applyRequestContext completes ac with the tenant and actor resolved for the request.
// A message addressed to another tenant than the authenticated one is refused.
func applyRequestContext(ctx context.Context, ac *model.ActorContext) error {
	if tenant, ok := model.TenantFromContext(ctx); ok && !tenant.IsEmpty() {
		switch {
		case ac.TenantID.IsEmpty():
			ac.TenantID = tenant
		case ac.TenantID != tenant:
			return errors.NewAuthorizationError("message tenant does not match the request tenant").
				WithDetail("tenant", ac.TenantID.String())
		}
	}
	if ac.Actor == "" {
		if actor, err := utils.GetActorFromContext(ctx); err == nil {
			ac.Actor = actor
		}
	}
	if ac.Timestamp == nil {
		now := time.Now().UTC()
		ac.Timestamp = &now
	}
	return nil
}

// validationError turns a shape error into a 400 AppError. Field level errors are
// kept in the details.
func validationError(err error) *errors.AppError {
	var ve *errors.ValidationErrors
	if errors.As(err, &ve) && ve.HasErrors() {
		return ve.ToAppError()
	}
	return errors.NewValidationError(err.Error()).WithCause(err)
}
