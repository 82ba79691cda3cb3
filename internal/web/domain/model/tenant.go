package model

import (
	"context"
	"fmt"

	"firebase-web/internal/shared/contextkeys"
	"firebase-web/internal/shared/errors"
	"firebase-web/internal/shared/utils"
)

// noTenant is the canonical representation of a single-tenant application.
const noTenant = "_"

// TenantID identifies an isolation boundary for multi-tenant data.
// At most one of Domain, Email and Value is set.
type TenantID struct {
	Domain string `json:"domain,omitempty"`
	Email  string `json:"email,omitempty"`
	Value  string `json:"value,omitempty"`
}

// IsEmpty reports whether no tenant kind is set.
func (t TenantID) IsEmpty() bool {
	return t.Domain == "" && t.Email == "" && t.Value == ""
}

// Validate checks that at most one tenant kind is set.
func (t TenantID) Validate() error {
	set := 0
	for _, v := range []string{t.Domain, t.Email, t.Value} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("%w: only one of domain, email or value may be set", errors.ErrInvalidTenant)
	}
	return nil
}

// String returns the canonical form of the tenant. The kind prefix keeps a domain
// tenant and a value tenant with the same text apart.
func (t TenantID) String() string {
	switch {
	case t.Domain != "":
		return "domain:" + t.Domain
	case t.Email != "":
		return "email:" + t.Email
	case t.Value != "":
		return "value:" + t.Value
	}
	return noTenant
}

// ContextWithTenant stores the tenant resolved for the current request, along with
// its canonical string used by the loggers.
func ContextWithTenant(ctx context.Context, tenant TenantID) context.Context {
	ctx = utils.WithTenantID(ctx, tenant.String())
	return context.WithValue(ctx, contextkeys.TenantKey, tenant)
}

// TenantFromContext returns the tenant stored by ContextWithTenant.
func TenantFromContext(ctx context.Context) (TenantID, bool) {
	tenant, ok := ctx.Value(contextkeys.TenantKey).(TenantID)
	return tenant, ok
}
