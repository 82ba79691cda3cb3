package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "firebase-web context key " + string(c)
}

// TenantIDKey is the key for the canonical tenant string in context.Context
const TenantIDKey = contextKey("tenantID")

// TenantKey holds the structured tenant identifier set by the tenant middleware
const TenantKey = contextKey("tenant")

// ActorKey is the key for the acting user
const ActorKey = contextKey("actor")

// RequestIDKey is the key for the request correlation ID
const RequestIDKey = contextKey("requestID")

// OperationKey is the key for the operation name used in logs
const OperationKey = contextKey("operation")
