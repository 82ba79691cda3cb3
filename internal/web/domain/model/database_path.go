package model

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"firebase-web/internal/shared/errors"

	"golang.org/x/crypto/blake2b"
)

const (
	// MaxKeyBytes is the longest key the Realtime Database accepts.
	MaxKeyBytes = 768

	pathSeparator = "/"
	escapeChar    = '%'
	digestMarker  = "~"
	anonymous     = "_"
)

// digestSuffixLen is the length of "~" plus a hex encoded 256 bit digest.
var digestSuffixLen = len(digestMarker) + hex.EncodedLen(blake2b.Size256)

// DatabasePath is a slash separated sequence of escaped keys.
// It never contains the characters . # $ [ ] inside a key.
type DatabasePath struct {
	keys []string
}

// AllocateForQuery derives the path query results are mirrored to:
// <tenant>/<actor>/<query id>.
func AllocateForQuery(q Query) DatabasePath {
	return allocate(q.Context, q.ID)
}

// AllocateForTopic derives the path subscription updates are mirrored to:
// <tenant>/<actor>/<topic id>.
func AllocateForTopic(t Topic) DatabasePath {
	return allocate(t.Context, t.ID)
}

func allocate(ctx ActorContext, id string) DatabasePath {
	return DatabasePath{keys: []string{
		tenantKey(ctx.TenantID),
		EscapeKey(ctx.Actor),
		EscapeKey(id),
	}}
}

// tenantKey is the first key of every path allocated for tenant. No tenant maps to
// the same key as an empty actor.
func tenantKey(tenant TenantID) string {
	if tenant.IsEmpty() {
		return anonymous
	}
	return EscapeKey(tenant.String())
}

// ParseDatabasePath parses an already escaped path such as a subscription id.
func ParseDatabasePath(path string) (DatabasePath, error) {
	trimmed := strings.Trim(path, pathSeparator)
	if trimmed == "" {
		return DatabasePath{}, fmt.Errorf("%w: empty path", errors.ErrInvalidPath)
	}
	keys := strings.Split(trimmed, pathSeparator)
	for _, key := range keys {
		if err := validateKey(key); err != nil {
			return DatabasePath{}, err
		}
	}
	return DatabasePath{keys: keys}, nil
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", errors.ErrInvalidPath)
	}
	if len(key) > MaxKeyBytes {
		return fmt.Errorf("%w: key longer than %d bytes", errors.ErrInvalidPath, MaxKeyBytes)
	}
	if strings.ContainsAny(key, ".#$[]") {
		return fmt.Errorf("%w: key %q contains a forbidden character", errors.ErrInvalidPath, key)
	}
	return nil
}

// Child returns the path of the child named key. The key is escaped.
func (p DatabasePath) Child(key string) DatabasePath {
	keys := make([]string, len(p.keys), len(p.keys)+1)
	copy(keys, p.keys)
	return DatabasePath{keys: append(keys, EscapeKey(key))}
}

// Parent returns the enclosing path. The parent of a single key path is the zero path.
func (p DatabasePath) Parent() DatabasePath {
	if len(p.keys) <= 1 {
		return DatabasePath{}
	}
	return DatabasePath{keys: append([]string(nil), p.keys[:len(p.keys)-1]...)}
}

// Segments returns a copy of the escaped keys.
func (p DatabasePath) Segments() []string {
	return append([]string(nil), p.keys...)
}

// BelongsTo reports whether the path was allocated for tenant.
func (p DatabasePath) BelongsTo(tenant TenantID) bool {
	return len(p.keys) > 0 && p.keys[0] == tenantKey(tenant)
}

// IsZero reports whether the path was never allocated.
func (p DatabasePath) IsZero() bool {
	return len(p.keys) == 0
}

func (p DatabasePath) String() string {
	return strings.Join(p.keys, pathSeparator)
}

// EscapeKey makes s usable as a single Realtime Database key.
//
// '%' '.' '#' '$' '[' ']' '/' and ASCII control characters are percent-encoded,
// everything else is kept as is. Escaping '%' itself keeps the mapping injective.
// The empty string becomes "_", so a key made of a single '_' is encoded as "%5F".
// Keys longer than MaxKeyBytes are cut and suffixed with a BLAKE2b digest of s.
func EscapeKey(s string) string {
	switch s {
	case "":
		return anonymous
	case anonymous:
		return fmt.Sprintf("%%%02X", anonymous[0])
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if needsEscape(c) {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	escaped := b.String()
	if len(escaped) <= MaxKeyBytes {
		return escaped
	}
	return shorten(escaped, s)
}

func needsEscape(c byte) bool {
	switch c {
	case escapeChar, '.', '#', '$', '[', ']', '/':
		return true
	}
	return c < 0x20 || c == 0x7F
}

// shorten keeps the longest prefix of escaped that fits next to the digest
// without splitting a rune or an escape sequence.
func shorten(escaped, raw string) string {
	sum := blake2b.Sum256([]byte(raw))
	cut := MaxKeyBytes - digestSuffixLen
	for cut > 0 && !utf8.RuneStart(escaped[cut]) {
		cut--
	}
	if i := strings.LastIndexByte(escaped[:cut], escapeChar); i >= 0 && i > cut-3 {
		cut = i
	}
	return escaped[:cut] + digestMarker + hex.EncodeToString(sum[:])
}
