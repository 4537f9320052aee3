package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"

	"github.com/phrazzld/task-api/internal/domain"
)

// TokenEntry maps one static bearer token to a role. Exactly one of Token
// (plaintext) or Hash (bcrypt, as produced by HashToken) must be set.
type TokenEntry struct {
	Role  domain.Role
	Token string
	Hash  string
}

// Outcome is the result of an authorization check.
type Outcome int

// Authorization outcomes.
const (
	Allowed Outcome = iota
	Unauthenticated
	Forbidden
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Err returns nil for Allowed and the matching sentinel otherwise.
func (o Outcome) Err() error {
	switch o {
	case Allowed:
		return nil
	case Forbidden:
		return ErrForbidden
	default:
		return ErrUnauthenticated
	}
}

// Authenticator resolves static bearer tokens to identities and checks
// role requirements. It is safe for concurrent use.
//
// A token that matched a hashed entry is remembered by digest, so bcrypt
// runs once per configured token rather than once per request.
type Authenticator struct {
	entries  []TokenEntry
	verifier HashVerifier

	mu       sync.RWMutex
	verified map[string]domain.Role
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithHashVerifier replaces the bcrypt verifier used for hashed entries.
func WithHashVerifier(v HashVerifier) Option {
	return func(a *Authenticator) {
		if v != nil {
			a.verifier = v
		}
	}
}

// NewAuthenticator validates entries and builds an Authenticator.
func NewAuthenticator(entries []TokenEntry, opts ...Option) (*Authenticator, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no tokens configured", ErrInvalidTokenEntry)
	}

	seen := make(map[string]domain.Role, len(entries))
	for i, e := range entries {
		if !e.Role.Valid() {
			return nil, fmt.Errorf("%w: entry %d has unknown role %q", ErrInvalidTokenEntry, i, e.Role)
		}
		if (e.Token == "") == (e.Hash == "") {
			return nil, fmt.Errorf(
				"%w: %s entry must set exactly one of token or hash",
				ErrInvalidTokenEntry, e.Role,
			)
		}
		if e.Token != "" {
			if other, dup := seen[e.Token]; dup && other != e.Role {
				return nil, fmt.Errorf(
					"%w: %s and %s share the same token",
					ErrInvalidTokenEntry, other, e.Role,
				)
			}
			seen[e.Token] = e.Role
		}
	}

	a := &Authenticator{
		entries:  append([]TokenEntry(nil), entries...),
		verifier: NewBcryptVerifier(),
		verified: make(map[string]domain.Role, len(entries)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Resolve maps token to an identity. An empty or unknown token resolves to
// nothing. Unless the token was verified before, every entry is checked so
// the time taken does not reveal which entry matched.
func (a *Authenticator) Resolve(token string) (domain.Identity, bool) {
	if token == "" {
		return domain.Identity{}, false
	}

	digest := tokenDigest(token)
	a.mu.RLock()
	role, ok := a.verified[digest]
	a.mu.RUnlock()
	if ok {
		return domain.Identity{Role: role}, true
	}

	var (
		match  domain.Identity
		found  bool
		hashed bool
	)
	for _, e := range a.entries {
		if a.matches(e, token, digest) && !found {
			match = domain.Identity{Role: e.Role}
			found = true
			hashed = e.Hash != ""
		}
	}

	if hashed {
		a.mu.Lock()
		a.verified[digest] = match.Role
		a.mu.Unlock()
	}
	return match, found
}

// Authorize checks identity against the required role. A nil identity is
// unauthenticated. Roles must match exactly.
func (a *Authenticator) Authorize(identity *domain.Identity, required domain.Role) Outcome {
	if identity == nil {
		return Unauthenticated
	}
	if identity.Role != required {
		return Forbidden
	}
	return Allowed
}

// Check resolves token and authorizes it against required in one step.
func (a *Authenticator) Check(token string, required domain.Role) (*domain.Identity, Outcome) {
	identity, ok := a.Resolve(token)
	if !ok {
		return nil, a.Authorize(nil, required)
	}
	return &identity, a.Authorize(&identity, required)
}

func (a *Authenticator) matches(e TokenEntry, token, digest string) bool {
	if e.Hash != "" {
		return a.verifier.Compare(e.Hash, digest) == nil
	}
	return subtle.ConstantTimeCompare([]byte(e.Token), []byte(token)) == 1
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
