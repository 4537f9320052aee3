package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	a, err := NewAuthenticator([]TokenEntry{
		{Role: domain.RoleUser, Token: "user-token"},
		{Role: domain.RoleAdmin, Token: "admin-token"},
	})
	require.NoError(t, err)
	return a
}

func TestNewAuthenticator_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []TokenEntry
	}{
		{name: "no entries", entries: nil},
		{name: "unknown role", entries: []TokenEntry{{Role: "root", Token: "t"}}},
		{name: "neither token nor hash", entries: []TokenEntry{{Role: domain.RoleUser}}},
		{
			name:    "both token and hash",
			entries: []TokenEntry{{Role: domain.RoleUser, Token: "t", Hash: "$2a$..."}},
		},
		{
			name: "shared token",
			entries: []TokenEntry{
				{Role: domain.RoleUser, Token: "same"},
				{Role: domain.RoleAdmin, Token: "same"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, err := NewAuthenticator(tc.entries)
			assert.Nil(t, a)
			assert.ErrorIs(t, err, ErrInvalidTokenEntry)
		})
	}
}

func TestAuthenticator_Resolve(t *testing.T) {
	t.Parallel()
	a := newTestAuthenticator(t)

	tests := []struct {
		token    string
		wantOK   bool
		wantRole domain.Role
	}{
		{token: "user-token", wantOK: true, wantRole: domain.RoleUser},
		{token: "admin-token", wantOK: true, wantRole: domain.RoleAdmin},
		{token: "", wantOK: false},
		{token: "unknown", wantOK: false},
		{token: "user-token ", wantOK: false},
		{token: "USER-TOKEN", wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			identity, ok := a.Resolve(tc.token)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantRole, identity.Role)
		})
	}
}

func TestAuthenticator_ResolveHashed(t *testing.T) {
	t.Parallel()

	hash := hashForTest(t, "s3cret")

	a, err := NewAuthenticator([]TokenEntry{
		{Role: domain.RoleUser, Token: "user-token"},
		{Role: domain.RoleAdmin, Hash: hash},
	})
	require.NoError(t, err)

	identity, ok := a.Resolve("s3cret")
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, identity.Role)

	_, ok = a.Resolve("wrong")
	assert.False(t, ok)

	_, ok = a.Resolve(hash)
	assert.False(t, ok, "the hash itself must not authenticate")
}

// hashForTest mirrors HashToken at the cheapest bcrypt cost.
func hashForTest(t *testing.T, token string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(tokenDigest(token)), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthenticator_ResolveHashedLongToken(t *testing.T) {
	t.Parallel()

	prefix := strings.Repeat("x", 72)
	a, err := NewAuthenticator([]TokenEntry{
		{Role: domain.RoleAdmin, Hash: hashForTest(t, prefix+"-configured")},
	})
	require.NoError(t, err)

	identity, ok := a.Resolve(prefix + "-configured")
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, identity.Role)

	_, ok = a.Resolve(prefix + "-forged")
	assert.False(t, ok, "tokens sharing the first 72 bytes must not match")
}

type stubVerifier struct {
	calls int
	err   error
}

func (s *stubVerifier) Compare(hash, secret string) error {
	s.calls++
	if hash == secret {
		return nil
	}
	if s.err != nil {
		return s.err
	}
	return errors.New("mismatch")
}

func TestAuthenticator_ChecksEveryEntry(t *testing.T) {
	t.Parallel()

	v := &stubVerifier{}
	a, err := NewAuthenticator([]TokenEntry{
		{Role: domain.RoleUser, Hash: tokenDigest("u")},
		{Role: domain.RoleAdmin, Hash: tokenDigest("a")},
	}, WithHashVerifier(v))
	require.NoError(t, err)

	identity, ok := a.Resolve("u")
	require.True(t, ok)
	assert.Equal(t, domain.RoleUser, identity.Role)
	assert.Equal(t, 2, v.calls)
}

func TestAuthenticator_RemembersVerifiedTokens(t *testing.T) {
	t.Parallel()

	v := &stubVerifier{}
	a, err := NewAuthenticator([]TokenEntry{
		{Role: domain.RoleUser, Hash: tokenDigest("u")},
		{Role: domain.RoleAdmin, Hash: tokenDigest("a")},
	}, WithHashVerifier(v))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		identity, ok := a.Resolve("a")
		require.True(t, ok)
		assert.Equal(t, domain.RoleAdmin, identity.Role)
	}
	assert.Equal(t, 2, v.calls, "only the first resolve should reach the verifier")

	_, ok := a.Resolve("unknown")
	assert.False(t, ok)
	_, ok = a.Resolve("unknown")
	assert.False(t, ok)
	assert.Equal(t, 6, v.calls, "unknown tokens are never remembered")
}

func TestAuthenticator_Authorize(t *testing.T) {
	t.Parallel()
	a := newTestAuthenticator(t)

	user := &domain.Identity{Role: domain.RoleUser}
	admin := &domain.Identity{Role: domain.RoleAdmin}

	tests := []struct {
		name     string
		identity *domain.Identity
		required domain.Role
		want     Outcome
		wantErr  error
	}{
		{name: "no identity", identity: nil, required: domain.RoleUser, want: Unauthenticated, wantErr: ErrUnauthenticated},
		{name: "user on user route", identity: user, required: domain.RoleUser, want: Allowed},
		{name: "admin on admin route", identity: admin, required: domain.RoleAdmin, want: Allowed},
		{name: "user on admin route", identity: user, required: domain.RoleAdmin, want: Forbidden, wantErr: ErrForbidden},
		{name: "admin on user route", identity: admin, required: domain.RoleUser, want: Forbidden, wantErr: ErrForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := a.Authorize(tc.identity, tc.required)
			assert.Equal(t, tc.want, got)
			if tc.wantErr == nil {
				assert.NoError(t, got.Err())
			} else {
				assert.ErrorIs(t, got.Err(), tc.wantErr)
			}
		})
	}
}

func TestAuthenticator_Check(t *testing.T) {
	t.Parallel()
	a := newTestAuthenticator(t)

	identity, outcome := a.Check("admin-token", domain.RoleAdmin)
	assert.Equal(t, Allowed, outcome)
	require.NotNil(t, identity)
	assert.Equal(t, domain.RoleAdmin, identity.Role)

	identity, outcome = a.Check("user-token", domain.RoleAdmin)
	assert.Equal(t, Forbidden, outcome)
	assert.NotNil(t, identity)

	identity, outcome = a.Check("nope", domain.RoleAdmin)
	assert.Equal(t, Unauthenticated, outcome)
	assert.Nil(t, identity)

	identity, outcome = a.Check("", domain.RoleUser)
	assert.Equal(t, Unauthenticated, outcome)
	assert.Nil(t, identity)
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "allowed", Allowed.String())
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
	assert.Equal(t, "forbidden", Forbidden.String())
	assert.Equal(t, "outcome(9)", Outcome(9).String())
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header    string
		wantToken string
		wantOK    bool
	}{
		{header: "Bearer abc", wantToken: "abc", wantOK: true},
		{header: "bearer abc", wantToken: "abc", wantOK: true},
		{header: "  Bearer   abc  ", wantToken: "abc", wantOK: true},
		{header: "", wantOK: false},
		{header: "Bearer", wantOK: false},
		{header: "Bearer ", wantOK: false},
		{header: "Basic abc", wantOK: false},
		{header: "abc", wantOK: false},
		{header: "Bearer abc def", wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.header, func(t *testing.T) {
			token, ok := BearerToken(tc.header)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantToken, token)
		})
	}
}

func TestHashToken(t *testing.T) {
	t.Parallel()

	hash, err := HashToken("abc")
	require.NoError(t, err)
	assert.NoError(t, NewBcryptVerifier().Compare(hash, tokenDigest("abc")))
	assert.Error(t, NewBcryptVerifier().Compare(hash, tokenDigest("abd")))
	assert.Error(t, NewBcryptVerifier().Compare(hash, "abc"))
}
