package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, run([]string{"user-token", "admin-token"}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	authn, err := auth.NewAuthenticator([]auth.TokenEntry{
		{Role: domain.RoleUser, Hash: lines[0]},
		{Role: domain.RoleAdmin, Hash: lines[1]},
	})
	require.NoError(t, err)

	identity, ok := authn.Resolve("user-token")
	require.True(t, ok)
	assert.Equal(t, domain.RoleUser, identity.Role)

	identity, ok = authn.Resolve("admin-token")
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, identity.Role)
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	assert.Error(t, run(nil, &out))
	assert.Error(t, run([]string{""}, &out))
	assert.Empty(t, out.String())
}
