package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBody(t *testing.T) {
	t.Parallel()

	t.Run("reads body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"a"}`))
		body, err := ReadBody(httptest.NewRecorder(), req)
		require.NoError(t, err)
		assert.Equal(t, `{"title":"a"}`, string(body))
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		body, err := ReadBody(httptest.NewRecorder(), req)
		require.NoError(t, err)
		assert.Empty(t, body)
	})

	t.Run("too large", func(t *testing.T) {
		big := strings.Repeat("a", MaxRequestBodyBytes+1)
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
		_, err := ReadBody(httptest.NewRecorder(), req)
		assert.ErrorIs(t, err, ErrBodyTooLarge)
	})
}
