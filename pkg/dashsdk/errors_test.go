package dashsdk

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/nutridash/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestParseErrorResponse(t *testing.T) {
	t.Run("api error body", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusBadRequest}
		err := parseErrorResponse(resp, []byte(`{"error":"invalid_code","error_description":"try again"}`))

		var apiErr *httpx.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, ErrorCodeInvalidCode, apiErr.Code)
		require.True(t, IsRetryable(err))
		require.True(t, IsRetryable(fmt.Errorf("wrapped: %w", err)))
	})

	t.Run("non json body", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusBadGateway}
		err := parseErrorResponse(resp, []byte("<html>bad gateway</html>"))
		require.Equal(t, ErrorCodeServerError, ErrorCode(err))
		require.False(t, IsRetryable(err))
	})

	t.Run("success is not an error", func(t *testing.T) {
		require.NoError(t, parseErrorResponse(&http.Response{StatusCode: http.StatusNoContent}, nil))
	})

	require.Empty(t, ErrorCode(errors.New("plain")))
}
