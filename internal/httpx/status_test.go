package httpx

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFromResponse(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusUnauthorized,
		Body:       io.NopCloser(strings.NewReader(`{"error":"invalid_client"}`)),
	}

	err := ErrorFromResponse("token fetch", resp)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.StatusCode)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid_client")
}

func TestStatusError_EmptyBody(t *testing.T) {
	err := &StatusError{Op: "tools list", StatusCode: http.StatusBadGateway}
	assert.Equal(t, "tools list failed: status 502", err.Error())
}

func TestErrorFromResponse_TruncatesLargeBody(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusInternalServerError,
		Body:       io.NopCloser(strings.NewReader(strings.Repeat("x", maxErrorBody*2))),
	}

	err := ErrorFromResponse("tool call", resp)
	assert.Len(t, err.Body, maxErrorBody)
}
