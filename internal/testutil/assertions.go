package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the API's common response shape for decoding in tests.
type Envelope struct {
	StatusCode int             `json:"statusCode"`
	Success    bool            `json:"success"`
	Messages   []string        `json:"messages"`
	Data       json.RawMessage `json:"data"`
}

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// DecodeEnvelope reads the response body into an Envelope
func DecodeEnvelope(t *testing.T, resp *http.Response) Envelope {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	var env Envelope
	err = json.Unmarshal(body, &env)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
	return env
}

// DecodeData decodes the envelope's data field into v, asserting success
func DecodeData(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	env := DecodeEnvelope(t, resp)
	require.True(t, env.Success, "expected a success response, got messages: %v", env.Messages)
	require.NoError(t, json.Unmarshal(env.Data, v), "failed to unmarshal data")
}

// AssertErrorResponse verifies an error envelope's status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	env := DecodeEnvelope(t, resp)
	assert.False(t, env.Success)
	found := false
	for _, msg := range env.Messages {
		if msg == expectedMessage {
			found = true
			break
		}
	}
	assert.True(t, found, "message %q not in %v", expectedMessage, env.Messages)
}
