package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/calebw/tasklist-api/internal/domain"
	"github.com/calebw/tasklist-api/internal/service"
	"github.com/calebw/tasklist-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(raw))
	require.NoError(t, err)
	return resp
}

func doJSON(t *testing.T, method, url, accessToken string, body any) *http.Response {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewBuffer(raw)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, url, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestSessionHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, rawPassword := testutil.NewUserBuilder().WithUsername("loginuser").Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		request        map[string]string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful login",
			request: map[string]string{
				"username": user.Username,
				"password": rawPassword,
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var tokens service.SessionTokens
				testutil.DecodeData(t, resp, &tokens)
				assert.NotZero(t, tokens.SessionID)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.NotEmpty(t, tokens.RefreshToken)
				assert.Equal(t, 1200, tokens.AccessTokenExpiry)
				assert.Equal(t, 1209600, tokens.RefreshTokenExpiry)
			},
		},
		{
			name: "wrong password",
			request: map[string]string{
				"username": user.Username,
				"password": "wrongpassword",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "missing username",
			request: map[string]string{
				"password": "whatever",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "blank password",
			request: map[string]string{
				"username": user.Username,
				"password": "",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.APIURL("/sessions"), tt.request)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestSessionHandler_Lifecycle(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, rawPassword := testutil.NewUserBuilder().WithUsername("alice").Build(t, ts.DB.DB)

	// Log in.
	resp := postJSON(t, ts.APIURL("/sessions"), map[string]string{
		"username": "alice",
		"password": rawPassword,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var tokens service.SessionTokens
	testutil.DecodeData(t, resp, &tokens)

	// The access token reaches the task routes.
	resp = doJSON(t, http.MethodGet, ts.APIURL("/tasks"), tokens.AccessToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Expire the access token behind the API's back.
	err := ts.DB.DB.Model(&domain.Session{}).
		Where("id = ?", tokens.SessionID).
		Update("access_token_expiry", time.Now().Add(-time.Minute)).Error
	require.NoError(t, err)

	resp = doJSON(t, http.MethodGet, ts.APIURL("/tasks"), tokens.AccessToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Refresh with the expired access token plus the refresh token.
	refreshURL := ts.APIURL(fmt.Sprintf("/sessions/%d", tokens.SessionID))
	resp = doJSON(t, http.MethodPatch, refreshURL, tokens.AccessToken, map[string]string{
		"refresh_token": tokens.RefreshToken,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rotated service.SessionTokens
	testutil.DecodeData(t, resp, &rotated)
	assert.Equal(t, tokens.SessionID, rotated.SessionID)
	assert.NotEqual(t, tokens.AccessToken, rotated.AccessToken)

	// The rotated token works; the old one matches no session.
	resp = doJSON(t, http.MethodGet, ts.APIURL("/tasks"), rotated.AccessToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.APIURL("/tasks"), tokens.AccessToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Refreshing with the stale triple is rejected.
	resp = doJSON(t, http.MethodPatch, refreshURL, tokens.AccessToken, map[string]string{
		"refresh_token": tokens.RefreshToken,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Log out, then confirm the second logout fails.
	logoutURL := ts.APIURL(fmt.Sprintf("/sessions/%d", rotated.SessionID))
	resp = doJSON(t, http.MethodDelete, logoutURL, rotated.AccessToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, logoutURL, rotated.AccessToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionHandler_RefreshValidation(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("non-numeric session id", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, ts.APIURL("/sessions/abc"), "sometoken", map[string]string{
			"refresh_token": "whatever",
		})
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Session ID must be numeric")
	})

	t.Run("missing authorization header", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, ts.APIURL("/sessions/1"), "", map[string]string{
			"refresh_token": "whatever",
		})
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Access token is missing from the header")
	})

	t.Run("missing refresh token", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, ts.APIURL("/sessions/1"), "sometoken", map[string]string{})
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Refresh token not supplied")
	})
}
