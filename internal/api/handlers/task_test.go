package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/calebw/tasklist-api/internal/api/handlers"
	"github.com/calebw/tasklist-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginAs(t *testing.T, ts *testutil.TestServer, username, password string) string {
	t.Helper()
	resp := postJSON(t, ts.APIURL("/sessions"), map[string]string{
		"username": username,
		"password": password,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	testutil.DecodeData(t, resp, &tokens)
	return tokens.AccessToken
}

func TestTaskHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, rawPassword := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	token := loginAs(t, ts, user.Username, rawPassword)

	tests := []struct {
		name           string
		request        map[string]any
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful creation with deadline",
			request: map[string]any{
				"title":       "file tax return",
				"description": "gather receipts first",
				"deadline":    "01/04/2027 17:00",
				"completed":   false,
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result handlers.TaskListResponse
				testutil.DecodeData(t, resp, &result)
				require.Equal(t, 1, result.RowsReturned)
				task := result.Tasks[0]
				assert.Equal(t, "file tax return", task.Title)
				require.NotNil(t, task.Deadline)
				assert.Equal(t, "01/04/2027 17:00", *task.Deadline)
				assert.False(t, task.Completed)
			},
		},
		{
			name: "missing title",
			request: map[string]any{
				"completed": false,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing completed flag",
			request: map[string]any{
				"title": "half a task",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "malformed deadline",
			request: map[string]any{
				"title":     "bad deadline",
				"deadline":  "2027-04-01T17:00:00Z",
				"completed": false,
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, ts.APIURL("/tasks"), token, tt.request)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestTaskHandler_RequiresToken(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.APIURL("/tasks"), "", nil)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "access token is missing from the header")

	resp = doJSON(t, http.MethodGet, ts.APIURL("/tasks"), "not-a-real-token", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTaskHandler_CrossUserIsolation(t *testing.T) {
	ts := testutil.NewTestServer(t)

	owner, ownerPassword := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	other, otherPassword := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	task := testutil.NewTaskBuilder(owner.ID).WithTitle("private").Build(t, ts.DB.DB)

	ownerToken := loginAs(t, ts, owner.Username, ownerPassword)
	otherToken := loginAs(t, ts, other.Username, otherPassword)

	taskURL := ts.APIURL(fmt.Sprintf("/tasks/%d", task.ID))

	// The owner can fetch it; the other user sees a 404, not a 403, so the
	// task's existence is not leaked.
	resp := doJSON(t, http.MethodGet, taskURL, ownerToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, taskURL, otherToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, taskURL, otherToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The other user's list is empty.
	resp = doJSON(t, http.MethodGet, ts.APIURL("/tasks"), otherToken, nil)
	defer resp.Body.Close()
	var list handlers.TaskListResponse
	testutil.DecodeData(t, resp, &list)
	assert.Zero(t, list.RowsReturned)
}

func TestTaskHandler_ListFilters(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, rawPassword := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	testutil.NewTaskBuilder(user.ID).WithTitle("done").Completed().Build(t, ts.DB.DB)
	testutil.NewTaskBuilder(user.ID).WithTitle("open").Build(t, ts.DB.DB)

	token := loginAs(t, ts, user.Username, rawPassword)

	t.Run("completed filter", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.APIURL("/tasks?completed=true"), token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list handlers.TaskListResponse
		testutil.DecodeData(t, resp, &list)
		require.Equal(t, 1, list.RowsReturned)
		assert.Equal(t, "done", list.Tasks[0].Title)
	})

	t.Run("invalid filter value", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.APIURL("/tasks?completed=Y"), token, nil)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Completed filter must be true or false")
	})

	t.Run("pagination metadata", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.APIURL("/tasks/page/1"), token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var page handlers.TaskPageResponse
		testutil.DecodeData(t, resp, &page)
		assert.Equal(t, 2, page.RowsReturned)
		assert.EqualValues(t, 2, page.TotalRows)
		assert.Equal(t, 1, page.TotalPages)
		assert.False(t, page.HasNextPage)
	})

	t.Run("page past the end", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.APIURL("/tasks/page/99"), token, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUserHandler_Register(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		request        map[string]string
		setup          func()
		expectedStatus int
	}{
		{
			name: "successful registration",
			request: map[string]string{
				"fullname": "New User",
				"username": "newuser",
				"password": "password123",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing password",
			request: map[string]string{
				"fullname": "No Password",
				"username": "nopassword",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate username",
			request: map[string]string{
				"fullname": "Copy Cat",
				"username": "takenname",
				"password": "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().WithUsername("takenname").Build(t, ts.DB.DB)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}

			resp := postJSON(t, ts.APIURL("/users"), tt.request)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
