package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	gw := &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}
	return gw, server
}

func TestGitHubGateway_ListRepositories(t *testing.T) {
	testCases := []struct {
		name           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expectedNames  []string
		expectError    bool
		expectedStatus int
	}{
		{
			name: "happy path - single page with repository fields parsed",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Contains(t, r.URL.Path, "/users/duckola/repos")
				assert.Equal(t, "owner", r.URL.Query().Get("type"))
				assert.Equal(t, "100", r.URL.Query().Get("per_page"))
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `[
					{"name": "bloom", "created_at": "2025-02-01T10:00:00Z", "fork": false},
					{"name": "fooddo", "created_at": "2024-06-15T08:30:00Z", "fork": false},
					{"name": "forked-thing", "created_at": "2023-01-01T00:00:00Z", "fork": true}
				]`)
			},
			expectedNames: []string{"bloom", "fooddo", "forked-thing"},
		},
		{
			name: "error case - server error fails the whole listing",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message": "Internal Server Error"}`)
			},
			expectError:    true,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name: "rate limited - 403 is classified for the fallback message",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, `{"message": "API rate limit exceeded"}`)
			},
			expectError:    true,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()

			repos, err := gw.ListRepositories(context.Background(), "duckola")
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, repos, "a failed listing must never yield a partial list")
				var fe *FetchError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tc.expectedStatus, fe.StatusCode)
				assert.Equal(t, tc.expectedStatus == http.StatusForbidden, fe.RateLimited())
			} else {
				require.NoError(t, err)
				names := make([]string, 0, len(repos))
				for _, r := range repos {
					names = append(names, r.Name)
				}
				assert.Equal(t, tc.expectedNames, names)
				assert.Equal(t, 2025, repos[0].CreatedAt.Year())
				assert.True(t, repos[2].Fork)
			}
		})
	}
}

func TestGitHubGateway_ListRepositories_Pagination(t *testing.T) {
	var pagesServed int
	handler := func(w http.ResponseWriter, r *http.Request) {
		pagesServed++
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `[{"name": "tail", "created_at": "2025-01-01T00:00:00Z", "fork": false}]`)
			return
		}
		// Full first page plus a next-page link.
		w.Header().Set("Link", fmt.Sprintf(`<http://%s%s?page=2>; rel="next"`, r.Host, r.URL.Path))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "[")
		for i := 0; i < pageSize; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"name": "repo-%03d", "created_at": "2024-01-01T00:00:00Z", "fork": false}`, i)
		}
		fmt.Fprint(w, "]")
	}

	gw, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	repos, err := gw.ListRepositories(context.Background(), "duckola")
	require.NoError(t, err)
	assert.Len(t, repos, pageSize+1)
	assert.Equal(t, 2, pagesServed)
	assert.Equal(t, "tail", repos[pageSize].Name)
}

func TestGitHubGateway_ListCommitTimes(t *testing.T) {
	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/repos/duckola/bloom/commits")
		assert.NotEmpty(t, r.URL.Query().Get("since"))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `[
			{"commit": {"author": {"date": "2025-03-01T12:00:00Z"}}},
			{"commit": {"author": {"date": "2025-03-02T08:00:00Z"}}}
		]`)
	}

	gw, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	times, err := gw.ListCommitTimes(context.Background(), "duckola", "bloom", since, time.Time{})
	require.NoError(t, err)
	require.Len(t, times, 2)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), times[0].UTC())
}

func TestGitHubGateway_ListCommitTimes_Error(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		// GitHub answers 409 for empty repositories.
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message": "Git Repository is empty."}`)
	}

	gw, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	times, err := gw.ListCommitTimes(context.Background(), "duckola", "empty-repo", time.Time{}, time.Time{})
	assert.Error(t, err)
	assert.Nil(t, times)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusConflict, fe.StatusCode)
	assert.False(t, fe.RateLimited())
}

func TestGitHubGateway_FetchContributionDays(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "contributionsCollection")

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"data":{"user":{"contributionsCollection":{"contributionCalendar":{"weeks":[{"contributionDays":[{"date":"2025-06-14","contributionCount":2},{"date":"2025-06-15","contributionCount":1}]}]}}}}}`)
	}

	gw, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	days, err := gw.FetchContributionDays(context.Background(), "duckola", from, to)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2025-06-14", days[0].Date)
	assert.Equal(t, 2, days[0].Count)
}

func TestGitHubGateway_FetchContributionDays_NoToken(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	gw := &GitHubGateway{
		restClient: github.NewClient(nil),
		logger:     logger,
	}

	_, err := gw.FetchContributionDays(context.Background(), "duckola", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ErrNoToken)
}
