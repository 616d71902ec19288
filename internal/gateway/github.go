// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/duckola/adolfo-portfolio/internal/domain"
)

// pageSize is the fixed page size for all paginated REST calls.
const pageSize = 100

// FetchError wraps a failed GitHub API call with enough detail for callers
// to pick the right fallback behavior.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("github %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("github %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RateLimited reports whether the failure belongs to the 403/429 class,
// where supplying a token is the likely remedy.
func (e *FetchError) RateLimited() bool {
	return e.StatusCode == http.StatusForbidden || e.StatusCode == http.StatusTooManyRequests
}

// IsRateLimited reports whether err is a rate-limit-class fetch failure.
func IsRateLimited(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.RateLimited()
}

// ErrNoToken is returned by operations that require an authenticated client.
var ErrNoToken = errors.New("github: operation requires an access token")

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// ListRepositories fetches every page of the account's owned repositories.
	// A non-2xx response anywhere in the pagination fails the whole listing;
	// no partial list is ever returned.
	ListRepositories(ctx context.Context, account string) ([]domain.Repository, error)
	// ListCommitTimes fetches the authored timestamps of commits in one
	// repository, bounded below by since and, when until is non-zero, above by until.
	ListCommitTimes(ctx context.Context, account, repo string, since, until time.Time) ([]time.Time, error)
	// FetchContributionDays fetches the per-day contribution counts from the
	// GraphQL contribution calendar. Requires a token.
	FetchContributionDays(ctx context.Context, account string, from, to time.Time) ([]domain.DailyCount, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *logrus.Logger
}

// NewGitHubGateway creates a gateway backed by the public GitHub API.
// The token is optional: without one, requests are unauthenticated (and far
// more likely to hit rate limits) and the GraphQL calendar is unavailable.
// Every outbound call carries the given timeout; a timed-out call surfaces
// as an ordinary fetch failure.
func NewGitHubGateway(token string, timeout time.Duration, logger *logrus.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(time.Minute, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	transport := http.RoundTripper(rateLimitWaiter)
	var graphqlClient *githubv4.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		}
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
	if token != "" {
		graphqlClient = githubv4.NewClient(httpClient)
	}

	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: graphqlClient,
		logger:        logger,
	}, nil
}

func (g *GitHubGateway) ListRepositories(ctx context.Context, account string) ([]domain.Repository, error) {
	useLogger := g.logger.WithField("methodName", "ListRepositories")

	opts := &github.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	var repos []domain.Repository
	for {
		page, resp, err := g.restClient.Repositories.ListByUser(ctx, account, opts)
		if err != nil {
			useLogger.WithError(err).Error("failed to list repositories")
			return nil, g.fetchError("list repositories", resp, err)
		}
		for _, r := range page {
			repos = append(repos, domain.Repository{
				Name:      r.GetName(),
				CreatedAt: r.GetCreatedAt().Time,
				Fork:      r.GetFork(),
			})
		}
		if resp.NextPage == 0 || len(page) < pageSize {
			break
		}
		opts.Page = resp.NextPage
	}
	return repos, nil
}

func (g *GitHubGateway) ListCommitTimes(ctx context.Context, account, repo string, since, until time.Time) ([]time.Time, error) {
	opts := &github.CommitsListOptions{
		Since:       since,
		Until:       until,
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	var times []time.Time
	for {
		commits, resp, err := g.restClient.Repositories.ListCommits(ctx, account, repo, opts)
		if err != nil {
			return nil, g.fetchError(fmt.Sprintf("list commits for %s", repo), resp, err)
		}
		for _, c := range commits {
			if d := c.GetCommit().GetAuthor().GetDate(); !d.Time.IsZero() {
				times = append(times, d.Time)
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return times, nil
}

// contributionsQuery fetches the per-day contribution calendar for a user.
type contributionsQuery struct {
	User struct {
		ContributionsCollection struct {
			ContributionCalendar struct {
				Weeks []struct {
					ContributionDays []struct {
						Date              githubv4.String
						ContributionCount githubv4.Int
					}
				}
			}
		} `graphql:"contributionsCollection(from: $from, to: $to)"`
	} `graphql:"user(login: $login)"`
}

func (g *GitHubGateway) FetchContributionDays(ctx context.Context, account string, from, to time.Time) ([]domain.DailyCount, error) {
	if g.graphqlClient == nil {
		return nil, ErrNoToken
	}

	variables := map[string]interface{}{
		"login": githubv4.String(account),
		"from":  githubv4.DateTime{Time: from},
		"to":    githubv4.DateTime{Time: to},
	}

	var q contributionsQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		g.logger.WithField("methodName", "FetchContributionDays").WithError(err).Error("failed to execute GraphQL query")
		return nil, &FetchError{Op: "contribution calendar", Err: err}
	}

	var days []domain.DailyCount
	for _, week := range q.User.ContributionsCollection.ContributionCalendar.Weeks {
		for _, day := range week.ContributionDays {
			days = append(days, domain.DailyCount{
				Date:  string(day.Date),
				Count: int(day.ContributionCount),
			})
		}
	}
	return days, nil
}

// fetchError derives the HTTP status from whatever go-github handed back and
// wraps it so callers can classify the failure.
func (g *GitHubGateway) fetchError(op string, resp *github.Response, err error) *FetchError {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	var rateLimitErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateLimitErr) || errors.As(err, &abuseErr) {
		status = http.StatusForbidden
	}
	return &FetchError{Op: op, StatusCode: status, Err: err}
}
