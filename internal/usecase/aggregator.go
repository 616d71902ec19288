// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/duckola/adolfo-portfolio/internal/cache"
	"github.com/duckola/adolfo-portfolio/internal/domain"
	"github.com/duckola/adolfo-portfolio/internal/gateway"
	"github.com/duckola/adolfo-portfolio/internal/metrics"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"

	// daysPerMonth approximates a month when sizing the histogram window.
	// Deliberately not calendar-accurate; the site has always charted
	// "months" as 30-day blocks.
	daysPerMonth = 30
)

// Clock returns the current time. Injected so streak and window arithmetic
// are deterministic under test.
type Clock func() time.Time

// Aggregator derives the activity figures shown on the portfolio page from
// raw repository and commit metadata. All fetch failures degrade to empty
// results; nothing from here may take the page down.
type Aggregator struct {
	fetcher gateway.Fetcher
	cache   *cache.Store
	logger  *logrus.Logger
	now     Clock
}

// NewAggregator creates a new Aggregator instance. A nil clock defaults to
// time.Now.
func NewAggregator(fetcher gateway.Fetcher, store *cache.Store, logger *logrus.Logger, now Clock) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		fetcher: fetcher,
		cache:   store,
		logger:  logger,
		now:     now,
	}
}

// commitDateSet is the cached result of one commit-date collection pass.
type commitDateSet struct {
	Dates   []string
	Skipped int
}

// ListRepositories returns every owned repository of the account, cached for
// the TTL. A listing that fails mid-pagination yields no repositories at all,
// never a partial list.
func (a *Aggregator) ListRepositories(ctx context.Context, account string) ([]domain.Repository, error) {
	v, hit, err := a.cache.Do(cache.Key("repos", account), func() (interface{}, error) {
		repos, err := a.fetcher.ListRepositories(ctx, account)
		if err != nil {
			metrics.UpstreamRequests.WithLabelValues("list_repositories", "error").Inc()
			return nil, err
		}
		metrics.UpstreamRequests.WithLabelValues("list_repositories", "ok").Inc()
		return repos, nil
	})
	if err != nil {
		metrics.CacheMisses.Inc()
		return nil, err
	}
	a.countCache(hit)
	return v.([]domain.Repository), nil
}

// CountNonForkRepositories counts the account's repositories that were not
// forked from another owner.
func (a *Aggregator) CountNonForkRepositories(ctx context.Context, account string) (int, error) {
	repos, err := a.ListRepositories(ctx, account)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range repos {
		if !r.Fork {
			count++
		}
	}
	return count, nil
}

// CountRepositoriesCreatedThisYear counts repositories created in the current
// calendar year, judged against the clock at call time.
func (a *Aggregator) CountRepositoriesCreatedThisYear(ctx context.Context, account string) (int, error) {
	repos, err := a.ListRepositories(ctx, account)
	if err != nil {
		return 0, err
	}
	year := a.now().UTC().Year()
	count := 0
	for _, r := range repos {
		if !r.CreatedAt.IsZero() && r.CreatedAt.UTC().Year() == year {
			count++
		}
	}
	return count, nil
}

// CollectCommitDates returns the ascending-sorted set of days with at least
// one commit within the trailing window. A repository whose commit fetch
// fails is skipped; one broken repository must not empty the whole set.
func (a *Aggregator) CollectCommitDates(ctx context.Context, account string, windowDays int) ([]string, error) {
	set, err := a.collectCommitDateSet(ctx, account, windowDays)
	if err != nil {
		return nil, err
	}
	return set.Dates, nil
}

func (a *Aggregator) collectCommitDateSet(ctx context.Context, account string, windowDays int) (commitDateSet, error) {
	v, hit, err := a.cache.Do(cache.Key("commit-dates", account, windowDays), func() (interface{}, error) {
		// Reuses the cached listing; the three repo-derived operations share
		// one listing round trip per TTL.
		repos, err := a.ListRepositories(ctx, account)
		if err != nil {
			return nil, err
		}

		useLogger := a.logger.WithField("methodName", "CollectCommitDates")
		since := a.now().UTC().AddDate(0, 0, -windowDays)
		seen := make(map[string]struct{})
		skipped := 0
		for _, repo := range repos {
			times, err := a.fetcher.ListCommitTimes(ctx, account, repo.Name, since, time.Time{})
			if err != nil {
				// Empty repositories and access errors are expected here.
				metrics.UpstreamRequests.WithLabelValues("list_commits", "error").Inc()
				metrics.SkippedRepositories.Inc()
				skipped++
				useLogger.WithError(err).WithField("repo", repo.Name).Warn("skipping repository")
				continue
			}
			metrics.UpstreamRequests.WithLabelValues("list_commits", "ok").Inc()
			for _, t := range times {
				seen[t.UTC().Format(dayLayout)] = struct{}{}
			}
		}

		dates := make([]string, 0, len(seen))
		for d := range seen {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		return commitDateSet{Dates: dates, Skipped: skipped}, nil
	})
	if err != nil {
		metrics.CacheMisses.Inc()
		return commitDateSet{}, err
	}
	a.countCache(hit)
	return v.(commitDateSet), nil
}

// ComputeStreak walks backward from today while each day is present in the
// date set. Today without a commit means a streak of zero. Runs in
// O(streak length), not O(set size).
func (a *Aggregator) ComputeStreak(dates []string) int {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}

	day := a.now().UTC()
	streak := 0
	for {
		if _, ok := set[day.Format(dayLayout)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// ComputeWeeklyIncrease counts the days in the set that fall within the last
// seven days. It annotates the streak metric; it is not a week-over-week diff.
func (a *Aggregator) ComputeWeeklyIncrease(dates []string) int {
	cutoff := a.now().UTC().AddDate(0, 0, -7).Format(dayLayout)
	count := 0
	for _, d := range dates {
		if d >= cutoff {
			count++
		}
	}
	return count
}

// MonthlyCommitHistogram buckets the account's commits of the last
// months×30 days by calendar month. A nil map means no commits were found at
// all, which the caller renders differently from an all-zero series.
func (a *Aggregator) MonthlyCommitHistogram(ctx context.Context, account string, months int) (map[string]int, error) {
	v, hit, err := a.cache.Do(cache.Key("monthly-histogram", account, months), func() (interface{}, error) {
		repos, err := a.ListRepositories(ctx, account)
		if err != nil {
			return nil, err
		}

		useLogger := a.logger.WithField("methodName", "MonthlyCommitHistogram")
		until := a.now().UTC()
		since := until.AddDate(0, 0, -months*daysPerMonth)
		counts := make(map[string]int)
		for _, repo := range repos {
			times, err := a.fetcher.ListCommitTimes(ctx, account, repo.Name, since, until)
			if err != nil {
				metrics.UpstreamRequests.WithLabelValues("list_commits", "error").Inc()
				metrics.SkippedRepositories.Inc()
				useLogger.WithError(err).WithField("repo", repo.Name).Warn("skipping repository")
				continue
			}
			metrics.UpstreamRequests.WithLabelValues("list_commits", "ok").Inc()
			for _, t := range times {
				counts[t.UTC().Format(monthLayout)]++
			}
		}

		if len(counts) == 0 {
			return map[string]int(nil), nil
		}
		return counts, nil
	})
	if err != nil {
		metrics.CacheMisses.Inc()
		return nil, err
	}
	a.countCache(hit)
	return v.(map[string]int), nil
}

// ContributionCalendar returns the per-day contribution counts for the
// trailing window, from the GraphQL calendar. Requires a configured token.
func (a *Aggregator) ContributionCalendar(ctx context.Context, account string, windowDays int) ([]domain.DailyCount, error) {
	v, hit, err := a.cache.Do(cache.Key("contribution-calendar", account, windowDays), func() (interface{}, error) {
		to := a.now().UTC()
		from := to.AddDate(0, 0, -windowDays)
		days, err := a.fetcher.FetchContributionDays(ctx, account, from, to)
		if err != nil {
			metrics.UpstreamRequests.WithLabelValues("contribution_calendar", "error").Inc()
			return nil, err
		}
		metrics.UpstreamRequests.WithLabelValues("contribution_calendar", "ok").Inc()
		return days, nil
	})
	if err != nil {
		metrics.CacheMisses.Inc()
		return nil, err
	}
	a.countCache(hit)
	return v.([]domain.DailyCount), nil
}

// MonthlySeries flattens a histogram into a chronologically sorted series for
// the chart and table views.
func MonthlySeries(histogram map[string]int) []domain.MonthlyCount {
	series := make([]domain.MonthlyCount, 0, len(histogram))
	for month, commits := range histogram {
		series = append(series, domain.MonthlyCount{Month: month, Commits: commits})
	}
	// YYYY-MM sorts chronologically as plain strings.
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month < series[j].Month
	})
	return series
}

// Overview assembles everything the page needs in one pass: badge counts,
// streak, weekly delta and the monthly chart series. Fetch failures never
// propagate; they only flip Status so the page can show its fallback message.
func (a *Aggregator) Overview(ctx context.Context, account string, windowDays, months int) *domain.ActivityOverview {
	overview := &domain.ActivityOverview{Account: account, Status: domain.StatusOK}

	repos, err := a.ListRepositories(ctx, account)
	if err != nil {
		overview.Status = statusFromError(err)
		return overview
	}
	year := a.now().UTC().Year()
	for _, r := range repos {
		if !r.Fork {
			overview.RepoCount++
		}
		if !r.CreatedAt.IsZero() && r.CreatedAt.UTC().Year() == year {
			overview.ReposCreatedThisYear++
		}
	}

	dateSet, err := a.collectCommitDateSet(ctx, account, windowDays)
	if err != nil {
		overview.Status = statusFromError(err)
		return overview
	}
	overview.StreakDays = a.ComputeStreak(dateSet.Dates)
	overview.WeeklyIncrease = a.ComputeWeeklyIncrease(dateSet.Dates)
	overview.SkippedRepos = dateSet.Skipped

	histogram, err := a.MonthlyCommitHistogram(ctx, account, months)
	if err != nil {
		overview.Status = statusFromError(err)
		return overview
	}
	if len(histogram) > 0 {
		overview.Monthly = MonthlySeries(histogram)
		values := make([]float64, 0, len(overview.Monthly))
		for _, m := range overview.Monthly {
			values = append(values, float64(m.Commits))
		}
		overview.MeanMonthlyCommits, _ = stats.Mean(values)
		overview.MedianMonthlyCommits, _ = stats.Median(values)
	}
	return overview
}

func (a *Aggregator) countCache(hit bool) {
	if hit {
		metrics.CacheHits.Inc()
	} else {
		metrics.CacheMisses.Inc()
	}
}

func statusFromError(err error) string {
	if gateway.IsRateLimited(err) {
		return domain.StatusRateLimited
	}
	return domain.StatusUnavailable
}
