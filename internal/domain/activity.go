// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Repository holds the subset of repository metadata the aggregator cares about.
type Repository struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Fork      bool      `json:"fork"`
}

// DailyCount is one calendar day of contribution activity.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// MonthlyCount is one month of the commit histogram, used by the chart and table views.
type MonthlyCount struct {
	Month   string `json:"month"` // YYYY-MM
	Commits int    `json:"commits"`
}

// Data-availability states reported alongside aggregation results, so the
// presentation layer can pick the right fallback message.
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
	StatusRateLimited = "rate_limited"
)

// ActivityOverview is the composite result consumed by the presentation layer:
// numeric badges, the streak counter and the monthly chart all come from here.
type ActivityOverview struct {
	Account              string         `json:"account"`
	RepoCount            int            `json:"repo_count"`
	ReposCreatedThisYear int            `json:"repos_created_this_year"`
	StreakDays           int            `json:"streak_days"`
	WeeklyIncrease       int            `json:"weekly_increase"`
	Monthly              []MonthlyCount `json:"monthly,omitempty"`
	MeanMonthlyCommits   float64        `json:"mean_monthly_commits"`
	MedianMonthlyCommits float64        `json:"median_monthly_commits"`
	SkippedRepos         int            `json:"skipped_repos"`
	Status               string         `json:"status"`
}
