// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// RepoStats holds the open-source counters shown on the landing page.
// A nil field means the upstream value could not be obtained and is
// serialised as JSON null.
type RepoStats struct {
	Stars        *int `json:"stars"`
	Contributors *int `json:"contributors"`
}

// Release is the latest published release of the repository.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// RepoOverview is the richer repository summary served from the GraphQL API.
type RepoOverview struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	URL           string   `json:"url"`
	Stars         int      `json:"stars"`
	Forks         int      `json:"forks"`
	OpenIssues    int      `json:"open_issues"`
	LatestRelease *Release `json:"latest_release"`
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
