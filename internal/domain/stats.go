// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Profile is the subset of a GitHub account that the portfolio consumes.
type Profile struct {
	Login       string    `json:"login"`
	Name        string    `json:"name,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
	AvatarURL   string    `json:"avatar_url"`
}

// Repository is a single repository owned by the account.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	HTMLURL     string    `json:"html_url"`
	Homepage    string    `json:"homepage,omitempty"`
	Language    string    `json:"language,omitempty"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	Fork        bool      `json:"fork"`
	Topics      []string  `json:"topics"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StatsSummary is the aggregate shown in the portfolio's activity panel.
//
// TotalRepos comes from the profile, while TotalStars and TotalForks are sums
// over the single fetched page of repositories. For accounts with more
// repositories than the page cap the two sums undercount.
type StatsSummary struct {
	TotalRepos  int `json:"total_repos"`
	TotalStars  int `json:"total_stars"`
	TotalForks  int `json:"total_forks"`
	Followers   int `json:"followers"`
	Following   int `json:"following"`
	PublicGists int `json:"public_gists"`
}

// StarDistribution describes how stars spread across the fetched repositories.
type StarDistribution struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// Report bundles the summary with the star distribution of the same fetch.
type Report struct {
	Summary StatsSummary     `json:"summary"`
	Stars   StarDistribution `json:"star_distribution"`
}
