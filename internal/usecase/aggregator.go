// Package usecase contains the business logic of the application.
package usecase

import (
	"context"

	"github.com/naka-gawa/portfolio-stats/internal/domain"
	"github.com/naka-gawa/portfolio-stats/internal/gateway"
	"github.com/naka-gawa/portfolio-stats/internal/logger"
	"golang.org/x/sync/errgroup"
)

// Aggregator is the use case for aggregating GitHub stats.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *logger.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, log *logger.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  log,
	}
}

// Summarize fetches the profile and the repository page concurrently and
// reduces them into a StatsSummary. If either fetch fails its error is
// returned as is and no summary is produced.
func (a *Aggregator) Summarize(ctx context.Context, handle string) (*domain.StatsSummary, error) {
	profile, repos, err := a.collect(ctx, handle)
	if err != nil {
		return nil, err
	}
	summary := summarize(profile, repos)
	a.logger.Infow("Usecase: Aggregation complete.", "handle", handle, "total_repos", summary.TotalRepos)
	return &summary, nil
}

// Report is Summarize plus the star distribution of the same repository page.
func (a *Aggregator) Report(ctx context.Context, handle string) (*domain.Report, error) {
	profile, repos, err := a.collect(ctx, handle)
	if err != nil {
		return nil, err
	}
	stars, err := DescribeStars(repos)
	if err != nil {
		return nil, err
	}
	return &domain.Report{
		Summary: summarize(profile, repos),
		Stars:   stars,
	}, nil
}

// collect runs both fetches and waits for both.
func (a *Aggregator) collect(ctx context.Context, handle string) (*domain.Profile, []domain.Repository, error) {
	a.logger.Infow("Usecase: Starting data aggregation...", "handle", handle)

	var profile *domain.Profile
	var repos []domain.Repository

	// Use an errgroup to fetch all data concurrently.
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		profile, err = a.fetcher.FetchProfile(egCtx, handle)
		return err
	})

	eg.Go(func() error {
		var err error
		repos, err = a.fetcher.FetchRepositories(egCtx, handle)
		return err
	})

	if err := eg.Wait(); err != nil {
		a.logger.Debugw("Usecase: fetch failed", "handle", handle, "error", err)
		return nil, nil, err
	}
	a.logger.Debugw("Usecase: All data fetched successfully.", "handle", handle, "repositories", len(repos))
	return profile, repos, nil
}

// summarize takes the repository total from the profile rather than the
// page length, since the page is capped.
func summarize(profile *domain.Profile, repos []domain.Repository) domain.StatsSummary {
	summary := domain.StatsSummary{
		TotalRepos: profile.PublicRepos,
		Followers:  profile.Followers,
		Following:  profile.Following,
		// The user endpoint fields consumed here carry no gist count.
		PublicGists: 0,
	}
	for _, repo := range repos {
		summary.TotalStars += repo.Stars
		summary.TotalForks += repo.Forks
	}
	return summary
}
