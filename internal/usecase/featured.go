package usecase

import (
	"context"
	"sort"

	"github.com/naka-gawa/portfolio-stats/internal/domain"
)

// DefaultFeaturedLimit is the number of repositories featured when no limit is given.
const DefaultFeaturedLimit = 6

// Featured fetches the repository page and returns its top non-fork entries.
func (a *Aggregator) Featured(ctx context.Context, handle string, limit int) ([]domain.Repository, error) {
	repos, err := a.fetcher.FetchRepositories(ctx, handle)
	if err != nil {
		return nil, err
	}
	featured := SelectFeatured(repos, limit)
	a.logger.Infow("Usecase: Selected featured repositories.", "handle", handle, "count", len(featured))
	return featured, nil
}

// SelectFeatured drops forks, orders the rest by stars, then most recent
// update, then ID, and keeps the first limit entries. A limit <= 0 means
// DefaultFeaturedLimit. repos is not modified.
func SelectFeatured(repos []domain.Repository, limit int) []domain.Repository {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}

	selected := make([]domain.Repository, 0, len(repos))
	for _, repo := range repos {
		if !repo.Fork {
			selected = append(selected, repo)
		}
	}

	sort.Slice(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.Stars != b.Stars {
			return a.Stars > b.Stars
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID < b.ID
	})

	if len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}
