package usecase

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/portfolio-stats/internal/domain"
)

// DescribeStars computes mean, median and max stars over repos. An empty list
// yields a zero distribution.
func DescribeStars(repos []domain.Repository) (domain.StarDistribution, error) {
	if len(repos) == 0 {
		return domain.StarDistribution{}, nil
	}

	data := make(stats.Float64Data, 0, len(repos))
	for _, repo := range repos {
		data = append(data, float64(repo.Stars))
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return domain.StarDistribution{}, fmt.Errorf("failed to compute mean stars: %w", err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return domain.StarDistribution{}, fmt.Errorf("failed to compute median stars: %w", err)
	}
	highest, err := stats.Max(data)
	if err != nil {
		return domain.StarDistribution{}, fmt.Errorf("failed to compute max stars: %w", err)
	}

	return domain.StarDistribution{Mean: mean, Median: median, Max: highest}, nil
}
