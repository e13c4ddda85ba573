package usecase

import (
	"testing"

	"github.com/naka-gawa/portfolio-stats/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeStars(t *testing.T) {
	testCases := []struct {
		name     string
		repos    []domain.Repository
		expected domain.StarDistribution
	}{
		{
			name:     "empty list yields zero distribution",
			repos:    nil,
			expected: domain.StarDistribution{},
		},
		{
			name:     "even count takes the middle average",
			repos:    []domain.Repository{{Stars: 4}, {Stars: 1}, {Stars: 10}, {Stars: 3}},
			expected: domain.StarDistribution{Mean: 4.5, Median: 3.5, Max: 10},
		},
		{
			name:     "single repository",
			repos:    []domain.Repository{{Stars: 7}},
			expected: domain.StarDistribution{Mean: 7, Median: 7, Max: 7},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DescribeStars(tc.repos)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
