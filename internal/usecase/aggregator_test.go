package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/naka-gawa/portfolio-stats/internal/domain"
	"github.com/naka-gawa/portfolio-stats/internal/gateway"
	"github.com/naka-gawa/portfolio-stats/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchProfile(ctx context.Context, handle string) (*domain.Profile, error) {
	args := m.Called(ctx, handle)
	// We need to handle the case where the returned profile is nil (e.g., when an error occurs).
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockFetcher) FetchRepositories(ctx context.Context, handle string) ([]domain.Repository, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repository), args.Error(1)
}

// TestAggregator_Summarize uses a table-driven approach to test the aggregator.
func TestAggregator_Summarize(t *testing.T) {
	notFound := &gateway.RemoteFetchError{Op: "fetch profile", StatusCode: 404, Err: errors.New("404 Not Found")}
	malformed := &gateway.MalformedResponseError{Op: "fetch repositories", Reason: "element 0: missing id"}

	testCases := []struct {
		name           string
		mockProfile    *domain.Profile
		mockRepos      []domain.Repository
		mockProfileErr error
		mockReposErr   error
		expectedResult *domain.StatsSummary
		expectedErr    error
	}{
		{
			name:        "happy path - joins profile and repositories",
			mockProfile: &domain.Profile{Login: "octo", PublicRepos: 42, Followers: 10, Following: 3},
			mockRepos: []domain.Repository{
				{ID: 1, Name: "a", Stars: 5, Forks: 1},
				{ID: 2, Name: "b", Stars: 7, Forks: 0},
			},
			expectedResult: &domain.StatsSummary{
				TotalRepos:  42,
				TotalStars:  12,
				TotalForks:  1,
				Followers:   10,
				Following:   3,
				PublicGists: 0,
			},
		},
		{
			name:        "total repos comes from the profile, not the capped page",
			mockProfile: &domain.Profile{Login: "octo", PublicRepos: 250},
			mockRepos: []domain.Repository{
				{ID: 1, Name: "a", Stars: 1, Forks: 2},
			},
			expectedResult: &domain.StatsSummary{TotalRepos: 250, TotalStars: 1, TotalForks: 2},
		},
		{
			name:           "empty case - no repositories",
			mockProfile:    &domain.Profile{Login: "octo", Followers: 1},
			mockRepos:      []domain.Repository{},
			expectedResult: &domain.StatsSummary{Followers: 1},
		},
		{
			name:           "error case - profile not found discards the repositories",
			mockRepos:      []domain.Repository{{ID: 1, Name: "a", Stars: 99}},
			mockProfileErr: notFound,
			expectedErr:    notFound,
		},
		{
			name:         "error case - repository list is malformed",
			mockProfile:  &domain.Profile{Login: "octo", PublicRepos: 1},
			mockReposErr: malformed,
			expectedErr:  malformed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange: Set up the test for this specific case ---
			ctx := context.Background()
			fetcher := new(mockFetcher)
			fetcher.On("FetchProfile", mock.Anything, "octo").Return(tc.mockProfile, tc.mockProfileErr)
			fetcher.On("FetchRepositories", mock.Anything, "octo").Return(tc.mockRepos, tc.mockReposErr)

			aggregator := NewAggregator(fetcher, logger.Nop())

			// --- Act: Execute the method we want to test ---
			result, err := aggregator.Summarize(ctx, "octo")

			// --- Assert: Check the results ---
			if tc.expectedErr != nil {
				// The fetcher's error must surface as the very same value.
				assert.Same(t, tc.expectedErr, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedResult, result)
			}

			fetcher.AssertExpectations(t)
		})
	}
}

func TestAggregator_Summarize_ProfileNotFoundIsRemoteFetchError(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchProfile", mock.Anything, "octo").
		Return(nil, &gateway.RemoteFetchError{Op: "fetch profile", StatusCode: 404, Err: errors.New("not found")})
	fetcher.On("FetchRepositories", mock.Anything, "octo").
		Return([]domain.Repository{{ID: 1, Stars: 3}}, nil)

	result, err := NewAggregator(fetcher, logger.Nop()).Summarize(context.Background(), "octo")

	var remoteErr *gateway.RemoteFetchError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, 404, remoteErr.StatusCode)
	assert.Nil(t, result)
}

func TestAggregator_Report(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchProfile", mock.Anything, "octo").
		Return(&domain.Profile{Login: "octo", PublicRepos: 3, Followers: 2, Following: 1}, nil)
	fetcher.On("FetchRepositories", mock.Anything, "octo").
		Return([]domain.Repository{{ID: 1, Stars: 1}, {ID: 2, Stars: 2, Forks: 4}, {ID: 3, Stars: 9}}, nil)

	report, err := NewAggregator(fetcher, logger.Nop()).Report(context.Background(), "octo")

	require.NoError(t, err)
	assert.Equal(t, domain.StatsSummary{TotalRepos: 3, TotalStars: 12, TotalForks: 4, Followers: 2, Following: 1}, report.Summary)
	assert.Equal(t, domain.StarDistribution{Mean: 4, Median: 2, Max: 9}, report.Stars)
	fetcher.AssertExpectations(t)
}

func TestAggregator_Report_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	fetcher := new(mockFetcher)
	fetcher.On("FetchProfile", mock.Anything, "octo").Return(&domain.Profile{Login: "octo"}, nil)
	fetcher.On("FetchRepositories", mock.Anything, "octo").Return(nil, boom)

	report, err := NewAggregator(fetcher, logger.Nop()).Report(context.Background(), "octo")

	assert.Same(t, boom, err)
	assert.Nil(t, report)
}
