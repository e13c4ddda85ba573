// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/portfolio-stats/internal/domain"
	"github.com/naka-gawa/portfolio-stats/internal/logger"
)

// MaxPerPage is the largest page GitHub serves and the only page we fetch.
// Repositories past it are excluded from every aggregate.
const MaxPerPage = 100

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchProfile(ctx context.Context, handle string) (*domain.Profile, error)
	FetchRepositories(ctx context.Context, handle string) ([]domain.Repository, error)
}

// Options configures the HTTP side of a gateway.
type Options struct {
	// BaseURL is the REST root for GitHubGateway or the GraphQL endpoint for
	// GraphQLGateway.
	BaseURL string
	// PerPage is the repository page size, 1..MaxPerPage. Zero means MaxPerPage.
	PerPage int
	// Token is optional. When set, requests carry it as a bearer token.
	Token string
	// WaitSecondaryRateLimit sleeps through GitHub's secondary rate limits
	// instead of failing.
	WaitSecondaryRateLimit bool
}

func (o Options) perPage() int {
	if o.PerPage <= 0 || o.PerPage > MaxPerPage {
		return MaxPerPage
	}
	return o.PerPage
}

// GitHubGateway is the REST implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	perPage    int
	logger     *logger.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, log *logger.Logger) (*GitHubGateway, error) {
	httpClient, err := newHTTPClient(opts)
	if err != nil {
		return nil, err
	}

	restClient := github.NewClient(httpClient)
	if opts.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", opts.BaseURL, err)
		}
		restClient.BaseURL = baseURL
	}

	return &GitHubGateway{
		restClient: restClient,
		perPage:    opts.perPage(),
		logger:     log,
	}, nil
}

// newHTTPClient builds the transport chain shared by both gateways. No client
// timeout is set; callers bound requests through the context.
func newHTTPClient(opts Options) (*http.Client, error) {
	var transport http.RoundTripper = http.DefaultTransport
	if opts.WaitSecondaryRateLimit {
		rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
		}
		transport = rateLimitWaiter
	}
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Base:   transport,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		}
	}
	return &http.Client{Transport: transport}, nil
}

// FetchProfile retrieves the account profile with a single GET /users/{handle}.
func (g *GitHubGateway) FetchProfile(ctx context.Context, handle string) (*domain.Profile, error) {
	g.logger.Debugw("fetching profile", "handle", handle)
	user, resp, err := g.restClient.Users.Get(ctx, handle)
	if err != nil {
		return nil, classify(opFetchProfile, resp, err)
	}

	profile, err := toProfile(user)
	if err != nil {
		return nil, err
	}
	g.logger.Debugw("fetched profile", "handle", handle, "public_repos", profile.PublicRepos)
	return profile, nil
}

// FetchRepositories retrieves the first page of the account's repositories,
// most recently updated first.
func (g *GitHubGateway) FetchRepositories(ctx context.Context, handle string) ([]domain.Repository, error) {
	g.logger.Debugw("fetching repositories", "handle", handle, "per_page", g.perPage)
	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	repos, resp, err := g.restClient.Repositories.ListByUser(ctx, handle, opts)
	if err != nil {
		return nil, classify(opFetchRepositories, resp, err)
	}

	result := make([]domain.Repository, 0, len(repos))
	for i, repo := range repos {
		r, err := toRepository(i, repo)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if resp != nil && resp.NextPage != 0 {
		g.logger.Infow("repository list truncated at page cap", "handle", handle, "per_page", g.perPage)
	}
	g.logger.Debugw("fetched repositories", "handle", handle, "count", len(result))
	return result, nil
}

// classify maps a go-github failure onto the gateway error types. go-github
// only returns an error alongside a 2xx response when decoding the body failed.
func classify(op string, resp *github.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return &RemoteFetchError{Op: op, Err: err}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &MalformedResponseError{Op: op, Reason: "undecodable body", Err: err}
	}
	return &RemoteFetchError{Op: op, StatusCode: resp.StatusCode, Err: err}
}

func toProfile(user *github.User) (*domain.Profile, error) {
	if user == nil {
		return nil, &MalformedResponseError{Op: opFetchProfile, Reason: "empty body"}
	}
	var missing []string
	if user.Login == nil {
		missing = append(missing, "login")
	}
	if user.PublicRepos == nil {
		missing = append(missing, "public_repos")
	}
	if user.Followers == nil {
		missing = append(missing, "followers")
	}
	if user.Following == nil {
		missing = append(missing, "following")
	}
	if len(missing) > 0 {
		return nil, &MalformedResponseError{
			Op:     opFetchProfile,
			Reason: "missing " + strings.Join(missing, ", "),
		}
	}
	if err := checkCounts(opFetchProfile, "",
		count{"public_repos", user.GetPublicRepos()},
		count{"followers", user.GetFollowers()},
		count{"following", user.GetFollowing()},
	); err != nil {
		return nil, err
	}

	return &domain.Profile{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		Bio:         user.GetBio(),
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		CreatedAt:   user.GetCreatedAt().Time,
		AvatarURL:   user.GetAvatarURL(),
	}, nil
}

// toRepository validates one list element. A single bad element rejects the
// whole batch.
func toRepository(index int, repo *github.Repository) (domain.Repository, error) {
	if repo == nil {
		return domain.Repository{}, &MalformedResponseError{
			Op:     opFetchRepositories,
			Reason: fmt.Sprintf("element %d is null", index),
		}
	}
	var missing []string
	if repo.ID == nil {
		missing = append(missing, "id")
	}
	if repo.Name == nil {
		missing = append(missing, "name")
	}
	if repo.HTMLURL == nil {
		missing = append(missing, "html_url")
	}
	if repo.StargazersCount == nil {
		missing = append(missing, "stargazers_count")
	}
	if repo.ForksCount == nil {
		missing = append(missing, "forks_count")
	}
	if repo.Fork == nil {
		missing = append(missing, "fork")
	}
	if len(missing) > 0 {
		return domain.Repository{}, &MalformedResponseError{
			Op:     opFetchRepositories,
			Reason: fmt.Sprintf("element %d: missing %s", index, strings.Join(missing, ", ")),
		}
	}
	if err := checkCounts(opFetchRepositories, fmt.Sprintf("element %d: ", index),
		count{"stargazers_count", repo.GetStargazersCount()},
		count{"forks_count", repo.GetForksCount()},
	); err != nil {
		return domain.Repository{}, err
	}

	return domain.Repository{
		ID:          repo.GetID(),
		Name:        repo.GetName(),
		Description: repo.GetDescription(),
		HTMLURL:     repo.GetHTMLURL(),
		Homepage:    repo.GetHomepage(),
		Language:    repo.GetLanguage(),
		Stars:       repo.GetStargazersCount(),
		Forks:       repo.GetForksCount(),
		Fork:        repo.GetFork(),
		Topics:      append([]string(nil), repo.Topics...),
		CreatedAt:   repo.GetCreatedAt().Time,
		UpdatedAt:   repo.GetUpdatedAt().Time,
	}, nil
}
