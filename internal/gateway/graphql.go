package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shurcooL/githubv4"

	"github.com/naka-gawa/portfolio-stats/internal/domain"
	"github.com/naka-gawa/portfolio-stats/internal/logger"
)

// GraphQLGateway implements Fetcher on top of the GitHub GraphQL API.
// GitHub rejects anonymous GraphQL calls, so it needs a token.
type GraphQLGateway struct {
	graphqlClient *githubv4.Client
	perPage       int
	logger        *logger.Logger
}

// profileQuery fetches the same fields the REST user endpoint provides.
type profileQuery struct {
	User struct {
		Login        string
		Name         string
		Bio          string
		AvatarURL    string
		CreatedAt    githubv4.DateTime
		Repositories struct {
			TotalCount *int
		} `graphql:"repositories(privacy: PUBLIC, ownerAffiliations: [OWNER])"`
		Followers struct {
			TotalCount *int
		}
		Following struct {
			TotalCount *int
		}
	} `graphql:"user(login: $login)"`
}

// repositoriesQuery mirrors GET /users/{handle}/repos?sort=updated.
type repositoriesQuery struct {
	User struct {
		Repositories struct {
			Nodes []graphqlRepository
		} `graphql:"repositories(first: $first, privacy: PUBLIC, ownerAffiliations: [OWNER], orderBy: $orderBy)"`
	} `graphql:"user(login: $login)"`
}

type graphqlRepository struct {
	DatabaseID      int64
	Name            string
	Description     string
	URL             string
	HomepageURL     string
	PrimaryLanguage struct {
		Name string
	}
	StargazerCount   *int
	ForkCount        *int
	IsFork           *bool
	RepositoryTopics struct {
		Nodes []struct {
			Topic struct {
				Name string
			}
		}
	} `graphql:"repositoryTopics(first: 20)"`
	CreatedAt githubv4.DateTime
	UpdatedAt githubv4.DateTime
}

// NewGraphQLGateway creates a GraphQLGateway. opts.BaseURL is the GraphQL
// endpoint; empty means api.github.com.
func NewGraphQLGateway(opts Options, log *logger.Logger) (*GraphQLGateway, error) {
	if opts.Token == "" {
		return nil, errors.New("the GraphQL API requires a token")
	}
	httpClient, err := newHTTPClient(opts)
	if err != nil {
		return nil, err
	}
	httpClient.Transport = &statusTransport{base: httpClient.Transport}

	var client *githubv4.Client
	if opts.BaseURL != "" {
		client = githubv4.NewEnterpriseClient(opts.BaseURL, httpClient)
	} else {
		client = githubv4.NewClient(httpClient)
	}

	return &GraphQLGateway{
		graphqlClient: client,
		perPage:       opts.perPage(),
		logger:        log,
	}, nil
}

// FetchProfile retrieves the account profile through the user(login:) query.
func (g *GraphQLGateway) FetchProfile(ctx context.Context, handle string) (*domain.Profile, error) {
	g.logger.Debugw("fetching profile via GraphQL", "handle", handle)
	var q profileQuery
	variables := map[string]interface{}{"login": githubv4.String(handle)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, classifyGraphQL(opFetchProfile, err)
	}
	var missing []string
	if q.User.Login == "" {
		missing = append(missing, "login")
	}
	if q.User.Repositories.TotalCount == nil {
		missing = append(missing, "repositories.totalCount")
	}
	if q.User.Followers.TotalCount == nil {
		missing = append(missing, "followers.totalCount")
	}
	if q.User.Following.TotalCount == nil {
		missing = append(missing, "following.totalCount")
	}
	if len(missing) > 0 {
		return nil, &MalformedResponseError{
			Op:     opFetchProfile,
			Reason: "missing " + strings.Join(missing, ", "),
		}
	}
	if err := checkCounts(opFetchProfile, "",
		count{"repositories.totalCount", *q.User.Repositories.TotalCount},
		count{"followers.totalCount", *q.User.Followers.TotalCount},
		count{"following.totalCount", *q.User.Following.TotalCount},
	); err != nil {
		return nil, err
	}

	return &domain.Profile{
		Login:       q.User.Login,
		Name:        q.User.Name,
		Bio:         q.User.Bio,
		PublicRepos: *q.User.Repositories.TotalCount,
		Followers:   *q.User.Followers.TotalCount,
		Following:   *q.User.Following.TotalCount,
		CreatedAt:   q.User.CreatedAt.Time,
		AvatarURL:   q.User.AvatarURL,
	}, nil
}

// FetchRepositories retrieves one page of owned public repositories, most
// recently updated first.
func (g *GraphQLGateway) FetchRepositories(ctx context.Context, handle string) ([]domain.Repository, error) {
	g.logger.Debugw("fetching repositories via GraphQL", "handle", handle, "first", g.perPage)
	var q repositoriesQuery
	variables := map[string]interface{}{
		"login": githubv4.String(handle),
		"first": githubv4.Int(g.perPage),
		"orderBy": githubv4.RepositoryOrder{
			Field:     githubv4.RepositoryOrderFieldUpdatedAt,
			Direction: githubv4.OrderDirectionDesc,
		},
	}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, classifyGraphQL(opFetchRepositories, err)
	}

	nodes := q.User.Repositories.Nodes
	result := make([]domain.Repository, 0, len(nodes))
	for i, node := range nodes {
		if err := validateNode(i, node); err != nil {
			return nil, err
		}
		topics := make([]string, 0, len(node.RepositoryTopics.Nodes))
		for _, t := range node.RepositoryTopics.Nodes {
			topics = append(topics, t.Topic.Name)
		}
		result = append(result, domain.Repository{
			ID:          node.DatabaseID,
			Name:        node.Name,
			Description: node.Description,
			HTMLURL:     node.URL,
			Homepage:    node.HomepageURL,
			Language:    node.PrimaryLanguage.Name,
			Stars:       *node.StargazerCount,
			Forks:       *node.ForkCount,
			Fork:        *node.IsFork,
			Topics:      topics,
			CreatedAt:   node.CreatedAt.Time,
			UpdatedAt:   node.UpdatedAt.Time,
		})
	}
	g.logger.Debugw("fetched repositories via GraphQL", "handle", handle, "count", len(result))
	return result, nil
}

// validateNode applies the same per-element policy as the REST gateway: one
// incomplete node rejects the whole batch.
func validateNode(index int, node graphqlRepository) error {
	var missing []string
	if node.DatabaseID == 0 {
		missing = append(missing, "databaseId")
	}
	if node.Name == "" {
		missing = append(missing, "name")
	}
	if node.URL == "" {
		missing = append(missing, "url")
	}
	if node.StargazerCount == nil {
		missing = append(missing, "stargazerCount")
	}
	if node.ForkCount == nil {
		missing = append(missing, "forkCount")
	}
	if node.IsFork == nil {
		missing = append(missing, "isFork")
	}
	if len(missing) > 0 {
		return &MalformedResponseError{
			Op:     opFetchRepositories,
			Reason: fmt.Sprintf("element %d: missing %s", index, strings.Join(missing, ", ")),
		}
	}
	return checkCounts(opFetchRepositories, fmt.Sprintf("element %d: ", index),
		count{"stargazerCount", *node.StargazerCount},
		count{"forkCount", *node.ForkCount},
	)
}

// statusError carries a non-2xx HTTP status out of the GraphQL client, which
// otherwise flattens it into an opaque message.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.code, http.StatusText(e.code), e.body)
}

type statusTransport struct {
	base http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}
	return resp, nil
}

// classifyGraphQL maps a githubv4 failure onto the gateway error types.
// A captured HTTP status or a transport failure is a RemoteFetchError, as is
// a GraphQL errors array on a 200 response (unknown users end up there). A
// body that does not decode is a MalformedResponseError.
func classifyGraphQL(op string, err error) error {
	var se *statusError
	if errors.As(err, &se) {
		return &RemoteFetchError{Op: op, StatusCode: se.code, Err: err}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &MalformedResponseError{Op: op, Reason: "undecodable body", Err: err}
	}
	return &RemoteFetchError{Op: op, Err: err}
}
