// Package gateway provides the gateways to the upstream services the site
// depends on: the GitHub REST and GraphQL APIs and the transactional email
// provider.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/pebbling-ai/pebbling-site/internal/domain"
	"github.com/pebbling-ai/pebbling-site/internal/logging"
)

// ErrTokenRequired is returned by GraphQL lookups when no token is configured.
// The GraphQL API does not accept anonymous requests.
var ErrTokenRequired = errors.New("github token required for GraphQL API")

// Fetcher defines the behavior of a gateway for fetching repository information from GitHub.
type Fetcher interface {
	FetchStars(ctx context.Context, owner, repo string) (*int, error)
	FetchContributors(ctx context.Context, owner, repo string) (int, error)
	FetchOverview(ctx context.Context, owner, repo string) (*domain.RepoOverview, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	authenticated bool
	logger        *zap.SugaredLogger
}

// GitHubOptions configures NewGitHubGateway.
type GitHubOptions struct {
	// Token is optional. Without it requests are anonymous and subject to
	// the lower unauthenticated rate limit.
	Token string
	// BaseURL overrides https://api.github.com. The GraphQL endpoint is
	// BaseURL + "/graphql".
	BaseURL string
	Timeout time.Duration
	Logger  *zap.SugaredLogger
}

// repoOverviewQuery fetches the repository summary in a single GraphQL round trip.
type repoOverviewQuery struct {
	Repository struct {
		Name           string
		Description    string
		URL            string
		StargazerCount int
		ForkCount      int
		Issues         struct {
			TotalCount int
		} `graphql:"issues(states: OPEN)"`
		LatestRelease struct {
			TagName     string
			Name        string
			URL         string
			PublishedAt githubv4.DateTime
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts GitHubOptions) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(time.Minute, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	var transport http.RoundTripper = rateLimitWaiter
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
		}
	}
	httpClient := &http.Client{Transport: transport, Timeout: opts.Timeout}

	restClient := github.NewClient(httpClient)
	graphqlClient := githubv4.NewClient(httpClient)
	if opts.BaseURL != "" {
		base := strings.TrimRight(opts.BaseURL, "/")
		u, err := url.Parse(base + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL %q: %w", opts.BaseURL, err)
		}
		restClient.BaseURL = u
		graphqlClient = githubv4.NewEnterpriseClient(base+"/graphql", httpClient)
	}
	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		authenticated: opts.Token != "",
		logger:        logging.OrNop(opts.Logger),
	}, nil
}

// FetchStars returns the stargazer count of owner/repo. The count is nil
// when the API response does not carry the field.
func (g *GitHubGateway) FetchStars(ctx context.Context, owner, repo string) (*int, error) {
	repository, resp, err := g.restClient.Repositories.Get(ctx, owner, repo)
	if err != nil {
		g.logUpstreamError("repo", resp, err)
		return nil, fmt.Errorf("failed to fetch repo data: %w", err)
	}
	return repository.StargazersCount, nil
}

// FetchContributors returns the number of contributors of owner/repo.
//
// It lists a single contributor per page so the "last" relation of the
// Link header carries the total. Without a Link header there is only one
// page. A Link header without a usable "last" relation falls back to
// counting every page.
func (g *GitHubGateway) FetchContributors(ctx context.Context, owner, repo string) (int, error) {
	opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: 1}}
	contributors, resp, err := g.restClient.Repositories.ListContributors(ctx, owner, repo, opts)
	if err != nil {
		g.logUpstreamError("contributors", resp, err)
		return 0, fmt.Errorf("failed to fetch contributors: %w", err)
	}
	if resp.LastPage > 0 {
		return resp.LastPage, nil
	}
	if resp.Header.Get("Link") == "" || resp.NextPage == 0 {
		return len(contributors), nil
	}
	g.logger.Warnw("contributors Link header has no last page, counting all pages",
		"repo", owner+"/"+repo,
		"link", resp.Header.Get("Link"))
	return g.countAllContributors(ctx, owner, repo)
}

func (g *GitHubGateway) countAllContributors(ctx context.Context, owner, repo string) (int, error) {
	opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: 100}}
	total := 0
	for {
		contributors, resp, err := g.restClient.Repositories.ListContributors(ctx, owner, repo, opts)
		if err != nil {
			g.logUpstreamError("contributors", resp, err)
			return 0, fmt.Errorf("failed to count contributors: %w", err)
		}
		total += len(contributors)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debugw("fetching next page of contributors", "page", resp.NextPage)
	}
	return total, nil
}

// FetchOverview fetches the repository summary from the GraphQL API.
func (g *GitHubGateway) FetchOverview(ctx context.Context, owner, repo string) (*domain.RepoOverview, error) {
	if !g.authenticated {
		return nil, ErrTokenRequired
	}
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(repo),
	}
	var q repoOverviewQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		g.logger.Errorw("GitHub GraphQL error", "repo", owner+"/"+repo, "err", err)
		return nil, fmt.Errorf("failed to execute GraphQL query for overview: %w", err)
	}
	r := q.Repository
	overview := &domain.RepoOverview{
		Name:        r.Name,
		Description: r.Description,
		URL:         r.URL,
		Stars:       r.StargazerCount,
		Forks:       r.ForkCount,
		OpenIssues:  r.Issues.TotalCount,
	}
	if r.LatestRelease.TagName != "" {
		overview.LatestRelease = &domain.Release{
			TagName:     r.LatestRelease.TagName,
			Name:        r.LatestRelease.Name,
			URL:         r.LatestRelease.URL,
			PublishedAt: r.LatestRelease.PublishedAt.Time,
		}
	}
	return overview, nil
}

func (g *GitHubGateway) logUpstreamError(endpoint string, resp *github.Response, err error) {
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}
	message := err.Error()
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		message = errResp.Message
	}
	g.logger.Errorw("GitHub API error",
		"endpoint", endpoint,
		"status", status,
		"message", message)
}
