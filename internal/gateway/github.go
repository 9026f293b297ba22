// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
)

// PullRequest is the detail snapshot of a single pull request, holding
// exactly the fields the workload aggregation needs. Additions and
// deletions default to 0 when the API omits them.
type PullRequest struct {
	Number             int
	Author             string
	Title              string
	State              string
	Additions          int
	Deletions          int
	RequestedReviewers []string
}

// ChangedLines is the pull request's total code churn.
func (pr *PullRequest) ChangedLines() int {
	return pr.Additions + pr.Deletions
}

// Fetcher defines the behavior of a gateway for fetching information
// from GitHub and requesting reviews.
type Fetcher interface {
	FetchPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error)
	FetchOpenPullRequestNumbers(ctx context.Context, owner, repo string) ([]int, error)
	FetchReviewerLogins(ctx context.Context, owner, repo string, number int) ([]string, error)
	CountRecentReviews(ctx context.Context, owner, repo, user string, since time.Time) (int, error)
	RequestReviewer(ctx context.Context, owner, repo string, number int, user string) error
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// recentReviewsQuery counts closed pull requests matching a search
// query; only the total is needed, so a single node is requested.
type recentReviewsQuery struct {
	Search struct {
		IssueCount githubv4.Int
	} `graphql:"search(query: $query, type: ISSUE, first: 1)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// FetchPullRequest fetches the full detail of one pull request.
func (g *GitHubGateway) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	pr, _, err := g.restClient.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch details for PR #%d: %w", number, err)
	}

	requested := make([]string, 0, len(pr.RequestedReviewers))
	for _, reviewer := range pr.RequestedReviewers {
		requested = append(requested, reviewer.GetLogin())
	}

	return &PullRequest{
		Number:             pr.GetNumber(),
		Author:             pr.GetUser().GetLogin(),
		Title:              pr.GetTitle(),
		State:              pr.GetState(),
		Additions:          pr.GetAdditions(),
		Deletions:          pr.GetDeletions(),
		RequestedReviewers: requested,
	}, nil
}

// FetchOpenPullRequestNumbers enumerates every open pull request in
// the repository, walking all pages before returning.
func (g *GitHubGateway) FetchOpenPullRequestNumbers(ctx context.Context, owner, repo string) ([]int, error) {
	opts := &github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var numbers []int
	for {
		prs, resp, err := g.restClient.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list open PRs for %s/%s: %w", owner, repo, err)
		}
		for _, pr := range prs {
			numbers = append(numbers, pr.GetNumber())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of open pull requests...")
	}
	return numbers, nil
}

// FetchReviewerLogins returns the login of every user who has
// submitted a review on the pull request. Logins may repeat when a
// user reviewed more than once.
func (g *GitHubGateway) FetchReviewerLogins(ctx context.Context, owner, repo string, number int) ([]string, error) {
	opts := &github.ListOptions{PerPage: 100}
	var logins []string
	for {
		reviews, resp, err := g.restClient.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list reviews for PR #%d: %w", number, err)
		}
		for _, review := range reviews {
			if login := review.GetUser().GetLogin(); login != "" {
				logins = append(logins, login)
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Printf("  Fetching next page of reviews for PR #%d...\n", number)
	}
	return logins, nil
}

// CountRecentReviews counts the pull requests in the repository that
// the user has reviewed and that were closed on or after since. The
// search runs at date granularity.
func (g *GitHubGateway) CountRecentReviews(ctx context.Context, owner, repo, user string, since time.Time) (int, error) {
	query := fmt.Sprintf("repo:%s/%s is:pr reviewed-by:%s closed:>%s",
		owner, repo, user, since.Format("2006-01-02"))
	variables := map[string]interface{}{"query": githubv4.String(query)}

	var q recentReviewsQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return 0, fmt.Errorf("failed to search recent reviews for @%s: %w", user, err)
	}
	return int(q.Search.IssueCount), nil
}

// RequestReviewer requests a review from user on the pull request.
func (g *GitHubGateway) RequestReviewer(ctx context.Context, owner, repo string, number int, user string) error {
	request := github.ReviewersRequest{Reviewers: []string{user}}
	if _, _, err := g.restClient.PullRequests.RequestReviewers(ctx, owner, repo, number, request); err != nil {
		return fmt.Errorf("failed to assign @%s as reviewer to PR #%d: %w", user, number, err)
	}
	return nil
}
