// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"

	"github.com/mkojima-dev/review-balancer/internal/domain"
	"github.com/mkojima-dev/review-balancer/internal/gateway"
)

// Aggregator is the use case that walks every open pull request in a
// repository and accumulates the current review workload of each
// roster member.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Aggregate returns one workload entry per roster member. A member is
// engaged on a pull request when they are a requested reviewer or have
// already submitted a review; each engagement adds one open review and
// the pull request's changed lines to their workload.
//
// The full set of open PR numbers is enumerated before any per-PR
// detail is fetched, so a pagination failure surfaces before per-PR
// work is spent. A failure fetching one PR's detail aborts the whole
// aggregation; a failure fetching one PR's review list does not, and
// is treated as "no reviews".
func (a *Aggregator) Aggregate(ctx context.Context, owner, repo string, roster []string) (map[string]*domain.ReviewerWorkload, error) {
	workloads := make(map[string]*domain.ReviewerWorkload, len(roster))
	for _, member := range roster {
		workloads[member] = &domain.ReviewerWorkload{}
	}

	numbers, err := a.fetcher.FetchOpenPullRequestNumbers(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	a.logger.Printf("Usecase: Found %d open PRs, fetching details...\n", len(numbers))

	for _, number := range numbers {
		pr, err := a.fetcher.FetchPullRequest(ctx, owner, repo, number)
		if err != nil {
			return nil, err
		}
		lines := pr.ChangedLines()

		// Union of requested reviewers and submitted-review authors,
		// restricted to the roster. A member both requested and
		// already reviewing is counted once.
		engaged := make(map[string]struct{})
		for _, login := range pr.RequestedReviewers {
			if _, ok := workloads[login]; ok {
				engaged[login] = struct{}{}
			}
		}

		reviewers, err := a.fetcher.FetchReviewerLogins(ctx, owner, repo, number)
		if err != nil {
			// Best effort: some PRs may not expose their reviews.
			a.logger.Printf("Usecase: Could not list reviews for PR #%d, assuming none: %v\n", number, err)
			reviewers = nil
		}
		for _, login := range reviewers {
			if _, ok := workloads[login]; ok {
				engaged[login] = struct{}{}
			}
		}

		for login := range engaged {
			workloads[login].OpenPRs++
			workloads[login].TotalLines += lines
			a.logger.Printf("Usecase: PR #%d: @%s reviewing (%d additions, %d deletions)\n",
				number, login, pr.Additions, pr.Deletions)
		}
	}

	a.logger.Printf("Usecase: Analyzed %d open PRs.\n", len(numbers))
	return workloads, nil
}
