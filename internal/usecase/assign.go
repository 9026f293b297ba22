package usecase

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/mkojima-dev/review-balancer/internal/config"
	"github.com/mkojima-dev/review-balancer/internal/domain"
	"github.com/mkojima-dev/review-balancer/internal/gateway"
	"github.com/montanaflynn/stats"
)

// Assigner orchestrates a full run: author lookup, workload
// aggregation, scoring, report rendering and the final review request.
type Assigner struct {
	fetcher    gateway.Fetcher
	aggregator *Aggregator
	scorer     *Scorer
	logger     *log.Logger
	out        io.Writer
}

// NewAssigner creates a new Assigner instance. The report is written
// to out; diagnostics go to the logger.
func NewAssigner(fetcher gateway.Fetcher, aggregator *Aggregator, scorer *Scorer, logger *log.Logger, out io.Writer) *Assigner {
	return &Assigner{
		fetcher:    fetcher,
		aggregator: aggregator,
		scorer:     scorer,
		logger:     logger,
		out:        out,
	}
}

// Run executes one assignment for the configured pull request. When no
// roster member is eligible (everyone is the author, or the roster is
// empty), it reports that and returns nil without requesting a review.
func (a *Assigner) Run(ctx context.Context, cfg *config.Config) error {
	fmt.Fprintf(a.out, "Repository:   %s/%s\n", cfg.RepoOwner, cfg.RepoName)
	fmt.Fprintf(a.out, "Pull request: #%d\n", cfg.PRNumber)
	fmt.Fprintf(a.out, "Roster:       %s\n", strings.Join(cfg.TeamMembers, ", "))
	fmt.Fprintf(a.out, "Weights:      open=%g lines/100=%g recent=%g\n\n",
		cfg.Weights.OpenPRs, cfg.Weights.LinesPer100, cfg.Weights.RecentReviews)

	a.logger.Printf("Usecase: Fetching PR #%d...\n", cfg.PRNumber)
	pr, err := a.fetcher.FetchPullRequest(ctx, cfg.RepoOwner, cfg.RepoName, cfg.PRNumber)
	if err != nil {
		return err
	}
	if pr.Author == "" {
		return fmt.Errorf("PR #%d has no author", cfg.PRNumber)
	}
	a.logger.Printf("Usecase: PR #%d %q by @%s (%s)\n", pr.Number, pr.Title, pr.Author, pr.State)
	fmt.Fprintf(a.out, "Author: @%s\n\n", pr.Author)

	workloads, err := a.aggregator.Aggregate(ctx, cfg.RepoOwner, cfg.RepoName, cfg.TeamMembers)
	if err != nil {
		return err
	}

	scores := a.scorer.Score(ctx, cfg.RepoOwner, cfg.RepoName, cfg.TeamMembers, workloads, cfg.Weights, pr.Author)

	if len(scores) == 0 {
		fmt.Fprintln(a.out, "No eligible reviewer: the roster has nobody other than the PR author.")
		return nil
	}

	a.renderRanking(scores)

	winner := scores[0]
	if err := a.fetcher.RequestReviewer(ctx, cfg.RepoOwner, cfg.RepoName, cfg.PRNumber, winner.Username); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nAssigned @%s to PR #%d.\n", winner.Username, cfg.PRNumber)
	return nil
}

// renderRanking writes the per-candidate breakdown, the ranking and a
// summary of the score distribution.
func (a *Assigner) renderRanking(scores []domain.ReviewerScore) {
	fmt.Fprintln(a.out, "Ranking (lower score = less busy):")
	for i, score := range scores {
		marker := "  "
		if i == 0 {
			marker = "->"
		}
		fmt.Fprintf(a.out, "%s %2d. @%-20s %8.2f  (%d open, %d lines, %d recent)\n",
			marker, i+1, score.Username, score.TotalScore,
			score.OpenPRs, score.TotalLines, score.RecentReviews)
	}

	values := make([]float64, 0, len(scores))
	for _, score := range scores {
		values = append(values, score.TotalScore)
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return
	}
	median, _ := stats.Median(values)
	stdev, _ := stats.StandardDeviation(values)
	fmt.Fprintf(a.out, "\nLoad distribution: mean=%.2f median=%.2f stdev=%.2f\n", mean, median, stdev)
}
