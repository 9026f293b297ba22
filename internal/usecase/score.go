package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/mkojima-dev/review-balancer/internal/domain"
	"github.com/mkojima-dev/review-balancer/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// recentWindow is the trailing window over which completed reviews
// count toward the recency signal.
const recentWindow = 7 * 24 * time.Hour

// maxRecencyLookups bounds how many recency searches run at once.
const maxRecencyLookups = 4

// Scorer is the use case that turns aggregated workloads and recent
// review activity into a ranking of eligible candidates.
type Scorer struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
	now     func() time.Time
}

// NewScorer creates a new Scorer instance.
func NewScorer(fetcher gateway.Fetcher, logger *log.Logger) *Scorer {
	return &Scorer{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Score produces one ReviewerScore per roster member other than the
// pull request's author, sorted ascending by score. Ties keep the
// roster's declaration order. Every eligible member must already have
// a workload entry; the aggregator seeds one per roster member, so a
// miss is an invariant violation and panics.
//
// Recency lookups are independent and their failures are absorbed to
// 0, so they run concurrently; results land in roster-indexed slots
// and the ranking order is unaffected.
func (s *Scorer) Score(ctx context.Context, owner, repo string, roster []string, workloads map[string]*domain.ReviewerWorkload, weights domain.Weights, prAuthor string) []domain.ReviewerScore {
	s.logger.Println("Usecase: Calculating scores for each reviewer...")

	candidates := make([]string, 0, len(roster))
	for _, member := range roster {
		if member == prAuthor {
			continue
		}
		candidates = append(candidates, member)
	}

	since := s.now().Add(-recentWindow)
	recentCounts := make([]int, len(candidates))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxRecencyLookups)
	for i, member := range candidates {
		i, member := i, member
		eg.Go(func() error {
			count, err := s.fetcher.CountRecentReviews(egCtx, owner, repo, member, since)
			if err != nil {
				// Best effort: an unreachable search means no signal,
				// not a failed run.
				s.logger.Printf("Usecase: Recent-review search failed for @%s, assuming 0: %v\n", member, err)
				count = 0
			}
			recentCounts[i] = count
			return nil
		})
	}
	// Lookups never return errors, Wait only synchronizes.
	_ = eg.Wait()

	scores := make([]domain.ReviewerScore, 0, len(candidates))
	for i, member := range candidates {
		load, ok := workloads[member]
		if !ok {
			panic(fmt.Sprintf("usecase: no workload entry for roster member %q", member))
		}
		total := domain.Score(*load, recentCounts[i], weights)
		s.logger.Printf("Usecase: @%s: %.2f points (Open: %d x %g, Lines: %d / 100 x %g, Recent: %d x %g)\n",
			member, total, load.OpenPRs, weights.OpenPRs, load.TotalLines, weights.LinesPer100, recentCounts[i], weights.RecentReviews)
		scores = append(scores, domain.ReviewerScore{
			Username:      member,
			OpenPRs:       load.OpenPRs,
			TotalLines:    load.TotalLines,
			RecentReviews: recentCounts[i],
			TotalScore:    total,
		})
	}

	// Stable ascending sort; < reports false for NaN operands, so
	// non-comparable values fall back to the roster order.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].TotalScore < scores[j].TotalScore
	})
	return scores
}
