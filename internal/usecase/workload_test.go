package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/mkojima-dev/review-balancer/internal/domain"
	"github.com/mkojima-dev/review-balancer/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// prFixture bundles the per-PR mock data for the aggregator tests.
type prFixture struct {
	pr         *gateway.PullRequest
	reviewers  []string
	reviewsErr error
}

// TestAggregator_Aggregate uses a table-driven approach to test the aggregator.
func TestAggregator_Aggregate(t *testing.T) {
	testCases := []struct {
		name        string
		roster      []string
		numbers     []int
		numbersErr  error
		fixtures    map[int]prFixture
		detailErrOn int // PR number whose detail fetch fails; 0 means none
		expected    map[string]*domain.ReviewerWorkload
		expectError bool
	}{
		{
			name:    "happy path - one PR with a requested reviewer and a submitted review",
			roster:  []string{"alice", "bob", "carol"},
			numbers: []int{5},
			fixtures: map[int]prFixture{
				5: {
					pr: &gateway.PullRequest{
						Number: 5, Author: "dave", Additions: 30, Deletions: 10,
						RequestedReviewers: []string{"alice"},
					},
					reviewers: []string{"bob"},
				},
			},
			expected: map[string]*domain.ReviewerWorkload{
				"alice": {OpenPRs: 1, TotalLines: 40},
				"bob":   {OpenPRs: 1, TotalLines: 40},
				"carol": {OpenPRs: 0, TotalLines: 0},
			},
		},
		{
			name:    "dedup - requested reviewer who also submitted a review counts once",
			roster:  []string{"alice"},
			numbers: []int{7},
			fixtures: map[int]prFixture{
				7: {
					pr: &gateway.PullRequest{
						Number: 7, Author: "dave", Additions: 100, Deletions: 50,
						RequestedReviewers: []string{"alice"},
					},
					reviewers: []string{"alice", "alice"},
				},
			},
			expected: map[string]*domain.ReviewerWorkload{
				"alice": {OpenPRs: 1, TotalLines: 150},
			},
		},
		{
			name:    "non-roster logins are ignored",
			roster:  []string{"alice"},
			numbers: []int{9},
			fixtures: map[int]prFixture{
				9: {
					pr: &gateway.PullRequest{
						Number: 9, Author: "dave", Additions: 10,
						RequestedReviewers: []string{"mallory"},
					},
					reviewers: []string{"trent"},
				},
			},
			expected: map[string]*domain.ReviewerWorkload{
				"alice": {OpenPRs: 0, TotalLines: 0},
			},
		},
		{
			name:    "review-list failure is absorbed as no reviews",
			roster:  []string{"alice", "bob"},
			numbers: []int{3},
			fixtures: map[int]prFixture{
				3: {
					pr: &gateway.PullRequest{
						Number: 3, Author: "dave", Additions: 20, Deletions: 5,
						RequestedReviewers: []string{"alice"},
					},
					reviewsErr: errors.New("github api error"),
				},
			},
			expected: map[string]*domain.ReviewerWorkload{
				"alice": {OpenPRs: 1, TotalLines: 25},
				"bob":   {OpenPRs: 0, TotalLines: 0},
			},
		},
		{
			name:    "workload accumulates across multiple PRs",
			roster:  []string{"alice"},
			numbers: []int{1, 2},
			fixtures: map[int]prFixture{
				1: {
					pr:        &gateway.PullRequest{Number: 1, Author: "dave", Additions: 10, RequestedReviewers: []string{"alice"}},
					reviewers: []string{},
				},
				2: {
					pr:        &gateway.PullRequest{Number: 2, Author: "dave", Deletions: 30},
					reviewers: []string{"alice"},
				},
			},
			expected: map[string]*domain.ReviewerWorkload{
				"alice": {OpenPRs: 2, TotalLines: 40},
			},
		},
		{
			name:    "zero open PRs - every member stays at zero",
			roster:  []string{"alice", "bob"},
			numbers: []int{},
			expected: map[string]*domain.ReviewerWorkload{
				"alice": {OpenPRs: 0, TotalLines: 0},
				"bob":   {OpenPRs: 0, TotalLines: 0},
			},
		},
		{
			name:        "error case - pagination failure is fatal",
			roster:      []string{"alice"},
			numbersErr:  errors.New("github api error"),
			expectError: true,
		},
		{
			name:        "error case - a single detail fetch failure is fatal",
			roster:      []string{"alice"},
			numbers:     []int{4},
			detailErrOn: 4,
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			logger := log.New(io.Discard, "", 0)
			fetcher := new(mockFetcher)

			if tc.numbersErr != nil {
				fetcher.On("FetchOpenPullRequestNumbers", mock.Anything, "any-owner", "any-repo").Return(nil, tc.numbersErr)
			} else {
				fetcher.On("FetchOpenPullRequestNumbers", mock.Anything, "any-owner", "any-repo").Return(tc.numbers, nil)
			}
			if tc.detailErrOn != 0 {
				fetcher.On("FetchPullRequest", mock.Anything, "any-owner", "any-repo", tc.detailErrOn).Return(nil, errors.New("github api error"))
			}
			for number, fixture := range tc.fixtures {
				fetcher.On("FetchPullRequest", mock.Anything, "any-owner", "any-repo", number).Return(fixture.pr, nil)
				if fixture.reviewsErr != nil {
					fetcher.On("FetchReviewerLogins", mock.Anything, "any-owner", "any-repo", number).Return(nil, fixture.reviewsErr)
				} else {
					fetcher.On("FetchReviewerLogins", mock.Anything, "any-owner", "any-repo", number).Return(fixture.reviewers, nil)
				}
			}

			aggregator := NewAggregator(fetcher, logger)
			workloads, err := aggregator.Aggregate(ctx, "any-owner", "any-repo", tc.roster)

			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, workloads)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, workloads)
			}
			fetcher.AssertExpectations(t)
		})
	}
}

// Duplicate roster entries collapse to one map entry without error.
func TestAggregator_Aggregate_DuplicateRoster(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	fetcher := new(mockFetcher)
	fetcher.On("FetchOpenPullRequestNumbers", mock.Anything, "any-owner", "any-repo").Return([]int{}, nil)

	aggregator := NewAggregator(fetcher, logger)
	workloads, err := aggregator.Aggregate(context.Background(), "any-owner", "any-repo", []string{"alice", "alice", "bob"})

	assert.NoError(t, err)
	assert.Len(t, workloads, 2)
	assert.Contains(t, workloads, "alice")
	assert.Contains(t, workloads, "bob")
}
