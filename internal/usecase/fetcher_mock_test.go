package usecase

import (
	"context"
	"time"

	"github.com/mkojima-dev/review-balancer/internal/gateway"
	"github.com/stretchr/testify/mock"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without
// making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*gateway.PullRequest, error) {
	args := m.Called(ctx, owner, repo, number)
	// The returned snapshot is nil when an error is simulated.
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PullRequest), args.Error(1)
}

func (m *mockFetcher) FetchOpenPullRequestNumbers(ctx context.Context, owner, repo string) ([]int, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *mockFetcher) FetchReviewerLogins(ctx context.Context, owner, repo string, number int) ([]string, error) {
	args := m.Called(ctx, owner, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFetcher) CountRecentReviews(ctx context.Context, owner, repo, user string, since time.Time) (int, error) {
	args := m.Called(ctx, owner, repo, user, since)
	return args.Int(0), args.Error(1)
}

func (m *mockFetcher) RequestReviewer(ctx context.Context, owner, repo string, number int, user string) error {
	args := m.Called(ctx, owner, repo, number, user)
	return args.Error(0)
}
