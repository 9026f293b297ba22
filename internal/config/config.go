// Package config resolves the run configuration from the GitHub
// Actions environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mkojima-dev/review-balancer/internal/domain"
)

// Default weight coefficients, used when the corresponding action
// input is absent.
const (
	DefaultWeightOpenPRs       = 10
	DefaultWeightLinesPer100   = 1
	DefaultWeightRecentReviews = 3
)

// Config holds everything a single run needs. It is built once by
// FromEnv and never mutated afterwards.
type Config struct {
	Token       string
	TeamMembers []string
	Weights     domain.Weights
	RepoOwner   string
	RepoName    string
	PRNumber    int
}

// eventPayload mirrors the part of the GitHub event document we need:
// the number of the pull request that triggered the workflow.
type eventPayload struct {
	PullRequest struct {
		Number *int `json:"number"`
	} `json:"pull_request"`
}

// FromEnv reads and validates all inputs. Any missing or malformed
// required value is an error naming the offending variable; the weight
// inputs fall back to their defaults only when absent entirely.
func FromEnv() (*Config, error) {
	token := os.Getenv("INPUT_GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("missing INPUT_GITHUB_TOKEN")
	}

	members := os.Getenv("INPUT_TEAM_MEMBERS")
	if members == "" {
		return nil, fmt.Errorf("missing INPUT_TEAM_MEMBERS")
	}
	// Split on comma and trim each segment. Empty segments are kept
	// as-is; the roster is taken verbatim from the action input.
	roster := strings.Split(members, ",")
	for i, member := range roster {
		roster[i] = strings.TrimSpace(member)
	}

	weightOpenPRs, err := weightFromEnv("INPUT_WEIGHT_OPEN_PRS", DefaultWeightOpenPRs)
	if err != nil {
		return nil, err
	}
	weightLines, err := weightFromEnv("INPUT_WEIGHT_LINES_PER_100", DefaultWeightLinesPer100)
	if err != nil {
		return nil, err
	}
	weightRecent, err := weightFromEnv("INPUT_WEIGHT_RECENT_REVIEWS", DefaultWeightRecentReviews)
	if err != nil {
		return nil, err
	}

	owner := os.Getenv("GITHUB_REPOSITORY_OWNER")
	if owner == "" {
		return nil, fmt.Errorf("missing GITHUB_REPOSITORY_OWNER")
	}

	repository := os.Getenv("GITHUB_REPOSITORY")
	if repository == "" {
		return nil, fmt.Errorf("missing GITHUB_REPOSITORY")
	}
	_, repoName, found := strings.Cut(repository, "/")
	if !found || repoName == "" {
		return nil, fmt.Errorf("invalid GITHUB_REPOSITORY format: %q (want owner/name)", repository)
	}

	prNumber, err := prNumberFromEvent(os.Getenv("GITHUB_EVENT_PATH"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Token:       token,
		TeamMembers: roster,
		Weights: domain.Weights{
			OpenPRs:       weightOpenPRs,
			LinesPer100:   weightLines,
			RecentReviews: weightRecent,
		},
		RepoOwner: owner,
		RepoName:  repoName,
		PRNumber:  prNumber,
	}, nil
}

// weightFromEnv parses the named variable as a float, falling back to
// def when the variable is absent. A present but unparsable value is
// an error, not a fallback.
func weightFromEnv(name string, def float64) (float64, error) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return def, nil
	}
	weight, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not a number", name, raw)
	}
	return weight, nil
}

// prNumberFromEvent extracts pull_request.number from the workflow
// event document at path.
func prNumberFromEvent(path string) (int, error) {
	if path == "" {
		return 0, fmt.Errorf("missing GITHUB_EVENT_PATH")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("could not read event payload at GITHUB_EVENT_PATH: %w", err)
	}
	var event eventPayload
	if err := json.Unmarshal(data, &event); err != nil {
		return 0, fmt.Errorf("could not parse event payload at GITHUB_EVENT_PATH: %w", err)
	}
	if event.PullRequest.Number == nil {
		return 0, fmt.Errorf("event payload has no pull_request.number")
	}
	return *event.PullRequest.Number, nil
}
