package learning

import (
	"context"
	"hash/fnv"

	"groupRecommender/domain"
	"groupRecommender/pkg/logger"
)

// PolicyRepository stores per-user learner overrides.
type PolicyRepository interface {
	GetPolicy(ctx context.Context, userID string) (string, bool, error)
	UpsertPolicy(ctx context.Context, p domain.UserLearningPolicy) error
}

type Config struct {
	// Policy is used when a user has no override and falls outside the
	// adaptive split.
	Policy string

	// AdaptivePercent of users, chosen by a stable hash of the user id, get
	// the adaptive learner. Zero disables the split.
	AdaptivePercent int

	MinFeedback int
}

// Policy sources, reported alongside a resolved policy.
const (
	SourceOverride = "override"
	SourceSplit    = "split"
	SourceDefault  = "default"
)

type Resolver struct {
	repo     PolicyRepository
	cfg      Config
	simple   Learner
	adaptive Learner
}

func NewResolver(repo PolicyRepository, cfg Config) *Resolver {
	if !domain.ValidPolicy(cfg.Policy) {
		cfg.Policy = domain.PolicyAdaptive
	}
	return &Resolver{
		repo:     repo,
		cfg:      cfg,
		simple:   NewSimpleLearner(cfg.MinFeedback),
		adaptive: NewAdaptiveLearner(),
	}
}

// LearnerFor picks the learner for a user: stored override first, then the
// hash split, then the configured default. Lookup errors fall back to the
// default rather than failing the request.
func (r *Resolver) LearnerFor(ctx context.Context, userID string) Learner {
	policy, _ := r.Resolve(ctx, userID)
	return r.learner(policy)
}

// Resolve returns the policy name and where it came from.
func (r *Resolver) Resolve(ctx context.Context, userID string) (string, string) {
	if r.repo != nil && userID != "" {
		policy, ok, err := r.repo.GetPolicy(ctx, userID)
		if err != nil {
			logger.Warn("failed to load learning policy, using default", "user_id", userID, "error", err)
			return r.cfg.Policy, SourceDefault
		}
		if ok && domain.ValidPolicy(policy) {
			return policy, SourceOverride
		}
	}

	if r.cfg.AdaptivePercent > 0 && userID != "" {
		if bucket(userID) < uint32(r.cfg.AdaptivePercent) {
			return domain.PolicyAdaptive, SourceSplit
		}
		return domain.PolicySimple, SourceSplit
	}

	return r.cfg.Policy, SourceDefault
}

func (r *Resolver) SetPolicy(ctx context.Context, userID, policy string) error {
	if !domain.ValidPolicy(policy) {
		return domain.ErrInvalidPolicy
	}
	return r.repo.UpsertPolicy(ctx, domain.UserLearningPolicy{UserID: userID, Policy: policy})
}

func (r *Resolver) learner(policy string) Learner {
	if policy == domain.PolicySimple {
		return r.simple
	}
	return r.adaptive
}

// bucket hashes a user id into [0, 100).
func bucket(userID string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return h.Sum32() % 100
}
