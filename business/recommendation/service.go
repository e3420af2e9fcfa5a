package recommendation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"groupRecommender/business/interest"
	"groupRecommender/business/learning"
	"groupRecommender/business/personality"
	"groupRecommender/domain"
	"groupRecommender/pkg/logger"
)

const (
	neutralComponent = 0.5
	defaultTopK      = 10
)

// ---- Repository interfaces ----

type GroupRepository interface {
	GetByCity(ctx context.Context, city string) ([]domain.Group, error)
}

type FeedbackRepository interface {
	// GetByUser returns the user's A/B results, newest first.
	GetByUser(ctx context.Context, userID string) ([]domain.FeedbackRecord, error)
	GetAll(ctx context.Context) ([]domain.FeedbackRecord, error)
	Save(ctx context.Context, r *domain.FeedbackRecord) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

type LearnerResolver interface {
	LearnerFor(ctx context.Context, userID string) learning.Learner
}

type Config struct {
	DefaultTopK  int
	DefaultCity  string
	DefaultState string
}

type Service struct {
	groups   GroupRepository
	feedback FeedbackRepository
	users    UserRepository
	matcher  *interest.Matcher
	learners LearnerResolver
	cfg      Config
}

func NewService(
	groups GroupRepository,
	feedback FeedbackRepository,
	users UserRepository,
	matcher *interest.Matcher,
	learners LearnerResolver,
	cfg Config,
) *Service {
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = defaultTopK
	}
	return &Service{
		groups:   groups,
		feedback: feedback,
		users:    users,
		matcher:  matcher,
		learners: learners,
		cfg:      cfg,
	}
}

// Recommend ranks the groups in the profile's city. With a userID the
// weights are learned from that user's A/B history and every group the user
// has already been shown is left out.
func (s *Service) Recommend(
	ctx context.Context,
	profile domain.UserProfile,
	topK int,
	userID string,
) (*domain.RecommendationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var snap *feedbackSnapshot
	if userID != "" {
		var err error
		if snap, err = s.snapshot(ctx, userID); err != nil {
			return nil, err
		}
	}

	return s.rank(ctx, profile, topK, snap)
}

// feedbackSnapshot is one read of a user's history plus the learner resolved
// for them. Exclusion, weights and the learning summary all derive from it.
type feedbackSnapshot struct {
	history []domain.FeedbackRecord
	learner learning.Learner
}

func (s *Service) snapshot(ctx context.Context, userID string) (*feedbackSnapshot, error) {
	history, err := s.feedback.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback history: %w", err)
	}
	return &feedbackSnapshot{
		history: history,
		learner: s.learners.LearnerFor(ctx, userID),
	}, nil
}

// rank scores the city's groups. A nil snapshot means an anonymous request:
// default weights, no exclusion.
func (s *Service) rank(
	ctx context.Context,
	profile domain.UserProfile,
	topK int,
	snap *feedbackSnapshot,
) (*domain.RecommendationResult, error) {
	start := time.Now()

	if topK <= 0 {
		topK = s.cfg.DefaultTopK
	}

	weights := learning.DefaultWeights()
	var excluded map[string]struct{}
	if snap != nil {
		weights = snap.learner.Learn(snap.history).Weights
		excluded = ExcludedGroupIDs(snap.history)
	}

	groups, err := s.groups.GetByCity(ctx, profile.Location.City)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}

	result := &domain.RecommendationResult{
		City:       profile.Location.City,
		Candidates: []domain.ScoredCandidate{},
		Weights:    weights,
	}
	if snap != nil {
		result.Policy = snap.learner.Policy()
	}
	if len(groups) == 0 {
		return result, nil
	}

	candidates := make([]domain.Group, 0, len(groups))
	for _, g := range groups {
		if _, ok := excluded[g.ID]; ok {
			continue
		}
		candidates = append(candidates, g)
	}

	scored := s.score(ctx, profile, candidates, weights)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FinalScore > scored[j].FinalScore
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}
	result.Candidates = scored

	if snap != nil {
		result.Exclusion = &domain.ExclusionInfo{
			ExcludedCount: len(groups) - len(candidates),
			TotalGroups:   len(groups),
		}
	}

	RecommendationsServedTotal.WithLabelValues(policyLabel(result.Policy)).Inc()
	logger.Debug("recommendations scored",
		"trace_id", TraceIDFromContext(ctx),
		"city", profile.Location.City,
		"candidates", len(candidates),
		"returned", len(scored),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}

func (s *Service) score(
	ctx context.Context,
	profile domain.UserProfile,
	groups []domain.Group,
	w domain.WeightSet,
) []domain.ScoredCandidate {
	traits := DefaultTraits()
	if profile.Personality != nil {
		traits = *profile.Personality
	}

	query := s.matcher.Prepare(ctx, profile.Interests)
	interestScores := query.ScoreGroups(ctx, groups)

	out := make([]domain.ScoredCandidate, 0, len(groups))
	for i, g := range groups {
		fit := personality.CalculatePersonalityFit(traits, g, profile.SocialNeeds, profile.Motivations)

		social := componentOr(fit.Components, domain.DimSocialNeeds)
		motivations := componentOr(fit.Components, domain.DimMotivations)

		breakdown := domain.WeightSet{
			Personality: fit.Overall * w.Personality,
			Interest:    interestScores[i] * w.Interest,
			SocialNeeds: social * w.SocialNeeds,
			Motivations: motivations * w.Motivations,
		}

		out = append(out, domain.ScoredCandidate{
			Group:                 g.Summary(),
			PersonalityScore:      fit.Overall,
			PersonalityComponents: fit.Components,
			InterestScore:         interestScores[i],
			SocialNeedsScore:      social,
			MotivationsScore:      motivations,
			WeightsUsed:           w,
			Breakdown:             breakdown,
			FinalScore:            breakdown.Sum(),
		})
	}

	return out
}

// RecommendForUser ranks groups for a stored user with learned weights and
// exclusion applied.
func (s *Service) RecommendForUser(ctx context.Context, userID string, topK int) (*domain.RecommendationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.Recommend(ctx, s.storedProfile(*user), topK, userID)
}

// ExcludedGroupIDs collects both variants of every past comparison.
func ExcludedGroupIDs(history []domain.FeedbackRecord) map[string]struct{} {
	out := make(map[string]struct{}, len(history)*2)
	for _, r := range history {
		out[r.VariantAGroupID] = struct{}{}
		out[r.VariantBGroupID] = struct{}{}
	}
	return out
}

// DefaultTraits stand in for users who have not taken the quiz.
func DefaultTraits() domain.TraitScores {
	return domain.TraitScores{Extraversion: 10, Conscientiousness: 10, Openness: 8}
}

func componentOr(components map[string]float64, dim string) float64 {
	if v, ok := components[dim]; ok {
		return v
	}
	return neutralComponent
}

func policyLabel(p string) string {
	if p == "" {
		return "anonymous"
	}
	return p
}
