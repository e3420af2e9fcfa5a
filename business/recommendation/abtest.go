package recommendation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"groupRecommender/business/learning"
	"groupRecommender/domain"
	"groupRecommender/pkg/logger"

	"github.com/google/uuid"
)

var ErrSameGroup = errors.New("variant groups must differ")

// ABPairs offers count comparisons built from the user's current ranking:
// consecutive candidates are paired under a fresh test id.
func (s *Service) ABPairs(ctx context.Context, userID string, count int) (*domain.ABPairsResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if count <= 0 {
		count = 1
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	rec, err := s.rank(ctx, s.storedProfile(*user), count*2, snap)
	if err != nil {
		return nil, err
	}

	pairs := make([]domain.ABPair, 0, count)
	for i := 0; i+1 < len(rec.Candidates); i += 2 {
		pairs = append(pairs, domain.ABPair{
			TestID:   uuid.NewString(),
			VariantA: rec.Candidates[i],
			VariantB: rec.Candidates[i+1],
		})
	}

	out := &domain.ABPairsResult{
		UserID:   userID,
		Pairs:    pairs,
		Count:    len(pairs),
		Learning: learning.Summarize(snap.history, snap.learner),
	}
	if rec.Exclusion != nil {
		out.ExcludedGroupsCount = rec.Exclusion.ExcludedCount
	}

	return out, nil
}

// storedProfile fills whatever the stored user lacks with defaults.
func (s *Service) storedProfile(u domain.User) domain.UserProfile {
	profile := u.Profile()
	if profile.Personality == nil {
		traits := DefaultTraits()
		profile.Personality = &traits
	}
	if profile.Location.City == "" {
		profile.Location = domain.Location{City: s.cfg.DefaultCity, State: s.cfg.DefaultState}
	}
	return profile
}

type FeedbackInput struct {
	UserID          string   `json:"-"`
	TestID          string   `json:"test_id"`
	VariantAGroupID string   `json:"variant_a_group_id" validate:"required"`
	VariantBGroupID string   `json:"variant_b_group_id" validate:"required"`
	SelectedVariant string   `json:"selected_variant" validate:"required"`
	Reasons         []string `json:"reasons"`
}

// RecordFeedback stores one comparison. The record is immutable afterwards.
func (s *Service) RecordFeedback(ctx context.Context, in FeedbackInput) (*domain.FeedbackRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	variant := strings.ToUpper(strings.TrimSpace(in.SelectedVariant))
	if variant != domain.VariantA && variant != domain.VariantB {
		return nil, domain.ErrInvalidVariant
	}
	if in.VariantAGroupID == in.VariantBGroupID {
		return nil, ErrSameGroup
	}

	testID := in.TestID
	if testID == "" {
		testID = uuid.NewString()
	}

	rec := &domain.FeedbackRecord{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		TestID:          testID,
		VariantAGroupID: in.VariantAGroupID,
		VariantBGroupID: in.VariantBGroupID,
		SelectedVariant: variant,
		Reason:          domain.EncodeReasons(in.Reasons),
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.feedback.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	policy := s.learners.LearnerFor(ctx, in.UserID).Policy()
	FeedbackEventsTotal.WithLabelValues(variant, policy).Inc()
	for _, code := range in.Reasons {
		if learning.KnownReason(code) {
			FeedbackReasonsTotal.WithLabelValues(code).Inc()
		}
	}

	logger.Info("ab feedback recorded",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", in.UserID,
		"test_id", testID,
		"selected_variant", variant,
		"reason_count", len(in.Reasons),
	)

	return rec, nil
}

// FeedbackHistory lists a user's results newest first. An empty userID lists
// everyone's.
func (s *Service) FeedbackHistory(ctx context.Context, userID string) ([]domain.FeedbackView, error) {
	var (
		records []domain.FeedbackRecord
		err     error
	)
	if userID == "" {
		records, err = s.feedback.GetAll(ctx)
	} else {
		records, err = s.feedback.GetByUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback history: %w", err)
	}

	out := make([]domain.FeedbackView, 0, len(records))
	for _, r := range records {
		out = append(out, r.View())
	}
	return out, nil
}

func (s *Service) FeedbackSummary(ctx context.Context, userID string) (*domain.FeedbackSummary, error) {
	history, err := s.feedback.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback history: %w", err)
	}

	summary := learning.Summarize(history, s.learners.LearnerFor(ctx, userID))
	return &summary, nil
}
