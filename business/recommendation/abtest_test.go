package recommendation

import (
	"context"
	"errors"
	"testing"

	"groupRecommender/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestABPairs(t *testing.T) {
	f := newFixture(t)
	f.users.users["u-1"] = &domain.User{ID: "u-1", Interests: []string{"hiking"}}

	res, err := f.svc.ABPairs(context.Background(), "u-1", 2)
	require.NoError(t, err)

	assert.Equal(t, "u-1", res.UserID)
	require.Len(t, res.Pairs, 2)
	assert.Equal(t, 2, res.Count)
	assert.Zero(t, res.ExcludedGroupsCount)

	seen := map[string]bool{}
	testIDs := map[string]bool{}
	for _, p := range res.Pairs {
		assert.NotEmpty(t, p.TestID)
		testIDs[p.TestID] = true
		assert.NotEqual(t, p.VariantA.Group.ID, p.VariantB.Group.ID)
		assert.GreaterOrEqual(t, p.VariantA.FinalScore, p.VariantB.FinalScore)
		seen[p.VariantA.Group.ID] = true
		seen[p.VariantB.Group.ID] = true
	}
	assert.Len(t, testIDs, 2)
	assert.Len(t, seen, 4)

	assert.Equal(t, domain.PolicySimple, res.Learning.Policy)
	assert.False(t, res.Learning.HasLearnedWeights)
}

func TestABPairsOddCandidateCount(t *testing.T) {
	f := newFixture(t)
	f.groups.byCity["Smallville"] = austinGroups()[:3]
	f.users.users["u-1"] = &domain.User{ID: "u-1", Location: domain.Location{City: "Smallville"}}

	res, err := f.svc.ABPairs(context.Background(), "u-1", 5)
	require.NoError(t, err)
	assert.Len(t, res.Pairs, 1)
}

func TestABPairsExcludesPreviousComparisons(t *testing.T) {
	f := newFixture(t)
	f.users.users["u-1"] = &domain.User{ID: "u-1"}

	first, err := f.svc.ABPairs(context.Background(), "u-1", 1)
	require.NoError(t, err)
	require.Len(t, first.Pairs, 1)

	p := first.Pairs[0]
	_, err = f.svc.RecordFeedback(context.Background(), FeedbackInput{
		UserID:          "u-1",
		TestID:          p.TestID,
		VariantAGroupID: p.VariantA.Group.ID,
		VariantBGroupID: p.VariantB.Group.ID,
		SelectedVariant: "a",
	})
	require.NoError(t, err)

	second, err := f.svc.ABPairs(context.Background(), "u-1", 3)
	require.NoError(t, err)

	assert.Equal(t, 2, second.ExcludedGroupsCount)
	assert.Equal(t, 1, second.Learning.TotalFeedback)
	for _, pair := range second.Pairs {
		assert.NotContains(t, []string{p.VariantA.Group.ID, p.VariantB.Group.ID}, pair.VariantA.Group.ID)
		assert.NotContains(t, []string{p.VariantA.Group.ID, p.VariantB.Group.ID}, pair.VariantB.Group.ID)
	}
}

func TestABPairsUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ABPairs(context.Background(), "ghost", 2)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRecordFeedback(t *testing.T) {
	f := newFixture(t)
	before := testutil.ToFloat64(FeedbackEventsTotal.WithLabelValues("B", domain.PolicySimple))
	beforeReason := testutil.ToFloat64(FeedbackReasonsTotal.WithLabelValues(domain.ReasonMoreWelcoming))

	rec, err := f.svc.RecordFeedback(context.Background(), FeedbackInput{
		UserID:          "u-1",
		VariantAGroupID: "g1",
		VariantBGroupID: "g2",
		SelectedVariant: " b ",
		Reasons:         []string{domain.ReasonMoreWelcoming, "made_up"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.VariantB, rec.SelectedVariant)
	assert.NotEmpty(t, rec.ID)
	assert.NotEmpty(t, rec.TestID)
	assert.Equal(t, `["more_welcoming","made_up"]`, rec.Reason)
	assert.False(t, rec.CreatedAt.IsZero())

	require.Len(t, f.feedback.history["u-1"], 1)
	assert.Equal(t, before+1, testutil.ToFloat64(FeedbackEventsTotal.WithLabelValues("B", domain.PolicySimple)))
	assert.Equal(t, beforeReason+1, testutil.ToFloat64(FeedbackReasonsTotal.WithLabelValues(domain.ReasonMoreWelcoming)))
}

func TestRecordFeedbackWithoutReasons(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.RecordFeedback(context.Background(), FeedbackInput{
		UserID:          "u-1",
		TestID:          "t-1",
		VariantAGroupID: "g1",
		VariantBGroupID: "g2",
		SelectedVariant: "A",
	})
	require.NoError(t, err)
	assert.Empty(t, rec.Reason)
	assert.Equal(t, "t-1", rec.TestID)
}

func TestRecordFeedbackValidation(t *testing.T) {
	tests := []struct {
		name    string
		in      FeedbackInput
		wantErr error
	}{
		{
			name:    "unknown variant",
			in:      FeedbackInput{UserID: "u-1", VariantAGroupID: "g1", VariantBGroupID: "g2", SelectedVariant: "C"},
			wantErr: domain.ErrInvalidVariant,
		},
		{
			name:    "empty variant",
			in:      FeedbackInput{UserID: "u-1", VariantAGroupID: "g1", VariantBGroupID: "g2"},
			wantErr: domain.ErrInvalidVariant,
		},
		{
			name:    "same group twice",
			in:      FeedbackInput{UserID: "u-1", VariantAGroupID: "g1", VariantBGroupID: "g1", SelectedVariant: "A"},
			wantErr: ErrSameGroup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.RecordFeedback(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.feedback.history)
		})
	}
}

func TestRecordFeedbackSaveError(t *testing.T) {
	f := newFixture(t)
	f.feedback.err = errors.New("disk full")

	_, err := f.svc.RecordFeedback(context.Background(), FeedbackInput{
		UserID: "u-1", VariantAGroupID: "g1", VariantBGroupID: "g2", SelectedVariant: "A",
	})
	assert.ErrorContains(t, err, "disk full")
}

func TestFeedbackHistory(t *testing.T) {
	f := newFixture(t)
	f.feedback.history = map[string][]domain.FeedbackRecord{
		"u-1": {
			{ID: "r2", UserID: "u-1", Reason: `["larger_group"]`},
			{ID: "r1", UserID: "u-1", Reason: "legacy text"},
		},
		"u-2": {{ID: "r3", UserID: "u-2"}},
	}

	views, err := f.svc.FeedbackHistory(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "r2", views[0].ID)
	assert.Equal(t, []string{domain.ReasonLargerGroup}, views[0].Reasons)
	assert.Equal(t, []string{}, views[1].Reasons)

	all, err := f.svc.FeedbackHistory(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFeedbackSummary(t *testing.T) {
	f := newFixture(t)
	f.feedback.history = map[string][]domain.FeedbackRecord{
		"u-1": {
			{ID: "r1", Reason: `["more_casual"]`},
			{ID: "r2", Reason: `["more_casual","better_description"]`},
			{ID: "r3"},
		},
	}

	s, err := f.svc.FeedbackSummary(context.Background(), "u-1")
	require.NoError(t, err)

	assert.Equal(t, 3, s.TotalFeedback)
	assert.Equal(t, 2, s.WithReasons)
	assert.Equal(t, 2, s.ReasonCounts[domain.ReasonMoreCasual])
	assert.True(t, s.HasLearnedWeights)
}

func TestRecommendForUser(t *testing.T) {
	f := newFixture(t)
	f.users.users["u-1"] = &domain.User{ID: "u-1", Interests: []string{"hiking"}}

	_, err := f.svc.RecordFeedback(context.Background(), FeedbackInput{
		UserID:          "u-1",
		VariantAGroupID: "g1",
		VariantBGroupID: "g2",
		SelectedVariant: "A",
	})
	require.NoError(t, err)

	res, err := f.svc.RecommendForUser(context.Background(), "u-1", 10)
	require.NoError(t, err)

	require.NotNil(t, res.Exclusion)
	assert.Equal(t, 2, res.Exclusion.ExcludedCount)
	for _, c := range res.Candidates {
		assert.NotContains(t, []string{"g1", "g2"}, c.Group.ID)
	}

	_, err = f.svc.RecommendForUser(context.Background(), "ghost", 10)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRecommendForUserReportsCityWithoutCandidates(t *testing.T) {
	f := newFixture(t)
	f.users.users["u-1"] = &domain.User{ID: "u-1", Location: domain.Location{City: "Marfa", State: "TX"}}

	res, err := f.svc.RecommendForUser(context.Background(), "u-1", 10)
	require.NoError(t, err)
	assert.Empty(t, res.Candidates)
	assert.Equal(t, "Marfa", res.City)

	f.users.users["u-2"] = &domain.User{ID: "u-2"}
	res, err = f.svc.RecommendForUser(context.Background(), "u-2", 10)
	require.NoError(t, err)
	assert.Equal(t, "Austin", res.City)
}

func TestABPairsReadsHistoryOnce(t *testing.T) {
	f := newFixture(t)
	f.users.users["u-1"] = &domain.User{ID: "u-1"}
	f.feedback.history = map[string][]domain.FeedbackRecord{
		"u-1": {
			{ID: "r1", UserID: "u-1", VariantAGroupID: "g1", VariantBGroupID: "g2", Reason: `["more_casual"]`},
		},
	}

	res, err := f.svc.ABPairs(context.Background(), "u-1", 1)
	require.NoError(t, err)

	assert.Equal(t, 1, f.feedback.reads)
	assert.Equal(t, 2, res.ExcludedGroupsCount)
	assert.Equal(t, 1, res.Learning.TotalFeedback)
	assert.Equal(t, 1, res.Learning.ReasonCounts[domain.ReasonMoreCasual])
}
