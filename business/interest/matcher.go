package interest

import (
	"context"
	"math"

	"groupRecommender/domain"
	"groupRecommender/pkg/logger"
)

const neutralScore = 0.5

// Embedder turns text into vectors. Blank text must embed to the zero vector
// of the model's dimension.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type Matcher struct {
	embedder Embedder
}

func NewMatcher(embedder Embedder) *Matcher {
	return &Matcher{embedder: embedder}
}

// InterestMatch scores a single group description against the user's
// interests. precomputed is used as the group vector when non-empty.
func (m *Matcher) InterestMatch(ctx context.Context, interests []string, description string, precomputed []float32) float64 {
	q := m.Prepare(ctx, interests)
	if q.neutral {
		return neutralScore
	}

	groupVec := precomputed
	if len(groupVec) == 0 {
		vec, err := m.embedder.Embed(ctx, description)
		if err != nil {
			logger.Warn("failed to embed group description", "error", err)
			return neutralScore
		}
		groupVec = vec
	}

	return q.Score(groupVec)
}

// Query holds a user's interest vectors so many groups can be scored with a
// single embedding call for the interests.
type Query struct {
	matcher *Matcher
	vectors [][]float32
	neutral bool
}

// Prepare embeds the interests once. Empty interests or a failing provider
// yield a query that scores everything neutral.
func (m *Matcher) Prepare(ctx context.Context, interests []string) *Query {
	q := &Query{matcher: m}
	if len(interests) == 0 {
		q.neutral = true
		return q
	}

	vectors, err := m.embedder.EmbedBatch(ctx, interests)
	if err != nil {
		logger.Warn("failed to embed interests", "error", err, "interest_count", len(interests))
		q.neutral = true
		return q
	}
	if len(vectors) == 0 {
		q.neutral = true
		return q
	}

	q.vectors = vectors
	return q
}

func (q *Query) Neutral() bool {
	return q.neutral
}

// Score averages the cosine similarity of the group vector with every
// interest and maps it from [-1,1] onto [0,1].
func (q *Query) Score(groupVec []float32) float64 {
	if q.neutral {
		return neutralScore
	}

	var sum float64
	for _, v := range q.vectors {
		sum += CosineSimilarity(groupVec, v)
	}
	avg := sum / float64(len(q.vectors))

	return clamp01((avg + 1) / 2)
}

// ScoreGroups scores groups in order. Groups without a stored embedding are
// embedded together in one batch call; if that call fails they score neutral.
func (q *Query) ScoreGroups(ctx context.Context, groups []domain.Group) []float64 {
	scores := make([]float64, len(groups))
	if q.neutral {
		for i := range scores {
			scores[i] = neutralScore
		}
		return scores
	}

	var missing []int
	var texts []string
	for i, g := range groups {
		if g.HasEmbedding() {
			scores[i] = q.Score(g.Embedding)
			continue
		}
		missing = append(missing, i)
		texts = append(texts, g.Description)
	}
	if len(missing) == 0 {
		return scores
	}

	vectors, err := q.matcher.embedder.EmbedBatch(ctx, texts)
	if err != nil || len(vectors) != len(texts) {
		if err != nil {
			logger.Warn("failed to embed group descriptions", "error", err, "group_count", len(texts))
		}
		for _, i := range missing {
			scores[i] = neutralScore
		}
		return scores
	}

	for j, i := range missing {
		scores[i] = q.Score(vectors[j])
	}

	return scores
}

// CosineSimilarity is 0 when either vector is all zeros or the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		af, bf := float64(a[i]), float64(b[i])
		dot += af * bf
		na += af * af
		nb += bf * bf
	}
	if na == 0 || nb == 0 {
		return 0
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
