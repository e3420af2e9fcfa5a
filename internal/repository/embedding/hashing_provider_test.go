package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestHashingProviderDeterministic(t *testing.T) {
	p := NewHashingProvider(128)

	a, err := p.Embed(context.Background(), "Weekend hiking club")
	require.NoError(t, err)
	b, err := p.Embed(context.Background(), "  weekend   HIKING club ")
	require.NoError(t, err)

	assert.Len(t, a, 128)
	assert.Equal(t, a, b)
}

func TestHashingProviderUnitLength(t *testing.T) {
	p := NewHashingProvider(0)
	assert.Equal(t, 384, p.Dimension())

	v, err := p.Embed(context.Background(), "board games and coffee")
	require.NoError(t, err)

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestHashingProviderBlankIsZero(t *testing.T) {
	p := NewHashingProvider(64)

	for _, text := range []string{"", "   ", "!!! ---"} {
		v, err := p.Embed(context.Background(), text)
		require.NoError(t, err)
		assert.Len(t, v, 64)
		for _, x := range v {
			assert.Zero(t, x)
		}
	}
}

func TestHashingProviderSimilarity(t *testing.T) {
	p := NewHashingProvider(384)
	vecs, err := p.EmbedBatch(context.Background(), []string{
		"hiking",
		"Outdoor hiking trips every weekend",
		"quantum chromodynamics seminar",
	})
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	assert.Greater(t, cosine(vecs[0], vecs[1]), cosine(vecs[0], vecs[2]))
}

func TestHashingProviderNormalizesCompatibilityForms(t *testing.T) {
	p := NewHashingProvider(64)

	// full width letters fold to ASCII under NFKC
	a, _ := p.Embed(context.Background(), "ｃｈｅｓｓ")
	b, _ := p.Embed(context.Background(), "chess")
	assert.Equal(t, a, b)
}

func TestHashingProviderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHashingProvider(8).EmbedBatch(ctx, []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "a b", NormalizeText("  a \n\t b "))
	assert.Equal(t, "", NormalizeText(" \n "))
	assert.Equal(t, "fi", NormalizeText("ﬁ"))
}
