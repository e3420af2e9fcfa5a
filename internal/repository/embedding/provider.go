package embedding

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Provider turns text into fixed-size vectors. Blank text embeds to the zero
// vector of Dimension().
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	ModelID() string
}

// NormalizeText folds compatibility forms (NFKC) and collapses whitespace so
// visually identical texts share a cache entry and a hashing vector.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

func zeroVector(dim int) []float32 {
	return make([]float32, dim)
}
