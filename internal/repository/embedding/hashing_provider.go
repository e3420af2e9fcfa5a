package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const (
	providerHashing     = "hashing"
	defaultHashingModel = "feature-hashing-v1"
)

// HashingProvider is a local bag-of-words model: every word, word bigram and
// character trigram is hashed into a signed bucket and the vector is L2
// normalized. Texts sharing vocabulary point in similar directions, which is
// all interest matching needs when no model server is available.
type HashingProvider struct {
	dim int
}

func NewHashingProvider(dim int) *HashingProvider {
	if dim <= 0 {
		dim = 384
	}
	return &HashingProvider{dim: dim}
}

func (p *HashingProvider) Dimension() int {
	return p.dim
}

func (p *HashingProvider) ModelID() string {
	return defaultHashingModel
}

func (p *HashingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.vector(text), nil
}

func (p *HashingProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = p.vector(t)
	}
	return out, nil
}

func (p *HashingProvider) vector(text string) []float32 {
	v := zeroVector(p.dim)

	words := tokenize(text)
	if len(words) == 0 {
		return v
	}

	acc := make([]float64, p.dim)
	for i, w := range words {
		p.add(acc, "w:"+w, 1)
		if i > 0 {
			p.add(acc, "b:"+words[i-1]+" "+w, 0.5)
		}
		padded := "^" + w + "$"
		runes := []rune(padded)
		for j := 0; j+3 <= len(runes); j++ {
			p.add(acc, "t:"+string(runes[j:j+3]), 0.25)
		}
	}

	var norm float64
	for _, x := range acc {
		norm += x * x
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for i, x := range acc {
		v[i] = float32(x / norm)
	}
	return v
}

func (p *HashingProvider) add(acc []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	bucket := int(sum % uint64(p.dim))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	acc[bucket] += weight
}

// tokenize lower-cases the normalized text and splits on anything that is not
// a letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(NormalizeText(text)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
