package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"groupRecommender/pkg/logger"
	"groupRecommender/pkg/metrics"

	"github.com/goccy/go-json"
	"github.com/pobyzaarif/goshortcute"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	providerHTTP  = "http"
	dimensionText = "dimension probe"
)

type HTTPConfig struct {
	BaseURL           string
	Model             string
	APIKey            string
	BasicAuthUsername string
	BasicAuthPassword string
	// zero means discover on first use
	Dimension int
	Timeout   time.Duration
}

// HTTPProvider calls an OpenAI compatible /v1/embeddings endpoint behind a
// circuit breaker.
type HTTPProvider struct {
	cfg    HTTPConfig
	client *http.Client
	cb     *gobreaker.CircuitBreaker[[][]float32]

	dimMu sync.Mutex
	dim   int
}

var ErrUnexpectedResponse = errors.New("embedding service returned an unexpected response")

// statusError is a non-2xx reply. 4xx replies do not count against the breaker.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("embedding service return negative response %d: %s", e.code, e.body)
}

func NewHTTPProvider(cfg HTTPConfig) *HTTPProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	name := "embedding-" + providerHTTP
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[][]float32](gobreaker.Settings{
		Name:        name,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var se *statusError
			if errors.As(err, &se) {
				return se.code < 500
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("embedding circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &HTTPProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cb:     cb,
		dim:    cfg.Dimension,
	}
}

func (p *HTTPProvider) ModelID() string {
	return p.cfg.Model
}

// Dimension asks the service once when it was not configured. It returns 0
// while the service cannot be reached.
func (p *HTTPProvider) Dimension() int {
	p.dimMu.Lock()
	defer p.dimMu.Unlock()

	if p.dim > 0 {
		return p.dim
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Timeout)
	defer cancel()

	vectors, err := p.call(ctx, []string{dimensionText})
	if err != nil || len(vectors) != 1 {
		logger.Warn("failed to discover embedding dimension", "model", p.cfg.Model, "error", err)
		return 0
	}
	p.dim = len(vectors[0])
	return p.dim
}

func (p *HTTPProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch sends every non-blank text in one request. Blank texts get the
// zero vector without a round trip.
func (p *HTTPProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	var idx []int
	var inputs []string
	for i, t := range texts {
		t = NormalizeText(t)
		if t == "" {
			continue
		}
		idx = append(idx, i)
		inputs = append(inputs, t)
	}

	if len(inputs) > 0 {
		vectors, err := p.call(ctx, inputs)
		if err != nil {
			return nil, err
		}
		for j, i := range idx {
			out[i] = vectors[j]
		}
		p.rememberDimension(len(vectors[0]))
	}

	if len(idx) < len(texts) {
		dim := p.Dimension()
		for i := range out {
			if out[i] == nil {
				out[i] = zeroVector(dim)
			}
		}
	}

	return out, nil
}

func (p *HTTPProvider) rememberDimension(n int) {
	p.dimMu.Lock()
	defer p.dimMu.Unlock()
	if p.dim == 0 {
		p.dim = n
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
}

func (p *HTTPProvider) call(ctx context.Context, inputs []string) ([][]float32, error) {
	vectors, err := p.cb.Execute(func() ([][]float32, error) {
		return p.post(ctx, inputs)
	})
	if err != nil {
		outcome := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "rejected"
		}
		metrics.EmbeddingRequests.WithLabelValues(providerHTTP, outcome).Inc()
		return nil, fmt.Errorf("failed to embed %d texts: %w", len(inputs), err)
	}

	metrics.EmbeddingRequests.WithLabelValues(providerHTTP, "success").Inc()
	return vectors, nil
}

func (p *HTTPProvider) post(ctx context.Context, inputs []string) ([][]float32, error) {
	payload, err := json.Marshal(embeddingRequest{Model: p.cfg.Model, Input: inputs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v1/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	switch {
	case p.cfg.APIKey != "":
		req.Header.Add("Authorization", "Bearer "+p.cfg.APIKey)
	case p.cfg.BasicAuthUsername != "":
		basic := goshortcute.StringtoBase64Encode(p.cfg.BasicAuthUsername + ":" + p.cfg.BasicAuthPassword)
		req.Header.Add("Authorization", "Basic "+basic)
	}

	res, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &statusError{code: res.StatusCode, body: truncate(string(body), 200)}
	}

	var decoded embeddingResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(decoded.Data) != len(inputs) {
		return nil, fmt.Errorf("%w: %d vectors for %d inputs", ErrUnexpectedResponse, len(decoded.Data), len(inputs))
	}

	sort.SliceStable(decoded.Data, func(i, j int) bool {
		return decoded.Data[i].Index < decoded.Data[j].Index
	})

	vectors := make([][]float32, len(decoded.Data))
	dim := len(decoded.Data[0].Embedding)
	for i, d := range decoded.Data {
		if len(d.Embedding) == 0 || len(d.Embedding) != dim {
			return nil, fmt.Errorf("%w: ragged or empty vector at %d", ErrUnexpectedResponse, i)
		}
		vectors[i] = d.Embedding
	}

	return vectors, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
