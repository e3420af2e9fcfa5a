package group

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"groupRecommender/domain"
	"groupRecommender/pkg/logger"

	"github.com/google/uuid"
)

// GroupRepository contract interface
type GroupRepository interface {
	GetByCity(ctx context.Context, city string) ([]domain.Group, error)
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	Upsert(ctx context.Context, g *domain.Group) error
}

// Embedder is the part of the embedding provider group maintenance needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type groupService struct {
	groupRepo GroupRepository
	embedder  Embedder
}

func NewGroupService(groupRepo GroupRepository, embedder Embedder) *groupService {
	return &groupService{
		groupRepo: groupRepo,
		embedder:  embedder,
	}
}

var (
	ErrGroupNameRequired = errors.New("group name is required")
	ErrGroupCityRequired = errors.New("group city is required")
)

func (s *groupService) ListByCity(ctx context.Context, city string) ([]domain.Group, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when list groups")
		return nil, fmt.Errorf("context error: %w", err)
	}

	groups, err := s.groupRepo.GetByCity(ctx, strings.TrimSpace(city))
	if err != nil {
		logger.Error("Failed to list groups by city", err)
		return nil, err
	}

	return groups, nil
}

func (s *groupService) GetGroupByID(ctx context.Context, id string) (domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return domain.Group{}, fmt.Errorf("context error: %w", err)
	}

	g, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrGroupNotFound) {
			logger.Error("Failed to find group", err)
		}
		return domain.Group{}, err
	}

	return *g, nil
}

// UpsertGroup saves a group, embedding its description when no vector was
// supplied. An embedding failure is logged and the group saved without one;
// the recommender embeds it on the fly instead.
func (s *groupService) UpsertGroup(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	g.Name = strings.TrimSpace(g.Name)
	g.Location.City = strings.TrimSpace(g.Location.City)
	if g.Name == "" {
		return nil, ErrGroupNameRequired
	}
	if g.Location.City == "" {
		return nil, ErrGroupCityRequired
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g.GroupType = domain.ParseGroupType(string(g.GroupType))

	if !g.HasEmbedding() && strings.TrimSpace(g.Description) != "" {
		vec, err := s.embedder.Embed(ctx, g.Description)
		if err != nil {
			logger.Warn("failed to embed group description", "group_id", g.ID, "error", err)
		} else {
			g.Embedding = vec
		}
	}

	if err := s.groupRepo.Upsert(ctx, g); err != nil {
		logger.Error("Failed to upsert group", err)
		return nil, fmt.Errorf("failed to upsert group: %w", err)
	}

	return g, nil
}

// RegenerateEmbeddings re-embeds every described group in a city in one batch
// and returns how many were saved.
func (s *groupService) RegenerateEmbeddings(ctx context.Context, city string) (int, error) {
	groups, err := s.ListByCity(ctx, city)
	if err != nil {
		return 0, err
	}

	targets := make([]*domain.Group, 0, len(groups))
	texts := make([]string, 0, len(groups))
	for i := range groups {
		if strings.TrimSpace(groups[i].Description) == "" {
			continue
		}
		targets = append(targets, &groups[i])
		texts = append(texts, groups[i].Description)
	}
	if len(targets) == 0 {
		return 0, nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed group descriptions: %w", err)
	}
	if len(vectors) != len(targets) {
		return 0, fmt.Errorf("embedding provider returned %d vectors for %d texts", len(vectors), len(targets))
	}

	updated := 0
	for i, g := range targets {
		g.Embedding = vectors[i]
		if err := s.groupRepo.Upsert(ctx, g); err != nil {
			logger.Warn("failed to save group embedding", "group_id", g.ID, "error", err)
			continue
		}
		updated++
	}

	logger.Info("group embeddings regenerated", "city", city, "updated", updated, "total", len(groups))
	return updated, nil
}
