package postgres

import (
	"context"
	"errors"
	"fmt"

	"groupRecommender/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

// GetByCity returns the city's groups ordered by id, so ties in ranking
// always break the same way.
func (r *GroupRepository) GetByCity(ctx context.Context, city string) ([]domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var groups []domain.Group
	if err := r.DB.WithContext(ctx).
		Where("city = ?", city).
		Order("id ASC").
		Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}

	normalizeGroupTypes(groups)
	return groups, nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	var g domain.Group

	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	g.GroupType = domain.ParseGroupType(string(g.GroupType))
	return &g, nil
}

func (r *GroupRepository) Upsert(ctx context.Context, g *domain.Group) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		},
	).Create(g).Error; err != nil {
		return fmt.Errorf("failed to upsert group: %w", err)
	}

	return nil
}

func normalizeGroupTypes(groups []domain.Group) {
	for i := range groups {
		groups[i].GroupType = domain.ParseGroupType(string(groups[i].GroupType))
	}
}
