package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"groupRecommender/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LearningPolicyRepository struct {
	DB *gorm.DB
}

func NewLearningPolicyRepository(db *gorm.DB) *LearningPolicyRepository {
	return &LearningPolicyRepository{DB: db}
}

// GetPolicy reports false when the user has no override.
func (r *LearningPolicyRepository) GetPolicy(ctx context.Context, userID string) (string, bool, error) {
	var row domain.UserLearningPolicy
	err := r.DB.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query user_learning_policies: %w", err)
	}

	return row.Policy, true, nil
}

func (r *LearningPolicyRepository) UpsertPolicy(ctx context.Context, p domain.UserLearningPolicy) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	p.UpdatedAt = time.Now()
	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"policy", "updated_at"}),
		},
	).Create(&p).Error; err != nil {
		return fmt.Errorf("failed to upsert user_learning_policies: %w", err)
	}

	return nil
}
