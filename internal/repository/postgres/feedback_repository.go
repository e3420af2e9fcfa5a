package postgres

import (
	"context"
	"fmt"

	"groupRecommender/domain"

	"gorm.io/gorm"
)

// FeedbackRepository stores A/B results. Rows are only ever inserted.
type FeedbackRepository struct {
	DB *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

func (r *FeedbackRepository) Save(ctx context.Context, rec *domain.FeedbackRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save ab test result: %w", err)
	}

	return nil
}

// GetByUser returns the user's history newest first.
func (r *FeedbackRepository) GetByUser(ctx context.Context, userID string) ([]domain.FeedbackRecord, error) {
	var records []domain.FeedbackRecord
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query ab test results: %w", err)
	}

	return records, nil
}

func (r *FeedbackRepository) GetAll(ctx context.Context) ([]domain.FeedbackRecord, error) {
	var records []domain.FeedbackRecord
	if err := r.DB.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query ab test results: %w", err)
	}

	return records, nil
}
