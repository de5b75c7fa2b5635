package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"learnhub/internal/domain/content"
	"learnhub/internal/infrastructure/persistence/models"
	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/db"
	"learnhub/internal/shared/errors"
)

type QuizRepositoryImpl struct {
	db *gorm.DB
}

func NewQuizRepository(database *gorm.DB) content.QuizRepository {
	return &QuizRepositoryImpl{db: database}
}

func (r *QuizRepositoryImpl) Create(ctx context.Context, quiz *content.Quiz) error {
	model := &models.QuizModel{
		Title:        quiz.Title(),
		Description:  quiz.Description(),
		TenantID:     quiz.TenantID(),
		IsShared:     quiz.IsShared(),
		IsActive:     quiz.IsActive(),
		TimeLimitSec: quiz.TimeLimitSec(),
		CreatedBy:    quiz.CreatedBy(),
	}

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	return quiz.SetID(model.ID)
}

func (r *QuizRepositoryImpl) GetByID(ctx context.Context, id uint) (*content.Quiz, error) {
	var model models.QuizModel
	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	return r.toEntity(&model)
}

func (r *QuizRepositoryImpl) ListForTenant(ctx context.Context, tenantID *uint, filter content.ContentFilter) ([]*content.Quiz, int64, error) {
	return r.list(ctx, filter, db.TenantContent(tenantID))
}

func (r *QuizRepositoryImpl) ListOwnedByTenant(ctx context.Context, tenantID *uint, filter content.ContentFilter) ([]*content.Quiz, int64, error) {
	return r.list(ctx, filter, db.TenantOnly(tenantID))
}

func (r *QuizRepositoryImpl) list(ctx context.Context, filter content.ContentFilter, scope func(*gorm.DB) *gorm.DB) ([]*content.Quiz, int64, error) {
	conn := db.GetTxFromContext(ctx, r.db)
	query := conn.WithContext(ctx).Model(&models.QuizModel{}).Scopes(scope)

	if filter.Title != "" {
		query = query.Where("title LIKE ?", "%"+filter.Title+"%")
	}
	if filter.ActiveOnly {
		query = query.Scopes(db.ActiveOnly())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count quizzes: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = constants.DefaultPage
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}

	offset := (page - 1) * pageSize
	query = query.Offset(offset).Limit(pageSize).Order("created_at DESC")

	var quizModels []*models.QuizModel
	if err := query.Find(&quizModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list quizzes: %w", err)
	}

	quizzes := make([]*content.Quiz, 0, len(quizModels))
	for _, model := range quizModels {
		quiz, err := r.toEntity(model)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to reconstruct quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}

	return quizzes, total, nil
}

func (r *QuizRepositoryImpl) Update(ctx context.Context, quiz *content.Quiz) error {
	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.WithContext(ctx).Model(&models.QuizModel{}).
		Where("id = ?", quiz.ID()).
		Updates(map[string]interface{}{
			"title":          quiz.Title(),
			"description":    quiz.Description(),
			"is_shared":      quiz.IsShared(),
			"is_active":      quiz.IsActive(),
			"time_limit_sec": quiz.TimeLimitSec(),
			"updated_at":     quiz.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update quiz: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("quiz not found")
	}

	return nil
}

func (r *QuizRepositoryImpl) Delete(ctx context.Context, id uint) error {
	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.WithContext(ctx).Delete(&models.QuizModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete quiz: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("quiz not found")
	}
	return nil
}

func (r *QuizRepositoryImpl) toEntity(model *models.QuizModel) (*content.Quiz, error) {
	return content.ReconstructQuiz(
		model.ID,
		model.Title,
		model.Description,
		model.TenantID,
		model.IsShared,
		model.IsActive,
		model.TimeLimitSec,
		model.CreatedBy,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
