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

type CourseRepositoryImpl struct {
	db *gorm.DB
}

func NewCourseRepository(database *gorm.DB) content.CourseRepository {
	return &CourseRepositoryImpl{db: database}
}

func (r *CourseRepositoryImpl) Create(ctx context.Context, course *content.Course) error {
	model := &models.CourseModel{
		Title:       course.Title(),
		Description: course.Description(),
		TenantID:    course.TenantID(),
		IsShared:    course.IsShared(),
		IsActive:    course.IsActive(),
		CreatedBy:   course.CreatedBy(),
	}

	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	return course.SetID(model.ID)
}

func (r *CourseRepositoryImpl) GetByID(ctx context.Context, id uint) (*content.Course, error) {
	var model models.CourseModel
	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return r.toEntity(&model)
}

func (r *CourseRepositoryImpl) ListForTenant(ctx context.Context, tenantID *uint, filter content.ContentFilter) ([]*content.Course, int64, error) {
	return r.list(ctx, filter, db.TenantContent(tenantID))
}

func (r *CourseRepositoryImpl) ListOwnedByTenant(ctx context.Context, tenantID *uint, filter content.ContentFilter) ([]*content.Course, int64, error) {
	return r.list(ctx, filter, db.TenantOnly(tenantID))
}

func (r *CourseRepositoryImpl) list(ctx context.Context, filter content.ContentFilter, scope func(*gorm.DB) *gorm.DB) ([]*content.Course, int64, error) {
	conn := db.GetTxFromContext(ctx, r.db)
	query := conn.WithContext(ctx).Model(&models.CourseModel{}).Scopes(scope)

	if filter.Title != "" {
		query = query.Where("title LIKE ?", "%"+filter.Title+"%")
	}
	if filter.ActiveOnly {
		query = query.Scopes(db.ActiveOnly())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
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

	var courseModels []*models.CourseModel
	if err := query.Find(&courseModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	courses := make([]*content.Course, 0, len(courseModels))
	for _, model := range courseModels {
		course, err := r.toEntity(model)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to reconstruct course: %w", err)
		}
		courses = append(courses, course)
	}

	return courses, total, nil
}

func (r *CourseRepositoryImpl) Update(ctx context.Context, course *content.Course) error {
	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.WithContext(ctx).Model(&models.CourseModel{}).
		Where("id = ?", course.ID()).
		Updates(map[string]interface{}{
			"title":       course.Title(),
			"description": course.Description(),
			"is_shared":   course.IsShared(),
			"is_active":   course.IsActive(),
			"updated_at":  course.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("course not found")
	}

	return nil
}

func (r *CourseRepositoryImpl) Delete(ctx context.Context, id uint) error {
	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.WithContext(ctx).Delete(&models.CourseModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("course not found")
	}
	return nil
}

func (r *CourseRepositoryImpl) toEntity(model *models.CourseModel) (*content.Course, error) {
	return content.ReconstructCourse(
		model.ID,
		model.Title,
		model.Description,
		model.TenantID,
		model.IsShared,
		model.IsActive,
		model.CreatedBy,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
