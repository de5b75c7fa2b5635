package contentsvc

import (
	"context"

	"learnhub/internal/domain/content"
	"learnhub/internal/shared/errors"
	"learnhub/internal/shared/logger"
	"learnhub/internal/shared/services/markdown"
)

// Service owns course and quiz management. Descriptions are authored in
// markdown and rendered to sanitized HTML on the way out; listing always
// goes through the tenant-content visibility scopes.
type Service struct {
	courseRepo content.CourseRepository
	quizRepo   content.QuizRepository
	markdown   markdown.Service
	logger     logger.Interface
}

func NewService(
	courseRepo content.CourseRepository,
	quizRepo content.QuizRepository,
	markdownService markdown.Service,
) *Service {
	return &Service{
		courseRepo: courseRepo,
		quizRepo:   quizRepo,
		markdown:   markdownService,
		logger:     logger.NewLogger().With("component", "contentsvc"),
	}
}

type CreateCourseInput struct {
	Title       string
	Description string
	TenantID    *uint
	CreatedBy   uint
}

func (s *Service) CreateCourse(ctx context.Context, input CreateCourseInput) (*content.Course, error) {
	course, err := content.NewCourse(input.Title, input.Description, input.TenantID, input.CreatedBy)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Infow("course created", "course_id", course.ID(), "created_by", input.CreatedBy)
	return course, nil
}

func (s *Service) GetCourse(ctx context.Context, id uint) (*content.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, errors.NewNotFoundError("course not found")
	}
	return course, nil
}

// ListVisibleCourses returns the tenant's own courses plus globally shared
// ones.
func (s *Service) ListVisibleCourses(ctx context.Context, tenantID *uint, filter content.ContentFilter) ([]*content.Course, int64, error) {
	return s.courseRepo.ListForTenant(ctx, tenantID, filter)
}

// ListOwnedCourses strictly scopes to the tenant, ignoring sharing.
func (s *Service) ListOwnedCourses(ctx context.Context, tenantID *uint, filter content.ContentFilter) ([]*content.Course, int64, error) {
	return s.courseRepo.ListOwnedByTenant(ctx, tenantID, filter)
}

type UpdateCourseInput struct {
	Title       string
	Description string
}

func (s *Service) UpdateCourse(ctx context.Context, id uint, input UpdateCourseInput) (*content.Course, error) {
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := course.Update(input.Title, input.Description); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *Service) ShareCourse(ctx context.Context, id uint) (*content.Course, error) {
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	course.Share()
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *Service) DeleteCourse(ctx context.Context, id uint) error {
	return s.courseRepo.Delete(ctx, id)
}

type CreateQuizInput struct {
	Title        string
	Description  string
	TenantID     *uint
	TimeLimitSec int
	CreatedBy    uint
}

func (s *Service) CreateQuiz(ctx context.Context, input CreateQuizInput) (*content.Quiz, error) {
	quiz, err := content.NewQuiz(input.Title, input.Description, input.TenantID, input.TimeLimitSec, input.CreatedBy)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, err
	}

	s.logger.Infow("quiz created", "quiz_id", quiz.ID(), "created_by", input.CreatedBy)
	return quiz, nil
}

func (s *Service) GetQuiz(ctx context.Context, id uint) (*content.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, errors.NewNotFoundError("quiz not found")
	}
	return quiz, nil
}

func (s *Service) ListVisibleQuizzes(ctx context.Context, tenantID *uint, filter content.ContentFilter) ([]*content.Quiz, int64, error) {
	return s.quizRepo.ListForTenant(ctx, tenantID, filter)
}

func (s *Service) ListOwnedQuizzes(ctx context.Context, tenantID *uint, filter content.ContentFilter) ([]*content.Quiz, int64, error) {
	return s.quizRepo.ListOwnedByTenant(ctx, tenantID, filter)
}

type UpdateQuizInput struct {
	Title        string
	Description  string
	TimeLimitSec int
}

func (s *Service) UpdateQuiz(ctx context.Context, id uint, input UpdateQuizInput) (*content.Quiz, error) {
	quiz, err := s.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := quiz.Update(input.Title, input.Description, input.TimeLimitSec); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.quizRepo.Update(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *Service) ShareQuiz(ctx context.Context, id uint) (*content.Quiz, error) {
	quiz, err := s.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}

	quiz.Share()
	if err := s.quizRepo.Update(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *Service) DeleteQuiz(ctx context.Context, id uint) error {
	return s.quizRepo.Delete(ctx, id)
}

// RenderDescription converts authored markdown to sanitized HTML for
// display.
func (s *Service) RenderDescription(md string) (string, error) {
	return s.markdown.ToHTMLSanitized(md)
}
