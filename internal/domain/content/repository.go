package content

import "context"

// ContentFilter narrows content listings. TenantID scoping itself is
// applied by the shared db scopes at the repository layer.
type ContentFilter struct {
	Title      string
	ActiveOnly bool
	Page       int
	PageSize   int
}

// CourseRepository is the persistence contract for courses.
type CourseRepository interface {
	Create(ctx context.Context, course *Course) error
	GetByID(ctx context.Context, id uint) (*Course, error)
	// ListForTenant applies the tenant-content visibility rule: the
	// tenant's own courses plus globally-shared ones.
	ListForTenant(ctx context.Context, tenantID *uint, filter ContentFilter) ([]*Course, int64, error)
	// ListOwnedByTenant strictly scopes to the tenant, ignoring sharing.
	ListOwnedByTenant(ctx context.Context, tenantID *uint, filter ContentFilter) ([]*Course, int64, error)
	Update(ctx context.Context, course *Course) error
	Delete(ctx context.Context, id uint) error
}

// QuizRepository is the persistence contract for quizzes.
type QuizRepository interface {
	Create(ctx context.Context, quiz *Quiz) error
	GetByID(ctx context.Context, id uint) (*Quiz, error)
	ListForTenant(ctx context.Context, tenantID *uint, filter ContentFilter) ([]*Quiz, int64, error)
	ListOwnedByTenant(ctx context.Context, tenantID *uint, filter ContentFilter) ([]*Quiz, int64, error)
	Update(ctx context.Context, quiz *Quiz) error
	Delete(ctx context.Context, id uint) error
}
