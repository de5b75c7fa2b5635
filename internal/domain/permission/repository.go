package permission

import "context"

// Repository is the persistence contract for the global permission catalog.
type Repository interface {
	Create(ctx context.Context, permission *Permission) error
	GetByID(ctx context.Context, id uint) (*Permission, error)
	GetByName(ctx context.Context, name string) (*Permission, error)
	// GetActiveByNames resolves a list of names against active,
	// non-deprecated catalog rows. Names with no matching row are simply
	// absent from the result; resolving fewer rows than names is not an
	// error.
	GetActiveByNames(ctx context.Context, names []string) ([]*Permission, error)
	List(ctx context.Context) ([]*Permission, error)
	ListByRole(ctx context.Context, roleID uint) ([]*Permission, error)
	Update(ctx context.Context, permission *Permission) error
}
