package account

import "context"

// Repository is the persistence contract for accounts. Lookups return
// (nil, nil) when no row matches, mirroring the not-found convention used
// across repositories.
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uint) (*Account, error)
	GetByExternalID(ctx context.Context, externalID string) (*Account, error)
	Update(ctx context.Context, account *Account) error
}
