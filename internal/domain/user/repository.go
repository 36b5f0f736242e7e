package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)

	// ListActiveEmployees returns active, non-deleted users holding the
	// employee role, ordered by name. A non-nil userID narrows the result to
	// that user.
	ListActiveEmployees(ctx context.Context, userID *string) ([]User, error)
}
