package ports

import (
	"context"

	"github.com/Divyadarshini04/Billing-Backend/internal/core/domain"
)

// UserRepository defines the interface for durable user identity persistence.
// Find methods return users with Roles resolved from assignment rows.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// EnsureRole creates the named role if absent and returns it.
	EnsureRole(ctx context.Context, name string) (*domain.Role, error)
	// AssignRole links a user to a role. Assignments are unique per
	// (user, role); a duplicate returns domain.ErrRoleAssigned.
	AssignRole(ctx context.Context, userID, roleID string) error
}
