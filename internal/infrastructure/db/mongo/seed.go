package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/Divyadarshini04/Billing-Backend/internal/core/domain"
)

// EnsureSuperAdmin is the idempotent bootstrap seed: it creates the initial
// super-admin account if the phone is not yet registered. It is invoked as an
// explicit migration step (cmd/seed), never from request handling or service
// startup.
func EnsureSuperAdmin(ctx context.Context, db *mongo.Database, phone, password string, log zerolog.Logger) error {
	repo := NewUserRepository(db)

	if _, err := repo.FindByPhone(ctx, phone); err == nil {
		log.Info().Str("phone", phone).Msg("super admin already exists")
		return nil
	} else if err != domain.ErrUserNotFound {
		return fmt.Errorf("seed super admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed super admin: hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := repo.Create(ctx, &domain.User{
		Phone:        phone,
		PasswordHash: string(hash),
		Active:       true,
		SuperAdmin:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("seed super admin: create user: %w", err)
	}

	role, err := repo.EnsureRole(ctx, domain.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("seed super admin: %w", err)
	}
	if err := repo.AssignRole(ctx, user.ID, role.ID); err != nil && err != domain.ErrRoleAssigned {
		return fmt.Errorf("seed super admin: %w", err)
	}

	log.Info().Str("phone", phone).Str("user_id", user.ID).Msg("super admin created")
	return nil
}
