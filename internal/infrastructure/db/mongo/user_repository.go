package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Divyadarshini04/Billing-Backend/internal/core/domain"
)

const (
	usersCollection     = "users"
	rolesCollection     = "roles"
	userRolesCollection = "user_roles"
)

// UserRepository persists users, roles, and role assignments in MongoDB.
type UserRepository struct {
	users       *mongo.Collection
	roles       *mongo.Collection
	assignments *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:       db.Collection(usersCollection),
		roles:       db.Collection(rolesCollection),
		assignments: db.Collection(userRolesCollection),
	}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Phone        string             `bson:"phone"`
	Email        string             `bson:"email,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	Active       bool               `bson:"active"`
	SuperAdmin   bool               `bson:"super_admin"`
	ParentID     string             `bson:"parent_id,omitempty"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

type mongoRole struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

type mongoAssignment struct {
	UserID primitive.ObjectID `bson:"user_id"`
	RoleID primitive.ObjectID `bson:"role_id"`
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.users.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	roles, err := r.roleNames(ctx, mu.ID)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		ID:           mu.ID.Hex(),
		Phone:        mu.Phone,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Active:       mu.Active,
		SuperAdmin:   mu.SuperAdmin,
		ParentID:     mu.ParentID,
		Roles:        roles,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}, nil
}

// roleNames resolves the user's assignment rows into role names.
func (r *UserRepository) roleNames(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	cur, err := r.assignments.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("find role assignments: %w", err)
	}
	var links []mongoAssignment
	if err := cur.All(ctx, &links); err != nil {
		return nil, fmt.Errorf("decode role assignments: %w", err)
	}
	if len(links) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.RoleID)
	}

	cur, err = r.roles.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	var roles []mongoRole
	if err := cur.All(ctx, &roles); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Phone:        user.Phone,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Active:       user.Active,
		SuperAdmin:   user.SuperAdmin,
		ParentID:     user.ParentID,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	_, err := r.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	// fetch back to get ID
	return r.FindByPhone(ctx, user.Phone)
}

// EnsureRole creates the named role if absent and returns it.
func (r *UserRepository) EnsureRole(ctx context.Context, name string) (*domain.Role, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var role mongoRole
	err := r.roles.FindOneAndUpdate(ctx,
		bson.M{"name": name},
		bson.M{"$setOnInsert": bson.M{"name": name}},
		opts,
	).Decode(&role)
	if err != nil {
		return nil, fmt.Errorf("ensure role: %w", err)
	}
	return &domain.Role{ID: role.ID.Hex(), Name: role.Name}, nil
}

// AssignRole links a user to a role. The unique (user_id, role_id) index makes
// duplicate assignments a no-op error.
func (r *UserRepository) AssignRole(ctx context.Context, userID, roleID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	rid, err := primitive.ObjectIDFromHex(roleID)
	if err != nil {
		return fmt.Errorf("assign role: bad role id %q", roleID)
	}

	if _, err := r.assignments.InsertOne(ctx, mongoAssignment{UserID: uid, RoleID: rid}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrRoleAssigned
		}
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
