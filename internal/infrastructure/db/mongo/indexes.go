package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the auth core relies on. Phone and role
// name are globally unique; email is unique only when present; assignment
// rows are unique per (user, role) pair.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
		},
	}
	if _, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}

	roles := []mongo.IndexModel{{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}}
	if _, err := db.Collection(rolesCollection).Indexes().CreateMany(ctx, roles); err != nil {
		return fmt.Errorf("role indexes: %w", err)
	}

	assignments := []mongo.IndexModel{{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "role_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}}
	if _, err := db.Collection(userRolesCollection).Indexes().CreateMany(ctx, assignments); err != nil {
		return fmt.Errorf("assignment indexes: %w", err)
	}

	otps := []mongo.IndexModel{{
		Keys: bson.D{{Key: "phone", Value: 1}, {Key: "code", Value: 1}},
	}}
	if _, err := db.Collection(otpCollection).Indexes().CreateMany(ctx, otps); err != nil {
		return fmt.Errorf("otp indexes: %w", err)
	}

	return nil
}
