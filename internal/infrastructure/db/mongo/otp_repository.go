package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Divyadarshini04/Billing-Backend/internal/core/domain"
)

const otpCollection = "otps"

// OTPRepository persists OTP records. Timestamps are stored as unix
// milliseconds so invalidation ("expires_at = now") takes effect within the
// same second it is written.
type OTPRepository struct {
	coll *mongo.Collection
}

func NewOTPRepository(db *mongo.Database) *OTPRepository {
	return &OTPRepository{coll: db.Collection(otpCollection)}
}

type mongoOTP struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Phone     string             `bson:"phone"`
	Code      string             `bson:"code"`
	CreatedAt int64              `bson:"created_at"`
	ExpiresAt int64              `bson:"expires_at"`
	Used      bool               `bson:"used"`
}

func (r *OTPRepository) Create(ctx context.Context, otp *domain.OTP) error {
	doc := mongoOTP{
		Phone:     otp.Phone,
		Code:      otp.Code,
		CreatedAt: otp.CreatedAt.UnixMilli(),
		ExpiresAt: otp.ExpiresAt.UnixMilli(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

// InvalidateActive expires every currently valid record for the phone in one
// update, keeping the rows for audit history.
func (r *OTPRepository) InvalidateActive(ctx context.Context, phone string, now time.Time) (int64, error) {
	nowMs := now.UnixMilli()
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"phone": phone, "used": false, "expires_at": bson.M{"$gt": nowMs}},
		bson.M{"$set": bson.M{"expires_at": nowMs}},
	)
	if err != nil {
		return 0, fmt.Errorf("invalidate otps: %w", err)
	}
	return res.ModifiedCount, nil
}

// Consume flips used=false→true on the matching valid record. The single
// document update is atomic on the server, so it acts as the exclusive
// read-check-mark sequence: of two concurrent calls one wins, the other sees
// no matching document and gets ErrInvalidOrExpiredCode, same as a wrong,
// expired, or already used code.
func (r *OTPRepository) Consume(ctx context.Context, phone, code string, now time.Time) error {
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{
			"phone":      phone,
			"code":       code,
			"used":       false,
			"expires_at": bson.M{"$gte": now.UnixMilli()},
		},
		bson.M{"$set": bson.M{"used": true}},
	).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return domain.ErrInvalidOrExpiredCode
		}
		return fmt.Errorf("consume otp: %w", err)
	}
	return nil
}

// DeleteOld sweeps used records and records expired before the cutoff.
func (r *OTPRepository) DeleteOld(ctx context.Context, expiredBefore time.Time) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"used": true},
		bson.M{"expires_at": bson.M{"$lt": expiredBefore.UnixMilli()}},
	}})
	if err != nil {
		return fmt.Errorf("delete old otps: %w", err)
	}
	return nil
}
