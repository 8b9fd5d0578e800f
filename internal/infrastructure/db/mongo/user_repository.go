package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/authlab/auth-backend/internal/core/domain"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
	userSequence       = "users"
)

// UserRepository stores users as documents keyed by an integer _id drawn
// from a counters collection, so IDs match the relational store's shape.
type UserRepository struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

type mongoUser struct {
	ID             int64     `bson:"_id"`
	Name           string    `bson:"name"`
	Lastname       string    `bson:"lastname"`
	Email          string    `bson:"email"`
	HashedPassword string    `bson:"hashed_password"`
	Role           string    `bson:"role"`
	IsActive       bool      `bson:"is_active"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func toDocument(u *domain.User) mongoUser {
	return mongoUser{
		ID:             u.ID,
		Name:           u.Name,
		Lastname:       u.Lastname,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		Role:           string(u.Role),
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (m mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:             m.ID,
		Name:           m.Name,
		Lastname:       m.Lastname,
		Email:          m.Email,
		HashedPassword: m.HashedPassword,
		Role:           domain.Role(m.Role),
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	now := storedNow()
	created := *user
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.users.InsertOne(ctx, toDocument(&created)); err != nil {
		return nil, translate("insert user", err)
	}
	return &created, nil
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	saved := *user
	saved.UpdatedAt = storedNow()
	doc := toDocument(&saved)

	res, err := r.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"name":            doc.Name,
		"lastname":        doc.Lastname,
		"email":           doc.Email,
		"hashed_password": doc.HashedPassword,
		"role":            doc.Role,
		"is_active":       doc.IsActive,
		"updated_at":      doc.UpdatedAt,
	}})
	if err != nil {
		return nil, translate("save user", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	if err := r.users.Database().Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

// EnsureIndexes creates the unique email index that enforces email uniqueness.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_key"),
	})
	if err != nil {
		return fmt.Errorf("create users indexes: %w", err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoUser
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate("find user", err)
	}
	return doc.toDomain(), nil
}

// nextID atomically increments the users sequence and returns the new value.
func (r *UserRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": userSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, translate("allocate user id", err)
	}
	return counter.Seq, nil
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrUserNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrEmailConflict
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStorage, op, err)
}

// storedNow is the current time at BSON date precision.
func storedNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
