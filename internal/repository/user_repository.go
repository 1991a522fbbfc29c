package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/moviestack/movie-catalog/internal/model"
	"github.com/moviestack/movie-catalog/internal/utils"
)

// UserRepo persists accounts in the 'user' collection. email_id carries
// a unique index (see database.EnsureIndexes), so duplicate registration
// loses the race at the store as well as at the pre-check.
type UserRepo struct{ coll *mongo.Collection }

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{coll: db.Collection("user")}
}

// Create registers a new account. The submitted plaintext password is
// bcrypt-hashed before anything is persisted; the stored record is
// returned with the hash still in place, so callers must project it out
// before serializing.
func (r *UserRepo) Create(ctx context.Context, u model.User, cost int) (model.User, error) {
	u.EmailID = strings.TrimSpace(u.EmailID)

	err := r.coll.FindOne(ctx, bson.M{"email_id": u.EmailID}).Err()
	if err == nil {
		return model.User{}, ErrEmailExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, err
	}

	hash, err := utils.HashPassword(u.Password, cost)
	if err != nil {
		return model.User{}, err
	}
	u.Password = hash
	u.UID = uuid.NewString()
	u.IsActive = true
	now := time.Now().UTC()
	u.CreatedAt = now
	u.ModifiedAt = now

	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return u, nil
}

// GetByEmail fetches an account by its unique email_id.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.coll.FindOne(ctx, bson.M{"email_id": strings.TrimSpace(email)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrNotFound
	}
	return u, err
}
