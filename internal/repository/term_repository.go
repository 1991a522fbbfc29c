package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/moviestack/movie-catalog/internal/model"
	"github.com/moviestack/movie-catalog/internal/query"
)

// TermRepo serves the genre and director collections, which share one
// record shape. Instantiate it once per collection.
type TermRepo struct{ coll *mongo.Collection }

// NewTermRepo binds a repo to the named collection ("genre" or
// "director").
func NewTermRepo(db *mongo.Database, collection string) *TermRepo {
	return &TermRepo{coll: db.Collection(collection)}
}

// Find executes a descriptor and returns the matching page.
func (r *TermRepo) Find(ctx context.Context, d query.Descriptor) ([]model.Term, error) {
	cur, err := r.coll.Find(ctx, d.Filter(),
		options.Find().SetSort(d.Sort).SetSkip(d.Skip).SetLimit(d.Limit))
	if err != nil {
		return nil, err
	}
	terms := []model.Term{}
	if err := cur.All(ctx, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// GetByUID returns the term with the given public identifier.
func (r *TermRepo) GetByUID(ctx context.Context, uid string) (model.Term, error) {
	var t model.Term
	err := r.coll.FindOne(ctx, bson.M{"uid": uid}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Term{}, ErrNotFound
	}
	return t, err
}

// InsertMany persists a batch, stamping missing uids and timestamps the
// same way MovieRepo does.
func (r *TermRepo) InsertMany(ctx context.Context, terms []model.Term) ([]model.Term, error) {
	if len(terms) == 0 {
		return terms, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(terms))
	for i := range terms {
		if terms[i].UID == "" {
			terms[i].UID = uuid.NewString()
		}
		if terms[i].CreatedAt.IsZero() {
			terms[i].CreatedAt = now
			terms[i].ModifiedAt = now
		}
		docs[i] = terms[i]
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return terms, nil
}

// Replace overwrites the term's name and refreshes modified_at.
func (r *TermRepo) Replace(ctx context.Context, uid string, updated model.Term) error {
	existing, err := r.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	existing.Name = updated.Name
	existing.ModifiedAt = time.Now().UTC()
	_, err = r.coll.ReplaceOne(ctx, bson.M{"uid": uid}, existing)
	return err
}

// Delete removes the term and returns the removed record.
func (r *TermRepo) Delete(ctx context.Context, uid string) (model.Term, error) {
	t, err := r.GetByUID(ctx, uid)
	if err != nil {
		return model.Term{}, err
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"uid": uid}); err != nil {
		return model.Term{}, err
	}
	return t, nil
}
