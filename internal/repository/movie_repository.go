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

// MovieRepo runs catalog descriptors against the 'movie' collection.
type MovieRepo struct{ coll *mongo.Collection }

func NewMovieRepo(db *mongo.Database) *MovieRepo {
	return &MovieRepo{coll: db.Collection("movie")}
}

// Find executes a descriptor and returns the matching page. Zero matches
// is a valid empty result, not an error.
func (r *MovieRepo) Find(ctx context.Context, d query.Descriptor) ([]model.Movie, error) {
	cur, err := r.coll.Find(ctx, d.Filter(),
		options.Find().SetSort(d.Sort).SetSkip(d.Skip).SetLimit(d.Limit))
	if err != nil {
		return nil, err
	}
	movies := []model.Movie{}
	if err := cur.All(ctx, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// Count reports how many records match the descriptor's predicates,
// ignoring skip and limit.
func (r *MovieRepo) Count(ctx context.Context, d query.Descriptor) (int64, error) {
	return r.coll.CountDocuments(ctx, d.Filter())
}

// GetByUID returns the movie with the given public identifier.
func (r *MovieRepo) GetByUID(ctx context.Context, uid string) (model.Movie, error) {
	var m model.Movie
	err := r.coll.FindOne(ctx, bson.M{"uid": uid}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Movie{}, ErrNotFound
	}
	return m, err
}

// InsertMany persists a batch. Candidates without a uid get a fresh one;
// candidates without timestamps get created_at and modified_at stamped
// with the same instant. The fully populated batch is returned. The
// insert is a single ordered batch; on failure the caller sees one error
// with no per-record report.
func (r *MovieRepo) InsertMany(ctx context.Context, movies []model.Movie) ([]model.Movie, error) {
	// The driver rejects an empty batch client-side; an empty sequence
	// is valid input and simply echoes back.
	if len(movies) == 0 {
		return movies, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(movies))
	for i := range movies {
		if movies[i].UID == "" {
			movies[i].UID = uuid.NewString()
		}
		if movies[i].CreatedAt.IsZero() {
			movies[i].CreatedAt = now
			movies[i].ModifiedAt = now
		}
		docs[i] = movies[i]
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return movies, nil
}

// Replace overwrites every mutable field of the stored movie with the
// submitted values and refreshes modified_at. The identifier is immutable.
func (r *MovieRepo) Replace(ctx context.Context, uid string, updated model.Movie) error {
	existing, err := r.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	existing.Name = updated.Name
	existing.IMDBScore = updated.IMDBScore
	existing.Genre = updated.Genre
	existing.Director = updated.Director
	existing.Popularity = updated.Popularity
	existing.ModifiedAt = time.Now().UTC()
	_, err = r.coll.ReplaceOne(ctx, bson.M{"uid": uid}, existing)
	return err
}

// Delete removes the movie and returns the removed record.
func (r *MovieRepo) Delete(ctx context.Context, uid string) (model.Movie, error) {
	m, err := r.GetByUID(ctx, uid)
	if err != nil {
		return model.Movie{}, err
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"uid": uid}); err != nil {
		return model.Movie{}, err
	}
	return m, nil
}
