package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/moviestack/movie-catalog/internal/model"
)

// Connect is lazy, so an empty batch must come back without the driver
// ever being asked to insert (it rejects empty input client-side) and
// without touching the network.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	client, err := mongo.Connect(options.Client().ApplyURI("mongodb://localhost:27017"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("test")
}

func TestMovieInsertMany_EmptyBatch(t *testing.T) {
	repo := NewMovieRepo(testDB(t))

	out, err := repo.InsertMany(context.Background(), []model.Movie{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTermInsertMany_EmptyBatch(t *testing.T) {
	repo := NewTermRepo(testDB(t), "genre")

	out, err := repo.InsertMany(context.Background(), []model.Term{})
	require.NoError(t, err)
	assert.Empty(t, out)
}
