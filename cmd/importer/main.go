// Command importer loads an IMDB-style JSON dump into the catalog: the
// movies themselves plus the distinct genre and director sets derived
// from them. Unlike the live write path, the importer trims genre
// whitespace before storing.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/moviestack/movie-catalog/internal/database"
	"github.com/moviestack/movie-catalog/internal/model"
	"github.com/moviestack/movie-catalog/internal/repository"
)

// movieRecord matches the dump's field names; popularity is stored
// under the dataset's historical "99popularity" key.
type movieRecord struct {
	Name       string   `json:"name"`
	Director   string   `json:"director"`
	IMDBScore  float64  `json:"imdb_score"`
	Popularity float64  `json:"99popularity"`
	Genre      []string `json:"genre"`
}

func main() {
	file := flag.String("file", "imdb.json", "path to the JSON dump")
	flag.Parse()

	_ = godotenv.Load()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "imdb"
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read dump: %v", err)
	}
	var records []movieRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Fatalf("parse dump: %v", err)
	}

	client, db, err := database.Open(uri, dbName)
	if err != nil {
		log.Fatalf("mongo connect failed: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	movies := make([]model.Movie, 0, len(records))
	genres := map[string]struct{}{}
	directors := map[string]struct{}{}
	for _, rec := range records {
		trimmed := make([]string, 0, len(rec.Genre))
		for _, g := range rec.Genre {
			g = strings.TrimSpace(g)
			trimmed = append(trimmed, g)
			if g != "" {
				genres[g] = struct{}{}
			}
		}
		if rec.Director != "" {
			directors[rec.Director] = struct{}{}
		}
		movies = append(movies, model.Movie{
			Name:       rec.Name,
			IMDBScore:  rec.IMDBScore,
			Genre:      trimmed,
			Director:   rec.Director,
			Popularity: rec.Popularity,
		})
	}

	if _, err := repository.NewMovieRepo(db).InsertMany(ctx, movies); err != nil {
		log.Fatalf("insert movies: %v", err)
	}
	if err := insertTerms(ctx, repository.NewTermRepo(db, "genre"), genres); err != nil {
		log.Fatalf("insert genres: %v", err)
	}
	if err := insertTerms(ctx, repository.NewTermRepo(db, "director"), directors); err != nil {
		log.Fatalf("insert directors: %v", err)
	}

	log.Printf("imported %d movies, %d genres, %d directors", len(movies), len(genres), len(directors))
}

func insertTerms(ctx context.Context, repo *repository.TermRepo, names map[string]struct{}) error {
	if len(names) == 0 {
		return nil
	}
	terms := make([]model.Term, 0, len(names))
	for name := range names {
		terms = append(terms, model.Term{Name: name})
	}
	_, err := repo.InsertMany(ctx, terms)
	return err
}
