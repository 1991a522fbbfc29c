package handler

import (
	"context"
	"time"

	"github.com/moviestack/movie-catalog/internal/model"
	"github.com/moviestack/movie-catalog/internal/query"
	"github.com/moviestack/movie-catalog/internal/queue"
	"github.com/moviestack/movie-catalog/internal/repository"
)

// In-memory stand-ins for the Mongo repositories. They reproduce the
// identifier/timestamp stamping and sentinel errors the handlers rely
// on, and record the last descriptor so tests can assert on what would
// reach the store.

type fakeMovieStore struct {
	movies   []model.Movie
	lastFind query.Descriptor
	err      error
}

func (f *fakeMovieStore) Find(_ context.Context, d query.Descriptor) ([]model.Movie, error) {
	f.lastFind = d
	return f.movies, f.err
}

func (f *fakeMovieStore) Count(_ context.Context, d query.Descriptor) (int64, error) {
	return int64(len(f.movies)), f.err
}

func (f *fakeMovieStore) GetByUID(_ context.Context, uid string) (model.Movie, error) {
	if f.err != nil {
		return model.Movie{}, f.err
	}
	for _, m := range f.movies {
		if m.UID == uid {
			return m, nil
		}
	}
	return model.Movie{}, repository.ErrNotFound
}

func (f *fakeMovieStore) InsertMany(_ context.Context, movies []model.Movie) ([]model.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	now := time.Now().UTC()
	for i := range movies {
		if movies[i].UID == "" {
			movies[i].UID = "generated-uid"
		}
		if movies[i].CreatedAt.IsZero() {
			movies[i].CreatedAt = now
			movies[i].ModifiedAt = now
		}
	}
	f.movies = append(f.movies, movies...)
	return movies, nil
}

func (f *fakeMovieStore) Replace(ctx context.Context, uid string, updated model.Movie) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.movies {
		if f.movies[i].UID == uid {
			updated.UID = uid
			f.movies[i] = updated
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeMovieStore) Delete(ctx context.Context, uid string) (model.Movie, error) {
	for i, m := range f.movies {
		if m.UID == uid {
			f.movies = append(f.movies[:i], f.movies[i+1:]...)
			return m, nil
		}
	}
	return model.Movie{}, repository.ErrNotFound
}

type fakeTermStore struct {
	terms    []model.Term
	lastFind query.Descriptor
	err      error
}

func (f *fakeTermStore) Find(_ context.Context, d query.Descriptor) ([]model.Term, error) {
	f.lastFind = d
	return f.terms, f.err
}

func (f *fakeTermStore) GetByUID(_ context.Context, uid string) (model.Term, error) {
	for _, t := range f.terms {
		if t.UID == uid {
			return t, nil
		}
	}
	return model.Term{}, repository.ErrNotFound
}

func (f *fakeTermStore) InsertMany(_ context.Context, terms []model.Term) ([]model.Term, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range terms {
		if terms[i].UID == "" {
			terms[i].UID = "generated-uid"
		}
	}
	f.terms = append(f.terms, terms...)
	return terms, nil
}

func (f *fakeTermStore) Replace(_ context.Context, uid string, updated model.Term) error {
	for i := range f.terms {
		if f.terms[i].UID == uid {
			updated.UID = uid
			f.terms[i] = updated
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeTermStore) Delete(_ context.Context, uid string) (model.Term, error) {
	for i, t := range f.terms {
		if t.UID == uid {
			f.terms = append(f.terms[:i], f.terms[i+1:]...)
			return t, nil
		}
	}
	return model.Term{}, repository.ErrNotFound
}

type fakeUserStore struct {
	users map[string]model.User
	err   error // injected store failure
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, u model.User, cost int) (model.User, error) {
	if _, ok := f.users[u.EmailID]; ok {
		return model.User{}, repository.ErrEmailExists
	}
	u.UID = "user-uid"
	u.Password = "hashed:" + u.Password
	u.IsActive = true
	f.users[u.EmailID] = u
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

type fakePublisher struct {
	events []queue.CatalogChangedEvent
	err    error
}

func (f *fakePublisher) PublishCatalogChanged(_ context.Context, ev queue.CatalogChangedEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

type fakeRevoker struct {
	revoked map[string]time.Duration
}

func newFakeRevoker() *fakeRevoker { return &fakeRevoker{revoked: map[string]time.Duration{}} }

func (f *fakeRevoker) Revoke(_ context.Context, raw string, ttl time.Duration) error {
	f.revoked[raw] = ttl
	return nil
}
