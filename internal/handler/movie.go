package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviestack/movie-catalog/internal/model"
	"github.com/moviestack/movie-catalog/internal/query"
	"github.com/moviestack/movie-catalog/internal/queue"
	"github.com/moviestack/movie-catalog/internal/repository"
)

// MovieStore is the persistence surface the movie handlers need.
// Satisfied by *repository.MovieRepo; tests substitute fakes.
type MovieStore interface {
	Find(ctx context.Context, d query.Descriptor) ([]model.Movie, error)
	Count(ctx context.Context, d query.Descriptor) (int64, error)
	GetByUID(ctx context.Context, uid string) (model.Movie, error)
	InsertMany(ctx context.Context, movies []model.Movie) ([]model.Movie, error)
	Replace(ctx context.Context, uid string, updated model.Movie) error
	Delete(ctx context.Context, uid string) (model.Movie, error)
}

// EventPublisher pushes catalog change notifications to the broker.
// Publishing is best-effort: failures are logged, never surfaced to the
// client.
type EventPublisher interface {
	PublishCatalogChanged(ctx context.Context, ev queue.CatalogChangedEvent) error
}

// MovieHandler bundles dependencies for the movie endpoints.
type MovieHandler struct {
	Movies MovieStore
	Events EventPublisher
}

func NewMovieHandler(m MovieStore, ev EventPublisher) *MovieHandler {
	return &MovieHandler{Movies: m, Events: ev}
}

// List handles GET /movies: popularity-descending listing with an
// optional plain keyword filter and pagination. No total count here;
// that belongs to /search only.
func (h *MovieHandler) List(c echo.Context) error {
	d, err := query.Movies(c.QueryParam("keyword"), c.QueryParam("size"), c.QueryParam("page"))
	if err != nil {
		return badParam(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	movies, err := h.Movies.Find(ctx, d)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list movies failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data": movies,
		"size": d.Size,
		"page": d.Page,
	})
}

// Search handles GET /search: keyword (phrase or token alternation),
// genre membership and rating range filters, plus a total match count
// independent of pagination.
func (h *MovieHandler) Search(c echo.Context) error {
	d, err := query.Search(query.SearchParams{
		Keyword:     c.QueryParam("keyword"),
		Genres:      c.QueryParam("genres"),
		MinRating:   c.QueryParam("min_rating"),
		MaxRating:   c.QueryParam("max_rating"),
		PhraseMatch: c.QueryParam("phrase_match"),
		Size:        c.QueryParam("size"),
		Page:        c.QueryParam("page"),
	})
	if err != nil {
		return badParam(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	movies, err := h.Movies.Find(ctx, d)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search movies failed"})
	}
	count, err := h.Movies.Count(ctx, d)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count movies failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":  movies,
		"count": count,
		"size":  d.Size,
		"page":  d.Page,
	})
}

// Get handles GET /movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	uid := c.Param("id")

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Movies.GetByUID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("cannot find movie with id %s", uid)})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get movie failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// Create handles POST /movies: a batch insert. Missing uids and
// timestamps are populated by the store; the populated batch is echoed
// back.
func (h *MovieHandler) Create(c echo.Context) error {
	var movies []model.Movie
	if err := c.Bind(&movies); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	created, err := h.Movies.InsertMany(ctx, movies)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "insert movies failed"})
	}

	if len(created) > 0 {
		uids := make([]string, len(created))
		for i, m := range created {
			uids[i] = m.UID
		}
		h.publish(ctx, queue.CatalogChangedEvent{Entity: "movie", Action: "created", UIDs: uids})
	}

	return c.JSON(http.StatusOK, created)
}

// Update handles PUT /movies/:id: a full-field replace, never a merge.
// Returns the identifier of the updated record.
func (h *MovieHandler) Update(c echo.Context) error {
	uid := c.Param("id")
	var m model.Movie
	if err := c.Bind(&m); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Movies.Replace(ctx, uid, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("cannot find movie with id %s", uid)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update movie failed"})
	}

	h.publish(ctx, queue.CatalogChangedEvent{Entity: "movie", Action: "updated", UID: uid, Name: m.Name})

	return c.JSON(http.StatusOK, uid)
}

// Delete handles DELETE /movies/:id and returns the removed record.
func (h *MovieHandler) Delete(c echo.Context) error {
	uid := c.Param("id")

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Movies.Delete(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("cannot find movie with id %s", uid)})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
	}

	h.publish(ctx, queue.CatalogChangedEvent{Entity: "movie", Action: "deleted", UID: uid, Name: m.Name})

	return c.JSON(http.StatusOK, m)
}

func (h *MovieHandler) publish(ctx context.Context, ev queue.CatalogChangedEvent) {
	if h.Events == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	if err := h.Events.PublishCatalogChanged(ctx, ev); err != nil {
		log.Printf("catalog event publish failed: %v", err)
	}
}

// reqCtx derives the store-call timeout from the request context.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// badParam maps query parse failures to 400 and anything else to 500.
func badParam(c echo.Context, err error) error {
	var bad *query.BadParamError
	if errors.As(err, &bad) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": bad.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build query failed"})
}
