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

// TermStore is the persistence surface for genre and director records.
// Satisfied by *repository.TermRepo.
type TermStore interface {
	Find(ctx context.Context, d query.Descriptor) ([]model.Term, error)
	GetByUID(ctx context.Context, uid string) (model.Term, error)
	InsertMany(ctx context.Context, terms []model.Term) ([]model.Term, error)
	Replace(ctx context.Context, uid string, updated model.Term) error
	Delete(ctx context.Context, uid string) (model.Term, error)
}

// TermHandler serves either the genre or the director endpoints; Kind
// names the entity in error details and events.
type TermHandler struct {
	Terms  TermStore
	Events EventPublisher
	Kind   string // "genre" | "director"
}

func NewTermHandler(t TermStore, ev EventPublisher, kind string) *TermHandler {
	return &TermHandler{Terms: t, Events: ev, Kind: kind}
}

// List handles GET /genres and GET /directors: name-ascending listing
// with optional keyword filter and pagination. No genre/rating filters
// and no total count on these endpoints.
func (h *TermHandler) List(c echo.Context) error {
	d, err := query.Terms(c.QueryParam("keyword"), c.QueryParam("size"), c.QueryParam("page"))
	if err != nil {
		return badParam(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	terms, err := h.Terms.Find(ctx, d)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list " + h.Kind + "s failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data": terms,
		"size": d.Size,
		"page": d.Page,
	})
}

// Create handles the batch insert.
func (h *TermHandler) Create(c echo.Context) error {
	var terms []model.Term
	if err := c.Bind(&terms); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	created, err := h.Terms.InsertMany(ctx, terms)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "insert " + h.Kind + "s failed"})
	}

	if len(created) > 0 {
		uids := make([]string, len(created))
		for i, t := range created {
			uids[i] = t.UID
		}
		h.publish(ctx, queue.CatalogChangedEvent{Entity: h.Kind, Action: "created", UIDs: uids})
	}

	return c.JSON(http.StatusOK, created)
}

// Update replaces the record's name and returns the identifier.
func (h *TermHandler) Update(c echo.Context) error {
	uid := c.Param("id")
	var t model.Term
	if err := c.Bind(&t); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Terms.Replace(ctx, uid, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": h.missing(uid)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update " + h.Kind + " failed"})
	}

	h.publish(ctx, queue.CatalogChangedEvent{Entity: h.Kind, Action: "updated", UID: uid, Name: t.Name})

	return c.JSON(http.StatusOK, uid)
}

// Delete removes the record and returns it.
func (h *TermHandler) Delete(c echo.Context) error {
	uid := c.Param("id")

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Terms.Delete(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": h.missing(uid)})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete " + h.Kind + " failed"})
	}

	h.publish(ctx, queue.CatalogChangedEvent{Entity: h.Kind, Action: "deleted", UID: uid, Name: t.Name})

	return c.JSON(http.StatusOK, t)
}

func (h *TermHandler) missing(uid string) string {
	return fmt.Sprintf("cannot find %s with id %s", h.Kind, uid)
}

func (h *TermHandler) publish(ctx context.Context, ev queue.CatalogChangedEvent) {
	if h.Events == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	if err := h.Events.PublishCatalogChanged(ctx, ev); err != nil {
		log.Printf("catalog event publish failed: %v", err)
	}
}
