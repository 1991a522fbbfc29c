package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/moviestack/movie-catalog/internal/model"
)

func TestTermList_SortedByName(t *testing.T) {
	store := &fakeTermStore{terms: []model.Term{{UID: "g1", Name: "Adventure"}}}
	h := NewTermHandler(store, nil, "genre")

	c, rec := newTestContext(t, http.MethodGet, "/genres?keyword=adv", "")
	require.NoError(t, h.List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bson.D{{Key: "name", Value: 1}}, store.lastFind.Sort)
	require.Len(t, store.lastFind.Predicates, 1)
	assert.Equal(t, bson.M{"name": bson.M{"$regex": "adv", "$options": "i"}}, store.lastFind.Predicates[0])

	body := decodeBody(t, rec)
	assert.NotContains(t, body, "count")
}

func TestTermCreateUpdateDelete(t *testing.T) {
	store := &fakeTermStore{}
	events := &fakePublisher{}
	h := NewTermHandler(store, events, "director")

	c, rec := newTestContext(t, http.MethodPost, "/directors", `[{"name":"Victor Fleming"}]`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	var created []model.Term
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created, 1)
	uid := created[0].UID
	require.NotEmpty(t, uid)

	c, rec = newTestContext(t, http.MethodPut, "/directors/"+uid, `{"name":"V. Fleming"}`)
	c.SetParamNames("id")
	c.SetParamValues(uid)
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"`+uid+`"`, rec.Body.String())

	c, rec = newTestContext(t, http.MethodDelete, "/directors/"+uid, "")
	c.SetParamNames("id")
	c.SetParamValues(uid)
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, events.events, 3)
	assert.Equal(t, []string{"created", "updated", "deleted"},
		[]string{events.events[0].Action, events.events[1].Action, events.events[2].Action})
	assert.Equal(t, "director", events.events[0].Entity)
}

func TestTermUpdate_NotFound(t *testing.T) {
	h := NewTermHandler(&fakeTermStore{}, nil, "genre")

	c, rec := newTestContext(t, http.MethodPut, "/genres/nope", `{"name":"X"}`)
	c.SetParamNames("id")
	c.SetParamValues("nope")
	require.NoError(t, h.Update(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "cannot find genre with id nope", body["error"])
}
