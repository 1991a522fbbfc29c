// Package query turns raw, stringly-typed catalog query parameters into a
// normalized filter/sort/pagination descriptor that the repositories run
// against Mongo. All matching is deterministic pattern matching, never
// fuzzy or ranked.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Defaults applied when a parameter is absent.
const (
	DefaultSize      = 10
	DefaultPage      = 1
	DefaultMinRating = 0.0
	DefaultMaxRating = 10.0
)

// BadParamError reports a query parameter that failed to parse. The whole
// request fails atomically before any predicate is built, so a request
// never reaches the database with a half-applied filter set.
type BadParamError struct {
	Param string
	Value string
}

func (e *BadParamError) Error() string {
	return fmt.Sprintf("invalid value %q for parameter %q", e.Value, e.Param)
}

// Descriptor is one executable catalog query: an ordered predicate list,
// a fixed sort, and verbatim skip/limit. Skip may be negative when the
// caller supplied a negative page; that is passed through untouched and
// left for the store to reject.
type Descriptor struct {
	Predicates []bson.M
	Sort       bson.D
	Skip       int64
	Limit      int64

	// Size and Page echo the parsed pagination values so response
	// envelopes can report them without re-deriving from Skip/Limit.
	Size int
	Page int
}

// Filter collapses the predicate list into a single Mongo filter
// document. No predicates means match-everything.
func (d Descriptor) Filter() bson.M {
	switch len(d.Predicates) {
	case 0:
		return bson.M{}
	case 1:
		return d.Predicates[0]
	default:
		return bson.M{"$and": d.Predicates}
	}
}

// SearchParams carries the raw /search query string values. Every field
// is optional; empty strings select the defaults.
type SearchParams struct {
	Keyword     string
	Genres      string
	MinRating   string
	MaxRating   string
	PhraseMatch string
	Size        string
	Page        string
}

// Movies builds the descriptor for the plain movie listing: an optional
// case-insensitive keyword pattern on name, sorted by popularity
// descending. Genre and rating filters belong to Search, not here.
func Movies(keyword, size, page string) (Descriptor, error) {
	d, err := paginated(size, page)
	if err != nil {
		return Descriptor{}, err
	}
	if keyword != "" {
		d.Predicates = append(d.Predicates, namePattern(keyword))
	}
	d.Sort = bson.D{{Key: "popularity", Value: -1}}
	return d, nil
}

// Terms builds the descriptor for genre and director listings: optional
// keyword pattern on name, sorted by name ascending.
func Terms(keyword, size, page string) (Descriptor, error) {
	d, err := paginated(size, page)
	if err != nil {
		return Descriptor{}, err
	}
	if keyword != "" {
		d.Predicates = append(d.Predicates, namePattern(keyword))
	}
	d.Sort = bson.D{{Key: "name", Value: 1}}
	return d, nil
}

// Search builds the advanced movie search descriptor. Rules:
//
//   - size/page must parse as ints, min/max rating as floats; any parse
//     failure fails the whole request with a BadParamError.
//   - genres is comma-split, whitespace-trimmed, empties dropped; a
//     non-empty set becomes a "genre is any of" predicate.
//   - both rating bounds are always emitted, inclusive, even at their
//     harmless defaults.
//   - keyword with phrase_match=true is one literal pattern; otherwise it
//     is whitespace-split and OR-joined so any token may match. An empty
//     keyword adds no predicate.
func Search(p SearchParams) (Descriptor, error) {
	d, err := paginated(p.Size, p.Page)
	if err != nil {
		return Descriptor{}, err
	}

	minRating := DefaultMinRating
	if p.MinRating != "" {
		minRating, err = strconv.ParseFloat(p.MinRating, 64)
		if err != nil {
			return Descriptor{}, &BadParamError{Param: "min_rating", Value: p.MinRating}
		}
	}
	maxRating := DefaultMaxRating
	if p.MaxRating != "" {
		maxRating, err = strconv.ParseFloat(p.MaxRating, 64)
		if err != nil {
			return Descriptor{}, &BadParamError{Param: "max_rating", Value: p.MaxRating}
		}
	}

	pattern := p.Keyword
	if p.PhraseMatch != "true" {
		pattern = tokenAlternation(p.Keyword)
	}
	if pattern != "" {
		d.Predicates = append(d.Predicates, namePattern(pattern))
	}

	if genres := splitGenres(p.Genres); len(genres) > 0 {
		d.Predicates = append(d.Predicates, bson.M{"genre": bson.M{"$in": genres}})
	}

	d.Predicates = append(d.Predicates,
		bson.M{"imdb_score": bson.M{"$gte": minRating}},
		bson.M{"imdb_score": bson.M{"$lte": maxRating}},
	)

	d.Sort = bson.D{{Key: "popularity", Value: -1}}
	return d, nil
}

// paginated parses size/page and fills in skip and limit. Negative pages
// are not rejected: skip goes negative, exactly as submitted.
func paginated(sizeRaw, pageRaw string) (Descriptor, error) {
	size := DefaultSize
	if sizeRaw != "" {
		n, err := strconv.Atoi(sizeRaw)
		if err != nil {
			return Descriptor{}, &BadParamError{Param: "size", Value: sizeRaw}
		}
		size = n
	}
	page := DefaultPage
	if pageRaw != "" {
		n, err := strconv.Atoi(pageRaw)
		if err != nil {
			return Descriptor{}, &BadParamError{Param: "page", Value: pageRaw}
		}
		page = n
	}
	return Descriptor{
		Skip:  int64(page-1) * int64(size),
		Limit: int64(size),
		Size:  size,
		Page:  page,
	}, nil
}

// namePattern is a case-insensitive regex match on the name field.
func namePattern(pattern string) bson.M {
	return bson.M{"name": bson.M{"$regex": pattern, "$options": "i"}}
}

// tokenAlternation joins the non-empty whitespace-separated tokens of
// keyword into (?:tok1)|(?:tok2)|... so a record matches when any token
// appears in its name. Returns "" when there are no tokens.
func tokenAlternation(keyword string) string {
	tokens := strings.Fields(keyword)
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		parts = append(parts, "(?:"+tok+")")
	}
	return strings.Join(parts, "|")
}

// splitGenres splits the comma-separated genres parameter, trims each
// entry and drops empties.
func splitGenres(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, g := range strings.Split(raw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
