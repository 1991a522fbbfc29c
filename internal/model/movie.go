package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Movie mirrors the 'movie' collection. UID is the public identifier
// assigned once at creation; the Mongo _id never leaves the service.
// Genre entries are stored exactly as submitted, untrimmed.
type Movie struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"-"`
	UID        string        `bson:"uid" json:"uid"`
	Name       string        `bson:"name" json:"name"`
	IMDBScore  float64       `bson:"imdb_score" json:"imdb_score"`
	Genre      []string      `bson:"genre" json:"genre"`
	Director   string        `bson:"director" json:"director"`
	Popularity float64       `bson:"popularity" json:"popularity"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
	ModifiedAt time.Time     `bson:"modified_at" json:"modified_at"`
}

// Term is a named catalog record. Genres and directors share this shape
// and differ only in which collection they live in; they are free text,
// not relational keys, so deleting one never cascades into movies.
type Term struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"-"`
	UID        string        `bson:"uid" json:"uid"`
	Name       string        `bson:"name" json:"name"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
	ModifiedAt time.Time     `bson:"modified_at" json:"modified_at"`
}
