package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User mirrors the 'user' collection. EmailID is the unique login key.
// Password holds the bcrypt hash and is never serialized.
type User struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"-"`
	UID        string        `bson:"uid" json:"uid"`
	Username   string        `bson:"username" json:"username"`
	EmailID    string        `bson:"email_id" json:"email_id"`
	Password   string        `bson:"password" json:"-"`
	Firstname  string        `bson:"firstname,omitempty" json:"firstname,omitempty"`
	Lastname   string        `bson:"lastname,omitempty" json:"lastname,omitempty"`
	IsActive   bool          `bson:"is_active" json:"is_active"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
	ModifiedAt time.Time     `bson:"modified_at" json:"modified_at"`
}

// Identity is the per-request caller, either anonymous or an
// authenticated user. A single tagged value replaces the two
// near-identical user shapes the request pipeline would otherwise
// juggle.
type Identity struct {
	Authenticated bool
	User          User
}

// Anonymous returns the unauthenticated identity.
func Anonymous() Identity { return Identity{} }
