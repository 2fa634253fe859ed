// Package docstore is a minimal transactional document store over named
// collections keyed by string IDs. Backends exist for Firestore, Postgres
// and an in-memory map; documents are JSON-shaped structs.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNoDocument is returned by Read when the key has no document.
var ErrNoDocument = errors.New("docstore: no document")

// Doc is a raw query result.
type Doc struct {
	Key  string
	Data json.RawMessage
}

// Tx is the view of the store inside a transaction. Every read-then-write
// against a single document must go through one to avoid lost updates.
type Tx interface {
	Read(collection, key string, out interface{}) error
	Write(collection, key string, value interface{}) error
	Delete(collection, key string) error
}

// Store is a transactional get/put/query document store.
type Store interface {
	Read(ctx context.Context, collection, key string, out interface{}) error
	Write(ctx context.Context, collection, key string, value interface{}) error
	Delete(ctx context.Context, collection, key string) error
	// Query returns every document in collection whose top-level field
	// equals value.
	Query(ctx context.Context, collection, field, value string) ([]Doc, error)
	// List returns every document in collection.
	List(ctx context.Context, collection string) ([]Doc, error)
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// Decode unmarshals a query result into a typed document.
func Decode[T any](doc Doc) (*T, error) {
	out := new(T)
	if err := json.Unmarshal(doc.Data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// toJSONMap round-trips a struct through JSON into a generic map so every
// backend persists the same field names regardless of struct tags.
func toJSONMap(value interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
