package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is a mutex-guarded in-memory backend used in tests and in
// token-free development mode. Transactions serialize on the store lock.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte // collection -> key -> raw JSON
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string][]byte)}
}

func (s *MemoryStore) read(collection, key string, out interface{}) error {
	coll, ok := s.data[collection]
	if !ok {
		return ErrNoDocument
	}
	raw, ok := coll[key]
	if !ok {
		return ErrNoDocument
	}
	return json.Unmarshal(raw, out)
}

func (s *MemoryStore) write(collection, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	coll, ok := s.data[collection]
	if !ok {
		coll = make(map[string][]byte)
		s.data[collection] = coll
	}
	coll[key] = raw
	return nil
}

func (s *MemoryStore) Read(ctx context.Context, collection, key string, out interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(collection, key, out)
}

func (s *MemoryStore) Write(ctx context.Context, collection, key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(collection, key, value)
}

func (s *MemoryStore) Delete(ctx context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if coll, ok := s.data[collection]; ok {
		delete(coll, key)
	}
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection, field, value string) ([]Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Doc
	for key, raw := range s.data[collection] {
		var m map[string]interface{}
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		if v, ok := m[field]; ok && fmt.Sprint(v) == value {
			docs = append(docs, Doc{Key: key, Data: append(json.RawMessage(nil), raw...)})
		}
	}
	return docs, nil
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([]Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Doc
	for key, raw := range s.data[collection] {
		docs = append(docs, Doc{Key: key, Data: append(json.RawMessage(nil), raw...)})
	}
	return docs, nil
}

type memoryTx struct {
	store *MemoryStore
}

func (t *memoryTx) Read(collection, key string, out interface{}) error {
	return t.store.read(collection, key, out)
}

func (t *memoryTx) Write(collection, key string, value interface{}) error {
	return t.store.write(collection, key, value)
}

func (t *memoryTx) Delete(collection, key string) error {
	if coll, ok := t.store.data[collection]; ok {
		delete(coll, key)
	}
	return nil
}

func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&memoryTx{store: s})
}
