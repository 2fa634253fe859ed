package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the Firestore-backed document store, created through
// the Firebase admin SDK.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to Firestore for the given project. The
// credentials file is optional; with it empty the default application
// credentials are used.
func NewFirestoreStore(ctx context.Context, projectID, credentialsFile string) (*FirestoreStore, error) {
	conf := &firebase.Config{ProjectID: projectID}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &FirestoreStore{client: client}, nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func decodeSnapshot(data map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (s *FirestoreStore) Read(ctx context.Context, collection, key string, out interface{}) error {
	snap, err := s.client.Collection(collection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNoDocument
		}
		return fmt.Errorf("firestore read %s/%s: %w", collection, key, err)
	}
	return decodeSnapshot(snap.Data(), out)
}

func (s *FirestoreStore) Write(ctx context.Context, collection, key string, value interface{}) error {
	m, err := toJSONMap(value)
	if err != nil {
		return err
	}
	if _, err := s.client.Collection(collection).Doc(key).Set(ctx, m); err != nil {
		return fmt.Errorf("firestore write %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, key string) error {
	if _, err := s.client.Collection(collection).Doc(key).Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *FirestoreStore) Query(ctx context.Context, collection, field, value string) ([]Doc, error) {
	snaps, err := s.client.Collection(collection).Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore query %s.%s: %w", collection, field, err)
	}

	docs := make([]Doc, 0, len(snaps))
	for _, snap := range snaps {
		raw, err := json.Marshal(snap.Data())
		if err != nil {
			return nil, err
		}
		docs = append(docs, Doc{Key: snap.Ref.ID, Data: raw})
	}
	return docs, nil
}

func (s *FirestoreStore) List(ctx context.Context, collection string) ([]Doc, error) {
	snaps, err := s.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore list %s: %w", collection, err)
	}

	docs := make([]Doc, 0, len(snaps))
	for _, snap := range snaps {
		raw, err := json.Marshal(snap.Data())
		if err != nil {
			return nil, err
		}
		docs = append(docs, Doc{Key: snap.Ref.ID, Data: raw})
	}
	return docs, nil
}

type firestoreTx struct {
	store *FirestoreStore
	tx    *firestore.Transaction
}

func (t *firestoreTx) Read(collection, key string, out interface{}) error {
	snap, err := t.tx.Get(t.store.client.Collection(collection).Doc(key))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNoDocument
		}
		return err
	}
	return decodeSnapshot(snap.Data(), out)
}

func (t *firestoreTx) Write(collection, key string, value interface{}) error {
	m, err := toJSONMap(value)
	if err != nil {
		return err
	}
	return t.tx.Set(t.store.client.Collection(collection).Doc(key), m)
}

func (t *firestoreTx) Delete(collection, key string) error {
	return t.tx.Delete(t.store.client.Collection(collection).Doc(key))
}

func (s *FirestoreStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(&firestoreTx{store: s, tx: tx})
	})
}
