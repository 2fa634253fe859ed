package repository

import (
	"context"
	"errors"

	"mailmind-backend/internal/mailcache/domain"
	"mailmind-backend/pkg/docstore"
)

const messageCollection = "messages"

// MessageRepository stores full cached messages keyed by composite ID.
type MessageRepository interface {
	Get(ctx context.Context, id string) (*domain.CachedMessage, error)
	GetMany(ctx context.Context, ids []string) ([]*domain.CachedMessage, error)
	Save(ctx context.Context, msg *domain.CachedMessage) error
}

type messageRepository struct {
	store docstore.Store
}

func NewMessageRepository(store docstore.Store) MessageRepository {
	return &messageRepository{store: store}
}

func (r *messageRepository) Get(ctx context.Context, id string) (*domain.CachedMessage, error) {
	var msg domain.CachedMessage
	if err := r.store.Read(ctx, messageCollection, id, &msg); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// GetMany loads each id in order, skipping ids whose document no longer
// exists so a stale index entry never fails a whole listing.
func (r *messageRepository) GetMany(ctx context.Context, ids []string) ([]*domain.CachedMessage, error) {
	msgs := make([]*domain.CachedMessage, 0, len(ids))
	for _, id := range ids {
		msg, err := r.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (r *messageRepository) Save(ctx context.Context, msg *domain.CachedMessage) error {
	return r.store.Write(ctx, messageCollection, msg.ID, msg)
}
