package repository

import (
	"context"
	"errors"
	"time"

	"mailmind-backend/internal/mailcache/domain"
	"mailmind-backend/pkg/docstore"
)

const indexCollection = "mail_indexes"

// IndexRepository stores the per-user cache index. Update runs its
// mutation inside a store transaction so concurrent refreshes never
// clobber each other's view of the ledger.
type IndexRepository interface {
	Load(ctx context.Context, userID string) (*domain.CacheIndex, error)
	LoadOrInit(ctx context.Context, userID string) (*domain.CacheIndex, error)
	Update(ctx context.Context, userID string, mutate func(ix *domain.CacheIndex) error) (*domain.CacheIndex, error)
}

type indexRepository struct {
	store docstore.Store
}

func NewIndexRepository(store docstore.Store) IndexRepository {
	return &indexRepository{store: store}
}

func (r *indexRepository) Load(ctx context.Context, userID string) (*domain.CacheIndex, error) {
	var ix domain.CacheIndex
	if err := r.store.Read(ctx, indexCollection, userID, &ix); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &ix, nil
}

func (r *indexRepository) LoadOrInit(ctx context.Context, userID string) (*domain.CacheIndex, error) {
	ix, err := r.Load(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewCacheIndex(userID), nil
	}
	return ix, err
}

func (r *indexRepository) Update(ctx context.Context, userID string, mutate func(ix *domain.CacheIndex) error) (*domain.CacheIndex, error) {
	var updated *domain.CacheIndex
	err := r.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		ix := domain.NewCacheIndex(userID)
		if err := tx.Read(indexCollection, userID, ix); err != nil && !errors.Is(err, docstore.ErrNoDocument) {
			return err
		}
		if err := mutate(ix); err != nil {
			return err
		}
		ix.UpdatedAt = time.Now().UTC()
		updated = ix
		return tx.Write(indexCollection, userID, ix)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
