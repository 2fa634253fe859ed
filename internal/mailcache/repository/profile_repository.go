package repository

import (
	"context"
	"errors"

	"mailmind-backend/internal/mailcache/domain"
	"mailmind-backend/pkg/docstore"
)

const profileCollection = "profiles"

// ProfileRepository reads the per-user enrichment context document.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Save(ctx context.Context, profile *domain.Profile) error
}

type profileRepository struct {
	store docstore.Store
}

func NewProfileRepository(store docstore.Store) ProfileRepository {
	return &profileRepository{store: store}
}

// Get returns an empty profile when the user never wrote one, so
// enrichment can proceed without per-user setup.
func (r *profileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.store.Read(ctx, profileCollection, userID, &profile); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return &domain.Profile{UserID: userID}, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	return r.store.Write(ctx, profileCollection, profile.UserID, profile)
}
