package repository

import (
	"context"
	"errors"
	"time"

	accountdomain "mailmind-backend/internal/account/domain"
	maildomain "mailmind-backend/internal/mailcache/domain"
	"mailmind-backend/pkg/docstore"
)

const accountCollection = "accounts"

// AccountRepository stores linked mailbox accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, accountID string) (*accountdomain.Account, error)
	ListByUser(ctx context.Context, userID string) ([]*accountdomain.Account, error)
	ListUserIDs(ctx context.Context) ([]string, error)
	Save(ctx context.Context, account *accountdomain.Account) error
	UpdateTokens(ctx context.Context, accountID, accessToken, refreshToken string) error
}

type accountRepository struct {
	store docstore.Store
}

func NewAccountRepository(store docstore.Store) AccountRepository {
	return &accountRepository{store: store}
}

func (r *accountRepository) GetByID(ctx context.Context, accountID string) (*accountdomain.Account, error) {
	var account accountdomain.Account
	if err := r.store.Read(ctx, accountCollection, accountID, &account); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, maildomain.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID string) ([]*accountdomain.Account, error) {
	docs, err := r.store.Query(ctx, accountCollection, "userId", userID)
	if err != nil {
		return nil, err
	}

	accounts := make([]*accountdomain.Account, 0, len(docs))
	for _, doc := range docs {
		account, err := docstore.Decode[accountdomain.Account](doc)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// ListUserIDs returns the distinct user IDs that have at least one linked
// account, in no particular order.
func (r *accountRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	docs, err := r.store.List(ctx, accountCollection)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	userIDs := make([]string, 0)
	for _, doc := range docs {
		account, err := docstore.Decode[accountdomain.Account](doc)
		if err != nil {
			return nil, err
		}
		if account.UserID == "" || seen[account.UserID] {
			continue
		}
		seen[account.UserID] = true
		userIDs = append(userIDs, account.UserID)
	}
	return userIDs, nil
}

func (r *accountRepository) Save(ctx context.Context, account *accountdomain.Account) error {
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now
	return r.store.Write(ctx, accountCollection, account.ID, account)
}

func (r *accountRepository) UpdateTokens(ctx context.Context, accountID, accessToken, refreshToken string) error {
	account, err := r.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	account.AccessToken = accessToken
	if refreshToken != "" {
		account.RefreshToken = refreshToken
	}
	return r.Save(ctx, account)
}
