package usecase

import (
	"context"
	"fmt"

	accountdomain "mailmind-backend/internal/account/domain"
	"mailmind-backend/internal/account/repository"
	maildomain "mailmind-backend/internal/mailcache/domain"
	"mailmind-backend/pkg/crypto"
	"mailmind-backend/pkg/gmail"
	"mailmind-backend/pkg/imap"

	"golang.org/x/oauth2"
)

// SourceFactory turns a stored account into a live MailSource.
type SourceFactory interface {
	SourceFor(ctx context.Context, account *accountdomain.Account) (maildomain.MailSource, error)
}

type sourceFactory struct {
	clientID     string
	clientSecret string
	accounts     repository.AccountRepository
	encryptor    *crypto.Encryptor
}

func NewSourceFactory(clientID, clientSecret string, accounts repository.AccountRepository, encryptor *crypto.Encryptor) SourceFactory {
	return &sourceFactory{
		clientID:     clientID,
		clientSecret: clientSecret,
		accounts:     accounts,
		encryptor:    encryptor,
	}
}

func (f *sourceFactory) SourceFor(ctx context.Context, account *accountdomain.Account) (maildomain.MailSource, error) {
	switch account.Provider {
	case accountdomain.ProviderGoogle:
		if account.AccessToken == "" && account.RefreshToken == "" {
			return nil, fmt.Errorf("%w: account %s has no Google tokens", maildomain.ErrMissingParameter, account.ID)
		}
		accountID := account.ID
		onRefresh := func(token *oauth2.Token) error {
			return f.accounts.UpdateTokens(ctx, accountID, token.AccessToken, token.RefreshToken)
		}
		return gmail.NewSource(f.clientID, f.clientSecret, account.AccessToken, account.RefreshToken, onRefresh), nil

	case accountdomain.ProviderIMAP:
		if account.IMAPServer == "" || account.EncryptedPassword == "" {
			return nil, fmt.Errorf("%w: account %s is missing IMAP credentials", maildomain.ErrMissingParameter, account.ID)
		}
		password, err := f.encryptor.Decrypt(account.EncryptedPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt IMAP password for account %s: %w", account.ID, err)
		}
		username := account.IMAPUsername
		if username == "" {
			username = account.Email
		}
		return imap.NewSource(account.IMAPServer, account.IMAPPort, username, password), nil

	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", maildomain.ErrMissingParameter, account.Provider)
	}
}
