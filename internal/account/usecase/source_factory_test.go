package usecase

import (
	"context"
	"testing"

	accountdomain "mailmind-backend/internal/account/domain"
	"mailmind-backend/internal/account/repository"
	maildomain "mailmind-backend/internal/mailcache/domain"
	"mailmind-backend/pkg/crypto"
	"mailmind-backend/pkg/docstore"
	"mailmind-backend/pkg/imap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory(t *testing.T) SourceFactory {
	t.Helper()
	encryptor, err := crypto.NewEncryptor("test-secret")
	require.NoError(t, err)
	accounts := repository.NewAccountRepository(docstore.NewMemoryStore())
	return NewSourceFactory("client-id", "client-secret", accounts, encryptor)
}

func TestSourceForRejectsTokenlessGoogleAccount(t *testing.T) {
	factory := newFactory(t)

	account := &accountdomain.Account{
		ID:       "acc1",
		UserID:   "u1",
		Provider: accountdomain.ProviderGoogle,
	}
	_, err := factory.SourceFor(context.Background(), account)
	assert.ErrorIs(t, err, maildomain.ErrMissingParameter)
}

func TestSourceForRejectsIncompleteIMAPAccount(t *testing.T) {
	factory := newFactory(t)

	account := &accountdomain.Account{
		ID:       "acc1",
		UserID:   "u1",
		Provider: accountdomain.ProviderIMAP,
		Email:    "u@example.com",
	}
	_, err := factory.SourceFor(context.Background(), account)
	assert.ErrorIs(t, err, maildomain.ErrMissingParameter)
}

func TestSourceForRejectsUnknownProvider(t *testing.T) {
	factory := newFactory(t)

	account := &accountdomain.Account{ID: "acc1", UserID: "u1", Provider: "exchange"}
	_, err := factory.SourceFor(context.Background(), account)
	assert.ErrorIs(t, err, maildomain.ErrMissingParameter)
}

func TestSourceForIMAPDecryptsPassword(t *testing.T) {
	encryptor, err := crypto.NewEncryptor("test-secret")
	require.NoError(t, err)
	accounts := repository.NewAccountRepository(docstore.NewMemoryStore())
	factory := NewSourceFactory("", "", accounts, encryptor)

	encrypted, err := encryptor.Encrypt("hunter2")
	require.NoError(t, err)

	account := &accountdomain.Account{
		ID:                "acc1",
		UserID:            "u1",
		Provider:          accountdomain.ProviderIMAP,
		Email:             "u@example.com",
		IMAPServer:        "imap.example.com",
		IMAPPort:          993,
		EncryptedPassword: encrypted,
	}
	source, err := factory.SourceFor(context.Background(), account)
	require.NoError(t, err)
	assert.IsType(t, &imap.Source{}, source)
}
