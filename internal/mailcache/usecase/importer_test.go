package usecase

import (
	"context"
	"testing"
	"time"

	"mailmind-backend/internal/mailcache/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func providerMsg(id, title string) *domain.ProviderMessage {
	return &domain.ProviderMessage{
		ProviderID: id,
		Date:       time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
		Title:      title,
		From:       "sender@example.com",
		To:         []string{"user@example.com"},
		TextBody:   "body of " + title,
	}
}

func TestImportNewMessages(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	source := newFakeSource(providerMsg("m1", "first"), providerMsg("m2", "second"))
	env.linkAccount("user-123", "acc1", source)

	require.NoError(t, env.service.ImportNewMessages(ctx, "user-123"))

	index, err := env.index.Load(ctx, "user-123")
	require.NoError(t, err)

	id1, _ := domain.ComposeID("user-123", "acc1", "m1")
	id2, _ := domain.ComposeID("user-123", "acc1", "m2")
	assert.Equal(t, []string{id1, id2}, index.IDs)
	assert.Equal(t, []string{id1, id2}, index.Inbox)
	assert.Equal(t, []string{id1, id2}, index.SummarizationQueue)
	assert.Equal(t, []string{id1, id2}, index.NewMail)

	msg, err := env.messages.Get(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "first", msg.Title)
	assert.Equal(t, "user-123", msg.UserID)
	assert.Equal(t, "acc1", msg.AccountID)
	assert.False(t, msg.Summarized)
	assert.Zero(t, msg.PriorityScore)
	assert.Equal(t, env.now, msg.CachedAt)
}

func TestImportIsIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	source := newFakeSource(providerMsg("m1", "first"))
	env.linkAccount("user-123", "acc1", source)

	require.NoError(t, env.service.ImportNewMessages(ctx, "user-123"))
	first, err := env.index.Load(ctx, "user-123")
	require.NoError(t, err)

	require.NoError(t, env.service.ImportNewMessages(ctx, "user-123"))
	second, err := env.index.Load(ctx, "user-123")
	require.NoError(t, err)

	assert.Equal(t, first.IDs, second.IDs)
	assert.Equal(t, first.Inbox, second.Inbox)
	assert.Equal(t, first.SummarizationQueue, second.SummarizationQueue)
}

func TestImportReplacesInboxMembership(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	source := newFakeSource(providerMsg("m1", "first"), providerMsg("m2", "second"))
	env.linkAccount("user-123", "acc1", source)
	require.NoError(t, env.service.ImportNewMessages(ctx, "user-123"))

	// m1 disappears from the remote listing: it must vanish from inbox
	// but stay in the ids ledger.
	source.listing = []string{"m2"}
	require.NoError(t, env.service.ImportNewMessages(ctx, "user-123"))

	index, err := env.index.Load(ctx, "user-123")
	require.NoError(t, err)

	id1, _ := domain.ComposeID("user-123", "acc1", "m1")
	id2, _ := domain.ComposeID("user-123", "acc1", "m2")
	assert.Equal(t, []string{id2}, index.Inbox)
	assert.Contains(t, index.IDs, id1)
}

func TestImportFailsFastOnMissingCredentials(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.linkAccount("user-123", "acc1", newFakeSource(providerMsg("m1", "first")))
	env.factory.err = domain.ErrMissingParameter

	err := env.service.ImportNewMessages(ctx, "user-123")
	assert.ErrorIs(t, err, domain.ErrMissingParameter)

	_, err = env.index.Load(ctx, "user-123")
	assert.ErrorIs(t, err, domain.ErrNotFound, "no partial index write")
}

func TestImportRequiresUserID(t *testing.T) {
	env := newTestEnv()
	err := env.service.ImportNewMessages(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMissingParameter)
}

func TestImportMergesAccounts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.linkAccount("user-123", "acc1", newFakeSource(providerMsg("m1", "a")))
	env.linkAccount("user-123", "acc2", newFakeSource(providerMsg("m1", "b")))

	require.NoError(t, env.service.ImportNewMessages(ctx, "user-123"))

	index, err := env.index.Load(ctx, "user-123")
	require.NoError(t, err)
	assert.Len(t, index.Inbox, 2, "same provider id under two accounts stays distinct")
}
