package usecase

import (
	"context"
	"testing"
	"time"

	"mailmind-backend/internal/mailcache/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedSearchable imports three messages and hand-writes the derived
// fields the search filters read.
func seedSearchable(t *testing.T, env *testEnv) (id1, id2, id3 string) {
	t.Helper()
	ctx := context.Background()

	m1 := providerMsg("m1", "Quarterly budget review")
	m1.Date = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m2 := providerMsg("m2", "Flash sale this weekend")
	m2.Date = time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	m3 := providerMsg("m3", "Team dinner on Friday")
	m3.Date = time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	seedInbox(t, env, newFakeSource(m1, m2, m3))

	id1, _ = domain.ComposeID("user-123", "acc1", "m1")
	id2, _ = domain.ComposeID("user-123", "acc1", "m2")
	id3, _ = domain.ComposeID("user-123", "acc1", "m3")

	derive := func(id string, mutate func(msg *domain.CachedMessage)) {
		msg, err := env.messages.Get(ctx, id)
		require.NoError(t, err)
		mutate(msg)
		require.NoError(t, env.messages.Save(ctx, msg))
	}

	derive(id1, func(msg *domain.CachedMessage) {
		msg.Category = domain.CategoryBusiness
		msg.Sentiment = domain.SentimentNeutral
		msg.ImportanceScore = 0.9
		msg.PriorityLabel = domain.PriorityCritical
		msg.AddLabel("Business")
		msg.AddLabel("Important")
	})
	derive(id2, func(msg *domain.CachedMessage) {
		msg.Category = domain.CategoryPromotional
		msg.Sentiment = domain.SentimentPositive
		msg.SpamScore = 0.7
		msg.PriorityLabel = domain.PriorityMinimal
		msg.AddLabel("Promotional")
	})
	derive(id3, func(msg *domain.CachedMessage) {
		msg.Category = domain.CategoryPersonal
		msg.Sentiment = domain.SentimentPositive
		msg.ImportanceScore = 0.4
		msg.PriorityLabel = domain.PriorityMedium
		msg.AddLabel("Personal")
	})
	return id1, id2, id3
}

func ids(msgs []*domain.CachedMessage) []string {
	out := make([]string, len(msgs))
	for i, msg := range msgs {
		out[i] = msg.ID
	}
	return out
}

func TestSearchByLabel(t *testing.T) {
	env := newTestEnv()
	id1, _, _ := seedSearchable(t, env)

	msgs, err := env.service.SearchByLabel(context.Background(), "user-123", "Business", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{id1}, ids(msgs))
}

func TestSearchByPriorityIsCaseInsensitive(t *testing.T) {
	env := newTestEnv()
	id1, _, _ := seedSearchable(t, env)

	msgs, err := env.service.SearchByPriority(context.Background(), "user-123", "critical", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{id1}, ids(msgs))
}

func TestSearchByDateRange(t *testing.T) {
	env := newTestEnv()
	_, id2, id3 := seedSearchable(t, env)
	ctx := context.Background()

	from := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	msgs, err := env.service.SearchByDateRange(ctx, "user-123", from, time.Time{}, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{id2, id3}, ids(msgs))

	to := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	msgs, err = env.service.SearchByDateRange(ctx, "user-123", from, to, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{id2}, ids(msgs))
}

func TestSearchBySentiment(t *testing.T) {
	env := newTestEnv()
	_, id2, id3 := seedSearchable(t, env)

	msgs, err := env.service.SearchBySentiment(context.Background(), "user-123", domain.SentimentPositive, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{id2, id3}, ids(msgs))
}

func TestSearchByImportanceThresholdIsInclusive(t *testing.T) {
	env := newTestEnv()
	id1, _, id3 := seedSearchable(t, env)

	msgs, err := env.service.SearchByImportance(context.Background(), "user-123", 0.4, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{id1, id3}, ids(msgs))
}

func TestSearchByCategoryAndSpam(t *testing.T) {
	env := newTestEnv()
	_, id2, _ := seedSearchable(t, env)
	ctx := context.Background()

	msgs, err := env.service.SearchByCategory(ctx, "user-123", domain.CategoryPromotional, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{id2}, ids(msgs))

	msgs, err = env.service.SearchBySpam(ctx, "user-123", 0.5, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{id2}, ids(msgs))
}

func TestSearchLimitAppliesAfterFiltering(t *testing.T) {
	env := newTestEnv()
	seedSearchable(t, env)

	msgs, err := env.service.SearchBySentiment(context.Background(), "user-123", domain.SentimentPositive, 1)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
	assert.Equal(t, domain.SentimentPositive, msgs[0].Sentiment)
}

func TestFreeTextSearchToleratesTypos(t *testing.T) {
	env := newTestEnv()
	id1, _, _ := seedSearchable(t, env)
	ctx := context.Background()

	msgs, err := env.service.Search(ctx, "user-123", "budget", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{id1}, ids(msgs))

	// One transposition within the edit distance budget.
	msgs, err = env.service.Search(ctx, "user-123", "budgte", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{id1}, ids(msgs))

	msgs, err = env.service.Search(ctx, "user-123", "zzzzzz", 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSearchRequiresQuery(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.Search(context.Background(), "user-123", "  ", 0)
	assert.ErrorIs(t, err, domain.ErrMissingParameter)
}

func TestGetValidatesID(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.service.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrMissingParameter)

	_, err = env.service.Get(ctx, "not-composite")
	assert.ErrorIs(t, err, domain.ErrMalformedID)
}

func TestGetBriefStripsBodies(t *testing.T) {
	env := newTestEnv()
	id1, _, _ := seedSearchable(t, env)

	brief, err := env.service.GetBrief(context.Background(), id1)
	require.NoError(t, err)
	assert.Empty(t, brief.TextBody)
	assert.Empty(t, brief.HTMLBody)
	assert.Equal(t, "Quarterly budget review", brief.Title)

	full, err := env.service.Get(context.Background(), id1)
	require.NoError(t, err)
	assert.NotEmpty(t, full.TextBody, "Brief must not mutate the stored document")
}

func TestInboxAndDeletablesViews(t *testing.T) {
	env := newTestEnv()
	seedSearchable(t, env)
	ctx := context.Background()

	require.NoError(t, env.service.UpdateInbox(ctx, "user-123"))

	inbox, err := env.service.GetInbox(ctx, "user-123")
	require.NoError(t, err)
	deletables, err := env.service.GetDeletables(ctx, "user-123")
	require.NoError(t, err)

	assert.Len(t, inbox, 3)
	assert.ElementsMatch(t, inbox, deletables)
}
