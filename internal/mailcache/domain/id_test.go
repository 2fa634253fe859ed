package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeIDRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		accountID  string
		providerID string
		wantPrefix string
	}{
		{"short user id", "user1", "acc-1", "msg-123", "user1"},
		{"long user id truncated", "0123456789abcdef", "acc-2", "m2", "01234567"},
		{"exactly eight chars", "12345678", "a", "p", "12345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ComposeID(tt.userID, tt.accountID, tt.providerID)
			require.NoError(t, err)

			decomposed, err := DecomposeID(id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrefix, decomposed.UserPrefix)
			assert.Equal(t, tt.accountID, decomposed.AccountID)
			assert.Equal(t, tt.providerID, decomposed.ProviderID)
		})
	}
}

func TestComposeIDValidation(t *testing.T) {
	_, err := ComposeID("", "acc", "prov")
	assert.ErrorIs(t, err, ErrMissingParameter)

	_, err = ComposeID("user", "", "prov")
	assert.ErrorIs(t, err, ErrMissingParameter)

	_, err = ComposeID("user", "acc", "")
	assert.ErrorIs(t, err, ErrMissingParameter)

	_, err = ComposeID("user", "acc#1", "prov")
	assert.ErrorIs(t, err, ErrMalformedID)

	_, err = ComposeID("user", "acc", "prov#1")
	assert.ErrorIs(t, err, ErrMalformedID)
}

func TestDecomposeIDMalformed(t *testing.T) {
	for _, id := range []string{"", "nohash", "one#two", "#acc#prov", "user##prov"} {
		_, err := DecomposeID(id)
		assert.ErrorIs(t, err, ErrMalformedID, "id %q", id)
	}
}

// Provider IDs may themselves contain '#' once composed; only the first
// two separators split.
func TestDecomposeIDKeepsProviderHashes(t *testing.T) {
	decomposed, err := DecomposeID("user1#acc#prov#extra")
	require.NoError(t, err)
	assert.Equal(t, "prov#extra", decomposed.ProviderID)
}

func TestPriorityLabelFor(t *testing.T) {
	assert.Equal(t, PriorityCritical, PriorityLabelFor(0.8))
	assert.Equal(t, PriorityHigh, PriorityLabelFor(0.79))
	assert.Equal(t, PriorityHigh, PriorityLabelFor(0.6))
	assert.Equal(t, PriorityMedium, PriorityLabelFor(0.4))
	assert.Equal(t, PriorityLow, PriorityLabelFor(0.2))
	assert.Equal(t, PriorityMinimal, PriorityLabelFor(0.19))
	assert.Equal(t, PriorityMinimal, PriorityLabelFor(0))
}

func TestAddLabelSetSemantics(t *testing.T) {
	msg := &CachedMessage{}
	msg.AddLabel("Promotional")
	msg.AddLabel("Promotional")
	msg.AddLabel("")
	msg.AddLabel("Newsletter")
	assert.Equal(t, []string{"Promotional", "Newsletter"}, msg.Labels)
}

func TestBriefStripsBodies(t *testing.T) {
	msg := &CachedMessage{ID: "x", TextBody: "text", HTMLBody: "<p>html</p>", Snippet: "snip"}
	brief := msg.Brief()
	assert.Empty(t, brief.TextBody)
	assert.Empty(t, brief.HTMLBody)
	assert.Equal(t, "snip", brief.Snippet)
	assert.Equal(t, "text", msg.TextBody, "original untouched")
}
