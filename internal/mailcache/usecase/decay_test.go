package usecase

import (
	"testing"
	"time"

	"mailmind-backend/internal/mailcache/domain"

	"github.com/stretchr/testify/assert"
)

func decayMessage(age time.Duration, now time.Time) *domain.CachedMessage {
	return &domain.CachedMessage{
		Date:          now.Add(-age),
		Sentiment:     domain.SentimentNeutral,
		PriorityScore: 0.8,
		PriorityLabel: domain.PriorityCritical,
	}
}

func TestNoDecayWithinGracePeriod(t *testing.T) {
	env := newTestEnv()

	for _, age := range []time.Duration{0, 24 * time.Hour, 72 * time.Hour} {
		msg := decayMessage(age, env.now)
		env.service.applySentimentAndDecay(msg)

		assert.Equal(t, 0.8, msg.PriorityScore, age.String())
		assert.Equal(t, 1.0, msg.DecayFactor)
		assert.False(t, msg.DecayApplied)
	}
}

func TestDecayReducesPriorityAfterGracePeriod(t *testing.T) {
	env := newTestEnv()

	msg := decayMessage(5*24*time.Hour, env.now)
	env.service.applySentimentAndDecay(msg)

	assert.True(t, msg.DecayApplied)
	assert.Less(t, msg.PriorityScore, 0.8)
	assert.Greater(t, msg.PriorityScore, 0.0)
	// exp(-0.1 * 2) for a five day old message.
	assert.InDelta(t, 0.8187, msg.DecayFactor, 0.001)
	assert.Equal(t, domain.PriorityHigh, msg.PriorityLabel)
}

func TestDecayIsMonotonic(t *testing.T) {
	env := newTestEnv()

	previous := 1.0
	for days := 4; days <= 30; days += 2 {
		msg := decayMessage(time.Duration(days)*24*time.Hour, env.now)
		env.service.applySentimentAndDecay(msg)
		assert.LessOrEqual(t, msg.PriorityScore, previous, "day %d", days)
		previous = msg.PriorityScore
	}
}

func TestDecayFloor(t *testing.T) {
	env := newTestEnv()

	msg := decayMessage(365*24*time.Hour, env.now)
	env.service.applySentimentAndDecay(msg)

	assert.Equal(t, 0.3, msg.DecayFactor)
	assert.InDelta(t, 0.24, msg.PriorityScore, 1e-9)
}

func TestSentimentBackfill(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		title string
		want  domain.Sentiment
	}{
		{"URGENT: server down", domain.SentimentUrgent},
		{"Sorry about the delay", domain.SentimentNegative},
		{"Thank you for your help", domain.SentimentPositive},
		{"Meeting notes", domain.SentimentNeutral},
	}

	for _, tt := range tests {
		msg := &domain.CachedMessage{Title: tt.title, Date: env.now}
		env.service.applySentimentAndDecay(msg)
		assert.Equal(t, tt.want, msg.Sentiment, tt.title)
	}
}

func TestSentimentFromAIIsKept(t *testing.T) {
	env := newTestEnv()

	msg := &domain.CachedMessage{
		Title:     "URGENT: server down",
		Date:      env.now,
		Sentiment: domain.SentimentNegative,
	}
	env.service.applySentimentAndDecay(msg)
	assert.Equal(t, domain.SentimentNegative, msg.Sentiment)
}
