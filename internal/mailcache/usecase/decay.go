package usecase

import (
	"math"

	"mailmind-backend/internal/mailcache/domain"
)

const (
	decayGraceDays = 3.0
	decayRate      = 0.1
	decayFloor     = 0.3
)

var positiveTone = []string{"thank", "great", "congratulations", "appreciate", "glad", "happy", "welcome"}
var negativeTone = []string{"sorry", "unfortunately", "complaint", "issue", "problem", "failed", "cancelled"}

// applySentimentAndDecay fills in sentiment from keyword tone analysis
// when the AI left it empty, then applies temporal decay: messages older
// than three days lose priority exponentially, floored at 30% of the
// pre-decay score.
func (s *Service) applySentimentAndDecay(msg *domain.CachedMessage) {
	if msg.Sentiment == "" {
		text := msg.Title + " " + msg.ShortSummary + " " + msg.Snippet
		switch {
		case containsAnyTerm(text, urgencyKeywords):
			msg.Sentiment = domain.SentimentUrgent
		case containsAnyTerm(text, negativeTone):
			msg.Sentiment = domain.SentimentNegative
		case containsAnyTerm(text, positiveTone):
			msg.Sentiment = domain.SentimentPositive
		default:
			msg.Sentiment = domain.SentimentNeutral
		}
	}

	ageDays := s.now().Sub(msg.Date).Hours() / 24
	if ageDays <= decayGraceDays {
		msg.DecayFactor = 1
		msg.DecayApplied = false
		return
	}

	factor := math.Exp(-decayRate * (ageDays - decayGraceDays))
	if factor < decayFloor {
		factor = decayFloor
	}
	msg.PriorityScore = clamp01(msg.PriorityScore * factor)
	msg.PriorityLabel = domain.PriorityLabelFor(msg.PriorityScore)
	msg.DecayFactor = factor
	msg.DecayApplied = true
}
