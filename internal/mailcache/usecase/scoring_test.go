package usecase

import (
	"testing"
	"time"

	"mailmind-backend/internal/mailcache/domain"

	"github.com/stretchr/testify/assert"
)

func scoredMessage() *domain.CachedMessage {
	return &domain.CachedMessage{
		Title:               "Quarterly report",
		From:                "ann@corp.example",
		To:                  []string{"team@client.example"},
		BaseImportanceScore: 0.5,
		SpamScore:           0.0,
		Category:            domain.CategoryBusiness,
		Sentiment:           domain.SentimentNeutral,
	}
}

func TestActionItemUrgencyBoostIsCapped(t *testing.T) {
	env := newTestEnv()

	msg := scoredMessage()
	msg.ActionItems = []string{"one", "two", "three", "four", "five"}
	env.service.applyAdvancedScoring(msg, nil)

	assert.InDelta(t, 0.3, msg.UrgencyScore, 1e-9, "five items cap at 0.3")

	msg = scoredMessage()
	msg.ActionItems = []string{"one", "two"}
	env.service.applyAdvancedScoring(msg, nil)
	assert.InDelta(t, 0.2, msg.UrgencyScore, 1e-9)
}

func TestUrgencyKeywordInActionItems(t *testing.T) {
	env := newTestEnv()

	msg := scoredMessage()
	msg.ActionItems = []string{"reply ASAP"}
	env.service.applyAdvancedScoring(msg, nil)

	// 0.1 for the item plus 0.1 for the urgency keyword.
	assert.InDelta(t, 0.2, msg.UrgencyScore, 1e-9)
}

func TestDeadlineBoosts(t *testing.T) {
	env := newTestEnv() // now is 2026-03-10 12:00 UTC

	tests := []struct {
		name     string
		deadline string
		want     float64
	}{
		{"far future", "2026-06-01", 0.2},
		{"within 48h", "2026-03-11", 0.5},
		{"just passed", "2026-03-10", 0.5},
		{"long past", "2026-01-01", 0.2},
		{"keyword tomorrow", "by tomorrow", 0.5},
		{"keyword eod", "EOD", 0.5},
		{"unparseable non keyword", "sometime", 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := scoredMessage()
			msg.Deadlines = []string{tt.deadline}
			env.service.applyAdvancedScoring(msg, nil)
			assert.InDelta(t, tt.want, msg.UrgencyScore, 1e-9)
		})
	}
}

func TestUrgentSentimentBumpsBothScores(t *testing.T) {
	env := newTestEnv()

	msg := scoredMessage()
	msg.Sentiment = domain.SentimentUrgent
	env.service.applyAdvancedScoring(msg, nil)

	assert.InDelta(t, 0.3, msg.UrgencyScore, 1e-9)
	assert.InDelta(t, 0.7, msg.ImportanceScore, 1e-9)
}

func TestInternalDomainBoost(t *testing.T) {
	env := newTestEnv()

	msg := scoredMessage()
	msg.From = "Ann <ann@corp.example>"
	msg.To = []string{"Bob <bob@corp.example>"}
	env.service.applyAdvancedScoring(msg, nil)
	assert.InDelta(t, 0.6, msg.ImportanceScore, 1e-9)

	// Profile-configured internal domain counts even without a matching
	// recipient.
	msg = scoredMessage()
	profile := &domain.Profile{UserID: "user-123", InternalDomain: "corp.example"}
	env.service.applyAdvancedScoring(msg, profile)
	assert.InDelta(t, 0.6, msg.ImportanceScore, 1e-9)

	// External sender gets no boost.
	msg = scoredMessage()
	env.service.applyAdvancedScoring(msg, nil)
	assert.InDelta(t, 0.5, msg.ImportanceScore, 1e-9)
}

func TestDeletableScore(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name  string
		setup func(msg *domain.CachedMessage)
		want  float64
	}{
		{
			"business message untouched",
			func(msg *domain.CachedMessage) {},
			0.0,
		},
		{
			// Category boost 0.3 plus the matching label 0.15.
			"promotional category and label",
			func(msg *domain.CachedMessage) {
				msg.Category = domain.CategoryPromotional
				msg.AddLabel("Promotional")
			},
			0.45,
		},
		{
			// Invoice label 0.3 + term in title 0.35 + label 0.15.
			"invoice",
			func(msg *domain.CachedMessage) {
				msg.Title = "Invoice #4411"
				msg.AddLabel("Invoice")
			},
			0.8,
		},
		{
			"spam contribution",
			func(msg *domain.CachedMessage) { msg.SpamScore = 0.5 },
			0.2,
		},
		{
			// 0.3 + 0.15*3 + 0.35 + 0.4 clamps at 1.
			"everything clamps to one",
			func(msg *domain.CachedMessage) {
				msg.Category = domain.CategoryNewsletter
				msg.AddLabel("Newsletter")
				msg.AddLabel("Promotional")
				msg.AddLabel("Social")
				msg.Title = "Your receipt"
				msg.SpamScore = 1.0
			},
			1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := scoredMessage()
			tt.setup(msg)
			env.service.applyAdvancedScoring(msg, nil)
			assert.InDelta(t, tt.want, msg.DeletableScore, 1e-9)
		})
	}
}

func TestPriorityFormulaAndTiers(t *testing.T) {
	env := newTestEnv()

	msg := scoredMessage()
	msg.BaseImportanceScore = 0.8
	msg.ActionItems = []string{"reply", "book room"}
	env.service.applyAdvancedScoring(msg, nil)

	// 0.7*0.8 + 0.3*0.2 - 0.5*0 = 0.62
	assert.InDelta(t, 0.62, msg.PriorityScore, 1e-9)
	assert.Equal(t, domain.PriorityHigh, msg.PriorityLabel)

	// Heavy deletable weight drags priority to the floor.
	msg = scoredMessage()
	msg.BaseImportanceScore = 0.2
	msg.Category = domain.CategoryPromotional
	msg.SpamScore = 1.0
	env.service.applyAdvancedScoring(msg, nil)
	assert.Equal(t, 0.0, msg.PriorityScore)
	assert.Equal(t, domain.PriorityMinimal, msg.PriorityLabel)
}

func TestAdvancedScoringIsIdempotent(t *testing.T) {
	env := newTestEnv()

	msg := scoredMessage()
	msg.BaseImportanceScore = 0.3
	msg.Sentiment = domain.SentimentUrgent
	msg.To = []string{"bob@corp.example"}

	// Urgent sentiment and the shared mail domain each boost importance
	// once, no matter how often the pass runs.
	for i := 0; i < 4; i++ {
		env.service.applyAdvancedScoring(msg, nil)
		assert.InDelta(t, 0.6, msg.ImportanceScore, 1e-9, "run %d", i+1)
		assert.InDelta(t, 0.3, msg.UrgencyScore, 1e-9, "run %d", i+1)
	}
}

func TestAttachmentMetadataAdjustments(t *testing.T) {
	env := newTestEnv()

	msg := scoredMessage()
	msg.AttachmentMetadata = &domain.AttachmentMetadata{Count: 1, HasBusinessDoc: true}
	for i := 0; i < 3; i++ {
		env.service.applyAdvancedScoring(msg, nil)
		assert.InDelta(t, 0.7, msg.ImportanceScore, 1e-9, "run %d", i+1)
	}

	// The business-doc bump never pushes past 0.85.
	msg = scoredMessage()
	msg.BaseImportanceScore = 0.69
	msg.AttachmentMetadata = &domain.AttachmentMetadata{Count: 1, HasBusinessDoc: true}
	env.service.applyAdvancedScoring(msg, nil)
	assert.InDelta(t, 0.85, msg.ImportanceScore, 1e-9)

	msg = scoredMessage()
	msg.AttachmentMetadata = &domain.AttachmentMetadata{Count: 1, HasInvoiceFile: true}
	env.service.applyAdvancedScoring(msg, nil)
	assert.InDelta(t, 0.3, msg.DeletableScore, 1e-9)
}

func TestMailDomain(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"ann@corp.example", "corp.example"},
		{"Ann Smith <ann@Corp.Example>", "corp.example"},
		{"<ann@corp.example>", "corp.example"},
		{"no-at-sign", ""},
		{"trailing@", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mailDomain(tt.addr), tt.addr)
	}
}

func TestDeadlineParsingLayouts(t *testing.T) {
	env := newTestEnv()
	within := env.now.Add(24 * time.Hour)

	for _, layout := range []string{"2006-01-02", "Jan 2, 2006", "01/02/2006", "2 Jan 2006"} {
		assert.True(t, env.service.anyDeadlineWithin48h([]string{within.Format(layout)}), layout)
	}
	assert.False(t, env.service.anyDeadlineWithin48h(nil))
}
