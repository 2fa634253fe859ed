package usecase

import (
	"strings"
	"time"

	"mailmind-backend/internal/mailcache/domain"
)

var urgencyKeywords = []string{"urgent", "asap", "immediately", "today", "right away", "critical", "eod"}

var invoiceTerms = []string{"invoice", "receipt", "bill", "billing", "statement", "payment due"}

// deletableLabels are the accumulated labels that mark a message as a
// purge candidate; each match adds to deletableScore cumulatively.
var deletableLabels = []string{"Promotional", "Newsletter", "Notification", "Confirmation", "Social", "Invoice"}

var deadlineLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	time.RFC3339,
	"Jan 2, 2006",
	"January 2, 2006",
	"01/02/2006",
	"2 Jan 2006",
}

// applyAdvancedScoring is the deterministic refinement pass. It reads the
// AI-supplied fields and writes importanceScore, urgencyScore,
// deletableScore, priorityScore and priorityLabel. Inputs it needs:
// actionItems, deadlines, sentiment, category, baseImportanceScore,
// spamScore, labels, attachmentMetadata. Importance always starts from
// the base score, so re-running the pass yields the same result instead
// of stacking boosts.
func (s *Service) applyAdvancedScoring(msg *domain.CachedMessage, profile *domain.Profile) {
	urgency := 0.0
	importance := msg.BaseImportanceScore

	// Up to 0.3 for action items, 0.1 per item.
	actionBoost := 0.1 * float64(len(msg.ActionItems))
	if actionBoost > 0.3 {
		actionBoost = 0.3
	}
	urgency += actionBoost

	if anyContainsKeyword(msg.ActionItems, urgencyKeywords) {
		urgency += 0.1
	}

	if len(msg.Deadlines) > 0 {
		urgency += 0.2
		if s.anyDeadlineWithin48h(msg.Deadlines) {
			urgency += 0.3
		}
	}

	if msg.Sentiment == domain.SentimentUrgent {
		urgency += 0.3
		importance += 0.2
	}

	if internalDomainMatch(msg, profile) {
		importance += 0.1
	}

	urgency = clamp01(urgency)
	importance = clamp01(importance)

	if meta := msg.AttachmentMetadata; meta != nil && meta.HasBusinessDoc && importance < 0.7 {
		importance += 0.2
		if importance > 0.85 {
			importance = 0.85
		}
	}

	deletable := 0.0
	switch msg.Category {
	case domain.CategoryPromotional, domain.CategoryNotification, domain.CategoryConfirmation, domain.CategoryNewsletter:
		deletable += 0.3
	default:
		if msg.HasLabel("Invoice") {
			deletable += 0.3
		}
	}
	if containsAnyTerm(msg.Title+" "+msg.ShortSummary+" "+msg.AutoSummary, invoiceTerms) {
		deletable += 0.35
	}
	for _, label := range deletableLabels {
		if msg.HasLabel(label) {
			deletable += 0.15
		}
	}
	deletable += msg.SpamScore * 0.4
	if meta := msg.AttachmentMetadata; meta != nil && meta.HasInvoiceFile {
		deletable += 0.3
	}
	deletable = clamp01(deletable)

	msg.UrgencyScore = urgency
	msg.ImportanceScore = importance
	msg.DeletableScore = deletable
	msg.PriorityScore = clamp01(0.7*importance + 0.3*urgency - 0.5*deletable)
	msg.PriorityLabel = domain.PriorityLabelFor(msg.PriorityScore)
}

// anyDeadlineWithin48h parses each deadline with the known layouts; values
// that do not parse fall back to keyword matching.
func (s *Service) anyDeadlineWithin48h(deadlines []string) bool {
	now := s.now()
	for _, deadline := range deadlines {
		trimmed := strings.TrimSpace(deadline)
		parsed := false
		for _, layout := range deadlineLayouts {
			when, err := time.Parse(layout, trimmed)
			if err != nil {
				continue
			}
			parsed = true
			if !when.Before(now.Add(-24*time.Hour)) && when.Before(now.Add(48*time.Hour)) {
				return true
			}
			break
		}
		if parsed {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, keyword := range []string{"today", "tomorrow", "tonight", "asap", "eod", "end of day"} {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
	}
	return false
}

// internalDomainMatch reports whether the sender shares a mail domain
// with any recipient, or with the profile's configured internal domain.
func internalDomainMatch(msg *domain.CachedMessage, profile *domain.Profile) bool {
	from := mailDomain(msg.From)
	if from == "" {
		return false
	}
	if profile != nil && profile.InternalDomain != "" && strings.EqualFold(from, profile.InternalDomain) {
		return true
	}
	for _, to := range append(append([]string(nil), msg.To...), msg.CC...) {
		if strings.EqualFold(from, mailDomain(to)) {
			return true
		}
	}
	return false
}

// mailDomain extracts the domain from an address like "Ann <ann@x.co>".
func mailDomain(addr string) string {
	if start := strings.LastIndex(addr, "<"); start >= 0 {
		addr = addr[start+1:]
		addr = strings.TrimSuffix(strings.TrimSpace(addr), ">")
	}
	at := strings.LastIndex(addr, "@")
	if at < 0 || at == len(addr)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(addr[at+1:]))
}

func anyContainsKeyword(items, keywords []string) bool {
	for _, item := range items {
		if containsAnyTerm(item, keywords) {
			return true
		}
	}
	return false
}

func containsAnyTerm(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
