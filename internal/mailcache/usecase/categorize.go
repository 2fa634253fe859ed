package usecase

import (
	"strings"

	"mailmind-backend/internal/mailcache/domain"
)

// labelRule matches keywords against the message text and appends a label.
type labelRule struct {
	label    string
	keywords []string
}

var labelRules = []labelRule{
	{"Promotional", []string{"sale", "discount", "% off", "special offer", "deal", "promo", "coupon", "limited time"}},
	{"Newsletter", []string{"newsletter", "digest", "weekly update", "monthly update", "unsubscribe"}},
	{"Social", []string{"linkedin", "facebook", "twitter", "instagram", "friend request", "mentioned you", "tagged you"}},
	{"Event", []string{"meeting", "invitation", "invite", "webinar", "conference", "rsvp", "calendar"}},
	{"Survey", []string{"survey", "feedback", "questionnaire", "poll", "rate your"}},
	{"Notification", []string{"notification", "alert", "reminder", "do not reply", "no-reply", "noreply"}},
	{"Follow-up", []string{"follow up", "following up", "checking in", "circling back"}},
	{"Confirmation", []string{"confirmation", "confirmed", "your order", "has shipped", "booking", "reservation"}},
}

var businessKeywords = []string{"project", "contract", "proposal", "client", "quarterly", "budget", "stakeholder"}
var personalKeywords = []string{"family", "birthday", "dinner", "vacation", "weekend", "congratulations"}

// labelToCategory backfills the primary category from the first detected
// label when the AI did not supply one.
var labelToCategory = map[string]domain.Category{
	"Promotional":  domain.CategoryPromotional,
	"Newsletter":   domain.CategoryNewsletter,
	"Social":       domain.CategorySocial,
	"Event":        domain.CategoryEvent,
	"Survey":       domain.CategorySurvey,
	"Notification": domain.CategoryNotification,
	"Confirmation": domain.CategoryConfirmation,
	"Financial":    domain.CategoryFinancial,
	"Business":     domain.CategoryBusiness,
	"Personal":     domain.CategoryPersonal,
}

// applyCategorization appends heuristic labels to the accumulated set and
// backfills the primary category. It runs after advanced scoring because
// the Important label reads the priority tier.
func applyCategorization(msg *domain.CachedMessage) {
	text := strings.ToLower(msg.Title + " " + msg.From + " " + msg.Snippet + " " + msg.ShortSummary)
	detected := make([]string, 0, 4)

	addDetected := func(label string) {
		msg.AddLabel(label)
		detected = append(detected, label)
	}

	for _, rule := range labelRules {
		if containsAnyTerm(text, rule.keywords) {
			addDetected(rule.label)
		}
	}

	if containsAnyTerm(text, invoiceTerms) {
		addDetected("Financial")
		msg.AddLabel("Invoice")
	}

	if len(msg.ActionItems) > 0 {
		addDetected("Action Required")
		if anyContainsKeyword(msg.ActionItems, []string{"reply", "respond", "answer", "get back"}) {
			msg.AddLabel("Response Needed")
		}
	}

	if len(msg.Deadlines) > 0 || containsAnyTerm(text, urgencyKeywords) {
		addDetected("Time Sensitive")
	}

	// Business and Personal steer each other: whichever is detected first
	// suppresses the other.
	personal := msg.HasLabel("Personal") || containsAnyTerm(text, personalKeywords)
	business := msg.HasLabel("Business") || containsAnyTerm(text, businessKeywords)
	if personal {
		addDetected("Personal")
	} else if business {
		addDetected("Business")
	}

	if len(detected) == 0 && len(msg.ActionItems) == 0 {
		msg.AddLabel("Information")
	}

	if msg.PriorityLabel == domain.PriorityCritical || msg.PriorityLabel == domain.PriorityHigh {
		msg.AddLabel("Important")
	}

	if msg.Category == "" {
		for _, label := range detected {
			if category, ok := labelToCategory[label]; ok {
				msg.Category = category
				break
			}
		}
		if msg.Category == "" {
			msg.Category = domain.CategoryOther
		}
	}
}
