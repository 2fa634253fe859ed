package domain

import "time"

// Category is the primary classification of a cached message.
type Category string

const (
	CategoryPromotional  Category = "Promotional"
	CategoryNewsletter   Category = "Newsletter"
	CategorySocial       Category = "Social"
	CategoryEvent        Category = "Event"
	CategorySurvey       Category = "Survey"
	CategoryNotification Category = "Notification"
	CategoryConfirmation Category = "Confirmation"
	CategoryBusiness     Category = "Business"
	CategoryPersonal     Category = "Personal"
	CategoryFinancial    Category = "Financial"
	CategoryOther        Category = "Other"
)

// KnownCategories is the closed set an enrichment response may use.
var KnownCategories = map[Category]bool{
	CategoryPromotional:  true,
	CategoryNewsletter:   true,
	CategorySocial:       true,
	CategoryEvent:        true,
	CategorySurvey:       true,
	CategoryNotification: true,
	CategoryConfirmation: true,
	CategoryBusiness:     true,
	CategoryPersonal:     true,
	CategoryFinancial:    true,
	CategoryOther:        true,
}

// Sentiment is the overall tone of a message.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentUrgent   Sentiment = "Urgent"
)

// KnownSentiments is the closed set an enrichment response may use.
var KnownSentiments = map[Sentiment]bool{
	SentimentPositive: true,
	SentimentNegative: true,
	SentimentNeutral:  true,
	SentimentUrgent:   true,
}

// Priority tier names derived from priorityScore.
const (
	PriorityCritical = "Critical"
	PriorityHigh     = "High"
	PriorityMedium   = "Medium"
	PriorityLow      = "Low"
	PriorityMinimal  = "Minimal"
)

// PriorityLabelFor maps a priority score onto its tier name.
func PriorityLabelFor(score float64) string {
	switch {
	case score >= 0.8:
		return PriorityCritical
	case score >= 0.6:
		return PriorityHigh
	case score >= 0.4:
		return PriorityMedium
	case score >= 0.2:
		return PriorityLow
	default:
		return PriorityMinimal
	}
}

// Attachment is provider-supplied attachment metadata (no content).
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// AttachmentMetadata is the aggregate the attachment pass derives.
type AttachmentMetadata struct {
	Count          int            `json:"count"`
	TotalSize      int64          `json:"totalSize"`
	TypeCounts     map[string]int `json:"typeCounts"`
	HasExecutable  bool           `json:"hasExecutable"`
	HasBusinessDoc bool           `json:"hasBusinessDoc"`
	HasInvoiceFile bool           `json:"hasInvoiceFile"`
}

// CachedMessage is one cached mail item. Provider fields are immutable once
// fetched; derived fields are written by the enrichment pipeline.
type CachedMessage struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	AccountID  string `json:"accountId"`
	ProviderID string `json:"providerId"`

	// Provider fields.
	Date        time.Time    `json:"date"`
	Title       string       `json:"title"`
	From        string       `json:"from"`
	To          []string     `json:"to"`
	CC          []string     `json:"cc"`
	MessageID   string       `json:"messageId"`
	TextBody    string       `json:"textBody"`
	HTMLBody    string       `json:"htmlBody"`
	Snippet     string       `json:"snippet"`
	Link        string       `json:"link"`
	Attachments []Attachment `json:"attachments,omitempty"`

	// Derived fields. BaseImportanceScore holds the raw AI estimate;
	// ImportanceScore is always recomputed from it so rescoring never
	// stacks boosts on top of earlier boosts.
	AutoSummary         string              `json:"autoSummary"`
	ShortSummary        string              `json:"shortSummary"`
	ActionItems         []string            `json:"actionItems,omitempty"`
	KeyPeople           []string            `json:"keyPeople,omitempty"`
	Deadlines           []string            `json:"deadlines,omitempty"`
	Category            Category            `json:"category"`
	Sentiment           Sentiment           `json:"sentiment"`
	BaseImportanceScore float64             `json:"baseImportanceScore"`
	ImportanceScore     float64             `json:"importanceScore"`
	SpamScore           float64             `json:"spamScore"`
	UrgencyScore        float64             `json:"urgencyScore"`
	DeletableScore      float64             `json:"deletableScore"`
	PriorityScore       float64             `json:"priorityScore"`
	PriorityLabel       string              `json:"priorityLabel"`
	Labels              []string            `json:"labels,omitempty"`
	AttachmentMetadata  *AttachmentMetadata `json:"attachmentMetadata,omitempty"`
	DecayFactor         float64             `json:"decayFactor"`
	DecayApplied        bool                `json:"decayApplied"`

	Summarized bool      `json:"summarized"`
	CachedAt   time.Time `json:"cachedAt"`
}

// HasLabel reports whether the label set already contains label.
func (m *CachedMessage) HasLabel(label string) bool {
	for _, l := range m.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// AddLabel appends label with set semantics; labels accumulate across
// passes and are never removed.
func (m *CachedMessage) AddLabel(label string) {
	if label == "" || m.HasLabel(label) {
		return
	}
	m.Labels = append(m.Labels, label)
}

// Brief returns a copy with the body fields stripped, for list views.
func (m *CachedMessage) Brief() *CachedMessage {
	b := *m
	b.TextBody = ""
	b.HTMLBody = ""
	return &b
}

// ResetEnrichment clears every derived field so the message can be queued
// for a fresh enrichment pass.
func (m *CachedMessage) ResetEnrichment() {
	m.AutoSummary = ""
	m.ShortSummary = ""
	m.ActionItems = nil
	m.KeyPeople = nil
	m.Deadlines = nil
	m.Category = ""
	m.Sentiment = ""
	m.BaseImportanceScore = 0
	m.ImportanceScore = 0
	m.SpamScore = 0
	m.UrgencyScore = 0
	m.DeletableScore = 0
	m.PriorityScore = 0
	m.PriorityLabel = ""
	m.Labels = nil
	m.AttachmentMetadata = nil
	m.DecayFactor = 0
	m.DecayApplied = false
	m.Summarized = false
}
