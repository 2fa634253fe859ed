package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"mailmind-backend/internal/mailcache/domain"

	"github.com/sirupsen/logrus"
)

const enrichmentPrompt = `You are an email analysis assistant. Analyze the email in the "Email metadata" context block and respond with a single JSON object, no prose, with exactly these fields:
{
  "extendedSummary": "detailed summary, at most 2500 characters",
  "shortSummary": "one or two sentences, at most 500 characters",
  "actionItems": ["things the recipient must do"],
  "keyPeople": ["people mentioned or involved"],
  "deadlines": ["dates or phrases indicating deadlines"],
  "importanceScore": 0.0,
  "spamScore": 0.0,
  "category": "one of: Promotional, Newsletter, Social, Event, Survey, Notification, Confirmation, Business, Personal, Financial, Other",
  "sentiment": "one of: Positive, Negative, Neutral, Urgent"
}
Both scores are numbers between 0 and 1. Use the "Known contacts" and "General notes" blocks to judge importance.`

// enrichmentResponse is the constrained JSON shape the model must return.
type enrichmentResponse struct {
	ExtendedSummary string   `json:"extendedSummary"`
	ShortSummary    string   `json:"shortSummary"`
	ActionItems     []string `json:"actionItems"`
	KeyPeople       []string `json:"keyPeople"`
	Deadlines       []string `json:"deadlines"`
	ImportanceScore *float64 `json:"importanceScore"`
	SpamScore       *float64 `json:"spamScore"`
	Category        string   `json:"category"`
	Sentiment       string   `json:"sentiment"`
}

// ProcessSummarizationQueue drains the user's enrichment queue in batches.
// Messages within a batch run concurrently; batches run sequentially so at
// most batchSize AI calls are ever in flight. A failed message is logged
// and left in the queue for a later pass.
func (s *Service) ProcessSummarizationQueue(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: userID", domain.ErrMissingParameter)
	}

	index, err := s.index.LoadOrInit(ctx, userID)
	if err != nil {
		return err
	}
	queue := append([]string(nil), index.SummarizationQueue...)
	if s.metrics != nil {
		s.metrics.QueueDepth.Set(float64(len(queue)))
	}
	if len(queue) == 0 {
		return s.UpdateInbox(ctx, userID)
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}

	for start := 0; start < len(queue); start += s.batchSize {
		end := start + s.batchSize
		if end > len(queue) {
			end = len(queue)
		}
		batch := queue[start:end]

		var timer func()
		if s.metrics != nil {
			timer = s.startTimer(s.metrics.EnrichmentDuration)
		}

		results := make([]error, len(batch))
		var wg sync.WaitGroup
		for i, id := range batch {
			wg.Add(1)
			go func(i int, id string) {
				defer wg.Done()
				results[i] = s.enrichOne(ctx, id, profile)
			}(i, id)
		}
		wg.Wait()
		if timer != nil {
			timer()
		}

		succeeded := make([]string, 0, len(batch))
		for i, id := range batch {
			if results[i] != nil {
				if s.metrics != nil {
					s.metrics.EnrichmentFailures.Inc()
				}
				s.log.WithFields(logrus.Fields{
					"userId":    userID,
					"messageId": id,
				}).WithError(results[i]).Warn("enrichment failed, message left in queue")
				continue
			}
			if s.metrics != nil {
				s.metrics.EnrichmentSuccesses.Inc()
			}
			succeeded = append(succeeded, id)
		}

		if len(succeeded) > 0 {
			_, err := s.index.Update(ctx, userID, func(ix *domain.CacheIndex) error {
				for _, id := range succeeded {
					ix.RemoveFromQueue(id)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
	}

	return s.UpdateInbox(ctx, userID)
}

// enrichOne runs the full enrichment chain for one message: AI
// summarization followed by the four deterministic passes, in order.
func (s *Service) enrichOne(ctx context.Context, id string, profile *domain.Profile) error {
	msg, err := s.messages.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.summarize(ctx, msg, profile); err != nil {
		return err
	}
	s.applyAdvancedScoring(msg, profile)
	applyCategorization(msg)
	applyAttachmentAnalysis(msg)
	// Categorization and attachment analysis feed labels, spam and
	// metadata back into the scores, so the scoring pass runs once more
	// over the final inputs.
	s.applyAdvancedScoring(msg, profile)
	s.applySentimentAndDecay(msg)

	msg.Summarized = true
	return s.messages.Save(ctx, msg)
}

func (s *Service) summarize(ctx context.Context, msg *domain.CachedMessage, profile *domain.Profile) error {
	blocks := map[string]string{
		"Known contacts": strings.Join(profile.KnownContacts, "\n"),
		"General notes":  profile.Notes,
		"Email metadata": formatMetadata(msg),
	}

	raw, err := s.completer.Complete(ctx, enrichmentPrompt, blocks)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteProvider, err)
	}

	parsed, err := parseEnrichment(raw)
	if err != nil {
		return err
	}

	msg.AutoSummary = parsed.ExtendedSummary
	msg.ShortSummary = parsed.ShortSummary
	msg.ActionItems = parsed.ActionItems
	msg.KeyPeople = parsed.KeyPeople
	msg.Deadlines = parsed.Deadlines
	msg.BaseImportanceScore = *parsed.ImportanceScore
	msg.ImportanceScore = *parsed.ImportanceScore
	msg.SpamScore = *parsed.SpamScore

	category := domain.Category(parsed.Category)
	if !domain.KnownCategories[category] {
		category = ""
	}
	msg.Category = category

	sentiment := domain.Sentiment(parsed.Sentiment)
	if !domain.KnownSentiments[sentiment] {
		sentiment = ""
	}
	msg.Sentiment = sentiment
	return nil
}

func formatMetadata(msg *domain.CachedMessage) string {
	body := msg.TextBody
	if body == "" {
		body = msg.Snippet
	}
	attachments := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		attachments = append(attachments, a.Name)
	}
	return fmt.Sprintf("Subject: %s\nFrom: %s\nTo: %s\nDate: %s\nAttachments: %s\n\n%s",
		msg.Title,
		msg.From,
		strings.Join(msg.To, ", "),
		msg.Date.Format("2006-01-02 15:04"),
		strings.Join(attachments, ", "),
		body,
	)
}

// parseEnrichment extracts the JSON object from a raw model reply. Models
// wrap JSON in code fences or append commentary, so it takes the text
// between the first '{' and the last '}' and drops comment-like lines
// before unmarshalling. Character limits on the summaries are a soft
// contract and are not enforced here.
func parseEnrichment(raw string) (*enrichmentResponse, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in reply", domain.ErrEnrichmentShape)
	}

	lines := strings.Split(raw[start:end+1], "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		kept = append(kept, line)
	}

	var parsed enrichmentResponse
	if err := json.Unmarshal([]byte(strings.Join(kept, "\n")), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEnrichmentShape, err)
	}

	if parsed.ExtendedSummary == "" || parsed.ShortSummary == "" {
		return nil, fmt.Errorf("%w: missing summary fields", domain.ErrEnrichmentShape)
	}
	if parsed.ImportanceScore == nil || parsed.SpamScore == nil {
		return nil, fmt.Errorf("%w: missing score fields", domain.ErrEnrichmentShape)
	}
	if *parsed.ImportanceScore < 0 || *parsed.ImportanceScore > 1 {
		return nil, fmt.Errorf("%w: importanceScore out of range", domain.ErrEnrichmentShape)
	}
	if *parsed.SpamScore < 0 || *parsed.SpamScore > 1 {
		return nil, fmt.Errorf("%w: spamScore out of range", domain.ErrEnrichmentShape)
	}
	return &parsed, nil
}
