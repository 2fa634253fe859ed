package usecase

import (
	"context"
	"fmt"
	"time"

	"mailmind-backend/internal/mailcache/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// ImportNewMessages reconciles every linked mailbox against the cache.
// Inbox membership is replaced wholesale by the current remote listings;
// only messages absent from the ids ledger are fetched and stored. A
// missing credential on any account fails the whole operation.
func (s *Service) ImportNewMessages(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: userID", domain.ErrMissingParameter)
	}

	if s.metrics != nil {
		s.metrics.ImportRuns.Inc()
		timer := s.startTimer(s.metrics.ImportDuration)
		defer timer()
	}

	index, err := s.index.LoadOrInit(ctx, userID)
	if err != nil {
		return err
	}

	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	// Remote listing for every account, fail-fast. sourceByID keeps the
	// live source around so new messages can be fetched below.
	type origin struct {
		source     domain.MailSource
		providerID string
	}
	origins := make(map[string]origin)
	newInbox := make([]string, 0)
	seen := make(map[string]bool)

	for _, account := range accounts {
		source, err := s.sources.SourceFor(ctx, account)
		if err != nil {
			return err
		}
		providerIDs, err := source.ListMessageIDs(ctx, domain.InboxLabel)
		if err != nil {
			return fmt.Errorf("%w: listing account %s: %v", domain.ErrRemoteProvider, account.ID, err)
		}
		for _, providerID := range providerIDs {
			id, err := domain.ComposeID(userID, account.ID, providerID)
			if err != nil {
				return err
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			newInbox = append(newInbox, id)
			origins[id] = origin{source: source, providerID: providerID}
		}
	}

	// Fetch and persist content for ids the ledger has never seen.
	newIDs := make([]string, 0)
	for _, id := range newInbox {
		if index.Contains(id) {
			continue
		}
		org := origins[id]
		provided, err := org.source.FetchMessage(ctx, org.providerID)
		if err != nil {
			return fmt.Errorf("%w: fetching message %s: %v", domain.ErrRemoteProvider, id, err)
		}
		decomposed, err := domain.DecomposeID(id)
		if err != nil {
			return err
		}
		msg := newCachedMessage(userID, decomposed.AccountID, provided, s.now())
		msg.ID = id
		if err := s.messages.Save(ctx, msg); err != nil {
			return err
		}
		newIDs = append(newIDs, id)
		if s.metrics != nil {
			s.metrics.MessagesImported.Inc()
		}
	}

	_, err = s.index.Update(ctx, userID, func(ix *domain.CacheIndex) error {
		for _, id := range newIDs {
			if !ix.Contains(id) {
				ix.IDs = append(ix.IDs, id)
			}
			if !contains(ix.NewMail, id) {
				ix.NewMail = append(ix.NewMail, id)
			}
			if !contains(ix.SummarizationQueue, id) {
				ix.SummarizationQueue = append(ix.SummarizationQueue, id)
			}
		}
		ix.Inbox = newInbox
		return nil
	})
	if err != nil {
		return err
	}

	if s.notifier != nil && len(newIDs) > 0 {
		s.notifier.NotifyNewMail(ctx, userID, len(newIDs))
	}

	s.log.WithFields(logrus.Fields{
		"userId":      userID,
		"accounts":    len(accounts),
		"inboxSize":   len(newInbox),
		"newMessages": len(newIDs),
	}).Info("import completed")
	return nil
}

func newCachedMessage(userID, accountID string, provided *domain.ProviderMessage, cachedAt time.Time) *domain.CachedMessage {
	return &domain.CachedMessage{
		UserID:      userID,
		AccountID:   accountID,
		ProviderID:  provided.ProviderID,
		Date:        provided.Date,
		Title:       provided.Title,
		From:        provided.From,
		To:          provided.To,
		CC:          provided.CC,
		MessageID:   provided.MessageID,
		TextBody:    provided.TextBody,
		HTMLBody:    provided.HTMLBody,
		Snippet:     provided.Snippet,
		Link:        provided.Link,
		Attachments: provided.Attachments,
		CachedAt:    cachedAt,
	}
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func (s *Service) startTimer(h prometheus.Histogram) func() {
	start := s.now()
	return func() { h.Observe(time.Since(start).Seconds()) }
}
