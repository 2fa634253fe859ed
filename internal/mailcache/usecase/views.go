package usecase

import (
	"context"
	"fmt"
	"sort"

	"mailmind-backend/internal/mailcache/domain"
)

// UpdateInbox rebuilds both sorted views from the current active set. It
// is a full re-sort on every call; the views always end up permutations
// of the same ID set.
func (s *Service) UpdateInbox(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: userID", domain.ErrMissingParameter)
	}

	index, err := s.index.LoadOrInit(ctx, userID)
	if err != nil {
		return err
	}

	msgs, err := s.messages.GetMany(ctx, index.Inbox)
	if err != nil {
		return err
	}

	byPriority := append([]*domain.CachedMessage(nil), msgs...)
	sort.SliceStable(byPriority, func(i, j int) bool {
		return byPriority[i].PriorityScore > byPriority[j].PriorityScore
	})
	byDeletable := append([]*domain.CachedMessage(nil), msgs...)
	sort.SliceStable(byDeletable, func(i, j int) bool {
		return byDeletable[i].DeletableScore > byDeletable[j].DeletableScore
	})

	inbox := make([]string, len(byPriority))
	for i, msg := range byPriority {
		inbox[i] = msg.ID
	}
	deletables := make([]string, len(byDeletable))
	for i, msg := range byDeletable {
		deletables[i] = msg.ID
	}

	_, err = s.index.Update(ctx, userID, func(ix *domain.CacheIndex) error {
		ix.Inbox = inbox
		ix.Deletables = deletables
		return nil
	})
	return err
}

// Rescore re-applies the deterministic passes to every active message and
// rebuilds the views. It never re-runs AI summarization, so it is the
// cheap way to refresh decay periodically.
func (s *Service) Rescore(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: userID", domain.ErrMissingParameter)
	}

	index, err := s.index.LoadOrInit(ctx, userID)
	if err != nil {
		return err
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}

	msgs, err := s.messages.GetMany(ctx, index.Inbox)
	if err != nil {
		return err
	}

	for _, msg := range msgs {
		if !msg.Summarized {
			continue
		}
		s.applyAdvancedScoring(msg, profile)
		s.applySentimentAndDecay(msg)
		if err := s.messages.Save(ctx, msg); err != nil {
			return err
		}
	}

	return s.UpdateInbox(ctx, userID)
}

// Archive drops the message from both views. The document stays in the
// store and in the ids ledger, reachable by direct lookup.
func (s *Service) Archive(ctx context.Context, id string) error {
	return s.removeFromViews(ctx, id, func(ctx context.Context, source domain.MailSource, providerID string) error {
		return source.RemoveFromInbox(ctx, providerID)
	})
}

// Trash moves the message to the provider's trash and drops it from both
// views.
func (s *Service) Trash(ctx context.Context, id string) error {
	return s.removeFromViews(ctx, id, func(ctx context.Context, source domain.MailSource, providerID string) error {
		return source.MoveToTrash(ctx, providerID)
	})
}

// Junk reports the message as spam at the provider and drops it from
// both views.
func (s *Service) Junk(ctx context.Context, id string) error {
	return s.removeFromViews(ctx, id, func(ctx context.Context, source domain.MailSource, providerID string) error {
		return source.MoveToJunk(ctx, providerID)
	})
}

func (s *Service) removeFromViews(ctx context.Context, id string, remote func(ctx context.Context, source domain.MailSource, providerID string) error) error {
	if id == "" {
		return fmt.Errorf("%w: id", domain.ErrMissingParameter)
	}
	decomposed, err := domain.DecomposeID(id)
	if err != nil {
		return err
	}

	msg, err := s.messages.Get(ctx, id)
	if err != nil {
		return err
	}

	index, err := s.index.LoadOrInit(ctx, msg.UserID)
	if err != nil {
		return err
	}
	if !index.InInbox(id) {
		return fmt.Errorf("%w: %s is not in the inbox", domain.ErrNotFound, id)
	}

	account, err := s.accounts.GetByID(ctx, msg.AccountID)
	if err != nil {
		return err
	}
	source, err := s.sources.SourceFor(ctx, account)
	if err != nil {
		return err
	}
	if err := remote(ctx, source, decomposed.ProviderID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteProvider, err)
	}

	// Views are dropped only after the provider accepts the move; a
	// failed remote call leaves the message in place for a retry.
	_, err = s.index.Update(ctx, msg.UserID, func(ix *domain.CacheIndex) error {
		ix.RemoveFromViews(id)
		ix.RemoveFromQueue(id)
		return nil
	})
	return err
}

// ResetEnrichment clears a message's derived fields and requeues it for a
// fresh enrichment pass.
func (s *Service) ResetEnrichment(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id", domain.ErrMissingParameter)
	}

	msg, err := s.messages.Get(ctx, id)
	if err != nil {
		return err
	}
	msg.ResetEnrichment()
	if err := s.messages.Save(ctx, msg); err != nil {
		return err
	}

	_, err = s.index.Update(ctx, msg.UserID, func(ix *domain.CacheIndex) error {
		if !contains(ix.SummarizationQueue, id) {
			ix.SummarizationQueue = append(ix.SummarizationQueue, id)
		}
		return nil
	})
	return err
}
