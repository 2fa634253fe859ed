package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mailmind-backend/internal/mailcache/domain"
	"mailmind-backend/pkg/fuzzy"
)

// Get returns one cached message by composite ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.CachedMessage, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id", domain.ErrMissingParameter)
	}
	if _, err := domain.DecomposeID(id); err != nil {
		return nil, err
	}
	return s.messages.Get(ctx, id)
}

// GetBrief returns the message with body fields stripped.
func (s *Service) GetBrief(ctx context.Context, id string) (*domain.CachedMessage, error) {
	msg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return msg.Brief(), nil
}

// GetInbox returns the precomputed priority-ordered ID list.
func (s *Service) GetInbox(ctx context.Context, userID string) ([]string, error) {
	index, err := s.index.LoadOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}
	return index.Inbox, nil
}

// GetDeletables returns the precomputed deletable-ordered ID list.
func (s *Service) GetDeletables(ctx context.Context, userID string) ([]string, error) {
	index, err := s.index.LoadOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}
	return index.Deletables, nil
}

// loadAll reads every message in the user's ids ledger. Every search is a
// full scan over this set; there is no secondary index.
func (s *Service) loadAll(ctx context.Context, userID string) ([]*domain.CachedMessage, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userID", domain.ErrMissingParameter)
	}
	index, err := s.index.LoadOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.messages.GetMany(ctx, index.IDs)
}

func (s *Service) scan(ctx context.Context, userID string, limit int, keep func(*domain.CachedMessage) bool) ([]*domain.CachedMessage, error) {
	msgs, err := s.loadAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	matched := make([]*domain.CachedMessage, 0)
	for _, msg := range msgs {
		if keep(msg) {
			matched = append(matched, msg)
		}
	}
	// Limit applies after filtering, never during the scan.
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *Service) SearchByLabel(ctx context.Context, userID, label string, limit int) ([]*domain.CachedMessage, error) {
	return s.scan(ctx, userID, limit, func(msg *domain.CachedMessage) bool {
		return msg.HasLabel(label)
	})
}

// SearchByPriority matches on the tier name (Critical, High, ...).
func (s *Service) SearchByPriority(ctx context.Context, userID, tier string, limit int) ([]*domain.CachedMessage, error) {
	return s.scan(ctx, userID, limit, func(msg *domain.CachedMessage) bool {
		return strings.EqualFold(msg.PriorityLabel, tier)
	})
}

func (s *Service) SearchByDateRange(ctx context.Context, userID string, from, to time.Time, limit int) ([]*domain.CachedMessage, error) {
	return s.scan(ctx, userID, limit, func(msg *domain.CachedMessage) bool {
		if !from.IsZero() && msg.Date.Before(from) {
			return false
		}
		if !to.IsZero() && msg.Date.After(to) {
			return false
		}
		return true
	})
}

func (s *Service) SearchBySentiment(ctx context.Context, userID string, sentiment domain.Sentiment, limit int) ([]*domain.CachedMessage, error) {
	return s.scan(ctx, userID, limit, func(msg *domain.CachedMessage) bool {
		return msg.Sentiment == sentiment
	})
}

// SearchByImportance returns messages at or above the threshold.
func (s *Service) SearchByImportance(ctx context.Context, userID string, min float64, limit int) ([]*domain.CachedMessage, error) {
	return s.scan(ctx, userID, limit, func(msg *domain.CachedMessage) bool {
		return msg.ImportanceScore >= min
	})
}

func (s *Service) SearchByCategory(ctx context.Context, userID string, category domain.Category, limit int) ([]*domain.CachedMessage, error) {
	return s.scan(ctx, userID, limit, func(msg *domain.CachedMessage) bool {
		return msg.Category == category
	})
}

// SearchBySpam returns messages at or above the spam threshold.
func (s *Service) SearchBySpam(ctx context.Context, userID string, min float64, limit int) ([]*domain.CachedMessage, error) {
	return s.scan(ctx, userID, limit, func(msg *domain.CachedMessage) bool {
		return msg.SpamScore >= min
	})
}

// Search matches free text against subject, sender, snippet and both
// summaries, with typo tolerance scaled to the query length.
func (s *Service) Search(ctx context.Context, userID, query string, limit int) ([]*domain.CachedMessage, error) {
	needle := strings.TrimSpace(query)
	if needle == "" {
		return nil, fmt.Errorf("%w: query", domain.ErrMissingParameter)
	}
	threshold := fuzzy.Threshold(needle)
	return s.scan(ctx, userID, limit, func(msg *domain.CachedMessage) bool {
		haystack := msg.Title + " " + msg.From + " " + msg.Snippet + " " + msg.ShortSummary + " " + msg.AutoSummary
		return fuzzy.Match(needle, haystack, threshold)
	})
}
