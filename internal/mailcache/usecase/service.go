// Package usecase implements the mail cache engine: importing mailbox
// state, enriching messages with AI-derived metadata, layering the
// deterministic scoring passes and maintaining the two sorted views.
package usecase

import (
	"context"
	"time"

	accountrepo "mailmind-backend/internal/account/repository"
	accountusecase "mailmind-backend/internal/account/usecase"
	"mailmind-backend/internal/mailcache/repository"
	"mailmind-backend/pkg/ai"
	"mailmind-backend/pkg/metrics"

	"github.com/sirupsen/logrus"
)

const defaultBatchSize = 5

// Notifier is told when an import lands new messages. Implementations
// must be best-effort; the pipeline ignores their outcome.
type Notifier interface {
	NotifyNewMail(ctx context.Context, userID string, count int)
}

// Service is the per-process mail cache engine. All operations are keyed
// by user ID; concurrent calls for different users share no state beyond
// the job registry.
type Service struct {
	messages repository.MessageRepository
	index    repository.IndexRepository
	profiles repository.ProfileRepository
	accounts accountrepo.AccountRepository
	sources  accountusecase.SourceFactory

	completer ai.Completer
	metrics   *metrics.Metrics
	notifier  Notifier
	log       *logrus.Logger
	jobs      *JobRegistry

	batchSize int
	now       func() time.Time
}

type Deps struct {
	Messages  repository.MessageRepository
	Index     repository.IndexRepository
	Profiles  repository.ProfileRepository
	Accounts  accountrepo.AccountRepository
	Sources   accountusecase.SourceFactory
	Completer ai.Completer
	Metrics   *metrics.Metrics
	Notifier  Notifier
	Logger    *logrus.Logger
	BatchSize int
}

func NewService(deps Deps) *Service {
	batchSize := deps.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	log := deps.Logger
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		messages:  deps.Messages,
		index:     deps.Index,
		profiles:  deps.Profiles,
		accounts:  deps.Accounts,
		sources:   deps.Sources,
		completer: deps.Completer,
		metrics:   deps.Metrics,
		notifier:  deps.Notifier,
		log:       log,
		jobs:      NewJobRegistry(),
		batchSize: batchSize,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Refresh runs the full per-user cycle: import, enrichment, rescore. The
// job registry reports an already-running refresh but does not block a
// second one; the store transactions keep concurrent runs consistent.
func (s *Service) Refresh(ctx context.Context, userID string) error {
	job := s.jobs.Begin(userID, JobKindRefresh)
	defer s.jobs.End(userID, job.ID)

	if err := s.ImportNewMessages(ctx, userID); err != nil {
		return err
	}
	if err := s.ProcessSummarizationQueue(ctx, userID); err != nil {
		return err
	}
	return s.Rescore(ctx, userID)
}

// RefreshStatus reports whether a refresh is currently in flight for the
// user and, if so, which one.
func (s *Service) RefreshStatus(userID string) (*RefreshJob, bool) {
	return s.jobs.Status(userID)
}
