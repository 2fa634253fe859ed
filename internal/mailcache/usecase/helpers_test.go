package usecase

import (
	"context"
	"fmt"
	"time"

	accountdomain "mailmind-backend/internal/account/domain"
	accountrepo "mailmind-backend/internal/account/repository"
	"mailmind-backend/internal/mailcache/domain"
	"mailmind-backend/internal/mailcache/repository"
	"mailmind-backend/pkg/docstore"

	"github.com/sirupsen/logrus"
)

// fakeSource is an in-memory MailSource seeded with provider messages.
type fakeSource struct {
	messages map[string]*domain.ProviderMessage
	listing  []string
	trashed  []string
	junked   []string
	archived []string
	listErr  error
	moveErr  error
}

func newFakeSource(msgs ...*domain.ProviderMessage) *fakeSource {
	s := &fakeSource{messages: make(map[string]*domain.ProviderMessage)}
	for _, msg := range msgs {
		s.messages[msg.ProviderID] = msg
		s.listing = append(s.listing, msg.ProviderID)
	}
	return s
}

func (s *fakeSource) ListMessageIDs(ctx context.Context, label string) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]string(nil), s.listing...), nil
}

func (s *fakeSource) FetchMessage(ctx context.Context, providerID string) (*domain.ProviderMessage, error) {
	msg, ok := s.messages[providerID]
	if !ok {
		return nil, fmt.Errorf("no message %s", providerID)
	}
	return msg, nil
}

func (s *fakeSource) MoveToTrash(ctx context.Context, providerID string) error {
	if s.moveErr != nil {
		return s.moveErr
	}
	s.trashed = append(s.trashed, providerID)
	return nil
}

func (s *fakeSource) MoveToJunk(ctx context.Context, providerID string) error {
	if s.moveErr != nil {
		return s.moveErr
	}
	s.junked = append(s.junked, providerID)
	return nil
}

func (s *fakeSource) RemoveFromInbox(ctx context.Context, providerID string) error {
	if s.moveErr != nil {
		return s.moveErr
	}
	s.archived = append(s.archived, providerID)
	return nil
}

// fakeSourceFactory maps account IDs onto fake sources.
type fakeSourceFactory struct {
	sources map[string]domain.MailSource
	err     error
}

func (f *fakeSourceFactory) SourceFor(ctx context.Context, account *accountdomain.Account) (domain.MailSource, error) {
	if f.err != nil {
		return nil, f.err
	}
	source, ok := f.sources[account.ID]
	if !ok {
		return nil, fmt.Errorf("no source for account %s", account.ID)
	}
	return source, nil
}

// fakeCompleter returns a canned reply per call, or a single reply for
// every call.
type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (c *fakeCompleter) Complete(ctx context.Context, prompt string, blocks map[string]string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

type testEnv struct {
	service  *Service
	store    *docstore.MemoryStore
	messages repository.MessageRepository
	index    repository.IndexRepository
	accounts accountrepo.AccountRepository
	factory  *fakeSourceFactory
	ai       *fakeCompleter
	now      time.Time
}

func newTestEnv() *testEnv {
	store := docstore.NewMemoryStore()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	env := &testEnv{
		store:    store,
		messages: repository.NewMessageRepository(store),
		index:    repository.NewIndexRepository(store),
		accounts: accountrepo.NewAccountRepository(store),
		factory:  &fakeSourceFactory{sources: make(map[string]domain.MailSource)},
		ai:       &fakeCompleter{},
		now:      time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	env.service = NewService(Deps{
		Messages:  env.messages,
		Index:     env.index,
		Profiles:  repository.NewProfileRepository(store),
		Accounts:  env.accounts,
		Sources:   env.factory,
		Completer: env.ai,
		Logger:    log,
	})
	env.service.now = func() time.Time { return env.now }
	return env
}

func (env *testEnv) linkAccount(userID, accountID string, source domain.MailSource) {
	account := &accountdomain.Account{
		ID:       accountID,
		UserID:   userID,
		Provider: accountdomain.ProviderGoogle,
		Email:    accountID + "@example.com",
	}
	if err := env.accounts.Save(context.Background(), account); err != nil {
		panic(err)
	}
	env.factory.sources[accountID] = source
}

const validReply = `{
  "extendedSummary": "A detailed summary of the message.",
  "shortSummary": "Short summary.",
  "actionItems": [],
  "keyPeople": [],
  "deadlines": [],
  "importanceScore": 0.5,
  "spamScore": 0.1,
  "category": "Business",
  "sentiment": "Neutral"
}`
