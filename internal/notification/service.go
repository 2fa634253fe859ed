// Package notification pushes "new mail" alerts to a user's registered
// devices after an import finds messages. Delivery is best-effort; a
// failed push never fails the pipeline that triggered it.
package notification

import (
	"context"
	"fmt"
	"time"

	"mailmind-backend/pkg/docstore"
	"mailmind-backend/pkg/fcm"

	"github.com/sirupsen/logrus"
)

const tokenCollection = "fcm_tokens"

// DeviceToken is one registered push target, keyed by the token itself.
type DeviceToken struct {
	Token      string    `json:"token"`
	UserID     string    `json:"userId"`
	DeviceInfo string    `json:"deviceInfo"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Pusher is the messaging transport; satisfied by *fcm.Client.
type Pusher interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.Notification) ([]string, error)
}

type Service struct {
	store  docstore.Store
	pusher Pusher
	log    *logrus.Logger
}

func NewService(store docstore.Store, pusher Pusher, log *logrus.Logger) *Service {
	return &Service{store: store, pusher: pusher, log: log}
}

func (s *Service) RegisterToken(ctx context.Context, userID, token, deviceInfo string) error {
	if token == "" {
		return fmt.Errorf("token must not be empty")
	}
	return s.store.Write(ctx, tokenCollection, token, &DeviceToken{
		Token:      token,
		UserID:     userID,
		DeviceInfo: deviceInfo,
		CreatedAt:  time.Now().UTC(),
	})
}

func (s *Service) UnregisterToken(ctx context.Context, token string) error {
	return s.store.Delete(ctx, tokenCollection, token)
}

func (s *Service) tokensFor(ctx context.Context, userID string) ([]string, error) {
	docs, err := s.store.Query(ctx, tokenCollection, "userId", userID)
	if err != nil {
		return nil, err
	}
	tokens := make([]string, 0, len(docs))
	for _, doc := range docs {
		registered, err := docstore.Decode[DeviceToken](doc)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, registered.Token)
	}
	return tokens, nil
}

// NotifyNewMail pushes a new-mail alert to every device the user has
// registered. Tokens the transport reports as dead are pruned.
func (s *Service) NotifyNewMail(ctx context.Context, userID string, count int) {
	if s.pusher == nil || count <= 0 {
		return
	}

	tokens, err := s.tokensFor(ctx, userID)
	if err != nil {
		s.log.WithField("userId", userID).WithError(err).Warn("failed to load device tokens")
		return
	}
	if len(tokens) == 0 {
		return
	}

	body := fmt.Sprintf("You have %d new messages", count)
	if count == 1 {
		body = "You have 1 new message"
	}

	failed, err := s.pusher.SendToDevices(ctx, tokens, fcm.Notification{
		Title: "New mail",
		Body:  body,
		Data:  map[string]string{"count": fmt.Sprintf("%d", count)},
	})
	if err != nil {
		s.log.WithField("userId", userID).WithError(err).Warn("failed to send push notification")
		return
	}

	for _, token := range failed {
		if err := s.UnregisterToken(ctx, token); err != nil {
			s.log.WithError(err).Warn("failed to prune dead device token")
		}
	}
}
