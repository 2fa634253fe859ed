package notification

import (
	"context"
	"testing"

	"mailmind-backend/pkg/docstore"
	"mailmind-backend/pkg/fcm"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePusher struct {
	sent   []fcm.Notification
	tokens [][]string
	failed []string
	err    error
}

func (p *fakePusher) SendToDevices(ctx context.Context, tokens []string, notification fcm.Notification) ([]string, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.sent = append(p.sent, notification)
	p.tokens = append(p.tokens, tokens)
	return p.failed, nil
}

func newTestService(pusher Pusher) (*Service, docstore.Store) {
	store := docstore.NewMemoryStore()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewService(store, pusher, log), store
}

func TestNotifyNewMailSendsToRegisteredDevices(t *testing.T) {
	pusher := &fakePusher{}
	svc, _ := newTestService(pusher)
	ctx := context.Background()

	require.NoError(t, svc.RegisterToken(ctx, "user-1", "tok-a", "pixel"))
	require.NoError(t, svc.RegisterToken(ctx, "user-1", "tok-b", "iphone"))
	require.NoError(t, svc.RegisterToken(ctx, "user-2", "tok-c", "pixel"))

	svc.NotifyNewMail(ctx, "user-1", 3)

	require.Len(t, pusher.sent, 1)
	assert.Equal(t, "You have 3 new messages", pusher.sent[0].Body)
	assert.ElementsMatch(t, []string{"tok-a", "tok-b"}, pusher.tokens[0])
}

func TestNotifyNewMailSingularBody(t *testing.T) {
	pusher := &fakePusher{}
	svc, _ := newTestService(pusher)
	ctx := context.Background()

	require.NoError(t, svc.RegisterToken(ctx, "user-1", "tok-a", "pixel"))
	svc.NotifyNewMail(ctx, "user-1", 1)

	require.Len(t, pusher.sent, 1)
	assert.Equal(t, "You have 1 new message", pusher.sent[0].Body)
}

func TestNotifyNewMailSkipsWhenNothingNew(t *testing.T) {
	pusher := &fakePusher{}
	svc, _ := newTestService(pusher)
	ctx := context.Background()

	require.NoError(t, svc.RegisterToken(ctx, "user-1", "tok-a", "pixel"))
	svc.NotifyNewMail(ctx, "user-1", 0)
	assert.Empty(t, pusher.sent)

	// No registered devices is also a quiet no-op.
	svc.NotifyNewMail(ctx, "user-2", 5)
	assert.Empty(t, pusher.sent)
}

func TestNotifyNewMailPrunesDeadTokens(t *testing.T) {
	pusher := &fakePusher{failed: []string{"tok-dead"}}
	svc, store := newTestService(pusher)
	ctx := context.Background()

	require.NoError(t, svc.RegisterToken(ctx, "user-1", "tok-dead", "old phone"))
	require.NoError(t, svc.RegisterToken(ctx, "user-1", "tok-live", "pixel"))

	svc.NotifyNewMail(ctx, "user-1", 2)

	var token DeviceToken
	err := store.Read(ctx, "fcm_tokens", "tok-dead", &token)
	assert.ErrorIs(t, err, docstore.ErrNoDocument)
	assert.NoError(t, store.Read(ctx, "fcm_tokens", "tok-live", &token))
}

func TestNilPusherIsNoOp(t *testing.T) {
	svc, _ := newTestService(nil)
	svc.NotifyNewMail(context.Background(), "user-1", 3)
}

func TestRegisterTokenRejectsEmpty(t *testing.T) {
	svc, _ := newTestService(&fakePusher{})
	assert.Error(t, svc.RegisterToken(context.Background(), "user-1", "", "pixel"))
}
