package domain

import (
	"context"
	"time"
)

// ProviderMessage is the raw message content a mail source returns. All
// IDs here are the provider's own, never composite cache keys.
type ProviderMessage struct {
	ProviderID  string
	Date        time.Time
	Title       string
	From        string
	To          []string
	CC          []string
	MessageID   string
	TextBody    string
	HTMLBody    string
	Snippet     string
	Link        string
	Attachments []Attachment
}

// MailSource is one linked mailbox. Listing follows provider pagination to
// exhaustion; mutating operations fan out to the remote provider only, the
// caller updates the local cache.
type MailSource interface {
	ListMessageIDs(ctx context.Context, label string) ([]string, error)
	FetchMessage(ctx context.Context, providerID string) (*ProviderMessage, error)
	MoveToTrash(ctx context.Context, providerID string) error
	MoveToJunk(ctx context.Context, providerID string) error
	RemoveFromInbox(ctx context.Context, providerID string) error
}

// InboxLabel is the primary label imports reconcile against.
const InboxLabel = "INBOX"
