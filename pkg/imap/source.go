// Package imap adapts an IMAP mailbox to the mail cache's MailSource
// interface. Provider IDs are mailbox UIDs rendered as decimal strings;
// a connection is opened per operation and closed when it returns.
package imap

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"mailmind-backend/internal/mailcache/domain"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
)

// Source is one linked IMAP mailbox.
type Source struct {
	server   string
	port     int
	username string
	password string

	trashMailbox   string
	junkMailbox    string
	archiveMailbox string
}

// NewSource creates a MailSource for one IMAP account.
func NewSource(server string, port int, username, password string) *Source {
	return &Source{
		server:         server,
		port:           port,
		username:       username,
		password:       password,
		trashMailbox:   "Trash",
		junkMailbox:    "Junk",
		archiveMailbox: "Archive",
	}
}

func (s *Source) connect(mailbox string) (*client.Client, error) {
	c, err := client.DialTLS(fmt.Sprintf("%s:%d", s.server, s.port), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}
	if err := c.Login(s.username, s.password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("failed to login to IMAP server: %w", err)
	}
	if mailbox != "" {
		if _, err := c.Select(mailbox, false); err != nil {
			c.Logout()
			return nil, fmt.Errorf("failed to select mailbox %s: %w", mailbox, err)
		}
	}
	return c, nil
}

// mailboxFor maps the cache's label names onto IMAP mailbox names.
func mailboxFor(label string) string {
	if label == "" || strings.EqualFold(label, domain.InboxLabel) {
		return "INBOX"
	}
	return label
}

// ListMessageIDs returns the UIDs of every message in the mailbox.
func (s *Source) ListMessageIDs(ctx context.Context, label string) ([]string, error) {
	c, err := s.connect(mailboxFor(label))
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	uids, err := c.UidSearch(imap.NewSearchCriteria())
	if err != nil {
		return nil, fmt.Errorf("failed to search mailbox: %w", err)
	}

	ids := make([]string, 0, len(uids))
	for _, uid := range uids {
		ids = append(ids, strconv.FormatUint(uint64(uid), 10))
	}
	return ids, nil
}

// FetchMessage retrieves the full message content for a UID.
func (s *Source) FetchMessage(ctx context.Context, providerID string) (*domain.ProviderMessage, error) {
	uid, err := strconv.ParseUint(providerID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid IMAP provider id %q: %w", providerID, err)
	}

	c, err := s.connect("INBOX")
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	seqset := new(imap.SeqSet)
	seqset.AddNum(uint32(uid))

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqset, items, messages)
	}()

	msg := <-messages
	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch message %s: %w", providerID, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("message %s not found", providerID)
	}

	out := &domain.ProviderMessage{ProviderID: providerID}
	if env := msg.Envelope; env != nil {
		out.Date = env.Date.UTC()
		out.Title = env.Subject
		out.From = formatAddresses(env.From)
		out.To = addressList(env.To)
		out.CC = addressList(env.Cc)
		out.MessageID = env.MessageId
	}
	if out.Date.IsZero() {
		out.Date = time.Now().UTC()
	}

	if body := msg.GetBody(section); body != nil {
		if err := parseBody(body, out); err != nil {
			return nil, fmt.Errorf("failed to parse message %s: %w", providerID, err)
		}
	}

	out.Snippet = makeSnippet(out.TextBody, out.HTMLBody)
	return out, nil
}

func (s *Source) moveTo(providerID, mailbox string) error {
	uid, err := strconv.ParseUint(providerID, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid IMAP provider id %q: %w", providerID, err)
	}

	c, err := s.connect("INBOX")
	if err != nil {
		return err
	}
	defer c.Logout()

	seqset := new(imap.SeqSet)
	seqset.AddNum(uint32(uid))

	if err := c.UidCopy(seqset, mailbox); err != nil {
		return fmt.Errorf("failed to copy message to %s: %w", mailbox, err)
	}

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := c.UidStore(seqset, item, []interface{}{imap.DeletedFlag}, nil); err != nil {
		return fmt.Errorf("failed to flag message deleted: %w", err)
	}
	return c.Expunge(nil)
}

// MoveToTrash copies the message to the trash mailbox and expunges it.
func (s *Source) MoveToTrash(ctx context.Context, providerID string) error {
	return s.moveTo(providerID, s.trashMailbox)
}

// MoveToJunk copies the message to the junk mailbox and expunges it.
func (s *Source) MoveToJunk(ctx context.Context, providerID string) error {
	return s.moveTo(providerID, s.junkMailbox)
}

// RemoveFromInbox archives the message out of INBOX.
func (s *Source) RemoveFromInbox(ctx context.Context, providerID string) error {
	return s.moveTo(providerID, s.archiveMailbox)
}

func formatAddresses(addrs []*imap.Address) string {
	parts := addressList(addrs)
	return strings.Join(parts, ", ")
}

func addressList(addrs []*imap.Address) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a == nil {
			continue
		}
		addr := a.Address()
		if a.PersonalName != "" {
			addr = fmt.Sprintf("%s <%s>", a.PersonalName, addr)
		}
		out = append(out, addr)
	}
	return out
}

func parseBody(r io.Reader, out *domain.ProviderMessage) error {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return err
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch header := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := header.ContentType()
			raw, err := io.ReadAll(part.Body)
			if err != nil {
				return err
			}
			switch contentType {
			case "text/html":
				out.HTMLBody = string(raw)
			default:
				if out.TextBody == "" {
					out.TextBody = string(raw)
				}
			}
		case *mail.AttachmentHeader:
			filename, _ := header.Filename()
			contentType, _, _ := header.ContentType()
			raw, _ := io.ReadAll(part.Body)
			out.Attachments = append(out.Attachments, domain.Attachment{
				Name:     filename,
				MimeType: contentType,
				Size:     int64(len(raw)),
			})
		}
	}
}

func makeSnippet(textBody, htmlBody string) string {
	snippet := textBody
	if snippet == "" {
		snippet = htmlBody
	}
	snippet = strings.Join(strings.Fields(snippet), " ")
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	return snippet
}
