// Package gmail adapts the Gmail API to the mail cache's MailSource
// interface. All IDs crossing this boundary are Gmail's own message IDs.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"mailmind-backend/internal/mailcache/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// TokenUpdateFunc is invoked whenever the OAuth token source refreshed the
// access token, so the caller can persist it.
type TokenUpdateFunc func(token *oauth2.Token) error

const listPageSize = 500 // Gmail API maximum

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			return nil, fmt.Errorf("failed to persist refreshed token: %w", err)
		}
	}
	return t, nil
}

// Source is one linked Gmail mailbox.
type Source struct {
	clientID     string
	clientSecret string
	accessToken  string
	refreshToken string
	onRefresh    TokenUpdateFunc
}

// NewSource creates a MailSource for one Gmail account. Both tokens being
// empty is the caller's error to detect; the adapter assumes credentials.
func NewSource(clientID, clientSecret, accessToken, refreshToken string, onRefresh TokenUpdateFunc) *Source {
	return &Source{
		clientID:     clientID,
		clientSecret: clientSecret,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		onRefresh:    onRefresh,
	}
}

func (s *Source) service(ctx context.Context) (*gmailapi.Service, error) {
	token := &oauth2.Token{
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
		TokenType:    "Bearer",
	}
	// Only force refresh if we have a refresh token
	if s.refreshToken != "" {
		token.Expiry = time.Now()
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	wrapped := &notifyTokenSource{
		src:      config.TokenSource(ctx, token),
		current:  token,
		callback: s.onRefresh,
	}
	client := oauth2.NewClient(ctx, wrapped)

	srv, err := gmailapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return srv, nil
}

// ListMessageIDs returns every message ID currently under label, following
// pagination to exhaustion.
func (s *Source) ListMessageIDs(ctx context.Context, label string) ([]string, error) {
	srv, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	pageToken := ""
	for {
		call := srv.Users.Messages.List("me").
			LabelIds(label).
			MaxResults(listPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("unable to list messages: %w", err)
		}

		for _, msg := range resp.Messages {
			ids = append(ids, msg.Id)
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return ids, nil
		}
	}
}

// FetchMessage retrieves the full message content for a provider ID.
func (s *Source) FetchMessage(ctx context.Context, providerID string) (*domain.ProviderMessage, error) {
	srv, err := s.service(ctx)
	if err != nil {
		return nil, err
	}

	msg, err := srv.Users.Messages.Get("me", providerID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve message %s: %w", providerID, err)
	}
	return convertMessage(msg), nil
}

func (s *Source) modify(ctx context.Context, providerID string, req *gmailapi.ModifyMessageRequest, what string) error {
	srv, err := s.service(ctx)
	if err != nil {
		return err
	}
	if _, err := srv.Users.Messages.Modify("me", providerID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to %s message %s: %w", what, providerID, err)
	}
	return nil
}

// MoveToTrash adds the TRASH label.
func (s *Source) MoveToTrash(ctx context.Context, providerID string) error {
	return s.modify(ctx, providerID, &gmailapi.ModifyMessageRequest{
		AddLabelIds:    []string{"TRASH"},
		RemoveLabelIds: []string{"INBOX"},
	}, "trash")
}

// MoveToJunk marks the message as spam.
func (s *Source) MoveToJunk(ctx context.Context, providerID string) error {
	return s.modify(ctx, providerID, &gmailapi.ModifyMessageRequest{
		AddLabelIds:    []string{"SPAM"},
		RemoveLabelIds: []string{"INBOX"},
	}, "junk")
}

// RemoveFromInbox archives the message on the provider side.
func (s *Source) RemoveFromInbox(ctx context.Context, providerID string) error {
	return s.modify(ctx, providerID, &gmailapi.ModifyMessageRequest{
		RemoveLabelIds: []string{"INBOX"},
	}, "archive")
}

// Helper functions

func convertMessage(msg *gmailapi.Message) *domain.ProviderMessage {
	headers := msg.Payload.Headers

	textBody, htmlBody := getBodies(msg.Payload)

	snippet := msg.Snippet
	if snippet == "" {
		snippet = makeSnippet(textBody, htmlBody)
	}

	return &domain.ProviderMessage{
		ProviderID:  msg.Id,
		Date:        time.Unix(msg.InternalDate/1000, 0).UTC(),
		Title:       getHeader(headers, "Subject"),
		From:        getHeader(headers, "From"),
		To:          splitAddresses(getHeader(headers, "To")),
		CC:          splitAddresses(getHeader(headers, "Cc")),
		MessageID:   getHeader(headers, "Message-ID"),
		TextBody:    textBody,
		HTMLBody:    htmlBody,
		Snippet:     snippet,
		Link:        "https://mail.google.com/mail/u/0/#inbox/" + msg.Id,
		Attachments: getAttachments(msg.Payload),
	}
}

func getHeader(headers []*gmailapi.MessagePartHeader, name string) string {
	for _, header := range headers {
		if strings.EqualFold(header.Name, name) {
			return header.Value
		}
	}
	return ""
}

func splitAddresses(header string) []string {
	if header == "" {
		return nil
	}
	parts := strings.Split(header, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getBodies(payload *gmailapi.MessagePart) (textBody, htmlBody string) {
	decode := func(data string) string {
		raw, err := base64.URLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
		return string(raw)
	}

	// The payload itself may be the body for single-part messages.
	if payload.Body != nil && payload.Body.Data != "" {
		if payload.MimeType == "text/html" {
			return "", decode(payload.Body.Data)
		}
		return decode(payload.Body.Data), ""
	}

	var findBody func(parts []*gmailapi.MessagePart)
	findBody = func(parts []*gmailapi.MessagePart) {
		for _, part := range parts {
			if part.Body != nil && part.Body.Data != "" {
				switch part.MimeType {
				case "text/html":
					htmlBody = decode(part.Body.Data)
				case "text/plain":
					textBody = decode(part.Body.Data)
				}
			}
			if len(part.Parts) > 0 {
				findBody(part.Parts)
			}
		}
	}
	findBody(payload.Parts)
	return textBody, htmlBody
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

func makeSnippet(textBody, htmlBody string) string {
	snippet := textBody
	if snippet == "" {
		snippet = htmlTagRe.ReplaceAllString(htmlBody, " ")
	}
	snippet = strings.Join(strings.Fields(snippet), " ")
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	return snippet
}

func getAttachments(payload *gmailapi.MessagePart) []domain.Attachment {
	var attachments []domain.Attachment

	var findAttachments func(parts []*gmailapi.MessagePart)
	findAttachments = func(parts []*gmailapi.MessagePart) {
		for _, part := range parts {
			if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
				attachments = append(attachments, domain.Attachment{
					Name:     part.Filename,
					MimeType: part.MimeType,
					Size:     part.Body.Size,
				})
			}
			if len(part.Parts) > 0 {
				findAttachments(part.Parts)
			}
		}
	}
	findAttachments(payload.Parts)
	return attachments
}
