package domain

import "time"

const (
	ProviderGoogle = "google"
	ProviderIMAP   = "imap"
)

// Account is one linked mailbox belonging to a user. Google accounts
// carry OAuth tokens; IMAP accounts carry server coordinates and an
// encrypted password.
type Account struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Provider string `json:"provider"`
	Email    string `json:"email"`

	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`

	IMAPServer        string `json:"imapServer,omitempty"`
	IMAPPort          int    `json:"imapPort,omitempty"`
	IMAPUsername      string `json:"imapUsername,omitempty"`
	EncryptedPassword string `json:"encryptedPassword,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
