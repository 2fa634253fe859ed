package domain

import "time"

// CacheIndex is the per-user index document. Inbox and Deletables always
// hold the same set of IDs in different orders; IDs is the append-only
// ledger of everything ever imported and is a superset of Inbox.
type CacheIndex struct {
	UserID             string    `json:"userId"`
	IDs                []string  `json:"ids"`
	Inbox              []string  `json:"inbox"`
	Deletables         []string  `json:"deletables"`
	NewMail            []string  `json:"newMail"`
	SummarizationQueue []string  `json:"summarizationQueue"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// NewCacheIndex returns an empty index for a user.
func NewCacheIndex(userID string) *CacheIndex {
	return &CacheIndex{
		UserID:             userID,
		IDs:                []string{},
		Inbox:              []string{},
		Deletables:         []string{},
		NewMail:            []string{},
		SummarizationQueue: []string{},
	}
}

// Contains reports whether id is in the IDs ledger.
func (ix *CacheIndex) Contains(id string) bool {
	for _, existing := range ix.IDs {
		if existing == id {
			return true
		}
	}
	return false
}

// InInbox reports whether id is currently active.
func (ix *CacheIndex) InInbox(id string) bool {
	for _, existing := range ix.Inbox {
		if existing == id {
			return true
		}
	}
	return false
}

// RemoveFromViews drops id from both sorted views. It does not touch the
// IDs ledger.
func (ix *CacheIndex) RemoveFromViews(id string) {
	ix.Inbox = removeID(ix.Inbox, id)
	ix.Deletables = removeID(ix.Deletables, id)
}

// RemoveFromQueue drops id from the summarization queue and newMail list.
func (ix *CacheIndex) RemoveFromQueue(id string) {
	ix.SummarizationQueue = removeID(ix.SummarizationQueue, id)
	ix.NewMail = removeID(ix.NewMail, id)
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
