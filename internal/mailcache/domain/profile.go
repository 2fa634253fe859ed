package domain

// Profile is the per-user context document mixed into enrichment
// prompts. KnownContacts lets the model recognize key people; Notes
// carries free-form guidance such as the user's employer or projects.
type Profile struct {
	UserID         string   `json:"userId"`
	KnownContacts  []string `json:"knownContacts"`
	Notes          string   `json:"notes"`
	InternalDomain string   `json:"internalDomain"`
}
