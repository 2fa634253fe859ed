package domain

import "errors"

// Error taxonomy of the mail cache. Callers match with errors.Is; remote
// and shape errors carry detail through wrapping.
var (
	// ErrMissingParameter means a required input was absent. Never defaulted.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrNotFound means a message, account or index that must exist is absent.
	ErrNotFound = errors.New("not found")

	// ErrMalformedID means a composite ID cannot be decomposed.
	ErrMalformedID = errors.New("malformed composite id")

	// ErrEnrichmentShape means the AI response is missing required fields
	// or a score is outside [0,1].
	ErrEnrichmentShape = errors.New("enrichment response shape invalid")

	// ErrRemoteProvider means a mail source or enrichment client call failed.
	ErrRemoteProvider = errors.New("remote provider call failed")
)
