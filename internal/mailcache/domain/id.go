package domain

import (
	"fmt"
	"strings"
)

const (
	idSeparator   = "#"
	userPrefixLen = 8
)

// DecomposedID is the three segments of a composite cache key.
type DecomposedID struct {
	UserPrefix string
	AccountID  string
	ProviderID string
}

// ComposeID builds the composite cache key for a message:
// first 8 chars of the user ID, the account ID and the provider's message
// ID, joined with '#'. The truncated user segment is compact but not
// globally unique: two users sharing an 8-char prefix collide on the same
// account/provider pair. Keys are therefore only unique within a user's
// own namespace.
func ComposeID(userID, accountID, providerID string) (string, error) {
	if userID == "" || accountID == "" || providerID == "" {
		return "", fmt.Errorf("%w: userID, accountID and providerID are required", ErrMissingParameter)
	}
	if strings.Contains(accountID, idSeparator) || strings.Contains(providerID, idSeparator) {
		return "", fmt.Errorf("%w: id segments must not contain %q", ErrMalformedID, idSeparator)
	}
	prefix := userID
	if len(prefix) > userPrefixLen {
		prefix = prefix[:userPrefixLen]
	}
	return prefix + idSeparator + accountID + idSeparator + providerID, nil
}

// DecomposeID splits a composite cache key into its segments. IDs with
// fewer than three segments are malformed.
func DecomposeID(id string) (DecomposedID, error) {
	parts := strings.SplitN(id, idSeparator, 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return DecomposedID{}, fmt.Errorf("%w: %q", ErrMalformedID, id)
	}
	return DecomposedID{
		UserPrefix: parts[0],
		AccountID:  parts[1],
		ProviderID: parts[2],
	}, nil
}
