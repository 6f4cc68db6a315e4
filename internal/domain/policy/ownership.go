// Package policy holds the authorization rules for owned resources. The
// rules are pure functions over identifiers; they never touch a store.
package policy

import (
	"minimarket/internal/common"
)

// AuthorizeMutation allows a mutation iff the caller owns the resource.
// It must run after the resource is loaded and before anything is written,
// so a non-owner sees the same NotFound/Forbidden split as everyone else.
func AuthorizeMutation(resourceOwnerID, callerID string) error {
	if callerID == "" || resourceOwnerID != callerID {
		return common.ErrForbidden
	}
	return nil
}
