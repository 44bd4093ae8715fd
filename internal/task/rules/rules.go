// Package rules implements the ownership and uniqueness checks shared by every
// entity service. The functions are pure decision logic: callers load the
// target, its owner chain, and its siblings from the store, then ask the rules
// whether the operation may proceed. A nil return means proceed; a non-nil
// return is the typed failure to surface unmodified at the HTTP boundary.
package rules

import (
	"fmt"
	"strings"

	"github.com/taskdeck/taskdeck/internal/common/errors"
)

// Sibling identifies one entity sharing the target's immediate parent.
type Sibling struct {
	ID   string
	Name string
}

// CanCreate checks that the caller owns the parent's root ancestor and that no
// sibling under the same parent already carries the candidate name.
func CanCreate(kind, callerID, ownerID, name string, siblings []Sibling) error {
	if err := checkOwner(kind, callerID, ownerID); err != nil {
		return err
	}
	return checkUnique(kind, name, "", siblings)
}

// CanRename checks ownership and, when the name actually changes, sibling
// uniqueness. The target's own current name never conflicts with itself.
func CanRename(kind, callerID, ownerID, targetID, newName string, siblings []Sibling) error {
	if err := checkOwner(kind, callerID, ownerID); err != nil {
		return err
	}
	return checkUnique(kind, newName, targetID, siblings)
}

// CanDelete checks ownership only; deletes carry no uniqueness concern.
func CanDelete(kind, callerID, ownerID string) error {
	return checkOwner(kind, callerID, ownerID)
}

// CanRead checks ownership for read operations so that one user cannot walk
// another user's hierarchy.
func CanRead(kind, callerID, ownerID string) error {
	return checkOwner(kind, callerID, ownerID)
}

func checkOwner(kind, callerID, ownerID string) error {
	if callerID == "" {
		return errors.Unauthorized("caller identity is required")
	}
	if callerID != ownerID {
		return errors.Forbidden(fmt.Sprintf("caller does not own this %s", kind))
	}
	return nil
}

// checkUnique enforces case-insensitive exact-match uniqueness among siblings.
// Only case folding is applied; names differing by surrounding whitespace are
// distinct on purpose.
func checkUnique(kind, name, selfID string, siblings []Sibling) error {
	for _, sib := range siblings {
		if selfID != "" && sib.ID == selfID {
			continue
		}
		if strings.EqualFold(sib.Name, name) {
			return errors.Conflict(fmt.Sprintf("%s with name '%s' already exists", kind, name))
		}
	}
	return nil
}
