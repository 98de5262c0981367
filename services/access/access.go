// Package access implements the policy gate deciding whether a user may open
// a content unit (deck, course or resource). It is a pure function over
// already-fetched data and performs no I/O.
package access

import (
	"github.com/reviseo/reviseo-api/model"
)

// DenyReason explains why access was refused
type DenyReason string

const (
	// DenyNotOwner means the content is private and the user did not create it
	DenyNotOwner DenyReason = "not_owner"
	// DenyPremiumRequired means the content is public but the user holds no
	// active premium entitlement
	DenyPremiumRequired DenyReason = "premium_required"
)

// Decision is the outcome of an access check
type Decision struct {
	Allowed bool
	Reason  DenyReason // set only when Allowed is false
}

// Allow is the granting decision
var Allow = Decision{Allowed: true}

// Deny builds a refusing decision with the given reason
func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Content is the minimal view of a content unit the gate needs
type Content interface {
	ContentOwner() model.Owner
	ContentIsPublic() bool
}

// Decide applies the access policy, first match wins:
//
//  1. owners always access their own content, whatever its visibility or
//     the user's entitlement;
//  2. private content is never visible to non-owners (admin surfaces bypass
//     this gate entirely through their own routes);
//  3. public content requires an active premium entitlement.
func Decide(userID uint, owner model.Owner, isPublic bool, isPremium bool) Decision {
	if owner.IsOwnedBy(userID) {
		return Allow
	}
	if !isPublic {
		return Deny(DenyNotOwner)
	}
	if isPremium {
		return Allow
	}
	return Deny(DenyPremiumRequired)
}

// DecideContent is Decide for anything implementing Content
func DecideContent(userID uint, content Content, isPremium bool) Decision {
	return Decide(userID, content.ContentOwner(), content.ContentIsPublic(), isPremium)
}
