package domain

import (
	"strings"
	"time"
)

// Viewer identifies the requester of a memorial page. ID is empty for
// anonymous visitors.
type Viewer struct {
	ID      string
	IsAdmin bool
}

// IsOwner reports whether the viewer is the owner of the given memorial.
func (v Viewer) IsOwner(m *Memorial) bool {
	return v.ID != "" && v.ID == m.OwnerID
}

// AccessStatus is the outcome of an access decision. A missing record is
// reported by the caller before the decision runs, so there is no not-found
// status here.
type AccessStatus string

const (
	AccessGranted     AccessStatus = "granted"
	AccessDeactivated AccessStatus = "deactivated"
	AccessRestricted  AccessStatus = "restricted"
)

// RestrictReason explains a restricted outcome
type RestrictReason string

const (
	ReasonPrivate RestrictReason = "private" // free tier or no plan
	ReasonExpired RestrictReason = "expired" // paid tier whose period lapsed
)

// AccessDecision is the result of evaluating a viewer against a memorial
type AccessDecision struct {
	Status AccessStatus
	Reason RestrictReason // set only when Status == AccessRestricted
}

// expiry date layouts accepted in plan_expiry, checked in order
var expiryLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// planExpired reports whether the memorial's plan period has lapsed.
// An empty value or the ETERNAL sentinel never expires. Anything else must
// parse as a date; an unparseable value counts as expired so that a
// corrupted field restricts access instead of granting it indefinitely.
func planExpired(expiry string, now time.Time) bool {
	expiry = strings.TrimSpace(expiry)
	if expiry == "" || strings.EqualFold(expiry, ExpiryNever) {
		return false
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, expiry); err == nil {
			return now.After(t)
		}
	}
	return true
}

// DecideAccess evaluates whether a viewer may see a memorial page.
// It is a pure function: no I/O, no clock reads, no side effects. View
// logging is the caller's job and happens only on a granted decision for a
// non-hidden page.
//
// The checks short-circuit in trust order: administrative deactivation
// overrides everything, then owner/admin access, then plan-based public
// gating.
func DecideAccess(m *Memorial, viewer Viewer, now time.Time) AccessDecision {
	// Hidden pages are visible to administrators only. Ownership and plan
	// cannot bypass moderation.
	if m.Visibility == VisibilityHidden && !viewer.IsAdmin {
		return AccessDecision{Status: AccessDeactivated}
	}

	isOwner := viewer.IsOwner(m)
	isExpired := planExpired(m.PlanExpiry, now)
	planActive := m.Plan.IsPaid() && !isExpired

	if viewer.IsAdmin || isOwner || m.OwnerAdmin || planActive {
		return AccessDecision{Status: AccessGranted}
	}

	if m.Plan.IsPaid() && isExpired {
		return AccessDecision{Status: AccessRestricted, Reason: ReasonExpired}
	}
	return AccessDecision{Status: AccessRestricted, Reason: ReasonPrivate}
}
