// Package policy decides whether a caller may read, write or delete a
// resource. Decisions depend only on the principal, never on entity content.
package policy

import "cemetery_api/internal/apperrors"

type Action string

const (
	Read   Action = "read"
	Write  Action = "write"
	Delete Action = "delete"
)

type Entity string

const (
	Users        Entity = "user"
	Plots        Entity = "plot"
	Reservations Entity = "reservation"
	Payments     Entity = "payment"
	DeceasedRecs Entity = "deceased"
	Accounts     Entity = "account"
)

// Principal is the authenticated caller. The zero value is anonymous.
type Principal struct {
	AccountID uint
	Username  string
	IsStaff   bool
}

// Authenticated reports whether the principal carries a verified account.
func (p Principal) Authenticated() bool { return p.AccountID != 0 }

// Authorize returns nil when the principal may perform action on entity,
// apperrors.ErrUnauthorized when it must authenticate first, and
// apperrors.ErrForbidden when its role is insufficient.
func Authorize(p Principal, e Entity, a Action) error {
	if e == Accounts {
		return requireStaff(p)
	}
	switch a {
	case Read:
		return nil
	case Write:
		if !p.Authenticated() {
			return apperrors.ErrUnauthorized
		}
		return nil
	default:
		return requireStaff(p)
	}
}

func requireStaff(p Principal) error {
	if !p.Authenticated() {
		return apperrors.ErrUnauthorized
	}
	if !p.IsStaff {
		return apperrors.ErrForbidden
	}
	return nil
}
