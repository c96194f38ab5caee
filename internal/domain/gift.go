package domain

import "github.com/google/uuid"

// giftTransitions lists every allowed status change. received and cancelled are terminal.
var giftTransitions = map[string][]string{
	GiftStatusPending:  {GiftStatusApproved, GiftStatusCancelled},
	GiftStatusApproved: {GiftStatusSent, GiftStatusCancelled},
	GiftStatusSent:     {GiftStatusReceived},
}

var GiftStatuses = []string{GiftStatusPending, GiftStatusApproved, GiftStatusSent, GiftStatusReceived, GiftStatusCancelled}

func ValidGiftStatus(s string) bool { return contains(GiftStatuses, s) }

// CanTransitionGift reports whether a gift may move from one status to another.
func CanTransitionGift(from, to string) bool {
	return contains(giftTransitions[from], to)
}

func IsTerminalGiftStatus(s string) bool {
	return s == GiftStatusReceived || s == GiftStatusCancelled
}

// Actor is the authenticated profile performing an operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
