package models

import "fmt"

// DonationStatus is the lifecycle state of a donation.
type DonationStatus string

const (
	DonationOffered   DonationStatus = "Offered"
	DonationAccepted  DonationStatus = "Accepted"
	DonationInTransit DonationStatus = "InTransit"
	DonationDelivered DonationStatus = "Delivered"
	DonationRejected  DonationStatus = "Rejected"
)

// progress orders the forward path. Rejected sits outside it.
var progress = map[DonationStatus]int{
	DonationOffered:   0,
	DonationAccepted:  1,
	DonationInTransit: 2,
	DonationDelivered: 3,
}

func (s DonationStatus) Valid() bool {
	_, ok := progress[s]
	return ok || s == DonationRejected
}

// Terminal reports whether no further transition is possible.
func (s DonationStatus) Terminal() bool {
	return s == DonationDelivered || s == DonationRejected
}

// CanTransition reports whether a donation in status s may move to next.
// Steps on the forward path may be skipped; Rejected is reachable from any
// non-terminal status.
func (s DonationStatus) CanTransition(next DonationStatus) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() {
		return false
	}
	if next == DonationRejected {
		return true
	}
	return progress[next] > progress[s]
}

// ParseDonationStatus accepts a status name in any letter case.
func ParseDonationStatus(s string) (DonationStatus, error) {
	for _, st := range []DonationStatus{DonationOffered, DonationAccepted, DonationInTransit, DonationDelivered, DonationRejected} {
		if equalFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown donation status %q", s)
}
