package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDonationStatusCanTransition(t *testing.T) {
	tests := []struct {
		from, to DonationStatus
		want     bool
	}{
		{DonationOffered, DonationAccepted, true},
		{DonationOffered, DonationDelivered, true},
		{DonationAccepted, DonationInTransit, true},
		{DonationInTransit, DonationDelivered, true},
		{DonationInTransit, DonationRejected, true},
		{DonationOffered, DonationRejected, true},
		{DonationAccepted, DonationOffered, false},
		{DonationDelivered, DonationRejected, false},
		{DonationRejected, DonationAccepted, false},
		{DonationDelivered, DonationDelivered, false},
		{DonationOffered, DonationStatus("Lost"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestParseDonationStatus(t *testing.T) {
	s, err := ParseDonationStatus(" intransit ")
	assert.NoError(t, err)
	assert.Equal(t, DonationInTransit, s)

	_, err = ParseDonationStatus("Shipped")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)
	assert.True(t, r.Valid())

	_, err = ParseRole("driver")
	assert.Error(t, err)
	assert.False(t, Role("driver").Valid())
}
