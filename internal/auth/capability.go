package auth

import "givemap/internal/models"

// Capability names an action that requires more than a signed-in user.
type Capability string

const (
	CapManageUsers          Capability = "manage_users"
	CapManageLocations      Capability = "manage_locations"
	CapViewReports          Capability = "view_reports"
	CapUpdateDonationStatus Capability = "update_donation_status"
)

var roleCapabilities = map[models.Role]map[Capability]bool{
	models.RoleAdmin: {
		CapManageUsers:          true,
		CapManageLocations:      true,
		CapViewReports:          true,
		CapUpdateDonationStatus: true,
	},
	models.RoleUser: {},
}

func Can(role models.Role, c Capability) bool {
	return roleCapabilities[role][c]
}
