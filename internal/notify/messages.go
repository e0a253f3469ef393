package notify

import (
	"fmt"
	"net/url"

	"givemap/internal/models"
)

func PasswordResetMessage(appURL, email, token string) Message {
	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		appURL, url.QueryEscape(token), url.QueryEscape(email))
	return Message{
		To:      email,
		Subject: "Reset your GiveMap password",
		Body: "We received a request to reset your password.\n\n" +
			"Open the link below within one hour to choose a new one:\n" + link +
			"\n\nIf you did not ask for this you can ignore this email.",
		Kind: models.EmailPasswordReset,
	}
}

func DonationStatusMessage(email string, donation *models.Donation) Message {
	return Message{
		To:      email,
		Subject: "Your donation status has been updated",
		Body: fmt.Sprintf("Your donation #%d (%s, quantity %d) is now %s.\n\nThank you for helping.",
			donation.ID, donation.Description, donation.Quantity, donation.Status),
		Kind: models.EmailDonationStatus,
	}
}
