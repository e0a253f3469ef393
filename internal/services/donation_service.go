package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"givemap/internal/events"
	"givemap/internal/models"
	"givemap/internal/notify"
)

type DonationInput struct {
	Description string
	Quantity    int
	Condition   string
	ContactInfo string
}

// OfferDonation records a new donation in status Offered.
func (s *LocationService) OfferDonation(ctx context.Context, userID, needID uint, in DonationInput) (*models.Donation, error) {
	var need models.Need
	donation := models.Donation{
		UserID:      userID,
		NeedID:      needID,
		Description: in.Description,
		Quantity:    in.Quantity,
		Condition:   in.Condition,
		ContactInfo: in.ContactInfo,
		Status:      models.DonationOffered,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&need, needID).Error; err != nil {
			return notFound(err)
		}
		return tx.Create(&donation).Error
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"donation_id": donation.ID, "need_id": needID, "user_id": userID}).Info("donation offered")
	s.events.Publish(events.Event{
		Type:       events.DonationOffered,
		LocationID: need.LocationID,
		EntityID:   donation.ID,
		Status:     string(donation.Status),
	})
	return &donation, nil
}

// DonationsForNeed lists a need's donations with their donors.
func (s *LocationService) DonationsForNeed(ctx context.Context, needID uint) ([]models.Donation, error) {
	var need models.Need
	if err := s.db.WithContext(ctx).Select("id").First(&need, needID).Error; err != nil {
		return nil, notFound(err)
	}

	var donations []models.Donation
	err := s.db.WithContext(ctx).Preload("User").
		Where("need_id = ?", needID).
		Order("created_at DESC, id DESC").
		Find(&donations).Error
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return donations, nil
}

// UserDonations lists the donations a user offered, newest first, with the
// need and its location.
func (s *LocationService) UserDonations(ctx context.Context, userID uint) ([]models.Donation, error) {
	var donations []models.Donation
	err := s.db.WithContext(ctx).Preload("Need.Location").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&donations).Error
	if err != nil {
		return nil, fmt.Errorf("list user donations: %w", err)
	}
	return donations, nil
}

// UpdateDonationStatus moves a donation to status and queues a notification
// for the donor in the same transaction. Setting the current status again
// changes nothing and sends nothing.
func (s *LocationService) UpdateDonationStatus(ctx context.Context, donationID uint, status models.DonationStatus) (*models.Donation, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, status)
	}

	var donation models.Donation
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").Preload("Need").First(&donation, donationID).Error; err != nil {
			return notFound(err)
		}
		if donation.Status == status {
			return nil
		}
		if !donation.Status.CanTransition(status) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, donation.Status, status)
		}

		donation.Status = status
		donation.UpdatedAt = s.now()
		if err := tx.Model(&models.Donation{ID: donation.ID}).Updates(map[string]interface{}{
			"status":     status,
			"updated_at": donation.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		changed = true

		if donation.User == nil {
			return nil
		}
		return s.mail.Enqueue(tx, notify.DonationStatusMessage(donation.User.Email, &donation))
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return &donation, nil
	}

	s.mail.Kick()
	logrus.WithFields(logrus.Fields{"donation_id": donation.ID, "status": status}).Info("donation status updated")

	var locationID uint
	if donation.Need != nil {
		locationID = donation.Need.LocationID
	}
	s.events.Publish(events.Event{
		Type:       events.DonationStatusChanged,
		LocationID: locationID,
		EntityID:   donation.ID,
		Status:     string(status),
	})
	return &donation, nil
}
