package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"givemap/internal/models"
)

type NeedInput struct {
	Category    string
	Description string
	Quantity    int
}

func (s *LocationService) AddNeed(ctx context.Context, locationID uint, in NeedInput) (*models.Need, error) {
	need := models.Need{
		LocationID:  locationID,
		Category:    in.Category,
		Description: in.Description,
		Quantity:    in.Quantity,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Location{}, locationID).Error; err != nil {
			return notFound(err)
		}
		return tx.Create(&need).Error
	})
	if err != nil {
		return nil, err
	}
	return &need, nil
}

func (s *LocationService) ListNeeds(ctx context.Context, locationID uint) ([]models.Need, error) {
	var needs []models.Need
	if err := s.db.WithContext(ctx).Where("location_id = ?", locationID).Order("created_at, id").Find(&needs).Error; err != nil {
		return nil, fmt.Errorf("list needs: %w", err)
	}
	return needs, nil
}

// GetNeed loads a need that must belong to locationID.
func (s *LocationService) GetNeed(ctx context.Context, locationID, needID uint) (*models.Need, error) {
	var need models.Need
	err := s.db.WithContext(ctx).Where("id = ? AND location_id = ?", needID, locationID).First(&need).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &need, nil
}

func (s *LocationService) UpdateNeed(ctx context.Context, locationID, needID uint, in NeedInput) (*models.Need, error) {
	need, err := s.GetNeed(ctx, locationID, needID)
	if err != nil {
		return nil, err
	}
	need.Category = in.Category
	need.Description = in.Description
	need.Quantity = in.Quantity
	if err := s.db.WithContext(ctx).Select("category", "description", "quantity", "updated_at").Updates(need).Error; err != nil {
		return nil, fmt.Errorf("update need: %w", err)
	}
	return need, nil
}

// DeleteNeed removes the need and the donations offered against it.
func (s *LocationService) DeleteNeed(ctx context.Context, locationID, needID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND location_id = ?", needID, locationID).Limit(1).Find(&models.Need{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("need_id = ?", needID).Delete(&models.Donation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Need{}, needID).Error
	})
}
