package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"givemap/internal/models"
)

type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

// AddFeedback stores a rating and comment. A user may leave several.
func (s *FeedbackService) AddFeedback(ctx context.Context, locationID, userID uint, comment string, rating int) (*models.LocationFeedback, error) {
	fb := models.LocationFeedback{
		LocationID: locationID,
		UserID:     userID,
		Comment:    comment,
		Rating:     rating,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Location{}, locationID).Error; err != nil {
			return notFound(err)
		}
		return tx.Create(&fb).Error
	})
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

// ListFeedback returns a location's feedback newest first.
func (s *FeedbackService) ListFeedback(ctx context.Context, locationID uint) ([]models.LocationFeedback, error) {
	if err := s.db.WithContext(ctx).Select("id").First(&models.Location{}, locationID).Error; err != nil {
		return nil, notFound(err)
	}

	var list []models.LocationFeedback
	err := s.db.WithContext(ctx).Preload("User").
		Where("location_id = ?", locationID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return list, nil
}

// AverageRating is nil when the location has no feedback.
func (s *FeedbackService) AverageRating(ctx context.Context, locationID uint) (*float64, error) {
	var agg struct {
		Total int64
		Count int64
	}
	err := s.db.WithContext(ctx).Model(&models.LocationFeedback{}).
		Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS count").
		Where("location_id = ?", locationID).
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	if agg.Count == 0 {
		return nil, nil
	}
	avg := float64(agg.Total) / float64(agg.Count)
	return &avg, nil
}
