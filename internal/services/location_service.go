package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"givemap/internal/auth"
	"givemap/internal/events"
	"givemap/internal/models"
	"givemap/internal/notify"
)

// LocationService manages locations together with their needs and the
// donations offered against them.
type LocationService struct {
	db     *gorm.DB
	events events.Publisher
	mail   *notify.Dispatcher
	now    func() time.Time
}

func NewLocationService(db *gorm.DB, publisher events.Publisher, mail *notify.Dispatcher) *LocationService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &LocationService{db: db, events: publisher, mail: mail, now: utcNow}
}

type LocationInput struct {
	Latitude    float64
	Longitude   float64
	Name        string
	Description string
	Category    string
	ImageURLs   []string
}

// LocationFilter narrows ListLocations. Empty fields do not filter; a
// zero Page returns every match.
type LocationFilter struct {
	Keyword  string
	Category string
	FromDate *time.Time
	Page     Page
}

func (s *LocationService) AddLocation(ctx context.Context, in LocationInput, ownerID uint) (*models.Location, error) {
	loc := models.Location{
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		ImageURLs:   in.ImageURLs,
		UserID:      ownerID,
	}
	if loc.ImageURLs == nil {
		loc.ImageURLs = []string{}
	}
	if err := s.db.WithContext(ctx).Create(&loc).Error; err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}

	logrus.WithFields(logrus.Fields{"location_id": loc.ID, "user_id": ownerID}).Info("location added")
	s.events.Publish(events.Event{Type: events.LocationCreated, LocationID: loc.ID, EntityID: loc.ID})
	return &loc, nil
}

// ListLocations returns matching locations newest first, plus the total
// number of matches before paging.
func (s *LocationService) ListLocations(ctx context.Context, f LocationFilter) ([]models.Location, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Location{})
	if f.Keyword != "" {
		q = q.Where("("+contains(s.db, "name")+" OR "+contains(s.db, "description")+")", f.Keyword, f.Keyword)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.FromDate != nil {
		q = q.Where("created_at >= ?", *f.FromDate)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count locations: %w", err)
	}

	q = q.Order("created_at DESC, id DESC")
	if f.Page != (Page{}) {
		q = f.Page.apply(q)
	}

	var locs []models.Location
	if err := q.Find(&locs).Error; err != nil {
		return nil, 0, fmt.Errorf("list locations: %w", err)
	}
	return locs, total, nil
}

// SearchLocations matches keyword against name, description and category.
func (s *LocationService) SearchLocations(ctx context.Context, keyword string) ([]models.Location, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, ErrKeywordRequired
	}

	var locs []models.Location
	err := s.db.WithContext(ctx).
		Where(contains(s.db, "name")+" OR "+contains(s.db, "description")+" OR "+contains(s.db, "category"),
			keyword, keyword, keyword).
		Order("created_at DESC, id DESC").
		Find(&locs).Error
	if err != nil {
		return nil, fmt.Errorf("search locations: %w", err)
	}
	return locs, nil
}

func (s *LocationService) GetLocationDetails(ctx context.Context, id uint) (*models.Location, error) {
	var loc models.Location
	if err := s.db.WithContext(ctx).Preload("User").First(&loc, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &loc, nil
}

// UpdateLocationDetails replaces description, category and images.
func (s *LocationService) UpdateLocationDetails(ctx context.Context, id uint, description, category string, imageURLs []string) (*models.Location, error) {
	var loc models.Location
	if err := s.db.WithContext(ctx).First(&loc, id).Error; err != nil {
		return nil, notFound(err)
	}

	if imageURLs == nil {
		imageURLs = []string{}
	}
	loc.Description = description
	loc.Category = category
	loc.ImageURLs = imageURLs
	loc.UpdatedAt = s.now()
	if err := s.db.WithContext(ctx).Select("description", "category", "image_urls", "updated_at").Updates(&loc).Error; err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}

	s.events.Publish(events.Event{Type: events.LocationUpdated, LocationID: loc.ID, EntityID: loc.ID})
	return &loc, nil
}

// AdminUpdateLocation is the moderator's edit: coordinates and name too.
func (s *LocationService) AdminUpdateLocation(ctx context.Context, id uint, in LocationInput) (*models.Location, error) {
	var loc models.Location
	if err := s.db.WithContext(ctx).First(&loc, id).Error; err != nil {
		return nil, notFound(err)
	}

	loc.Latitude = in.Latitude
	loc.Longitude = in.Longitude
	loc.Name = in.Name
	loc.Description = in.Description
	loc.Category = in.Category
	if in.ImageURLs != nil {
		loc.ImageURLs = in.ImageURLs
	}
	loc.UpdatedAt = s.now()
	err := s.db.WithContext(ctx).
		Select("latitude", "longitude", "name", "description", "category", "image_urls", "updated_at").
		Updates(&loc).Error
	if err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}

	s.events.Publish(events.Event{Type: events.LocationUpdated, LocationID: loc.ID, EntityID: loc.ID})
	return &loc, nil
}

// AddLocationImages appends urls to the location's images.
func (s *LocationService) AddLocationImages(ctx context.Context, id uint, urls []string) (*models.Location, error) {
	var loc models.Location
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&loc, id).Error; err != nil {
			return notFound(err)
		}
		loc.ImageURLs = append(loc.ImageURLs, urls...)
		loc.UpdatedAt = s.now()
		return tx.Select("image_urls", "updated_at").Updates(&loc).Error
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(events.Event{Type: events.LocationUpdated, LocationID: loc.ID, EntityID: loc.ID})
	return &loc, nil
}

// DeleteLocation removes the location with its needs, their donations and
// its feedback. Deleting an absent location is not an error; the result
// reports whether anything was removed.
func (s *LocationService) DeleteLocation(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Limit(1).Find(&models.Location{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := deleteLocationsCascade(tx, []uint{id}); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete location %d: %w", id, err)
	}

	if deleted {
		logrus.WithField("location_id", id).Info("location deleted")
		s.events.Publish(events.Event{Type: events.LocationDeleted, LocationID: id, EntityID: id})
	}
	return deleted, nil
}

// CheckOwner reports ErrForbidden unless the user created the location or
// holds the location moderation capability.
func (s *LocationService) CheckOwner(ctx context.Context, locationID, userID uint, role models.Role) error {
	var loc models.Location
	if err := s.db.WithContext(ctx).Select("id", "user_id").First(&loc, locationID).Error; err != nil {
		return notFound(err)
	}
	if loc.UserID == userID || auth.Can(role, auth.CapManageLocations) {
		return nil
	}
	return ErrForbidden
}

func deleteLocationsCascade(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	needIDs := tx.Model(&models.Need{}).Select("id").Where("location_id IN ?", ids)
	if err := tx.Where("need_id IN (?)", needIDs).Delete(&models.Donation{}).Error; err != nil {
		return err
	}
	if err := tx.Where("location_id IN ?", ids).Delete(&models.Need{}).Error; err != nil {
		return err
	}
	if err := tx.Where("location_id IN ?", ids).Delete(&models.LocationFeedback{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Location{}).Error
}
