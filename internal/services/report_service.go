package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"givemap/internal/cache"
	"givemap/internal/models"
)

const reportTTL = time.Minute

type UserActivityReport struct {
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	TotalUsers  int64     `json:"totalUsers"`
	NewUsers    int64     `json:"newUsers"`
	ActiveUsers int64     `json:"activeUsers"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type LocationDataReport struct {
	StartDate           time.Time       `json:"startDate"`
	EndDate             time.Time       `json:"endDate"`
	TotalLocations      int64           `json:"totalLocations"`
	NewLocations        int64           `json:"newLocations"`
	LocationsByCategory []CategoryCount `json:"locationsByCategory"`
}

// ReportService computes admin statistics over an inclusive time window.
// Results are cached briefly when a cache is configured.
type ReportService struct {
	db    *gorm.DB
	cache *cache.Store
}

func NewReportService(db *gorm.DB, store *cache.Store) *ReportService {
	return &ReportService{db: db, cache: store}
}

func (s *ReportService) UserActivity(ctx context.Context, start, end time.Time) (*UserActivityReport, error) {
	if start.After(end) {
		return nil, ErrInvalidWindow
	}
	report, err := cache.GetOrSet(ctx, s.cache, reportKey("user-activity", start, end), reportTTL, func() (UserActivityReport, error) {
		r := UserActivityReport{StartDate: start, EndDate: end}
		users := func() *gorm.DB { return s.db.WithContext(ctx).Model(&models.User{}) }
		if err := users().Count(&r.TotalUsers).Error; err != nil {
			return r, err
		}
		if err := users().Where("created_at BETWEEN ? AND ?", start, end).Count(&r.NewUsers).Error; err != nil {
			return r, err
		}
		err := users().Where("last_login_at BETWEEN ? AND ?", start, end).Count(&r.ActiveUsers).Error
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("user activity report: %w", err)
	}
	return &report, nil
}

func (s *ReportService) LocationData(ctx context.Context, start, end time.Time) (*LocationDataReport, error) {
	if start.After(end) {
		return nil, ErrInvalidWindow
	}
	report, err := cache.GetOrSet(ctx, s.cache, reportKey("location-data", start, end), reportTTL, func() (LocationDataReport, error) {
		r := LocationDataReport{StartDate: start, EndDate: end, LocationsByCategory: []CategoryCount{}}
		if err := s.db.WithContext(ctx).Model(&models.Location{}).Count(&r.TotalLocations).Error; err != nil {
			return r, err
		}
		err := s.db.WithContext(ctx).Model(&models.Location{}).
			Where("created_at BETWEEN ? AND ?", start, end).
			Count(&r.NewLocations).Error
		if err != nil {
			return r, err
		}
		err = s.db.WithContext(ctx).Model(&models.Location{}).
			Select("category, COUNT(*) AS count").
			Where("created_at BETWEEN ? AND ?", start, end).
			Group("category").
			Order("category").
			Scan(&r.LocationsByCategory).Error
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("location data report: %w", err)
	}
	return &report, nil
}

func reportKey(kind string, start, end time.Time) string {
	return fmt.Sprintf("report:%s:%d:%d", kind, start.UnixNano(), end.UnixNano())
}
