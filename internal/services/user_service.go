package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"givemap/internal/models"
)

// UserService holds the admin-side account operations.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UserUpdate carries the fields an admin may change. Nil means unchanged.
type UserUpdate struct {
	Email    *string
	Username *string
	Role     *models.Role
}

func (s *UserService) ListUsers(ctx context.Context, p Page) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var users []models.User
	if err := p.apply(s.db.WithContext(ctx).Order("id")).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, upd UserUpdate) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if email != user.Email {
			var count int64
			if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
				return nil, fmt.Errorf("check email: %w", err)
			}
			if count > 0 {
				return nil, ErrConflict
			}
			changes["email"] = email
		}
	}
	if upd.Username != nil {
		changes["username"] = strings.TrimSpace(*upd.Username)
	}
	if upd.Role != nil {
		if !upd.Role.Valid() {
			return nil, fmt.Errorf("unknown role %q", *upd.Role)
		}
		changes["role"] = *upd.Role
	}
	if len(changes) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(changes).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": id, "fields": len(changes)}).Info("user updated by admin")
	return s.GetUser(ctx, id)
}

// DeleteUser removes the account with its locations (and everything under
// them), donations and feedback. The result reports whether it existed.
func (s *UserService) DeleteUser(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Limit(1).Find(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var locationIDs []uint
		if err := tx.Model(&models.Location{}).Where("user_id = ?", id).Pluck("id", &locationIDs).Error; err != nil {
			return err
		}
		if err := deleteLocationsCascade(tx, locationIDs); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Donation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.LocationFeedback{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, id).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete user %d: %w", id, err)
	}
	if deleted {
		logrus.WithField("user_id", id).Info("user deleted")
	}
	return deleted, nil
}
