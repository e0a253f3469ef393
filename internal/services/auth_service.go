package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"givemap/internal/auth"
	"givemap/internal/models"
	"givemap/internal/notify"
)

const resetTokenTTL = time.Hour

type AuthService struct {
	db     *gorm.DB
	tokens *auth.TokenManager
	mail   *notify.Dispatcher
	appURL string
	now    func() time.Time
}

func NewAuthService(db *gorm.DB, tokens *auth.TokenManager, mail *notify.Dispatcher, appURL string) *AuthService {
	return &AuthService{db: db, tokens: tokens, mail: mail, appURL: appURL, now: utcNow}
}

// Register creates a regular user. Username falls back to the email.
func (s *AuthService) Register(ctx context.Context, email, password, username string) (*models.User, error) {
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)
	if username == "" {
		username = email
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrConflict
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Email: email, Username: username, Password: hash, Role: models.RoleUser}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("user registered")
	return &user, nil
}

// Authenticate checks the credentials and returns a signed access token.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, *models.User, error) {
	email = normalizeEmail(email)

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithField("email", email).Warn("login failed: unknown email")
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if !auth.CheckPassword(user.Password, password) {
		logrus.WithField("email", email).Warn("login failed: wrong password")
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(&user)
	if err != nil {
		return "", nil, err
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		return "", nil, fmt.Errorf("record login: %w", err)
	}
	user.LastLoginAt = &now

	return token, &user, nil
}

// RequestPasswordReset issues a reset token and queues the email carrying
// it. It reports false, without error, for an unknown email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithField("email", email).Info("password reset requested for unknown email")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}

	token, hash := auth.NewResetToken()
	expires := s.now().Add(resetTokenTTL)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"reset_token_hash":       hash,
			"reset_token_expires_at": expires,
		}).Error; err != nil {
			return err
		}
		return s.mail.Enqueue(tx, notify.PasswordResetMessage(s.appURL, user.Email, token))
	})
	if err != nil {
		return false, fmt.Errorf("store reset token: %w", err)
	}

	s.mail.Kick()
	return true, nil
}

// ResetPassword replaces the password when token is the live reset token
// for email. The token is consumed on success.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) (bool, error) {
	email = normalizeEmail(email)

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}

	if !auth.TokenMatches(user.ResetTokenHash, token) ||
		user.ResetTokenExpiresAt == nil || s.now().After(*user.ResetTokenExpiresAt) {
		logrus.WithField("user_id", user.ID).Warn("rejected password reset token")
		return false, nil
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	// Matching on the stored hash makes a concurrent second use a no-op.
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND reset_token_hash = ?", user.ID, user.ResetTokenHash).
		Updates(map[string]interface{}{
			"password":               hash,
			"reset_token_hash":       "",
			"reset_token_expires_at": nil,
		})
	if res.Error != nil {
		return false, fmt.Errorf("reset password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	logrus.WithField("user_id", user.ID).Info("password reset")
	return true, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// PurgeExpiredResetTokens clears reset tokens whose expiry has passed.
func (s *AuthService) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("reset_token_expires_at IS NOT NULL AND reset_token_expires_at < ?", s.now()).
		Updates(map[string]interface{}{"reset_token_hash": "", "reset_token_expires_at": nil})
	if res.Error != nil {
		return 0, fmt.Errorf("purge reset tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
