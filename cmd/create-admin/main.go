package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"givemap/internal/auth"
	"givemap/internal/config"
	"givemap/internal/logger"
	"givemap/internal/models"
	"givemap/internal/notify"
	"givemap/internal/services"
)

func main() {
	var email, password, username string

	rootCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account, or promote an existing user to admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Setup(cfg.LogFile, cfg.LogLevel)

			db, err := config.InitDB(cfg)
			if err != nil {
				return err
			}
			return createAdmin(cmd.Context(), db, cfg, email, password, username)
		},
	}
	rootCmd.Flags().StringVar(&email, "email", "", "admin email (required)")
	rootCmd.Flags().StringVar(&password, "password", "", "password for a new account, at least 8 characters")
	rootCmd.Flags().StringVar(&username, "username", "", "display name")
	_ = rootCmd.MarkFlagRequired("email")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func createAdmin(ctx context.Context, db *gorm.DB, cfg config.Config, email, password, username string) error {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)
	authService := services.NewAuthService(db, tokens, notify.NewDispatcher(db, notify.LogMailer{}, 1), cfg.AppURL)
	users := services.NewUserService(db)

	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&existing).Error
	userID := existing.ID
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if len(password) < 8 {
			return fmt.Errorf("--password of at least 8 characters is required for a new account")
		}
		user, err := authService.Register(ctx, email, password, username)
		if err != nil {
			return err
		}
		userID = user.ID
	} else if err != nil {
		return err
	}

	role := models.RoleAdmin
	admin, err := users.UpdateUser(ctx, userID, services.UserUpdate{Role: &role})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": admin.ID, "email": admin.Email}).Info("admin ready")
	fmt.Printf("admin %s (id %d) ready\n", admin.Email, admin.ID)
	return nil
}
