package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"givemap/internal/config"
	"givemap/internal/models"
)

func TestCreateAdmin(t *testing.T) {
	db, err := config.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	cfg := config.Config{JWTSecret: "s", JWTIssuer: "i", JWTAudience: "a", AppURL: "http://app"}
	ctx := context.Background()

	assert.Error(t, createAdmin(ctx, db, cfg, "root@b.com", "short", ""))

	require.NoError(t, createAdmin(ctx, db, cfg, "Root@b.com", "longenough", "root"))
	var u models.User
	require.NoError(t, db.Where("email = ?", "root@b.com").First(&u).Error)
	assert.Equal(t, models.RoleAdmin, u.Role)

	// promoting an existing account needs no password
	require.NoError(t, db.Model(&u).Update("role", models.RoleUser).Error)
	require.NoError(t, createAdmin(ctx, db, cfg, "root@b.com", "", ""))
	require.NoError(t, db.First(&u, u.ID).Error)
	assert.Equal(t, models.RoleAdmin, u.Role)
}
