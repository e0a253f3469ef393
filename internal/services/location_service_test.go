package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"givemap/internal/events"
	"givemap/internal/models"
)

func TestAddAndGetLocation(t *testing.T) {
	env := setup(t)
	owner := env.user(t, "owner@b.com")

	loc := env.location(t, owner.ID, "Shelter A", "Flood shelter", "Shelter")

	got, err := env.locations.GetLocationDetails(context.Background(), loc.ID)
	require.NoError(t, err)
	assert.Equal(t, 16.0544, got.Latitude)
	assert.Equal(t, 108.2022, got.Longitude)
	assert.Equal(t, "Shelter A", got.Name)
	require.NotNil(t, got.User)
	assert.Equal(t, owner.ID, got.User.ID)
	assert.Equal(t, []string{}, got.ImageURLs)

	_, err = env.locations.GetLocationDetails(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []events.Type{events.LocationCreated}, env.events.types())
}

func TestListLocationsFilters(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	owner := env.user(t, "owner@b.com")

	env.location(t, owner.ID, "Shelter A", "beds", "Shelter")
	env.location(t, owner.ID, "Kitchen", "near the Shelter", "Food")
	env.location(t, owner.ID, "shelter b", "lowercase only", "Shelter")
	env.location(t, owner.ID, "Clinic", "first aid", "Medical")

	tests := []struct {
		name   string
		filter LocationFilter
		want   []string
	}{
		{"keyword is case sensitive", LocationFilter{Keyword: "Shelter"}, []string{"Kitchen", "Shelter A"}},
		{"category", LocationFilter{Category: "Shelter"}, []string{"shelter b", "Shelter A"}},
		{"keyword and category", LocationFilter{Keyword: "Shelter", Category: "Food"}, []string{"Kitchen"}},
		{"no filter", LocationFilter{}, []string{"Clinic", "shelter b", "Kitchen", "Shelter A"}},
		{"paged", LocationFilter{Page: Page{Page: 2, Limit: 3}}, []string{"Shelter A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locs, _, err := env.locations.ListLocations(ctx, tt.filter)
			require.NoError(t, err)
			var names []string
			for _, l := range locs {
				names = append(names, l.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}

	_, total, err := env.locations.ListLocations(ctx, LocationFilter{Page: Page{Page: 1, Limit: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestListLocationsFromDate(t *testing.T) {
	env := setup(t)
	owner := env.user(t, "owner@b.com")

	old := models.Location{Name: "Old", UserID: owner.ID, ImageURLs: []string{}, CreatedAt: time.Now().UTC().Add(-48 * time.Hour)}
	require.NoError(t, env.db.Create(&old).Error)
	env.location(t, owner.ID, "New", "", "")

	from := time.Now().UTC().Add(-time.Hour)
	locs, _, err := env.locations.ListLocations(context.Background(), LocationFilter{FromDate: &from})
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "New", locs[0].Name)
}

func TestSearchLocations(t *testing.T) {
	env := setup(t)
	owner := env.user(t, "owner@b.com")
	env.location(t, owner.ID, "Depot", "storage", "Warehouse")
	env.location(t, owner.ID, "School", "classrooms", "Education")

	locs, err := env.locations.SearchLocations(context.Background(), "Ware")
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "Depot", locs[0].Name)

	_, err = env.locations.SearchLocations(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrKeywordRequired)
}

func TestUpdateLocationDetails(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	owner := env.user(t, "owner@b.com")
	loc := env.location(t, owner.ID, "Shelter A", "old", "Shelter")

	updated, err := env.locations.UpdateLocationDetails(ctx, loc.ID, "new description", "Food", []string{"/uploads/1/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "new description", updated.Description)

	got, err := env.locations.GetLocationDetails(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Category)
	assert.Equal(t, []string{"/uploads/1/a.png"}, got.ImageURLs)
	assert.Equal(t, "Shelter A", got.Name)

	withMore, err := env.locations.AddLocationImages(ctx, loc.ID, []string{"/uploads/1/b.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/1/a.png", "/uploads/1/b.png"}, withMore.ImageURLs)

	_, err = env.locations.UpdateLocationDetails(ctx, 999, "x", "y", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteLocationCascades(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	owner := env.user(t, "owner@b.com")
	donor := env.user(t, "donor@b.com")
	loc := env.location(t, owner.ID, "Shelter A", "", "Shelter")
	keep := env.location(t, owner.ID, "Other", "", "Shelter")

	need, err := env.locations.AddNeed(ctx, loc.ID, NeedInput{Category: "Water", Quantity: 10})
	require.NoError(t, err)
	_, err = env.locations.OfferDonation(ctx, donor.ID, need.ID, DonationInput{Description: "bottles", Quantity: 4})
	require.NoError(t, err)
	_, err = env.feedback.AddFeedback(ctx, loc.ID, donor.ID, "ok", 4)
	require.NoError(t, err)
	_, err = env.feedback.AddFeedback(ctx, keep.ID, donor.ID, "ok", 4)
	require.NoError(t, err)

	deleted, err := env.locations.DeleteLocation(ctx, loc.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	for model, want := range map[interface{}]int64{
		&models.Location{}:         1,
		&models.Need{}:             0,
		&models.Donation{}:         0,
		&models.LocationFeedback{}: 1,
	} {
		var count int64
		require.NoError(t, env.db.Model(model).Count(&count).Error)
		assert.Equal(t, want, count, "%T", model)
	}
}

func TestDeleteMissingLocationTwice(t *testing.T) {
	env := setup(t)
	for i := 0; i < 2; i++ {
		deleted, err := env.locations.DeleteLocation(context.Background(), 12345)
		assert.NoError(t, err)
		assert.False(t, deleted)
	}
	assert.Empty(t, env.events.types())
}

func TestCheckOwner(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	owner := env.user(t, "owner@b.com")
	other := env.user(t, "other@b.com")
	loc := env.location(t, owner.ID, "Shelter A", "", "")

	assert.NoError(t, env.locations.CheckOwner(ctx, loc.ID, owner.ID, models.RoleUser))
	assert.ErrorIs(t, env.locations.CheckOwner(ctx, loc.ID, other.ID, models.RoleUser), ErrForbidden)
	assert.NoError(t, env.locations.CheckOwner(ctx, loc.ID, other.ID, models.RoleAdmin))
	assert.ErrorIs(t, env.locations.CheckOwner(ctx, 999, owner.ID, models.RoleAdmin), ErrNotFound)
}

func TestNeeds(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	owner := env.user(t, "owner@b.com")
	loc := env.location(t, owner.ID, "Shelter A", "", "")

	_, err := env.locations.AddNeed(ctx, 999, NeedInput{Category: "Water", Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	need, err := env.locations.AddNeed(ctx, loc.ID, NeedInput{Category: "Water", Description: "drinking", Quantity: 20})
	require.NoError(t, err)

	updated, err := env.locations.UpdateNeed(ctx, loc.ID, need.ID, NeedInput{Category: "Water", Description: "bottled", Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	needs, err := env.locations.ListNeeds(ctx, loc.ID)
	require.NoError(t, err)
	require.Len(t, needs, 1)
	assert.Equal(t, "bottled", needs[0].Description)

	_, err = env.locations.UpdateNeed(ctx, loc.ID+1, need.ID, NeedInput{Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, env.locations.DeleteNeed(ctx, loc.ID, need.ID))
	assert.ErrorIs(t, env.locations.DeleteNeed(ctx, loc.ID, need.ID), ErrNotFound)
}
