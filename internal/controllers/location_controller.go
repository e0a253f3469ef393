package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"givemap/internal/middleware"
	"givemap/internal/services"
	"givemap/internal/storage"
)

type LocationController struct {
	locations *services.LocationService
	feedback  *services.FeedbackService
	images    *storage.ImageStore
}

func NewLocationController(locations *services.LocationService, feedback *services.FeedbackService, images *storage.ImageStore) *LocationController {
	return &LocationController{locations: locations, feedback: feedback, images: images}
}

type addLocationInput struct {
	Latitude    *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description" binding:"required,max=1000"`
	Category    string   `json:"category" binding:"required,max=50"`
	ImageURLs   []string `json:"imageUrls" binding:"omitempty,max=20,dive,max=500"`
}

func (in addLocationInput) toService() services.LocationInput {
	return services.LocationInput{
		Latitude:    *in.Latitude,
		Longitude:   *in.Longitude,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		ImageURLs:   in.ImageURLs,
	}
}

// updateLocationInput replaces all three fields. An empty imageUrls list
// clears the images; a missing one is rejected.
type updateLocationInput struct {
	Description string   `json:"description" binding:"required,max=1000"`
	Category    string   `json:"category" binding:"required,max=50"`
	ImageURLs   []string `json:"imageUrls" binding:"required,max=20,dive,max=500"`
}

func (lc *LocationController) List(c *gin.Context) {
	filter, err := locationFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	locs, _, err := lc.locations.ListLocations(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, locs)
}

func (lc *LocationController) Search(c *gin.Context) {
	locs, err := lc.locations.SearchLocations(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, locs)
}

func (lc *LocationController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	loc, err := lc.locations.GetLocationDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (lc *LocationController) Create(c *gin.Context) {
	var input addLocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	user, _ := middleware.CurrentUser(c)

	loc, err := lc.locations.AddLocation(c.Request.Context(), input.toService(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}

// Update is allowed for the creator and for moderators.
func (lc *LocationController) Update(c *gin.Context) {
	id, ok := lc.ownedLocation(c)
	if !ok {
		return
	}
	var input updateLocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	loc, err := lc.locations.UpdateLocationDetails(c.Request.Context(), id, input.Description, input.Category, input.ImageURLs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

// UploadImages stores multipart "images" files and appends their URLs.
func (lc *LocationController) UploadImages(c *gin.Context) {
	id, ok := lc.ownedLocation(c)
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected multipart form with images"})
		return
	}

	urls, err := lc.images.SaveLocationImages(id, form.File["images"])
	if err != nil {
		respondError(c, err)
		return
	}
	loc, err := lc.locations.AddLocationImages(c.Request.Context(), id, urls)
	if err != nil {
		respondError(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{"location_id": id, "count": len(urls)}).Info("location images uploaded")
	c.JSON(http.StatusOK, loc)
}

// ownedLocation reads :id and checks the caller may modify it, answering
// the request itself when not.
func (lc *LocationController) ownedLocation(c *gin.Context) (uint, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return 0, false
	}
	user, _ := middleware.CurrentUser(c)
	if err := lc.locations.CheckOwner(c.Request.Context(), id, user.ID, user.Role); err != nil {
		respondError(c, err)
		return 0, false
	}
	return id, true
}
