package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"givemap/internal/middleware"
	"givemap/internal/models"
	"givemap/internal/services"
	"givemap/internal/storage"
)

// AdminController serves the moderation and reporting area.
type AdminController struct {
	users     *services.UserService
	locations *services.LocationService
	reports   *services.ReportService
	images    *storage.ImageStore
}

func NewAdminController(users *services.UserService, locations *services.LocationService, reports *services.ReportService, images *storage.ImageStore) *AdminController {
	return &AdminController{users: users, locations: locations, reports: reports, images: images}
}

func (ac *AdminController) ListUsers(c *gin.Context) {
	p := page(c)
	users, total, err := ac.users.ListUsers(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total, "page": p.Page, "limit": p.Limit})
}

func (ac *AdminController) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := ac.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateUserInput struct {
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Username *string `json:"username" binding:"omitempty,max=100"`
	Role     *string `json:"role" binding:"omitempty,role"`
}

func (ac *AdminController) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input updateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	upd := services.UserUpdate{Email: input.Email, Username: input.Username}
	if input.Role != nil {
		role, _ := models.ParseRole(*input.Role)
		upd.Role = &role
	}
	user, err := ac.users.UpdateUser(c.Request.Context(), id, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser answers 204 whether or not the user existed.
func (ac *AdminController) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if admin, _ := middleware.CurrentUser(c); admin.ID == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "admins cannot delete their own account"})
		return
	}
	if _, err := ac.users.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ac *AdminController) ListLocations(c *gin.Context) {
	filter, err := locationFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter.Page = page(c)

	locs, total, err := ac.locations.ListLocations(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locs, "total": total, "page": filter.Page.Page, "limit": filter.Page.Limit})
}

func (ac *AdminController) GetLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	loc, err := ac.locations.GetLocationDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (ac *AdminController) CreateLocation(c *gin.Context) {
	var input addLocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	admin, _ := middleware.CurrentUser(c)

	loc, err := ac.locations.AddLocation(c.Request.Context(), input.toService(), admin.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}

func (ac *AdminController) UpdateLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input addLocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	loc, err := ac.locations.AdminUpdateLocation(c.Request.Context(), id, input.toService())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

// DeleteLocation answers 204 whether or not the location existed.
func (ac *AdminController) DeleteLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	deleted, err := ac.locations.DeleteLocation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if deleted {
		if err := ac.images.RemoveLocation(id); err != nil {
			logrus.WithError(err).WithField("location_id", id).Warn("failed to remove location images")
		}
	}
	c.Status(http.StatusNoContent)
}

func (ac *AdminController) UserActivityReport(c *gin.Context) {
	start, end, err := reportWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := ac.reports.UserActivity(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (ac *AdminController) LocationDataReport(c *gin.Context) {
	start, end, err := reportWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := ac.reports.LocationData(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
