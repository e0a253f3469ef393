package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"givemap/internal/middleware"
	"givemap/internal/models"
	"givemap/internal/services"
)

type donationInput struct {
	Description string `json:"description" binding:"required,max=1000"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	Condition   string `json:"condition" binding:"max=100"`
	ContactInfo string `json:"contactInfo" binding:"max=255"`
}

type donationStatusInput struct {
	NewStatus string `json:"newStatus" binding:"required,donation_status"`
}

func (lc *LocationController) OfferDonation(c *gin.Context) {
	needID, ok := paramID(c, "needId")
	if !ok {
		return
	}
	var input donationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	user, _ := middleware.CurrentUser(c)

	donation, err := lc.locations.OfferDonation(c.Request.Context(), user.ID, needID, services.DonationInput{
		Description: input.Description,
		Quantity:    input.Quantity,
		Condition:   input.Condition,
		ContactInfo: input.ContactInfo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, donation)
}

func (lc *LocationController) DonationsForNeed(c *gin.Context) {
	needID, ok := paramID(c, "needId")
	if !ok {
		return
	}
	donations, err := lc.locations.DonationsForNeed(c.Request.Context(), needID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, donations)
}

func (lc *LocationController) UserDonations(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	donations, err := lc.locations.UserDonations(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, donations)
}

func (lc *LocationController) UpdateDonationStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input donationStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	status, _ := models.ParseDonationStatus(input.NewStatus)

	donation, err := lc.locations.UpdateDonationStatus(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, donation)
}
