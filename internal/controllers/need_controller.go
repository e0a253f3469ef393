package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"givemap/internal/services"
)

type needInput struct {
	Category    string `json:"category" binding:"required,max=50"`
	Description string `json:"description" binding:"max=1000"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

func (in needInput) toService() services.NeedInput {
	return services.NeedInput{Category: in.Category, Description: in.Description, Quantity: in.Quantity}
}

func (lc *LocationController) ListNeeds(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	needs, err := lc.locations.ListNeeds(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, needs)
}

func (lc *LocationController) AddNeed(c *gin.Context) {
	id, ok := lc.ownedLocation(c)
	if !ok {
		return
	}
	var input needInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	need, err := lc.locations.AddNeed(c.Request.Context(), id, input.toService())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, need)
}

func (lc *LocationController) UpdateNeed(c *gin.Context) {
	id, ok := lc.ownedLocation(c)
	if !ok {
		return
	}
	needID, ok := paramID(c, "needId")
	if !ok {
		return
	}
	var input needInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	need, err := lc.locations.UpdateNeed(c.Request.Context(), id, needID, input.toService())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, need)
}

func (lc *LocationController) DeleteNeed(c *gin.Context) {
	id, ok := lc.ownedLocation(c)
	if !ok {
		return
	}
	needID, ok := paramID(c, "needId")
	if !ok {
		return
	}
	if err := lc.locations.DeleteNeed(c.Request.Context(), id, needID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
