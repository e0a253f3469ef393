package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"givemap/internal/middleware"
)

type feedbackInput struct {
	Comment string `json:"comment" binding:"max=1000"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
}

// ListFeedback returns the entries together with their average rating,
// which is null when there are none.
func (lc *LocationController) ListFeedback(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	list, err := lc.feedback.ListFeedback(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	avg, err := lc.feedback.AverageRating(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": list, "averageRating": avg})
}

func (lc *LocationController) AddFeedback(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input feedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	user, _ := middleware.CurrentUser(c)

	fb, err := lc.feedback.AddFeedback(c.Request.Context(), id, user.ID, input.Comment, input.Rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}
