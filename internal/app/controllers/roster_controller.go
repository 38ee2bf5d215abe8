package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/extracenter/backend/internal/app/models/dto"
	"github.com/extracenter/backend/internal/app/services"
	"github.com/extracenter/backend/internal/middleware"
)

// RosterController handles the cross-center roster endpoint
type RosterController struct {
	rosterService services.RosterService
}

// NewRosterController creates a new roster controller instance
func NewRosterController(rosterService services.RosterService) *RosterController {
	return &RosterController{rosterService: rosterService}
}

// GetRoster godoc
// @Summary Aggregate the caller's student roster
// @Description Returns the distinct students across every center the caller manages or teaches at, each annotated with the centers connecting them to the caller. Unreadable centers are reported as warnings instead of failing the request.
// @Tags roster
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RosterResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Router /roster [get]
func (c *RosterController) GetRoster(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	roster, err := c.rosterService.AggregateRoster(ctx, callerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: roster, Timestamp: time.Now()})
}
