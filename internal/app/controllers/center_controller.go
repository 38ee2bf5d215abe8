package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/app/models/dto"
	"github.com/extracenter/backend/internal/app/services"
	"github.com/extracenter/backend/internal/middleware"
)

// CenterController handles center and center-membership endpoints
type CenterController struct {
	centerService     services.CenterService
	membershipService services.MembershipService
}

// NewCenterController creates a new center controller instance
func NewCenterController(centerService services.CenterService, membershipService services.MembershipService) *CenterController {
	return &CenterController{
		centerService:     centerService,
		membershipService: membershipService,
	}
}

// CreateCenter godoc
// @Summary Create a center
// @Description Creates a center managed by the authenticated teacher
// @Tags centers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCenterRequest true "Center data"
// @Success 201 {object} dto.APIResponse{data=models.Center}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /centers [post]
func (c *CenterController) CreateCenter(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateCenterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(middleware.BindingErrorDetails(err))
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	center := &models.Center{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Description: req.Description,
	}

	id, err := c.centerService.CreateCenter(ctx, callerID, center)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	center.ID = id

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: center, Timestamp: time.Now()})
}

// GetCenter godoc
// @Summary Get a center
// @Description Returns a single center with its manager
// @Tags centers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Center ID"
// @Success 200 {object} dto.APIResponse{data=models.Center}
// @Failure 404 {object} dto.ErrorResponse
// @Router /centers/{id} [get]
func (c *CenterController) GetCenter(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	center, err := c.centerService.GetCenterByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: center, Timestamp: time.Now()})
}

// GetAllCenters godoc
// @Summary List all centers
// @Tags centers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Center}
// @Router /centers [get]
func (c *CenterController) GetAllCenters(ctx *gin.Context) {
	centers, err := c.centerService.GetAllCenters(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: centers, Timestamp: time.Now()})
}

// GetManagedCenters godoc
// @Summary List centers managed by a teacher
// @Tags centers
// @Produce json
// @Security BearerAuth
// @Param teacherId path int true "Teacher ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Center}
// @Router /centers/manager/{teacherId} [get]
func (c *CenterController) GetManagedCenters(ctx *gin.Context) {
	teacherID, ok := parseIDParam(ctx, "teacherId")
	if !ok {
		return
	}

	centers, err := c.centerService.GetCentersByManager(ctx, teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: centers, Timestamp: time.Now()})
}

// GetTeachingCenters godoc
// @Summary List centers a teacher teaches at without managing
// @Tags centers
// @Produce json
// @Security BearerAuth
// @Param teacherId path int true "Teacher ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Center}
// @Router /centers/teaching/{teacherId} [get]
func (c *CenterController) GetTeachingCenters(ctx *gin.Context) {
	teacherID, ok := parseIDParam(ctx, "teacherId")
	if !ok {
		return
	}

	centers, err := c.centerService.GetTeachingCenters(ctx, teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: centers, Timestamp: time.Now()})
}

// GetCenterTeachers godoc
// @Summary List teachers of a center's courses
// @Description Available to the center manager and teachers teaching at the center
// @Tags centers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Center ID"
// @Success 200 {object} dto.APIResponse{data=[]models.User}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /centers/{id}/teachers [get]
func (c *CenterController) GetCenterTeachers(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	teachers, err := c.centerService.GetCenterTeachers(ctx, callerID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: teachers, Timestamp: time.Now()})
}

// UpdateCenter godoc
// @Summary Update a center
// @Description Updates a center's descriptive fields. Manager only.
// @Tags centers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Center ID"
// @Param request body dto.UpdateCenterRequest true "Center fields"
// @Success 200 {object} dto.APIResponse{data=models.Center}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /centers/{id} [put]
func (c *CenterController) UpdateCenter(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCenterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(middleware.BindingErrorDetails(err))
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	center := &models.Center{
		ID:          id,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Description: req.Description,
	}

	if err := c.centerService.UpdateCenter(ctx, callerID, center); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: center, Timestamp: time.Now()})
}

// DeleteCenter godoc
// @Summary Delete a center
// @Description Deletes a center that has no courses. Manager only.
// @Tags centers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Center ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /centers/{id} [delete]
func (c *CenterController) DeleteCenter(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.centerService.DeleteCenter(ctx, callerID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Center deleted successfully"},
		Timestamp: time.Now(),
	})
}

// AssignStudent godoc
// @Summary Connect a student to a center
// @Description Adds an existing student to the center's member list. Manager only.
// @Tags centers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Center ID"
// @Param studentId query int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /centers/{id}/students [post]
func (c *CenterController) AssignStudent(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	studentID, ok := parseIDQuery(ctx, "studentId")
	if !ok {
		return
	}

	if err := c.membershipService.AssignStudent(ctx, callerID, id, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Student connected to center"},
		Timestamp: time.Now(),
	})
}

// RemoveStudent godoc
// @Summary Disconnect a student from a center
// @Description Removes the student from the center's member list. Manager only.
// @Tags centers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Center ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /centers/{id}/students/{studentId} [delete]
func (c *CenterController) RemoveStudent(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	if err := c.membershipService.RemoveStudent(ctx, callerID, id, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Student disconnected from center"},
		Timestamp: time.Now(),
	})
}

// GetCenterStudents godoc
// @Summary List students connected to a center
// @Description Available to the center manager and teachers teaching at the center
// @Tags centers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Center ID"
// @Success 200 {object} dto.APIResponse{data=[]models.User}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /centers/{id}/students [get]
func (c *CenterController) GetCenterStudents(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	students, err := c.membershipService.ListStudents(ctx, callerID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: students, Timestamp: time.Now()})
}
