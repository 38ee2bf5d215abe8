package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/extracenter/backend/internal/app/models/dto"
	"github.com/extracenter/backend/internal/app/services"
	"github.com/extracenter/backend/internal/middleware"
)

// UserController handles student management and admin oversight endpoints
type UserController struct {
	userService      services.UserService
	oversightService services.OversightService
}

// NewUserController creates a new user controller instance
func NewUserController(userService services.UserService, oversightService services.OversightService) *UserController {
	return &UserController{
		userService:      userService,
		oversightService: oversightService,
	}
}

// CreateStudent godoc
// @Summary Create a student account
// @Description Creates an enabled student account with a generated login email. Teachers and admins only.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student data"
// @Success 201 {object} dto.APIResponse{data=models.User}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /users/students [post]
func (c *UserController) CreateStudent(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(middleware.BindingErrorDetails(err))
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.userService.CreateStudent(ctx, callerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: student, Timestamp: time.Now()})
}

// UpdateStudent godoc
// @Summary Update a student account
// @Description Updates a student's profile fields. Teachers and admins only.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Student fields"
// @Success 200 {object} dto.APIResponse{data=models.User}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/students/{id} [put]
func (c *UserController) UpdateStudent(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(middleware.BindingErrorDetails(err))
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.userService.UpdateStudent(ctx, callerID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: student, Timestamp: time.Now()})
}

// SearchStudents godoc
// @Summary Search student accounts
// @Description Searches students by name, email or phone number
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param keyword query string true "Search keyword"
// @Success 200 {object} dto.APIResponse{data=[]models.User}
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/students [get]
func (c *UserController) SearchStudents(ctx *gin.Context) {
	students, err := c.userService.SearchStudents(ctx, ctx.Query("keyword"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: students, Timestamp: time.Now()})
}

// DeleteUser godoc
// @Summary Delete a user account
// @Description Permanently removes an account. Admin only; fails while the user still manages centers or teaches courses.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx, callerID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "User deleted successfully"},
		Timestamp: time.Now(),
	})
}

// GetAllUsers godoc
// @Summary List all user accounts
// @Description Returns every account in the system. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.User}
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/users [get]
func (c *UserController) GetAllUsers(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	users, err := c.userService.GetAllUsers(ctx, callerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: users, Timestamp: time.Now()})
}

// ToggleUserLock godoc
// @Summary Toggle a user's lock flag
// @Description Flips the lock state of the target account. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param targetUserId query int true "Target user ID"
// @Success 200 {object} dto.APIResponse{data=dto.LockResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/lock [post]
func (c *UserController) ToggleUserLock(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	targetID, ok := parseIDQuery(ctx, "targetUserId")
	if !ok {
		return
	}

	result, err := c.oversightService.ToggleUserLock(ctx, callerID, targetID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result, Timestamp: time.Now()})
}

// GetUserStats godoc
// @Summary Activity statistics for a user
// @Description Returns center, course and student counts for a teacher or student. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param targetUserId query int true "Target user ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserStatsResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/stats [get]
func (c *UserController) GetUserStats(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	targetID, ok := parseIDQuery(ctx, "targetUserId")
	if !ok {
		return
	}

	stats, err := c.oversightService.ComputeStats(ctx, callerID, targetID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: stats, Timestamp: time.Now()})
}
