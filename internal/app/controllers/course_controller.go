package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/app/models/dto"
	"github.com/extracenter/backend/internal/app/services"
	"github.com/extracenter/backend/internal/middleware"
	"github.com/extracenter/backend/internal/pkg/apperrors"
)

// CourseController handles course, invitation and enrollment endpoints
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new course controller instance
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// parseDate parses an optional YYYY-MM-DD request field
func parseDate(value *string, field string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", apperrors.ErrValidationFailed, field)
	}
	return &t, nil
}

// CreateCourse godoc
// @Summary Create a course
// @Description Creates a course under a center the caller manages. An optional teacher email either self-assigns or starts an invitation.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course data"
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(middleware.BindingErrorDetails(err))
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	startDate, err := parseDate(req.StartDate, "startDate")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	endDate, err := parseDate(req.EndDate, "endDate")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	course := &models.Course{
		CenterID:    req.CenterID,
		Name:        req.Name,
		Subject:     req.Subject,
		Grade:       req.Grade,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	id, err := c.courseService.CreateCourse(ctx, callerID, course, req.TeacherEmail)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	created, err := c.courseService.GetCourseByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: created, Timestamp: time.Now()})
}

// GetCourse godoc
// @Summary Get a course
// @Description Returns a single course with its assigned teacher
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourseByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: course, Timestamp: time.Now()})
}

// GetCoursesByCenter godoc
// @Summary List courses of a center
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param centerId path int true "Center ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/center/{centerId} [get]
func (c *CourseController) GetCoursesByCenter(ctx *gin.Context) {
	centerID, ok := parseIDParam(ctx, "centerId")
	if !ok {
		return
	}

	courses, err := c.courseService.GetCoursesByCenter(ctx, centerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: courses, Timestamp: time.Now()})
}

// GetCoursesByTeacher godoc
// @Summary List courses assigned to a teacher
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param teacherId path int true "Teacher ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Router /courses/teacher/{teacherId} [get]
func (c *CourseController) GetCoursesByTeacher(ctx *gin.Context) {
	teacherID, ok := parseIDParam(ctx, "teacherId")
	if !ok {
		return
	}

	courses, err := c.courseService.GetCoursesByTeacher(ctx, teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: courses, Timestamp: time.Now()})
}

// UpdateCourse godoc
// @Summary Update a course
// @Description Updates a course's descriptive fields and status. Center manager only.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Course fields"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(middleware.BindingErrorDetails(err))
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	startDate, err := parseDate(req.StartDate, "startDate")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	endDate, err := parseDate(req.EndDate, "endDate")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	course := &models.Course{
		ID:          id,
		Name:        req.Name,
		Subject:     req.Subject,
		Grade:       req.Grade,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
	}
	if req.Status != nil {
		course.Status = models.CourseStatus(*req.Status)
	}

	if err := c.courseService.UpdateCourse(ctx, callerID, course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := c.courseService.GetCourseByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: updated, Timestamp: time.Now()})
}

// DeleteCourse godoc
// @Summary Delete a course
// @Description Deletes a course that has no enrollments. Center manager only.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx, callerID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Course deleted successfully"},
		Timestamp: time.Now(),
	})
}

// InviteTeacher godoc
// @Summary Invite a teacher to a course
// @Description Starts or restarts the invitation handshake for an unassigned course. Center manager only.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param email query string true "Teacher login email"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id}/invite [post]
func (c *CourseController) InviteTeacher(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	email := ctx.Query("email")
	if email == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Missing email")
		errorDetail = errorDetail.WithDetails("email query parameter is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.courseService.InviteTeacher(ctx, callerID, id, email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Invitation sent"},
		Timestamp: time.Now(),
	})
}

// RespondToInvitation godoc
// @Summary Respond to a course invitation
// @Description Accepts or rejects a pending invitation. Invited teacher only.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param status query string true "ACCEPTED or REJECTED"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id}/respond [post]
func (c *CourseController) RespondToInvitation(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	decision := ctx.Query("status")
	if err := c.courseService.RespondToInvitation(ctx, callerID, id, decision); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Invitation " + decision},
		Timestamp: time.Now(),
	})
}

// GetPendingInvitations godoc
// @Summary List a teacher's pending invitations
// @Description Returns courses awaiting the teacher's decision. Own inbox only.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param teacherId path int true "Teacher ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Failure 403 {object} dto.ErrorResponse
// @Router /courses/invitations/{teacherId} [get]
func (c *CourseController) GetPendingInvitations(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	teacherID, ok := parseIDParam(ctx, "teacherId")
	if !ok {
		return
	}

	courses, err := c.courseService.ListPendingInvitations(ctx, callerID, teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: courses, Timestamp: time.Now()})
}

// EnrollStudent godoc
// @Summary Enroll a student in a course
// @Description Enrolls the student and connects them to the center if not yet a member. Center manager only.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param studentId query int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /courses/{id}/students [post]
func (c *CourseController) EnrollStudent(ctx *gin.Context) {
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

	if err := c.courseService.EnrollStudent(ctx, callerID, id, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Student enrolled"},
		Timestamp: time.Now(),
	})
}

// UnenrollStudent godoc
// @Summary Remove a student from a course
// @Description Removes the enrollment; the center membership is kept. Center manager only.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id}/students/{studentId} [delete]
func (c *CourseController) UnenrollStudent(ctx *gin.Context) {
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

	if err := c.courseService.UnenrollStudent(ctx, callerID, id, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Student unenrolled"},
		Timestamp: time.Now(),
	})
}

// GetCourseStudents godoc
// @Summary List students enrolled in a course
// @Description Available to the assigned teacher and the center manager
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.User}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id}/students [get]
func (c *CourseController) GetCourseStudents(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	students, err := c.courseService.ListCourseStudents(ctx, callerID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: students, Timestamp: time.Now()})
}
