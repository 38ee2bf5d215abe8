package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/extracenter/backend/internal/app/models/dto"
	"github.com/extracenter/backend/internal/app/services"
	"github.com/extracenter/backend/internal/middleware"
)

// AttendanceController handles class slot, attendance and schedule endpoints
type AttendanceController struct {
	attendanceService services.AttendanceService
}

// NewAttendanceController creates a new attendance controller instance
func NewAttendanceController(attendanceService services.AttendanceService) *AttendanceController {
	return &AttendanceController{attendanceService: attendanceService}
}

// CreateClassSlot godoc
// @Summary Add a weekly class slot to a course
// @Description Creates a recurring weekly time slot for a course. Center manager only.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.CreateClassSlotRequest true "Slot data"
// @Success 201 {object} dto.APIResponse{data=models.ClassSlot}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id}/slots [post]
func (c *AttendanceController) CreateClassSlot(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateClassSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(middleware.BindingErrorDetails(err))
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	slot, err := c.attendanceService.CreateClassSlot(ctx, callerID, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: slot, Timestamp: time.Now()})
}

// GetCourseSlots godoc
// @Summary List the weekly class slots of a course
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ClassSlot}
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id}/slots [get]
func (c *AttendanceController) GetCourseSlots(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	slots, err := c.attendanceService.ListCourseSlots(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: slots, Timestamp: time.Now()})
}

// DeleteClassSlot godoc
// @Summary Remove a weekly class slot
// @Description Deletes a class slot and its attendance marks. Center manager only.
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param slotId path int true "Slot ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id}/slots/{slotId} [delete]
func (c *AttendanceController) DeleteClassSlot(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	slotID, ok := parseIDParam(ctx, "slotId")
	if !ok {
		return
	}

	if err := c.attendanceService.DeleteClassSlot(ctx, callerID, slotID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Class slot deleted successfully"},
		Timestamp: time.Now(),
	})
}

// MarkAttendance godoc
// @Summary Save the attendance sheet of a dated slot occurrence
// @Description Marks presence for enrolled students. The course's assigned teacher or its center manager only; re-submitting updates the marks.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MarkAttendanceRequest true "Attendance sheet"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /attendance [post]
func (c *AttendanceController) MarkAttendance(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.MarkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(middleware.BindingErrorDetails(err))
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.attendanceService.MarkAttendance(ctx, callerID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Attendance saved successfully"},
		Timestamp: time.Now(),
	})
}

// GetAttendance godoc
// @Summary View the attendance sheet of a dated slot occurrence
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param slotId query int true "Class slot ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]models.AttendanceEntry}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /attendance [get]
func (c *AttendanceController) GetAttendance(ctx *gin.Context) {
	callerID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	slotID, ok := parseIDQuery(ctx, "slotId")
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", ctx.Query("date"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid date")
		errorDetail = errorDetail.WithDetails("date must be YYYY-MM-DD")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	sheet, err := c.attendanceService.GetAttendanceSheet(ctx, callerID, slotID, date)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: sheet, Timestamp: time.Now()})
}

// GetTeacherSchedule godoc
// @Summary Weekly schedule of a teacher's assigned courses
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param teacherId path int true "Teacher ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduleEntry}
// @Failure 400 {object} dto.ErrorResponse
// @Router /schedule/teacher/{teacherId} [get]
func (c *AttendanceController) GetTeacherSchedule(ctx *gin.Context) {
	teacherID, ok := parseIDParam(ctx, "teacherId")
	if !ok {
		return
	}

	schedule, err := c.attendanceService.TeacherSchedule(ctx, teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: schedule, Timestamp: time.Now()})
}

// GetStudentSchedule godoc
// @Summary Weekly schedule of a student's enrolled courses
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduleEntry}
// @Failure 400 {object} dto.ErrorResponse
// @Router /schedule/student/{studentId} [get]
func (c *AttendanceController) GetStudentSchedule(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	schedule, err := c.attendanceService.StudentSchedule(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: schedule, Timestamp: time.Now()})
}
