package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/extracenter/backend/internal/app/auth"
	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/app/models/dto"
	"github.com/extracenter/backend/internal/pkg/apperrors"
	"github.com/extracenter/backend/internal/pkg/logger"
)

// AttendanceService manages weekly class slots, attendance sheets and
// schedule views.
type AttendanceService interface {
	CreateClassSlot(ctx context.Context, callerID, courseID int64, req *dto.CreateClassSlotRequest) (*models.ClassSlot, error)
	ListCourseSlots(ctx context.Context, courseID int64) ([]*models.ClassSlot, error)
	DeleteClassSlot(ctx context.Context, callerID, slotID int64) error

	MarkAttendance(ctx context.Context, callerID int64, req *dto.MarkAttendanceRequest) error
	GetAttendanceSheet(ctx context.Context, callerID, slotID int64, date time.Time) ([]*models.AttendanceEntry, error)

	TeacherSchedule(ctx context.Context, teacherID int64) ([]*models.ScheduleEntry, error)
	StudentSchedule(ctx context.Context, studentID int64) ([]*models.ScheduleEntry, error)
}

// attendanceServiceImpl implements the AttendanceService interface
type attendanceServiceImpl struct {
	slotRepo       ClassSlotRepo
	attendanceRepo AttendanceRepo
	courseRepo     CourseRepo
	enrollmentRepo EnrollmentRepo
	authzService   *auth.AuthorizationService
}

// NewAttendanceService creates a new attendance service instance
func NewAttendanceService(
	slotRepo ClassSlotRepo,
	attendanceRepo AttendanceRepo,
	courseRepo CourseRepo,
	enrollmentRepo EnrollmentRepo,
	authzService *auth.AuthorizationService,
) AttendanceService {
	return &attendanceServiceImpl{
		slotRepo:       slotRepo,
		attendanceRepo: attendanceRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		authzService:   authzService,
	}
}

// CreateClassSlot adds a weekly slot to a course. Manager-only.
func (s *attendanceServiceImpl) CreateClassSlot(ctx context.Context, callerID, courseID int64, req *dto.CreateClassSlotRequest) (*models.ClassSlot, error) {
	if err := s.authzService.ValidateCourseManager(ctx, courseID, callerID); err != nil {
		return nil, err
	}

	// HH:MM strings compare correctly as text.
	if req.StartTime >= req.EndTime {
		return nil, apperrors.NewBadRequestError("slot start time must be before end time")
	}

	slot := &models.ClassSlot{
		CourseID:    courseID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsRecurring: true,
	}
	if req.IsRecurring != nil {
		slot.IsRecurring = *req.IsRecurring
	}

	id, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("error creating class slot: %w", err)
	}
	slot.ID = id

	logger.Info().Int64("slotID", id).Int64("courseID", courseID).Int("dayOfWeek", slot.DayOfWeek).
		Msg("Class slot created")
	return slot, nil
}

// ListCourseSlots returns the weekly slots of a course
func (s *attendanceServiceImpl) ListCourseSlots(ctx context.Context, courseID int64) ([]*models.ClassSlot, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.slotRepo.GetByCourseID(ctx, courseID)
}

// DeleteClassSlot removes a weekly slot and its attendance rows. Manager-only.
func (s *attendanceServiceImpl) DeleteClassSlot(ctx context.Context, callerID, slotID int64) error {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return err
	}
	if err := s.authzService.ValidateCourseManager(ctx, slot.CourseID, callerID); err != nil {
		return err
	}
	return s.slotRepo.Delete(ctx, slotID)
}

// MarkAttendance saves the sheet of one dated slot occurrence. The caller
// must be the course's assigned teacher or its center manager. Every listed
// student must be enrolled; re-marking a student on the same date overwrites
// the earlier mark.
func (s *attendanceServiceImpl) MarkAttendance(ctx context.Context, callerID int64, req *dto.MarkAttendanceRequest) error {
	slot, err := s.slotRepo.GetByID(ctx, req.ClassSlotID)
	if err != nil {
		return err
	}
	if err := s.authzService.ValidateCourseTeacherOrManager(ctx, slot.CourseID, callerID); err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "date must be YYYY-MM-DD")
	}

	for _, status := range req.Students {
		enrollmentID, err := s.enrollmentRepo.GetIDByCourseAndStudent(ctx, slot.CourseID, status.StudentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotEnrolled) {
				return apperrors.NewCustomError(apperrors.ErrNotEnrolled,
					fmt.Sprintf("student %d is not enrolled in this course", status.StudentID))
			}
			return fmt.Errorf("error resolving enrollment: %w", err)
		}

		record := &models.Attendance{
			EnrollmentID: enrollmentID,
			ClassSlotID:  slot.ID,
			Date:         date,
			IsPresent:    *status.IsPresent,
			Note:         status.Note,
		}
		if err := s.attendanceRepo.Upsert(ctx, record); err != nil {
			return err
		}
	}

	logger.Info().Int64("slotID", slot.ID).Str("date", req.Date).Int("students", len(req.Students)).
		Int64("callerID", callerID).Msg("Attendance sheet saved")
	return nil
}

// GetAttendanceSheet returns the marked sheet of one dated slot occurrence
func (s *attendanceServiceImpl) GetAttendanceSheet(ctx context.Context, callerID, slotID int64, date time.Time) ([]*models.AttendanceEntry, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateCourseTeacherOrManager(ctx, slot.CourseID, callerID); err != nil {
		return nil, err
	}
	return s.attendanceRepo.ListBySlotAndDate(ctx, slotID, date)
}

// TeacherSchedule returns the weekly schedule of a teacher's assigned courses
func (s *attendanceServiceImpl) TeacherSchedule(ctx context.Context, teacherID int64) ([]*models.ScheduleEntry, error) {
	return s.slotRepo.GetScheduleByTeacherID(ctx, teacherID)
}

// StudentSchedule returns the weekly schedule of a student's enrolled courses
func (s *attendanceServiceImpl) StudentSchedule(ctx context.Context, studentID int64) ([]*models.ScheduleEntry, error) {
	return s.slotRepo.GetScheduleByStudentID(ctx, studentID)
}
