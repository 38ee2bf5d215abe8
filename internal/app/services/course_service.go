package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/extracenter/backend/internal/app/auth"
	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/pkg/apperrors"
	"github.com/extracenter/backend/internal/pkg/logger"
)

// CourseService defines the interface for course operations, including the
// teacher invitation workflow and enrollments.
type CourseService interface {
	CreateCourse(ctx context.Context, callerID int64, course *models.Course, teacherEmail *string) (int64, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	GetCoursesByCenter(ctx context.Context, centerID int64) ([]*models.Course, error)
	GetCoursesByTeacher(ctx context.Context, teacherID int64) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, callerID int64, course *models.Course) error
	DeleteCourse(ctx context.Context, callerID, courseID int64) error

	InviteTeacher(ctx context.Context, callerID, courseID int64, teacherEmail string) error
	RespondToInvitation(ctx context.Context, callerID, courseID int64, decision string) error
	ListPendingInvitations(ctx context.Context, callerID, teacherID int64) ([]*models.Course, error)

	EnrollStudent(ctx context.Context, callerID, courseID, studentID int64) error
	UnenrollStudent(ctx context.Context, callerID, courseID, studentID int64) error
	ListCourseStudents(ctx context.Context, callerID, courseID int64) ([]*models.User, error)
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courseRepo     CourseRepo
	userRepo       UserRepo
	membershipRepo MembershipRepo
	enrollmentRepo EnrollmentRepo
	authzService   *auth.AuthorizationService
}

// NewCourseService creates a new course service instance
func NewCourseService(
	courseRepo CourseRepo,
	userRepo UserRepo,
	membershipRepo MembershipRepo,
	enrollmentRepo EnrollmentRepo,
	authzService *auth.AuthorizationService,
) CourseService {
	return &courseServiceImpl{
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		enrollmentRepo: enrollmentRepo,
		authzService:   authzService,
	}
}

// resolveTeacherByEmail loads an enabled TEACHER account by login email.
// Anything else reports ErrTeacherNotFound, never a partial hint about the
// account's existence.
func (s *courseServiceImpl) resolveTeacherByEmail(ctx context.Context, email string) (*models.User, error) {
	teacher, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("error loading teacher: %w", err)
	}
	if teacher.RoleType != models.RoleTeacher || !teacher.IsEnabled {
		return nil, apperrors.ErrTeacherNotFound
	}
	return teacher, nil
}

// CreateCourse creates a course inside a center the caller manages. Naming
// yourself as teacher assigns the course directly; naming another teacher
// starts a pending invitation.
func (s *courseServiceImpl) CreateCourse(ctx context.Context, callerID int64, course *models.Course, teacherEmail *string) (int64, error) {
	if course == nil || strings.TrimSpace(course.Name) == "" {
		return 0, fmt.Errorf("%w: course name cannot be empty", apperrors.ErrValidationFailed)
	}

	if err := s.authzService.ValidateCenterManager(ctx, course.CenterID, callerID); err != nil {
		return 0, err
	}

	course.Status = models.CourseActive
	course.TeacherID = nil
	course.PendingTeacherID = nil
	course.InvitationStatus = models.InvitationNone

	if teacherEmail != nil && strings.TrimSpace(*teacherEmail) != "" {
		teacher, err := s.resolveTeacherByEmail(ctx, *teacherEmail)
		if err != nil {
			return 0, err
		}
		if teacher.ID == callerID {
			// Self-assignment needs no handshake.
			course.TeacherID = &teacher.ID
			course.InvitationStatus = models.InvitationAccepted
		} else {
			course.PendingTeacherID = &teacher.ID
			course.InvitationStatus = models.InvitationPending
		}
	}

	id, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		return 0, fmt.Errorf("error creating course: %w", err)
	}

	logger.Info().Int64("courseID", id).Int64("centerID", course.CenterID).Msg("Course created")
	return id, nil
}

// GetCourseByID retrieves a course with its assigned teacher attached
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	if course.TeacherID != nil {
		if teacher, err := s.userRepo.GetByID(ctx, *course.TeacherID); err == nil {
			course.Teacher = teacher
		}
	}

	return course, nil
}

// GetCoursesByCenter retrieves the courses of a center
func (s *courseServiceImpl) GetCoursesByCenter(ctx context.Context, centerID int64) ([]*models.Course, error) {
	courses, err := s.courseRepo.GetByCenterID(ctx, centerID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving center courses: %w", err)
	}
	return courses, nil
}

// GetCoursesByTeacher retrieves the courses assigned to a teacher
func (s *courseServiceImpl) GetCoursesByTeacher(ctx context.Context, teacherID int64) ([]*models.Course, error) {
	courses, err := s.courseRepo.GetByTeacherID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving teacher courses: %w", err)
	}
	return courses, nil
}

// UpdateCourse updates a course's descriptive fields. Manager-only; teacher
// assignment is only changed through the invitation workflow.
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, callerID int64, course *models.Course) error {
	if course == nil || strings.TrimSpace(course.Name) == "" {
		return fmt.Errorf("%w: course name cannot be empty", apperrors.ErrValidationFailed)
	}

	if err := s.authzService.ValidateCourseManager(ctx, course.ID, callerID); err != nil {
		return err
	}

	if course.Status != models.CourseActive && course.Status != models.CourseClosed {
		return fmt.Errorf("%w: invalid course status %q", apperrors.ErrValidationFailed, course.Status)
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	return nil
}

// DeleteCourse deletes a course. Manager-only; rejected while enrollments
// still reference the course.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, callerID, courseID int64) error {
	if err := s.authzService.ValidateCourseManager(ctx, courseID, callerID); err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, courseID); err != nil {
		if errors.Is(err, apperrors.ErrCourseHasEnrollments) {
			return apperrors.ErrCourseHasEnrollments
		}
		return fmt.Errorf("error deleting course: %w", err)
	}

	logger.Info().Int64("courseID", courseID).Msg("Course deleted")
	return nil
}

// InviteTeacher records a pending invitation for the teacher behind the
// given email. Re-inviting after a rejection (or over a stale invitation)
// simply returns the course to PENDING with the new invitee; the assigned
// teacher stays in place until the invitee accepts.
func (s *courseServiceImpl) InviteTeacher(ctx context.Context, callerID, courseID int64, teacherEmail string) error {
	if err := s.authzService.ValidateCourseManager(ctx, courseID, callerID); err != nil {
		return err
	}

	teacher, err := s.resolveTeacherByEmail(ctx, teacherEmail)
	if err != nil {
		return err
	}

	if err := s.courseRepo.SetPendingInvitation(ctx, courseID, teacher.ID); err != nil {
		return fmt.Errorf("error recording invitation: %w", err)
	}

	logger.Info().Int64("courseID", courseID).Int64("teacherID", teacher.ID).Msg("Teacher invited to course")
	return nil
}

// RespondToInvitation accepts or rejects a pending invitation. The state
// transition is a single conditional update keyed on the pending state and
// the invited teacher, so only the invitee's first response wins; anything
// else reports ErrPermissionDenied without leaking why.
func (s *courseServiceImpl) RespondToInvitation(ctx context.Context, callerID, courseID int64, decision string) error {
	var (
		applied bool
		err     error
	)

	switch models.InvitationStatus(strings.ToUpper(strings.TrimSpace(decision))) {
	case models.InvitationAccepted:
		applied, err = s.courseRepo.AcceptInvitation(ctx, courseID, callerID)
	case models.InvitationRejected:
		applied, err = s.courseRepo.RejectInvitation(ctx, courseID, callerID)
	default:
		return fmt.Errorf("%w: decision must be ACCEPTED or REJECTED", apperrors.ErrValidationFailed)
	}

	if err != nil {
		return fmt.Errorf("error responding to invitation: %w", err)
	}
	if !applied {
		// Course missing, invitation not pending, or caller not the invitee.
		if _, getErr := s.courseRepo.GetByID(ctx, courseID); getErr != nil {
			return getErr
		}
		return apperrors.ErrPermissionDenied
	}

	logger.Info().Int64("courseID", courseID).Int64("teacherID", callerID).Str("decision", decision).
		Msg("Invitation response recorded")
	return nil
}

// ListPendingInvitations lists the courses currently inviting a teacher.
// Teachers can only read their own invitation inbox.
func (s *courseServiceImpl) ListPendingInvitations(ctx context.Context, callerID, teacherID int64) ([]*models.Course, error) {
	if callerID != teacherID {
		return nil, apperrors.ErrPermissionDenied
	}

	courses, err := s.courseRepo.GetPendingInvitationsByTeacherID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error listing pending invitations: %w", err)
	}
	return courses, nil
}

// EnrollStudent enrolls a student into a course and connects them to the
// course's center as a side effect. An existing membership is not an error.
func (s *courseServiceImpl) EnrollStudent(ctx context.Context, callerID, courseID, studentID int64) error {
	if err := s.authzService.ValidateCourseManager(ctx, courseID, callerID); err != nil {
		return err
	}

	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error loading student: %w", err)
	}
	if student.RoleType != models.RoleStudent {
		return apperrors.ErrStudentNotFound
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	if _, err := s.enrollmentRepo.Create(ctx, courseID, studentID); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyEnrolled) {
			return apperrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("error enrolling student: %w", err)
	}

	// Auto-connect to the center; an existing membership is fine.
	if err := s.membershipRepo.Assign(ctx, course.CenterID, studentID); err != nil && !errors.Is(err, apperrors.ErrAlreadyMember) {
		logger.Warn().Err(err).Int64("centerID", course.CenterID).Int64("studentID", studentID).
			Msg("Enrollment succeeded but center membership could not be created")
	}

	logger.Info().Int64("courseID", courseID).Int64("studentID", studentID).Msg("Student enrolled")
	return nil
}

// UnenrollStudent removes a student from a course. The center membership is
// deliberately left in place.
func (s *courseServiceImpl) UnenrollStudent(ctx context.Context, callerID, courseID, studentID int64) error {
	if err := s.authzService.ValidateCourseManager(ctx, courseID, callerID); err != nil {
		return err
	}

	if err := s.enrollmentRepo.Delete(ctx, courseID, studentID); err != nil {
		if errors.Is(err, apperrors.ErrNotEnrolled) {
			return apperrors.ErrNotEnrolled
		}
		return fmt.Errorf("error unenrolling student: %w", err)
	}

	logger.Info().Int64("courseID", courseID).Int64("studentID", studentID).Msg("Student unenrolled")
	return nil
}

// ListCourseStudents lists the students of a course in enrollment order.
// Readable by the center manager and the assigned teacher.
func (s *courseServiceImpl) ListCourseStudents(ctx context.Context, callerID, courseID int64) ([]*models.User, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	isAssignedTeacher := course.TeacherID != nil && *course.TeacherID == callerID
	if !isAssignedTeacher {
		if err := s.authzService.ValidateCenterManager(ctx, course.CenterID, callerID); err != nil {
			return nil, err
		}
	}

	students, err := s.enrollmentRepo.ListStudentsByCourseID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing course students: %w", err)
	}
	return students, nil
}
