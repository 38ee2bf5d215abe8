package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/pkg/apperrors"
	"github.com/extracenter/backend/internal/pkg/logger"
)

// UserStore is the user lookup the resolver needs
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// CenterStore is the center lookup the resolver needs
type CenterStore interface {
	GetByID(ctx context.Context, id int64) (*models.Center, error)
}

// CourseStore is the course lookup the resolver needs
type CourseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	TeacherTeachesAtCenter(ctx context.Context, centerID, teacherID int64) (bool, error)
}

// IsCenterManager reports whether the user is the manager of the center.
// Pure predicate over already-loaded state; callers never pass
// client-asserted flags here.
func IsCenterManager(center *models.Center, user *models.User) bool {
	if center == nil || user == nil {
		return false
	}
	return center.ManagerID == user.ID
}

// IsCourseTeacher reports whether the user is the assigned teacher of the
// course.
func IsCourseTeacher(course *models.Course, user *models.User) bool {
	if course == nil || user == nil || course.TeacherID == nil {
		return false
	}
	return *course.TeacherID == user.ID
}

// CanRespondToInvitation reports whether the user is the invited teacher of
// a course whose invitation is still pending.
func CanRespondToInvitation(course *models.Course, user *models.User) bool {
	if course == nil || user == nil {
		return false
	}
	if course.InvitationStatus != models.InvitationPending || course.PendingTeacherID == nil {
		return false
	}
	return *course.PendingTeacherID == user.ID
}

// AuthorizationService loads server-side state and applies the pure
// predicates. Every mutating service call goes through one of its
// validators; failed checks map to apperrors.ErrPermissionDenied.
type AuthorizationService struct {
	userStore   UserStore
	centerStore CenterStore
	courseStore CourseStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userStore UserStore, centerStore CenterStore, courseStore CourseStore) *AuthorizationService {
	return &AuthorizationService{
		userStore:   userStore,
		centerStore: centerStore,
		courseStore: courseStore,
	}
}

// GetUserInfo returns user information for a caller ID
func (s *AuthorizationService) GetUserInfo(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user in GetUserInfo")
		return nil, fmt.Errorf("failed to get user information: %w", err)
	}
	return user, nil
}

// ValidateAdmin validates that the caller holds the ADMIN role
func (s *AuthorizationService) ValidateAdmin(ctx context.Context, callerID int64) error {
	user, err := s.GetUserInfo(ctx, callerID)
	if err != nil {
		return err
	}
	if user.RoleType != models.RoleAdmin {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// ValidateTeacher validates that the user holds the TEACHER role
func (s *AuthorizationService) ValidateTeacher(ctx context.Context, userID int64) error {
	user, err := s.GetUserInfo(ctx, userID)
	if err != nil {
		return err
	}
	if user.RoleType != models.RoleTeacher {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// ValidateCenterManager validates that the caller manages the center
func (s *AuthorizationService) ValidateCenterManager(ctx context.Context, centerID, callerID int64) error {
	center, err := s.centerStore.GetByID(ctx, centerID)
	if err != nil {
		return err
	}

	caller, err := s.GetUserInfo(ctx, callerID)
	if err != nil {
		return err
	}

	if !IsCenterManager(center, caller) {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// ValidateCenterManagerOrTeacher validates that the caller manages the
// center or teaches at least one of its courses. Used for read access to
// center rosters.
func (s *AuthorizationService) ValidateCenterManagerOrTeacher(ctx context.Context, centerID, callerID int64) error {
	center, err := s.centerStore.GetByID(ctx, centerID)
	if err != nil {
		return err
	}

	caller, err := s.GetUserInfo(ctx, callerID)
	if err != nil {
		return err
	}

	if IsCenterManager(center, caller) {
		return nil
	}

	teaches, err := s.courseStore.TeacherTeachesAtCenter(ctx, centerID, callerID)
	if err != nil {
		return fmt.Errorf("failed to check teaching relation: %w", err)
	}
	if !teaches {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// ValidateCourseManager validates that the caller manages the center that
// owns the course.
func (s *AuthorizationService) ValidateCourseManager(ctx context.Context, courseID, callerID int64) error {
	course, err := s.courseStore.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	return s.ValidateCenterManager(ctx, course.CenterID, callerID)
}

// ValidateCourseTeacherOrManager validates that the caller is the assigned
// teacher of the course or manages its center. Used for attendance sheets.
func (s *AuthorizationService) ValidateCourseTeacherOrManager(ctx context.Context, courseID, callerID int64) error {
	course, err := s.courseStore.GetByID(ctx, courseID)
	if err != nil {
		return err
	}

	caller, err := s.GetUserInfo(ctx, callerID)
	if err != nil {
		return err
	}

	if IsCourseTeacher(course, caller) {
		return nil
	}
	return s.ValidateCenterManager(ctx, course.CenterID, callerID)
}
