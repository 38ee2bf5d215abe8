package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/extracenter/backend/internal/app/auth"
	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/pkg/apperrors"
	"github.com/extracenter/backend/internal/pkg/logger"
)

// MembershipService defines the interface for the student-center ledger
type MembershipService interface {
	AssignStudent(ctx context.Context, callerID, centerID, studentID int64) error
	RemoveStudent(ctx context.Context, callerID, centerID, studentID int64) error
	ListStudents(ctx context.Context, callerID, centerID int64) ([]*models.User, error)
}

// membershipServiceImpl implements the MembershipService interface
type membershipServiceImpl struct {
	membershipRepo MembershipRepo
	userRepo       UserRepo
	authzService   *auth.AuthorizationService
}

// NewMembershipService creates a new membership service instance
func NewMembershipService(membershipRepo MembershipRepo, userRepo UserRepo, authzService *auth.AuthorizationService) MembershipService {
	return &membershipServiceImpl{
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		authzService:   authzService,
	}
}

// AssignStudent connects a student to a center. Only the center manager may
// assign; duplicate assignments report ErrAlreadyMember so callers can treat
// them as a soft conflict.
func (s *membershipServiceImpl) AssignStudent(ctx context.Context, callerID, centerID, studentID int64) error {
	if err := s.authzService.ValidateCenterManager(ctx, centerID, callerID); err != nil {
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

	if err := s.membershipRepo.Assign(ctx, centerID, studentID); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyMember) {
			return apperrors.ErrAlreadyMember
		}
		return fmt.Errorf("error assigning student: %w", err)
	}

	logger.Info().Int64("centerID", centerID).Int64("studentID", studentID).Msg("Student assigned to center")
	return nil
}

// RemoveStudent disconnects a student from a center. Enrollments in the
// center's courses are left untouched.
func (s *membershipServiceImpl) RemoveStudent(ctx context.Context, callerID, centerID, studentID int64) error {
	if err := s.authzService.ValidateCenterManager(ctx, centerID, callerID); err != nil {
		return err
	}

	if err := s.membershipRepo.Remove(ctx, centerID, studentID); err != nil {
		if errors.Is(err, apperrors.ErrNotMember) {
			return apperrors.ErrNotMember
		}
		return fmt.Errorf("error removing student: %w", err)
	}

	logger.Info().Int64("centerID", centerID).Int64("studentID", studentID).Msg("Student removed from center")
	return nil
}

// ListStudents returns the members of a center in assignment order. Readable
// by the center manager and by teachers running a course there.
func (s *membershipServiceImpl) ListStudents(ctx context.Context, callerID, centerID int64) ([]*models.User, error) {
	if err := s.authzService.ValidateCenterManagerOrTeacher(ctx, centerID, callerID); err != nil {
		return nil, err
	}

	students, err := s.membershipRepo.ListStudentsByCenterID(ctx, centerID)
	if err != nil {
		return nil, fmt.Errorf("error listing center students: %w", err)
	}
	return students, nil
}
