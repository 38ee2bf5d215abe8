package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/extracenter/backend/internal/app/auth"
	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/app/models/dto"
	"github.com/extracenter/backend/internal/pkg/apperrors"
	"github.com/extracenter/backend/internal/pkg/logger"
)

// OversightService defines the admin-only account oversight operations
type OversightService interface {
	ToggleUserLock(ctx context.Context, callerID, targetID int64) (*dto.LockResponse, error)
	ComputeStats(ctx context.Context, callerID, targetID int64) (*dto.UserStatsResponse, error)
}

// oversightServiceImpl implements the OversightService interface
type oversightServiceImpl struct {
	userRepo       UserRepo
	centerRepo     CenterRepo
	courseRepo     CourseRepo
	membershipRepo MembershipRepo
	enrollmentRepo EnrollmentRepo
	rosterService  RosterService
	authzService   *auth.AuthorizationService
}

// NewOversightService creates a new oversight service instance
func NewOversightService(
	userRepo UserRepo,
	centerRepo CenterRepo,
	courseRepo CourseRepo,
	membershipRepo MembershipRepo,
	enrollmentRepo EnrollmentRepo,
	rosterService RosterService,
	authzService *auth.AuthorizationService,
) OversightService {
	return &oversightServiceImpl{
		userRepo:       userRepo,
		centerRepo:     centerRepo,
		courseRepo:     courseRepo,
		membershipRepo: membershipRepo,
		enrollmentRepo: enrollmentRepo,
		rosterService:  rosterService,
		authzService:   authzService,
	}
}

// ToggleUserLock flips the admin lock flag on a user. Existing sessions are
// not revoked; the flag is enforced at the next login.
func (s *oversightServiceImpl) ToggleUserLock(ctx context.Context, callerID, targetID int64) (*dto.LockResponse, error) {
	if err := s.authzService.ValidateAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	newState := !target.IsLocked
	if err := s.userRepo.SetLocked(ctx, targetID, newState); err != nil {
		return nil, fmt.Errorf("error updating lock flag: %w", err)
	}

	logger.Info().Int64("targetID", targetID).Bool("locked", newState).Int64("adminID", callerID).
		Msg("User lock toggled")
	return &dto.LockResponse{UserID: targetID, IsLocked: newState}, nil
}

// ComputeStats builds the per-user rollup for an admin. Teacher targets
// report managed centers, taught courses and the distinct roster size;
// student targets report memberships and enrollments.
func (s *oversightServiceImpl) ComputeStats(ctx context.Context, callerID, targetID int64) (*dto.UserStatsResponse, error) {
	if err := s.authzService.ValidateAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	stats := &dto.UserStatsResponse{UserID: targetID, RoleType: string(target.RoleType)}

	switch target.RoleType {
	case models.RoleTeacher:
		centers, err := s.centerRepo.CountByManagerID(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("error counting centers: %w", err)
		}
		courses, err := s.courseRepo.CountByTeacherID(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("error counting courses: %w", err)
		}
		// Distinct students across managed centers only; centers the
		// teacher merely teaches at do not count toward their rollup.
		roster, err := s.rosterService.AggregateManagedRoster(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("error aggregating roster: %w", err)
		}
		students := len(roster.Entries)
		stats.TotalCenters = centers
		stats.TotalCourses = courses
		stats.TotalStudents = &students

	case models.RoleStudent:
		centers, err := s.membershipRepo.CountByStudentID(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("error counting memberships: %w", err)
		}
		courses, err := s.enrollmentRepo.CountByStudentID(ctx, targetID)
		if err != nil {
			return nil, fmt.Errorf("error counting enrollments: %w", err)
		}
		stats.TotalCenters = centers
		stats.TotalCourses = courses

	default:
		return nil, apperrors.NewBadRequestError("stats are only available for teacher and student accounts")
	}

	return stats, nil
}
