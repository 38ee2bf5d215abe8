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

// CenterService defines the interface for center operations
type CenterService interface {
	CreateCenter(ctx context.Context, callerID int64, center *models.Center) (int64, error)
	GetCenterByID(ctx context.Context, id int64) (*models.Center, error)
	GetAllCenters(ctx context.Context) ([]*models.Center, error)
	GetCentersByManager(ctx context.Context, managerID int64) ([]*models.Center, error)
	GetTeachingCenters(ctx context.Context, teacherID int64) ([]*models.Center, error)
	GetCenterTeachers(ctx context.Context, callerID, centerID int64) ([]*models.User, error)
	UpdateCenter(ctx context.Context, callerID int64, center *models.Center) error
	DeleteCenter(ctx context.Context, callerID, centerID int64) error
}

// centerServiceImpl implements the CenterService interface
type centerServiceImpl struct {
	centerRepo   CenterRepo
	userRepo     UserRepo
	authzService *auth.AuthorizationService
}

// NewCenterService creates a new center service instance
func NewCenterService(centerRepo CenterRepo, userRepo UserRepo, authzService *auth.AuthorizationService) CenterService {
	return &centerServiceImpl{
		centerRepo:   centerRepo,
		userRepo:     userRepo,
		authzService: authzService,
	}
}

// CreateCenter creates a new center managed by the caller. Only teachers can
// open centers; the manager is always the caller, never a client-supplied ID.
func (s *centerServiceImpl) CreateCenter(ctx context.Context, callerID int64, center *models.Center) (int64, error) {
	if center == nil || strings.TrimSpace(center.Name) == "" {
		return 0, fmt.Errorf("%w: center name cannot be empty", apperrors.ErrValidationFailed)
	}

	if err := s.authzService.ValidateTeacher(ctx, callerID); err != nil {
		return 0, err
	}

	center.ManagerID = callerID
	id, err := s.centerRepo.Create(ctx, center)
	if err != nil {
		return 0, fmt.Errorf("error creating center: %w", err)
	}

	logger.Info().Int64("centerID", id).Int64("managerID", callerID).Msg("Center created")
	return id, nil
}

// GetCenterByID retrieves a center with its manager attached
func (s *centerServiceImpl) GetCenterByID(ctx context.Context, id int64) (*models.Center, error) {
	center, err := s.centerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCenterNotFound) {
			return nil, apperrors.ErrCenterNotFound
		}
		return nil, fmt.Errorf("error retrieving center: %w", err)
	}

	manager, err := s.userRepo.GetByID(ctx, center.ManagerID)
	if err == nil {
		center.Manager = manager
	}

	return center, nil
}

// GetAllCenters retrieves all centers
func (s *centerServiceImpl) GetAllCenters(ctx context.Context) ([]*models.Center, error) {
	centers, err := s.centerRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving centers: %w", err)
	}
	return centers, nil
}

// GetCentersByManager retrieves the centers a teacher manages
func (s *centerServiceImpl) GetCentersByManager(ctx context.Context, managerID int64) ([]*models.Center, error) {
	centers, err := s.centerRepo.GetByManagerID(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving managed centers: %w", err)
	}
	return centers, nil
}

// GetTeachingCenters retrieves the centers where a teacher runs courses
// without being the manager.
func (s *centerServiceImpl) GetTeachingCenters(ctx context.Context, teacherID int64) ([]*models.Center, error) {
	centers, err := s.centerRepo.GetTeachingByTeacherID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving teaching centers: %w", err)
	}
	return centers, nil
}

// GetCenterTeachers retrieves the distinct teachers running courses at a center
func (s *centerServiceImpl) GetCenterTeachers(ctx context.Context, callerID, centerID int64) ([]*models.User, error) {
	if err := s.authzService.ValidateCenterManagerOrTeacher(ctx, centerID, callerID); err != nil {
		return nil, err
	}

	teachers, err := s.centerRepo.GetTeachersByCenterID(ctx, centerID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving center teachers: %w", err)
	}
	return teachers, nil
}

// UpdateCenter updates a center's descriptive fields. Manager-only; the
// manager itself cannot be reassigned.
func (s *centerServiceImpl) UpdateCenter(ctx context.Context, callerID int64, center *models.Center) error {
	if center == nil || strings.TrimSpace(center.Name) == "" {
		return fmt.Errorf("%w: center name cannot be empty", apperrors.ErrValidationFailed)
	}

	if err := s.authzService.ValidateCenterManager(ctx, center.ID, callerID); err != nil {
		return err
	}

	if err := s.centerRepo.Update(ctx, center); err != nil {
		return fmt.Errorf("error updating center: %w", err)
	}
	return nil
}

// DeleteCenter deletes a center. Manager-only; rejected while courses still
// belong to the center.
func (s *centerServiceImpl) DeleteCenter(ctx context.Context, callerID, centerID int64) error {
	if err := s.authzService.ValidateCenterManager(ctx, centerID, callerID); err != nil {
		return err
	}

	if err := s.centerRepo.Delete(ctx, centerID); err != nil {
		if errors.Is(err, apperrors.ErrCenterHasCourses) {
			return apperrors.ErrCenterHasCourses
		}
		return fmt.Errorf("error deleting center: %w", err)
	}

	logger.Info().Int64("centerID", centerID).Msg("Center deleted")
	return nil
}
