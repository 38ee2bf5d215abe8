package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/app/models/dto"
	"github.com/extracenter/backend/internal/pkg/apperrors"
	"github.com/extracenter/backend/internal/pkg/auth"
	"github.com/extracenter/backend/internal/pkg/logger"
)

// AuthService defines the interface for authentication and self-service
// account operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*dto.TokenResponse, error)
	RegisterTeacher(ctx context.Context, req *dto.RegisterTeacherRequest) (int64, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error)
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	userRepo   UserRepo
	jwtService *auth.JWTService
}

// NewAuthService creates a new auth service instance
func NewAuthService(userRepo UserRepo, jwtService *auth.JWTService) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login verifies credentials and account flags, then issues a token pair.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsEnabled {
		return nil, apperrors.ErrAccountDisabled
	}
	if user.IsLocked {
		return nil, apperrors.ErrAccountLocked
	}

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	logger.Info().Int64("userID", user.ID).Str("roleType", string(user.RoleType)).Msg("User logged in")
	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
		UserID:           user.ID,
		RoleType:         string(user.RoleType),
	}, nil
}

// RegisterTeacher creates a disabled TEACHER account. The account cannot log
// in until an admin enables it.
func (s *authServiceImpl) RegisterTeacher(ctx context.Context, req *dto.RegisterTeacherRequest) (int64, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return 0, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return 0, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Email:         email,
		PersonalEmail: strings.TrimSpace(req.PersonalEmail),
		Password:      hash,
		RoleType:      models.RoleTeacher,
		IsEnabled:     false,
		IsLocked:      false,
	}
	if req.PhoneNumber != "" {
		phone := strings.TrimSpace(req.PhoneNumber)
		user.PhoneNumber = &phone
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("error creating teacher account: %w", err)
	}

	logger.Info().Int64("userID", id).Str("email", email).Msg("Teacher account registered, awaiting activation")
	return id, nil
}

// ChangePassword verifies the current password before storing a new hash
func (s *authServiceImpl) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, currentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	logger.Info().Int64("userID", userID).Msg("Password changed")
	return nil
}

// GetProfile returns the caller's own account
func (s *authServiceImpl) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile updates the caller's own profile fields
func (s *authServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.PhoneNumber = req.PhoneNumber
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("%w: dateOfBirth must be YYYY-MM-DD", apperrors.ErrValidationFailed)
		}
		user.DateOfBirth = &dob
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	return user, nil
}
