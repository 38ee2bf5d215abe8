package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appAuth "github.com/extracenter/backend/internal/app/auth"
	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/app/models/dto"
	"github.com/extracenter/backend/internal/pkg/apperrors"
	"github.com/extracenter/backend/internal/pkg/auth"
	"github.com/extracenter/backend/internal/pkg/logger"
)

// emailDomain is the domain of generated student login emails
const emailDomain = "ecm.edu.vn"

// UserService defines the interface for user management operations
type UserService interface {
	CreateStudent(ctx context.Context, callerID int64, req *dto.CreateStudentRequest) (*models.User, error)
	UpdateStudent(ctx context.Context, callerID, studentID int64, req *dto.UpdateStudentRequest) (*models.User, error)
	DeleteUser(ctx context.Context, callerID, targetID int64) error
	SearchStudents(ctx context.Context, keyword string) ([]*models.User, error)
	GetAllUsers(ctx context.Context, callerID int64) ([]*models.User, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	userRepo     UserRepo
	authzService *appAuth.AuthorizationService
}

// NewUserService creates a new user service instance
func NewUserService(userRepo UserRepo, authzService *appAuth.AuthorizationService) UserService {
	return &userServiceImpl{
		userRepo:     userRepo,
		authzService: authzService,
	}
}

// validateStaff allows teachers and admins through
func (s *userServiceImpl) validateStaff(ctx context.Context, callerID int64) error {
	caller, err := s.authzService.GetUserInfo(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.RoleType != models.RoleTeacher && caller.RoleType != models.RoleAdmin {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// slugify reduces a name part to the characters usable in a login email
func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// generateStudentEmail builds a unique firstname.lastname@ecm.edu.vn login,
// appending a counter when the base form is taken.
func (s *userServiceImpl) generateStudentEmail(ctx context.Context, firstName, lastName string) (string, error) {
	base := slugify(firstName) + "." + slugify(lastName)
	if base == "." {
		return "", fmt.Errorf("%w: name produces an empty email", apperrors.ErrValidationFailed)
	}

	candidate := base + "@" + emailDomain
	for i := 2; ; i++ {
		exists, err := s.userRepo.EmailExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("error checking generated email: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d@%s", base, i, emailDomain)
	}
}

// CreateStudent creates an enabled STUDENT account with a generated login
// email. Available to teachers and admins.
func (s *userServiceImpl) CreateStudent(ctx context.Context, callerID int64, req *dto.CreateStudentRequest) (*models.User, error) {
	if err := s.validateStaff(ctx, callerID); err != nil {
		return nil, err
	}

	email, err := s.generateStudentEmail(ctx, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Email:         email,
		PersonalEmail: strings.TrimSpace(req.PersonalEmail),
		Password:      hash,
		PhoneNumber:   req.PhoneNumber,
		RoleType:      models.RoleStudent,
		IsEnabled:     true,
		IsLocked:      false,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("%w: dateOfBirth must be YYYY-MM-DD", apperrors.ErrValidationFailed)
		}
		user.DateOfBirth = &dob
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	user.ID = id

	logger.Info().Int64("studentID", id).Str("email", email).Msg("Student account created")
	return user, nil
}

// UpdateStudent updates a student profile on behalf of a manager or admin
func (s *userServiceImpl) UpdateStudent(ctx context.Context, callerID, studentID int64, req *dto.UpdateStudentRequest) (*models.User, error) {
	if err := s.validateStaff(ctx, callerID); err != nil {
		return nil, err
	}

	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error loading student: %w", err)
	}
	if student.RoleType != models.RoleStudent {
		return nil, apperrors.ErrStudentNotFound
	}

	student.FirstName = strings.TrimSpace(req.FirstName)
	student.LastName = strings.TrimSpace(req.LastName)
	student.PersonalEmail = strings.TrimSpace(req.PersonalEmail)
	student.PhoneNumber = req.PhoneNumber
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("%w: dateOfBirth must be YYYY-MM-DD", apperrors.ErrValidationFailed)
		}
		student.DateOfBirth = &dob
	}

	if err := s.userRepo.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	return student, nil
}

// DeleteUser permanently removes an account. Admin-only; rejected while the
// user is still referenced as a center manager or course teacher.
func (s *userServiceImpl) DeleteUser(ctx context.Context, callerID, targetID int64) error {
	if err := s.authzService.ValidateAdmin(ctx, callerID); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		return err
	}

	logger.Info().Int64("targetID", targetID).Int64("adminID", callerID).Msg("User deleted")
	return nil
}

// SearchStudents searches student accounts by name, email or phone
func (s *userServiceImpl) SearchStudents(ctx context.Context, keyword string) ([]*models.User, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: search keyword cannot be empty", apperrors.ErrValidationFailed)
	}

	students, err := s.userRepo.SearchStudents(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("error searching students: %w", err)
	}
	return students, nil
}

// GetAllUsers lists every account. Admin-only.
func (s *userServiceImpl) GetAllUsers(ctx context.Context, callerID int64) ([]*models.User, error) {
	if err := s.authzService.ValidateAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}
