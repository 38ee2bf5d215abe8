package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/pkg/apperrors"
)

type fakeUserStore struct {
	users map[int64]*models.User
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

type fakeCenterStore struct {
	centers map[int64]*models.Center
}

func (f *fakeCenterStore) GetByID(_ context.Context, id int64) (*models.Center, error) {
	center, ok := f.centers[id]
	if !ok {
		return nil, apperrors.ErrCenterNotFound
	}
	return center, nil
}

type fakeCourseStore struct {
	courses  map[int64]*models.Course
	teaching map[[2]int64]bool // (centerID, teacherID)
}

func (f *fakeCourseStore) GetByID(_ context.Context, id int64) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

func (f *fakeCourseStore) TeacherTeachesAtCenter(_ context.Context, centerID, teacherID int64) (bool, error) {
	return f.teaching[[2]int64{centerID, teacherID}], nil
}

func newTestService() (*AuthorizationService, *fakeUserStore, *fakeCenterStore, *fakeCourseStore) {
	users := &fakeUserStore{users: map[int64]*models.User{
		1: {ID: 1, RoleType: models.RoleAdmin},
		2: {ID: 2, RoleType: models.RoleTeacher},
		3: {ID: 3, RoleType: models.RoleTeacher},
		4: {ID: 4, RoleType: models.RoleStudent},
	}}
	centers := &fakeCenterStore{centers: map[int64]*models.Center{
		10: {ID: 10, Name: "Center A", ManagerID: 2},
	}}
	courses := &fakeCourseStore{
		courses:  map[int64]*models.Course{},
		teaching: map[[2]int64]bool{},
	}
	return NewAuthorizationService(users, centers, courses), users, centers, courses
}

func TestIsCenterManager(t *testing.T) {
	center := &models.Center{ID: 10, ManagerID: 2}
	manager := &models.User{ID: 2, RoleType: models.RoleTeacher}
	other := &models.User{ID: 3, RoleType: models.RoleTeacher}

	if !IsCenterManager(center, manager) {
		t.Error("expected manager to be recognized")
	}
	if IsCenterManager(center, other) {
		t.Error("expected non-manager to be rejected")
	}
	if IsCenterManager(nil, manager) || IsCenterManager(center, nil) {
		t.Error("expected nil inputs to be rejected")
	}
}

func TestCanRespondToInvitation(t *testing.T) {
	teacherID := int64(3)
	teacher := &models.User{ID: teacherID, RoleType: models.RoleTeacher}
	stranger := &models.User{ID: 7, RoleType: models.RoleTeacher}

	pending := &models.Course{ID: 1, InvitationStatus: models.InvitationPending, PendingTeacherID: &teacherID}
	if !CanRespondToInvitation(pending, teacher) {
		t.Error("expected invited teacher to be allowed to respond")
	}
	if CanRespondToInvitation(pending, stranger) {
		t.Error("expected uninvited teacher to be rejected")
	}

	accepted := &models.Course{ID: 2, InvitationStatus: models.InvitationAccepted, PendingTeacherID: &teacherID}
	if CanRespondToInvitation(accepted, teacher) {
		t.Error("expected non-pending invitation to be rejected")
	}

	noInvite := &models.Course{ID: 3, InvitationStatus: models.InvitationNone}
	if CanRespondToInvitation(noInvite, teacher) {
		t.Error("expected course without invitation to be rejected")
	}
}

func TestValidateAdmin(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	if err := svc.ValidateAdmin(ctx, 1); err != nil {
		t.Errorf("expected admin to pass, got %v", err)
	}
	if err := svc.ValidateAdmin(ctx, 2); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for teacher, got %v", err)
	}
	if err := svc.ValidateAdmin(ctx, 99); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestValidateCenterManager(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	if err := svc.ValidateCenterManager(ctx, 10, 2); err != nil {
		t.Errorf("expected manager to pass, got %v", err)
	}
	if err := svc.ValidateCenterManager(ctx, 10, 3); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for non-manager, got %v", err)
	}
	if err := svc.ValidateCenterManager(ctx, 99, 2); !errors.Is(err, apperrors.ErrCenterNotFound) {
		t.Errorf("expected ErrCenterNotFound, got %v", err)
	}
}

func TestValidateCenterManagerOrTeacher(t *testing.T) {
	svc, _, _, courses := newTestService()
	ctx := context.Background()

	// Manager passes without a teaching relation.
	if err := svc.ValidateCenterManagerOrTeacher(ctx, 10, 2); err != nil {
		t.Errorf("expected manager to pass, got %v", err)
	}

	// Teacher 3 does not teach at center 10 yet.
	if err := svc.ValidateCenterManagerOrTeacher(ctx, 10, 3); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied, got %v", err)
	}

	courses.teaching[[2]int64{10, 3}] = true
	if err := svc.ValidateCenterManagerOrTeacher(ctx, 10, 3); err != nil {
		t.Errorf("expected teaching teacher to pass, got %v", err)
	}
}

func TestIsCourseTeacher(t *testing.T) {
	teacherID := int64(3)
	teacher := &models.User{ID: teacherID, RoleType: models.RoleTeacher}
	other := &models.User{ID: 7, RoleType: models.RoleTeacher}

	assigned := &models.Course{ID: 1, TeacherID: &teacherID}
	if !IsCourseTeacher(assigned, teacher) {
		t.Error("expected assigned teacher to be recognized")
	}
	if IsCourseTeacher(assigned, other) {
		t.Error("expected other teacher to be rejected")
	}

	unassigned := &models.Course{ID: 2}
	if IsCourseTeacher(unassigned, teacher) {
		t.Error("expected unassigned course to be rejected")
	}
	if IsCourseTeacher(nil, teacher) || IsCourseTeacher(assigned, nil) {
		t.Error("expected nil inputs to be rejected")
	}
}

func TestValidateCourseTeacherOrManager(t *testing.T) {
	svc, _, _, courses := newTestService()
	ctx := context.Background()
	teacherID := int64(3)
	courses.courses[5] = &models.Course{ID: 5, CenterID: 10, TeacherID: &teacherID, InvitationStatus: models.InvitationAccepted}

	// Assigned teacher passes without managing the center.
	if err := svc.ValidateCourseTeacherOrManager(ctx, 5, 3); err != nil {
		t.Errorf("expected assigned teacher to pass, got %v", err)
	}
	// Center manager passes without teaching the course.
	if err := svc.ValidateCourseTeacherOrManager(ctx, 5, 2); err != nil {
		t.Errorf("expected center manager to pass, got %v", err)
	}
	if err := svc.ValidateCourseTeacherOrManager(ctx, 5, 4); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for unrelated user, got %v", err)
	}
	if err := svc.ValidateCourseTeacherOrManager(ctx, 99, 2); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestValidateCourseManager(t *testing.T) {
	svc, _, _, courses := newTestService()
	ctx := context.Background()
	courses.courses[5] = &models.Course{ID: 5, CenterID: 10, InvitationStatus: models.InvitationNone}

	if err := svc.ValidateCourseManager(ctx, 5, 2); err != nil {
		t.Errorf("expected course manager to pass, got %v", err)
	}
	if err := svc.ValidateCourseManager(ctx, 5, 3); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied, got %v", err)
	}
	if err := svc.ValidateCourseManager(ctx, 99, 2); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}
