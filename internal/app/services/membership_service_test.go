package services

import (
	"context"
	"errors"
	"testing"

	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/pkg/apperrors"
)

func TestAssignListRemoveScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	manager := f.addUser(2, models.RoleTeacher)
	other := f.addUser(3, models.RoleTeacher)
	studentA := f.addUser(100, models.RoleStudent)
	studentB := f.addUser(101, models.RoleStudent)
	center := f.addCenter(10, manager.ID)

	svc := NewMembershipService(f.memberships, f.users, f.authz)

	if err := svc.AssignStudent(ctx, manager.ID, center.ID, studentA.ID); err != nil {
		t.Fatalf("assign studentA: %v", err)
	}
	if err := svc.AssignStudent(ctx, manager.ID, center.ID, studentB.ID); err != nil {
		t.Fatalf("assign studentB: %v", err)
	}

	// Duplicate assign is a conflict, not a crash.
	if err := svc.AssignStudent(ctx, manager.ID, center.ID, studentA.ID); !errors.Is(err, apperrors.ErrAlreadyMember) {
		t.Errorf("expected ErrAlreadyMember, got %v", err)
	}

	// Non-manager cannot assign.
	if err := svc.AssignStudent(ctx, other.ID, center.ID, studentA.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied, got %v", err)
	}

	// Unknown student and non-student targets look identical.
	if err := svc.AssignStudent(ctx, manager.ID, center.ID, 999); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound for unknown user, got %v", err)
	}
	if err := svc.AssignStudent(ctx, manager.ID, center.ID, other.ID); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound for teacher target, got %v", err)
	}

	students, err := svc.ListStudents(ctx, manager.ID, center.ID)
	if err != nil {
		t.Fatalf("list students: %v", err)
	}
	if len(students) != 2 || students[0].ID != studentA.ID || students[1].ID != studentB.ID {
		t.Errorf("expected assignment order [%d %d], got %v", studentA.ID, studentB.ID, students)
	}

	if err := svc.RemoveStudent(ctx, manager.ID, center.ID, studentA.ID); err != nil {
		t.Fatalf("remove studentA: %v", err)
	}
	if err := svc.RemoveStudent(ctx, manager.ID, center.ID, studentA.ID); !errors.Is(err, apperrors.ErrNotMember) {
		t.Errorf("expected ErrNotMember on second remove, got %v", err)
	}

	students, err = svc.ListStudents(ctx, manager.ID, center.ID)
	if err != nil {
		t.Fatalf("list students after remove: %v", err)
	}
	if len(students) != 1 || students[0].ID != studentB.ID {
		t.Errorf("expected only studentB, got %v", students)
	}
}

func TestListStudentsAccess(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	manager := f.addUser(2, models.RoleTeacher)
	teacher := f.addUser(3, models.RoleTeacher)
	stranger := f.addUser(4, models.RoleTeacher)
	student := f.addUser(100, models.RoleStudent)
	center := f.addCenter(10, manager.ID)

	svc := NewMembershipService(f.memberships, f.users, f.authz)
	if err := svc.AssignStudent(ctx, manager.ID, center.ID, student.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// A teacher running a course at the center may read the roster.
	tid := teacher.ID
	f.courses.add(&models.Course{CenterID: center.ID, Name: "Algebra", TeacherID: &tid, InvitationStatus: models.InvitationAccepted})

	if _, err := svc.ListStudents(ctx, teacher.ID, center.ID); err != nil {
		t.Errorf("expected teaching teacher to read roster, got %v", err)
	}
	if _, err := svc.ListStudents(ctx, stranger.ID, center.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for stranger, got %v", err)
	}
	if _, err := svc.ListStudents(ctx, manager.ID, 999); !errors.Is(err, apperrors.ErrCenterNotFound) {
		t.Errorf("expected ErrCenterNotFound, got %v", err)
	}
}

func TestRemoveStudentKeepsEnrollments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	manager := f.addUser(2, models.RoleTeacher)
	student := f.addUser(100, models.RoleStudent)
	center := f.addCenter(10, manager.ID)
	course := f.courses.add(&models.Course{CenterID: center.ID, Name: "Algebra", InvitationStatus: models.InvitationNone})

	memberships := NewMembershipService(f.memberships, f.users, f.authz)
	courses := NewCourseService(f.courses, f.users, f.memberships, f.enrollments, f.authz)

	if err := courses.EnrollStudent(ctx, manager.ID, course.ID, student.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := memberships.RemoveStudent(ctx, manager.ID, center.ID, student.ID); err != nil {
		t.Fatalf("remove membership: %v", err)
	}

	enrolled, err := f.enrollments.Exists(ctx, course.ID, student.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !enrolled {
		t.Error("expected enrollment to survive membership removal")
	}
}
