package services

import (
	"context"
	"errors"
	"testing"

	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/pkg/apperrors"
)

func TestInvitationLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	manager := f.addUser(2, models.RoleTeacher)
	invitee := f.addUser(3, models.RoleTeacher)
	center := f.addCenter(10, manager.ID)
	course := f.courses.add(&models.Course{CenterID: center.ID, Name: "Algebra", InvitationStatus: models.InvitationNone})

	svc := NewCourseService(f.courses, f.users, f.memberships, f.enrollments, f.authz)

	// Invite moves the course to PENDING without assigning the teacher.
	if err := svc.InviteTeacher(ctx, manager.ID, course.ID, invitee.Email); err != nil {
		t.Fatalf("invite: %v", err)
	}
	if course.InvitationStatus != models.InvitationPending {
		t.Fatalf("expected PENDING, got %s", course.InvitationStatus)
	}
	if course.TeacherID != nil {
		t.Error("expected no assigned teacher while pending")
	}

	// The invitation shows up in the invitee's inbox only.
	pending, err := svc.ListPendingInvitations(ctx, invitee.ID, invitee.ID)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected one pending invitation, got %v, %v", pending, err)
	}
	if _, err := svc.ListPendingInvitations(ctx, manager.ID, invitee.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied reading another inbox, got %v", err)
	}

	// Reject leaves the course unassigned.
	if err := svc.RespondToInvitation(ctx, invitee.ID, course.ID, "REJECTED"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if course.InvitationStatus != models.InvitationRejected || course.TeacherID != nil || course.PendingTeacherID != nil {
		t.Errorf("unexpected state after reject: %+v", course)
	}

	// A second respond hits a settled invitation and is denied.
	if err := svc.RespondToInvitation(ctx, invitee.ID, course.ID, "ACCEPTED"); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied on settled invitation, got %v", err)
	}

	// Re-invite returns to PENDING, then accept assigns the teacher.
	if err := svc.InviteTeacher(ctx, manager.ID, course.ID, invitee.Email); err != nil {
		t.Fatalf("re-invite: %v", err)
	}
	if course.InvitationStatus != models.InvitationPending {
		t.Fatalf("expected PENDING after re-invite, got %s", course.InvitationStatus)
	}
	if err := svc.RespondToInvitation(ctx, invitee.ID, course.ID, "ACCEPTED"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if course.InvitationStatus != models.InvitationAccepted || course.TeacherID == nil || *course.TeacherID != invitee.ID {
		t.Errorf("unexpected state after accept: %+v", course)
	}
	if course.PendingTeacherID != nil {
		t.Error("expected pending teacher cleared after accept")
	}
}

func TestInviteTeacherValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	manager := f.addUser(2, models.RoleTeacher)
	other := f.addUser(3, models.RoleTeacher)
	student := f.addUser(100, models.RoleStudent)
	disabled := f.users.add(&models.User{ID: 5, Email: "off@ecm.edu.vn", RoleType: models.RoleTeacher, IsEnabled: false})
	center := f.addCenter(10, manager.ID)
	course := f.courses.add(&models.Course{CenterID: center.ID, Name: "Algebra", InvitationStatus: models.InvitationNone})

	svc := NewCourseService(f.courses, f.users, f.memberships, f.enrollments, f.authz)

	if err := svc.InviteTeacher(ctx, other.ID, course.ID, manager.Email); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for non-manager, got %v", err)
	}
	if err := svc.InviteTeacher(ctx, manager.ID, course.ID, "nobody@ecm.edu.vn"); !errors.Is(err, apperrors.ErrTeacherNotFound) {
		t.Errorf("expected ErrTeacherNotFound for unknown email, got %v", err)
	}
	if err := svc.InviteTeacher(ctx, manager.ID, course.ID, student.Email); !errors.Is(err, apperrors.ErrTeacherNotFound) {
		t.Errorf("expected ErrTeacherNotFound for student email, got %v", err)
	}
	if err := svc.InviteTeacher(ctx, manager.ID, course.ID, disabled.Email); !errors.Is(err, apperrors.ErrTeacherNotFound) {
		t.Errorf("expected ErrTeacherNotFound for disabled teacher, got %v", err)
	}
}

func TestRespondToInvitationValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	manager := f.addUser(2, models.RoleTeacher)
	invitee := f.addUser(3, models.RoleTeacher)
	stranger := f.addUser(4, models.RoleTeacher)
	center := f.addCenter(10, manager.ID)
	course := f.courses.add(&models.Course{CenterID: center.ID, Name: "Algebra", InvitationStatus: models.InvitationNone})

	svc := NewCourseService(f.courses, f.users, f.memberships, f.enrollments, f.authz)
	if err := svc.InviteTeacher(ctx, manager.ID, course.ID, invitee.Email); err != nil {
		t.Fatalf("invite: %v", err)
	}

	if err := svc.RespondToInvitation(ctx, invitee.ID, course.ID, "MAYBE"); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed for bad decision, got %v", err)
	}
	if err := svc.RespondToInvitation(ctx, stranger.ID, course.ID, "ACCEPTED"); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for non-invitee, got %v", err)
	}
	if err := svc.RespondToInvitation(ctx, invitee.ID, 999, "ACCEPTED"); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}

	// The failed attempts must not have consumed the invitation.
	if err := svc.RespondToInvitation(ctx, invitee.ID, course.ID, "ACCEPTED"); err != nil {
		t.Errorf("expected invitation still answerable, got %v", err)
	}
}

func TestCreateCourseTeacherAssignment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	manager := f.addUser(2, models.RoleTeacher)
	other := f.addUser(3, models.RoleTeacher)
	center := f.addCenter(10, manager.ID)

	svc := NewCourseService(f.courses, f.users, f.memberships, f.enrollments, f.authz)

	// Naming yourself skips the handshake.
	selfCourse := &models.Course{CenterID: center.ID, Name: "Self Taught"}
	id, err := svc.CreateCourse(ctx, manager.ID, selfCourse, &manager.Email)
	if err != nil {
		t.Fatalf("create self course: %v", err)
	}
	created, _ := f.courses.GetByID(ctx, id)
	if created.InvitationStatus != models.InvitationAccepted || created.TeacherID == nil || *created.TeacherID != manager.ID {
		t.Errorf("expected direct assignment, got %+v", created)
	}

	// Naming another teacher starts a pending invitation.
	invCourse := &models.Course{CenterID: center.ID, Name: "Invited"}
	id, err = svc.CreateCourse(ctx, manager.ID, invCourse, &other.Email)
	if err != nil {
		t.Fatalf("create invited course: %v", err)
	}
	created, _ = f.courses.GetByID(ctx, id)
	if created.InvitationStatus != models.InvitationPending || created.TeacherID != nil {
		t.Errorf("expected pending invitation, got %+v", created)
	}
	if created.PendingTeacherID == nil || *created.PendingTeacherID != other.ID {
		t.Errorf("expected pending teacher %d, got %+v", other.ID, created)
	}

	// No email leaves the course unassigned.
	bare := &models.Course{CenterID: center.ID, Name: "Bare"}
	id, err = svc.CreateCourse(ctx, manager.ID, bare, nil)
	if err != nil {
		t.Fatalf("create bare course: %v", err)
	}
	created, _ = f.courses.GetByID(ctx, id)
	if created.InvitationStatus != models.InvitationNone || created.TeacherID != nil {
		t.Errorf("expected unassigned course, got %+v", created)
	}
}

func TestEnrollStudentAutoMembership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	manager := f.addUser(2, models.RoleTeacher)
	student := f.addUser(100, models.RoleStudent)
	center := f.addCenter(10, manager.ID)
	course := f.courses.add(&models.Course{CenterID: center.ID, Name: "Algebra", InvitationStatus: models.InvitationNone})

	svc := NewCourseService(f.courses, f.users, f.memberships, f.enrollments, f.authz)

	if err := svc.EnrollStudent(ctx, manager.ID, course.ID, student.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	member, _ := f.memberships.Exists(ctx, center.ID, student.ID)
	if !member {
		t.Error("expected enrollment to auto-connect the student to the center")
	}

	if err := svc.EnrollStudent(ctx, manager.ID, course.ID, student.ID); !errors.Is(err, apperrors.ErrAlreadyEnrolled) {
		t.Errorf("expected ErrAlreadyEnrolled, got %v", err)
	}

	// Pre-existing membership is not an error for a second course.
	course2 := f.courses.add(&models.Course{CenterID: center.ID, Name: "Geometry", InvitationStatus: models.InvitationNone})
	if err := svc.EnrollStudent(ctx, manager.ID, course2.ID, student.ID); err != nil {
		t.Errorf("expected enroll with existing membership to succeed, got %v", err)
	}

	if err := svc.UnenrollStudent(ctx, manager.ID, course.ID, student.ID); err != nil {
		t.Fatalf("unenroll: %v", err)
	}
	if err := svc.UnenrollStudent(ctx, manager.ID, course.ID, student.ID); !errors.Is(err, apperrors.ErrNotEnrolled) {
		t.Errorf("expected ErrNotEnrolled, got %v", err)
	}

	// Membership survives unenrollment.
	member, _ = f.memberships.Exists(ctx, center.ID, student.ID)
	if !member {
		t.Error("expected membership to survive unenrollment")
	}
}

func TestDeleteCourseWithEnrollments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	manager := f.addUser(2, models.RoleTeacher)
	student := f.addUser(100, models.RoleStudent)
	center := f.addCenter(10, manager.ID)
	course := f.courses.add(&models.Course{CenterID: center.ID, Name: "Algebra", InvitationStatus: models.InvitationNone})

	// The fake mirrors the repository's dependent-enrollment rejection.
	f.courses.deleteGuard = func(courseID int64) error {
		if exists, _ := f.enrollments.Exists(context.Background(), courseID, student.ID); exists {
			return apperrors.ErrCourseHasEnrollments
		}
		return nil
	}

	svc := NewCourseService(f.courses, f.users, f.memberships, f.enrollments, f.authz)
	if err := svc.EnrollStudent(ctx, manager.ID, course.ID, student.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	if err := svc.DeleteCourse(ctx, manager.ID, course.ID); !errors.Is(err, apperrors.ErrCourseHasEnrollments) {
		t.Errorf("expected ErrCourseHasEnrollments, got %v", err)
	}

	if err := svc.UnenrollStudent(ctx, manager.ID, course.ID, student.ID); err != nil {
		t.Fatalf("unenroll: %v", err)
	}
	if err := svc.DeleteCourse(ctx, manager.ID, course.ID); err != nil {
		t.Errorf("expected delete to succeed after unenroll, got %v", err)
	}
}
