// Package services contains the business logic layer. Each service validates
// caller permissions through the authorization resolver before touching
// state, and depends on narrow repository interfaces so tests can substitute
// in-memory fakes.
package services

import (
	"context"
	"time"

	"github.com/extracenter/backend/internal/app/models"
)

// UserRepo is the user persistence surface used by services
type UserRepo interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetLocked(ctx context.Context, id int64, locked bool) error
	Delete(ctx context.Context, id int64) error
	GetAll(ctx context.Context) ([]*models.User, error)
	SearchStudents(ctx context.Context, keyword string) ([]*models.User, error)
}

// CenterRepo is the center persistence surface used by services
type CenterRepo interface {
	Create(ctx context.Context, center *models.Center) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Center, error)
	GetAll(ctx context.Context) ([]*models.Center, error)
	GetByManagerID(ctx context.Context, managerID int64) ([]*models.Center, error)
	GetTeachingByTeacherID(ctx context.Context, teacherID int64) ([]*models.Center, error)
	GetTeachersByCenterID(ctx context.Context, centerID int64) ([]*models.User, error)
	CountByManagerID(ctx context.Context, managerID int64) (int, error)
	Update(ctx context.Context, center *models.Center) error
	Delete(ctx context.Context, id int64) error
}

// MembershipRepo is the membership ledger surface used by services
type MembershipRepo interface {
	Assign(ctx context.Context, centerID, studentID int64) error
	Remove(ctx context.Context, centerID, studentID int64) error
	Exists(ctx context.Context, centerID, studentID int64) (bool, error)
	ListStudentsByCenterID(ctx context.Context, centerID int64) ([]*models.User, error)
	CountByStudentID(ctx context.Context, studentID int64) (int, error)
}

// CourseRepo is the course persistence surface used by services
type CourseRepo interface {
	Create(ctx context.Context, course *models.Course) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetByCenterID(ctx context.Context, centerID int64) ([]*models.Course, error)
	GetByTeacherID(ctx context.Context, teacherID int64) ([]*models.Course, error)
	CountByTeacherID(ctx context.Context, teacherID int64) (int, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
	SetPendingInvitation(ctx context.Context, courseID, teacherID int64) error
	AcceptInvitation(ctx context.Context, courseID, teacherID int64) (bool, error)
	RejectInvitation(ctx context.Context, courseID, teacherID int64) (bool, error)
	GetPendingInvitationsByTeacherID(ctx context.Context, teacherID int64) ([]*models.Course, error)
	TeacherTeachesAtCenter(ctx context.Context, centerID, teacherID int64) (bool, error)
}

// EnrollmentRepo is the enrollment persistence surface used by services
type EnrollmentRepo interface {
	Create(ctx context.Context, courseID, studentID int64) (int64, error)
	Delete(ctx context.Context, courseID, studentID int64) error
	Exists(ctx context.Context, courseID, studentID int64) (bool, error)
	GetIDByCourseAndStudent(ctx context.Context, courseID, studentID int64) (int64, error)
	ListStudentsByCourseID(ctx context.Context, courseID int64) ([]*models.User, error)
	CountByStudentID(ctx context.Context, studentID int64) (int, error)
}

// ClassSlotRepo is the class slot persistence surface used by services
type ClassSlotRepo interface {
	Create(ctx context.Context, slot *models.ClassSlot) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ClassSlot, error)
	GetByCourseID(ctx context.Context, courseID int64) ([]*models.ClassSlot, error)
	Delete(ctx context.Context, id int64) error
	GetScheduleByTeacherID(ctx context.Context, teacherID int64) ([]*models.ScheduleEntry, error)
	GetScheduleByStudentID(ctx context.Context, studentID int64) ([]*models.ScheduleEntry, error)
}

// AttendanceRepo is the attendance persistence surface used by services
type AttendanceRepo interface {
	Upsert(ctx context.Context, record *models.Attendance) error
	ListBySlotAndDate(ctx context.Context, classSlotID int64, date time.Time) ([]*models.AttendanceEntry, error)
}
