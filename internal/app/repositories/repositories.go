package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	CenterRepository     *CenterRepository
	MembershipRepository *MembershipRepository
	CourseRepository     *CourseRepository
	EnrollmentRepository *EnrollmentRepository
	ClassSlotRepository  *ClassSlotRepository
	AttendanceRepository *AttendanceRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		CenterRepository:     NewCenterRepository(db),
		MembershipRepository: NewMembershipRepository(db),
		CourseRepository:     NewCourseRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
		ClassSlotRepository:  NewClassSlotRepository(db),
		AttendanceRepository: NewAttendanceRepository(db),
	}
}
