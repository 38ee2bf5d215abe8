package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleTeacher RoleType = "TEACHER"
	RoleStudent RoleType = "STUDENT"
)

// InvitationStatus tracks the teacher-assignment lifecycle of a course.
type InvitationStatus string

const (
	// InvitationNone means the course has no teacher and was never invited.
	InvitationNone     InvitationStatus = "NONE"
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationRejected InvitationStatus = "REJECTED"
)

// CourseStatus represents the operational state of a course
type CourseStatus string

const (
	CourseActive CourseStatus = "ACTIVE"
	CourseClosed CourseStatus = "CLOSED"
)
