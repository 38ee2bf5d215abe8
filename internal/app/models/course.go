package models

import "time"

// Course defines a course run by a center. A course belongs to exactly one
// center for its lifetime. TeacherID is nullable: a course gains a teacher
// only through the invitation workflow (or when the manager names themself
// at creation). PendingTeacherID holds the invited teacher while the
// invitation is PENDING.
type Course struct {
	ID               int64            `json:"id" db:"id" example:"1"`
	CenterID         int64            `json:"centerId" db:"center_id" example:"1"`
	Name             string           `json:"name" db:"name" example:"Algebra 9A"`
	Subject          *string          `json:"subject,omitempty" db:"subject"`
	Grade            *int             `json:"grade,omitempty" db:"grade"`
	Description      *string          `json:"description,omitempty" db:"description"`
	StartDate        *time.Time       `json:"startDate,omitempty" db:"start_date"`
	EndDate          *time.Time       `json:"endDate,omitempty" db:"end_date"`
	Status           CourseStatus     `json:"status" db:"status" example:"ACTIVE"`
	TeacherID        *int64           `json:"teacherId,omitempty" db:"teacher_id"`
	PendingTeacherID *int64           `json:"pendingTeacherId,omitempty" db:"pending_teacher_id"`
	InvitationStatus InvitationStatus `json:"invitationStatus" db:"invitation_status" example:"NONE"`
	Center           *Center          `json:"center,omitempty"`  // Relation, no db tag
	Teacher          *User            `json:"teacher,omitempty"` // Relation, no db tag
}
