package models

import "time"

// Enrollment registers a student into a course. Independent of
// CenterMembership: an enrolled student need not be a center member,
// although enrolling auto-assigns the membership as a side effect.
type Enrollment struct {
	ID             int64      `json:"id" db:"id"`
	CourseID       int64      `json:"courseId" db:"course_id"`
	StudentID      int64      `json:"studentId" db:"student_id"`
	EnrollmentDate time.Time  `json:"enrollmentDate" db:"enrollment_date"`
	ProgressScore  *float32   `json:"progressScore,omitempty" db:"progress_score"`
	TestScore      *float32   `json:"testScore,omitempty" db:"test_score"`
	FinalScore     *float32   `json:"finalScore,omitempty" db:"final_score"`
	Performance    *string    `json:"performance,omitempty" db:"performance"` // A, B, C, F
	Student        *User      `json:"student,omitempty"`                      // Relation, no db tag
	Course         *Course    `json:"course,omitempty"`                       // Relation, no db tag
}
