package models

import "time"

// CenterMembership is the many-to-many join between students and centers.
// The (centerID, studentID) pair is unique; row id order is insertion order.
type CenterMembership struct {
	ID        int64     `json:"id" db:"id"`
	CenterID  int64     `json:"centerId" db:"center_id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
