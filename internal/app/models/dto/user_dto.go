package dto

// CreateStudentRequest represents the quick student-creation form used by
// center managers. The login email is generated from the name, so only
// personal contact details are collected.
type CreateStudentRequest struct {
	FirstName     string  `json:"firstName" binding:"required" example:"Lan"`
	LastName      string  `json:"lastName" binding:"required" example:"Tran"`
	PersonalEmail string  `json:"personalEmail" binding:"omitempty,email"`
	PhoneNumber   *string `json:"phoneNumber,omitempty"`
	DateOfBirth   *string `json:"dateOfBirth,omitempty" example:"2008-02-20"`
	Password      string  `json:"password" binding:"required,min=8"`
}

// UpdateStudentRequest represents a student profile update performed by a manager
type UpdateStudentRequest struct {
	FirstName     string  `json:"firstName" binding:"required"`
	LastName      string  `json:"lastName" binding:"required"`
	PersonalEmail string  `json:"personalEmail" binding:"omitempty,email"`
	PhoneNumber   *string `json:"phoneNumber,omitempty"`
	DateOfBirth   *string `json:"dateOfBirth,omitempty" example:"2008-02-20"`
}

// UserStatsResponse represents the per-user rollup returned to admins.
// Teacher targets report managed centers, taught courses and the distinct
// roster size; student targets report memberships and enrollments.
type UserStatsResponse struct {
	UserID        int64  `json:"userId" example:"7"`
	RoleType      string `json:"roleType" example:"TEACHER"`
	TotalCenters  int    `json:"totalCenters" example:"2"`
	TotalCourses  int    `json:"totalCourses" example:"5"`
	TotalStudents *int   `json:"totalStudents,omitempty" example:"42"`
}

// LockResponse reports the lock state after an admin toggle
type LockResponse struct {
	UserID   int64 `json:"userId" example:"7"`
	IsLocked bool  `json:"isLocked" example:"true"`
}
