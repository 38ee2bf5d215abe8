package dto

// CreateCourseRequest represents a course creation request. TeacherEmail is
// optional: naming yourself assigns the course directly, any other address
// starts as an unassigned course.
type CreateCourseRequest struct {
	CenterID     int64   `json:"centerId" binding:"required" example:"1"`
	Name         string  `json:"name" binding:"required" example:"Algebra 9A"`
	Subject      *string `json:"subject,omitempty" example:"Mathematics"`
	Grade        *int    `json:"grade,omitempty" example:"9"`
	Description  *string `json:"description,omitempty"`
	StartDate    *string `json:"startDate,omitempty" example:"2025-09-01"`
	EndDate      *string `json:"endDate,omitempty" example:"2026-05-31"`
	TeacherEmail *string `json:"teacherEmail,omitempty" example:"minh.nguyen@ecm.edu.vn"`
}

// UpdateCourseRequest represents a course update request
type UpdateCourseRequest struct {
	Name        string  `json:"name" binding:"required"`
	Subject     *string `json:"subject,omitempty"`
	Grade       *int    `json:"grade,omitempty"`
	Description *string `json:"description,omitempty"`
	StartDate   *string `json:"startDate,omitempty" example:"2025-09-01"`
	EndDate     *string `json:"endDate,omitempty" example:"2026-05-31"`
	Status      *string `json:"status,omitempty" example:"ACTIVE"`
}
