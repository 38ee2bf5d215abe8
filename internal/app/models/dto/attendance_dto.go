package dto

// CreateClassSlotRequest represents a weekly class slot creation request.
// DayOfWeek follows ISO numbering (1=Monday .. 7=Sunday); times are HH:MM.
type CreateClassSlotRequest struct {
	DayOfWeek   int    `json:"dayOfWeek" binding:"required,min=1,max=7" example:"2"`
	StartTime   string `json:"startTime" binding:"required,datetime=15:04" example:"09:00"`
	EndTime     string `json:"endTime" binding:"required,datetime=15:04" example:"10:30"`
	IsRecurring *bool  `json:"isRecurring,omitempty" example:"true"`
}

// AttendanceStatus is one student's presence mark inside a sheet submission
type AttendanceStatus struct {
	StudentID int64  `json:"studentId" binding:"required" example:"100"`
	IsPresent *bool  `json:"isPresent" binding:"required" example:"true"`
	Note      string `json:"note,omitempty" example:"arrived late"`
}

// MarkAttendanceRequest submits the attendance sheet of one dated slot
// occurrence. Re-submitting the same slot and date updates the marks in
// place.
type MarkAttendanceRequest struct {
	ClassSlotID int64              `json:"classSlotId" binding:"required" example:"1"`
	Date        string             `json:"date" binding:"required,datetime=2006-01-02" example:"2026-01-12"`
	Students    []AttendanceStatus `json:"students" binding:"required,min=1,dive"`
}
