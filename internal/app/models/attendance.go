package models

import "time"

// ClassSlot is a recurring weekly time slot of a course. DayOfWeek follows
// ISO numbering: 1=Monday .. 7=Sunday. Times are stored as HH:MM strings.
type ClassSlot struct {
	ID          int64  `json:"id" db:"id" example:"1"`
	CourseID    int64  `json:"courseId" db:"course_id" example:"1"`
	DayOfWeek   int    `json:"dayOfWeek" db:"day_of_week" example:"2"`
	StartTime   string `json:"startTime" db:"start_time" example:"09:00"`
	EndTime     string `json:"endTime" db:"end_time" example:"10:30"`
	IsRecurring bool   `json:"isRecurring" db:"is_recurring" example:"true"`
}

// Attendance records whether one enrolled student attended one dated
// occurrence of a class slot. One row per (enrollment, slot, date).
type Attendance struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	EnrollmentID int64     `json:"enrollmentId" db:"enrollment_id" example:"1"`
	ClassSlotID  int64     `json:"classSlotId" db:"class_slot_id" example:"1"`
	Date         time.Time `json:"date" db:"date"`
	IsPresent    bool      `json:"isPresent" db:"is_present" example:"true"`
	Note         string    `json:"note" db:"note" example:"arrived late"`
}

// AttendanceEntry is one attendance row joined with the student it belongs
// to, as returned for a marked session sheet.
type AttendanceEntry struct {
	AttendanceID int64  `json:"attendanceId" db:"id"`
	StudentID    int64  `json:"studentId" db:"student_id"`
	FirstName    string `json:"firstName" db:"first_name"`
	LastName     string `json:"lastName" db:"last_name"`
	IsPresent    bool   `json:"isPresent" db:"is_present"`
	Note         string `json:"note" db:"note"`
}

// ScheduleEntry is one class slot joined with its course and assigned
// teacher, as shown in a weekly schedule view.
type ScheduleEntry struct {
	CourseID    int64  `json:"courseId" db:"course_id"`
	CourseName  string `json:"courseName" db:"course_name"`
	DayOfWeek   int    `json:"dayOfWeek" db:"day_of_week"`
	StartTime   string `json:"startTime" db:"start_time"`
	EndTime     string `json:"endTime" db:"end_time"`
	TeacherName string `json:"teacherName" db:"teacher_name"`
}
