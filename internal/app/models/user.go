package models

import (
	"time"
)

// User defines the user model based on the 'users' table.
// Identity is immutable; the role is never changed after creation.
type User struct {
	ID            int64      `json:"id" db:"id" example:"1"`                                       // Unique identifier for the user
	FirstName     string     `json:"firstName" db:"first_name" example:"Minh"`                     // User's first name
	LastName      string     `json:"lastName" db:"last_name" example:"Nguyen"`                     // User's last name
	Email         string     `json:"email" db:"email" example:"minh.nguyen@ecm.edu.vn"`           // Login email, unique
	PersonalEmail string     `json:"personalEmail,omitempty" db:"personal_email"`                  // Contact email used during registration
	Password      string     `json:"-" db:"password"`                                              // Hashed password (excluded from JSON)
	PhoneNumber   *string    `json:"phoneNumber,omitempty" db:"phone_number"`                      // Phone number (nullable)
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`                     // Date of birth (nullable)
	RoleType      RoleType   `json:"roleType" db:"role_type" example:"TEACHER"`                    // ADMIN, TEACHER or STUDENT
	IsEnabled     bool       `json:"isEnabled" db:"is_enabled" example:"true"`                     // Account has been activated
	IsLocked      bool       `json:"isLocked" db:"is_locked" example:"false"`                      // Locked by an admin
	CreatedAt     time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`     // Timestamp when the user was created
}
