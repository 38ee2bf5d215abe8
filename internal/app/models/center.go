package models

import "time"

// Center defines an organizational unit run by exactly one manager
// (a TEACHER user). A center without a valid manager is invalid.
type Center struct {
	ID          int64     `json:"id" db:"id" example:"1"`
	Name        string    `json:"name" db:"name" binding:"required" example:"ECM Math Center"`
	ManagerID   int64     `json:"managerId" db:"manager_id" example:"5"`
	PhoneNumber *string   `json:"phoneNumber,omitempty" db:"phone_number"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	Manager     *User     `json:"manager,omitempty"` // Relation, no db tag
}
