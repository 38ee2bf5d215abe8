package dto

// CreateCenterRequest represents a center creation request
type CreateCenterRequest struct {
	Name        string  `json:"name" binding:"required" example:"Sunrise Learning Center"`
	PhoneNumber *string `json:"phoneNumber,omitempty" example:"+84281234567"`
	Description *string `json:"description,omitempty"`
}

// UpdateCenterRequest represents a center update request
type UpdateCenterRequest struct {
	Name        string  `json:"name" binding:"required"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Description *string `json:"description,omitempty"`
}
