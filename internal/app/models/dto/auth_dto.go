package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"minh.nguyen@ecm.edu.vn"`
	Password string `json:"password" binding:"required" example:"Password123!"`
}

// RegisterTeacherRequest represents a teacher self-registration request.
// The account stays disabled until an admin activates it.
type RegisterTeacherRequest struct {
	FirstName     string `json:"firstName" binding:"required" example:"Minh"`
	LastName      string `json:"lastName" binding:"required" example:"Nguyen"`
	Email         string `json:"email" binding:"required,email" example:"minh.nguyen@ecm.edu.vn"`
	PersonalEmail string `json:"personalEmail" binding:"omitempty,email" example:"minh@gmail.com"`
	Password      string `json:"password" binding:"required,min=8" example:"Password123!"`
	PhoneNumber   string `json:"phoneNumber" binding:"omitempty" example:"+84901234567"`
}

// TokenResponse represents the token pair returned after a successful login
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	TokenType        string `json:"tokenType" example:"Bearer"`
	ExpiresIn        int    `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int    `json:"refreshExpiresIn" example:"2592000"`
	UserID           int64  `json:"userId" example:"1"`
	RoleType         string `json:"roleType" example:"TEACHER"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// UpdateProfileRequest represents a self-service profile update
type UpdateProfileRequest struct {
	FirstName   string  `json:"firstName" binding:"required"`
	LastName    string  `json:"lastName" binding:"required"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty" example:"2001-09-15"`
}
