package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleRenter    UserRole = "renter"
	RoleLandowner UserRole = "landowner"
	RoleAdmin     UserRole = "admin"
)

type User struct {
	ID           uint      `json:"_id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Phone        string    `json:"phone" gorm:"size:20"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role         UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'renter';check:role IN ('renter','landowner','admin')"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// Relationships
	Listings []Listing `json:"listings,omitempty" gorm:"foreignKey:LandownerID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleRenter
	}
	return nil
}

// IsLandowner checks if the user is a landowner
func (u *User) IsLandowner() bool {
	return u.Role == RoleLandowner
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
