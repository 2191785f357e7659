package models

import "time"

// PasswordReset is a single-use token emailed to a user who forgot
// their password.
type PasswordReset struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	TokenHash string    `json:"-" gorm:"size:128;uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the PasswordReset model
func (PasswordReset) TableName() string {
	return "password_resets"
}

// IsUsable reports whether the token can still redeem a reset.
func (pr *PasswordReset) IsUsable() bool {
	return pr.UsedAt == nil && time.Now().Before(pr.ExpiresAt)
}
