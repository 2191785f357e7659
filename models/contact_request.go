package models

import "time"

type ContactRequestStatus string

const (
	ContactRequestPending  ContactRequestStatus = "pending"
	ContactRequestApproved ContactRequestStatus = "approved"
	ContactRequestRejected ContactRequestStatus = "rejected"
)

// ContactRequest is a renter's ask for a landowner's contact details.
// The compound unique index on (listing_id, from_user_id) enforces the
// at-most-one-request-per-pair invariant at the store level, so a race
// between two identical requests surfaces as a duplicate-key error
// instead of a second row.
type ContactRequest struct {
	ID              uint                 `json:"_id" gorm:"primaryKey"`
	ListingID       uint                 `json:"listing" gorm:"not null;uniqueIndex:idx_listing_requester;index"`
	FromUserID      uint                 `json:"fromUser" gorm:"not null;uniqueIndex:idx_listing_requester"`
	ToUserID        uint                 `json:"toUser" gorm:"not null;index"`
	Message         string               `json:"message,omitempty" gorm:"type:text"`
	Status          ContactRequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index;check:status IN ('pending','approved','rejected')"`
	ContactSharedAt *time.Time           `json:"contactSharedAt,omitempty"`
	CreatedAt       time.Time            `json:"createdAt" gorm:"autoCreateTime"`

	// Relationships
	Listing  Listing `json:"listingInfo,omitempty" gorm:"foreignKey:ListingID"`
	FromUser User    `json:"fromUserInfo,omitempty" gorm:"foreignKey:FromUserID"`
	ToUser   User    `json:"toUserInfo,omitempty" gorm:"foreignKey:ToUserID"`
}

// TableName specifies the table name for the ContactRequest model
func (ContactRequest) TableName() string {
	return "contact_requests"
}

// IsResolved reports whether the request reached a terminal state.
func (cr *ContactRequest) IsResolved() bool {
	return cr.Status != ContactRequestPending
}
