package models

import "time"

type NotificationType string

const (
	NotificationContactRequest  NotificationType = "contact_request"
	NotificationContactApproved NotificationType = "contact_approved"
	NotificationListingTaken    NotificationType = "listing_taken"
	NotificationStatusChange    NotificationType = "status_change"
	NotificationContactResponse NotificationType = "contact_response"
)

// ActionContactApproval marks the landowner's actionable notification;
// the same record also drives the mark-taken endpoint, which keys off
// the listing reference rather than a dedicated action type.
const ActionContactApproval = "contact-approval"

// ContactInfo is a point-in-time copy of a landowner's contact details,
// embedded into an approval notification. It is never updated after the
// notification is created; later profile changes do not reach it.
type ContactInfo struct {
	Name  string `json:"name,omitempty" gorm:"size:255"`
	Email string `json:"email,omitempty" gorm:"size:255"`
	Phone string `json:"phone,omitempty" gorm:"size:20"`
}

// Notification is a durable, recipient-scoped event record. JSON field
// names follow the client wire contract (_id, recipient, camelCase).
// Records are never deleted; they serve as the audit trail.
type Notification struct {
	ID               uint             `json:"_id" gorm:"primaryKey"`
	RecipientID      uint             `json:"recipient" gorm:"not null;index"`
	SenderID         *uint            `json:"sender,omitempty"`
	Type             NotificationType `json:"type" gorm:"type:varchar(30);not null;check:type IN ('contact_request','contact_approved','listing_taken','status_change','contact_response')"`
	ListingID        *uint            `json:"listing,omitempty"`
	ContactRequestID *uint            `json:"contactRequest,omitempty"`
	Message          string           `json:"message" gorm:"type:text;not null"`
	Read             bool             `json:"read" gorm:"default:false;index"`
	ActionRequired   bool             `json:"actionRequired" gorm:"default:false"`
	ActionType       string           `json:"actionType,omitempty" gorm:"size:30"`
	ContactInfo      *ContactInfo     `json:"contactInfo,omitempty" gorm:"embedded;embeddedPrefix:contact_"`
	CreatedAt        time.Time        `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt        time.Time        `json:"updatedAt" gorm:"autoUpdateTime"`

	// Relationships
	Recipient User  `json:"-" gorm:"foreignKey:RecipientID"`
	Sender    *User `json:"senderInfo,omitempty" gorm:"foreignKey:SenderID"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}

// Resolve closes out an actionable notification. A resolved record is
// always read as well.
func (n *Notification) Resolve() {
	n.ActionRequired = false
	n.Read = true
}
