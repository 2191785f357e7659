package models

import "time"

type ListingStatus string

const (
	ListingStatusPending  ListingStatus = "pending"
	ListingStatusApproved ListingStatus = "approved"
	ListingStatusRejected ListingStatus = "rejected"
	ListingStatusTaken    ListingStatus = "taken"
)

type ListingAvailability string

const (
	AvailabilityAvailable ListingAvailability = "available"
	AvailabilityReserved  ListingAvailability = "reserved"
	AvailabilityTaken     ListingAvailability = "taken"
)

// Listing is a rental property posting. New contact requests are only
// accepted while status is approved and availability is available.
type Listing struct {
	ID            uint                `json:"_id" gorm:"primaryKey"`
	Title         string              `json:"title" gorm:"size:255;not null"`
	Description   string              `json:"description" gorm:"type:text;not null"`
	Price         float64             `json:"price" gorm:"not null"`
	Location      string              `json:"location" gorm:"size:255;not null;index"`
	ExactLocation string              `json:"exactLocation,omitempty" gorm:"size:255"`
	HouseType     string              `json:"houseType,omitempty" gorm:"size:100"`
	Bedrooms      int                 `json:"bedrooms,omitempty"`
	Bathrooms     int                 `json:"bathrooms,omitempty"`
	Area          float64             `json:"area,omitempty"`
	Subcity       string              `json:"subcity,omitempty" gorm:"size:100"`
	Status        ListingStatus       `json:"status" gorm:"type:varchar(20);not null;default:'pending';index;check:status IN ('pending','approved','rejected','taken')"`
	Availability  ListingAvailability `json:"availability" gorm:"type:varchar(20);not null;default:'available';index;check:availability IN ('available','reserved','taken')"`
	AdminComments string              `json:"adminComments,omitempty" gorm:"type:text"`

	LandownerID        uint  `json:"landowner" gorm:"not null;index"`
	CurrentApplicantID *uint `json:"currentApplicant,omitempty"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// Relationships
	Landowner        User  `json:"landownerInfo,omitempty" gorm:"foreignKey:LandownerID"`
	CurrentApplicant *User `json:"currentApplicantInfo,omitempty" gorm:"foreignKey:CurrentApplicantID"`
}

// TableName specifies the table name for the Listing model
func (Listing) TableName() string {
	return "listings"
}

// AcceptsContactRequests reports whether the listing can receive new
// contact requests.
func (l *Listing) AcceptsContactRequests() bool {
	return l.Status == ListingStatusApproved && l.Availability == AvailabilityAvailable
}
