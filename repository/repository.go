package repository

import (
	"time"

	"rent-easy-server/models"
)

// Store interfaces consumed by the workflow engine and the pull path.
// The GORM implementations live alongside them; tests substitute mocks.

type UserRepository interface {
	FindByID(id uint) (*models.User, error)
}

type ListingRepository interface {
	// FindByID loads a listing with its landowner populated.
	FindByID(id uint) (*models.Listing, error)
	Save(listing *models.Listing) error
}

type ContactRequestRepository interface {
	Create(request *models.ContactRequest) error
	FindByListingAndRequester(listingID, fromUserID uint) (*models.ContactRequest, error)
	// FindPendingByListing loads pending requests with FromUser populated.
	FindPendingByListing(listingID uint) ([]models.ContactRequest, error)
	// MarkApproved transitions a request pending→approved and stamps
	// contact_shared_at. Returns the number of rows changed: zero means
	// the request was already resolved (terminal states never re-transition).
	MarkApproved(id uint, sharedAt time.Time) (int64, error)
	// MarkRejected transitions a single request pending→rejected.
	MarkRejected(id uint) (int64, error)
	// RejectPendingByListing bulk-transitions every pending request for a
	// listing to rejected.
	RejectPendingByListing(listingID uint) (int64, error)
}

type NotificationRepository interface {
	Create(notification *models.Notification) error
	FindByID(id uint) (*models.Notification, error)
	// ListByRecipient returns the recipient's notifications newest-first.
	ListByRecipient(recipientID uint, limit int) ([]models.Notification, error)
	// MarkRead flips the read flag for a notification owned by userID.
	MarkRead(id, recipientID uint) (*models.Notification, error)
	MarkAllRead(recipientID uint) error
	CountUnread(recipientID uint) (int64, error)
	// Resolve persists read=true, action_required=false on an actioned
	// notification.
	Resolve(notification *models.Notification) error
}
