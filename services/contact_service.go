package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"rent-easy-server/models"
	"rent-easy-server/repository"
)

// Delivery is the push side of the notification pipeline. Implemented by
// the websocket hub. Push is best-effort: a false return means no live
// connection took the payload, and the caller must not treat that as an
// error — the durable record stays fetchable over the pull path.
type Delivery interface {
	SendToUser(userID uint, payload interface{}) bool
}

// ContactService is the contact-request workflow engine. It owns every
// state transition on ContactRequest records and on listing
// availability, creates the notification audit trail, and hands
// finished notifications to the delivery channel. It never touches raw
// connections.
type ContactService struct {
	users         repository.UserRepository
	listings      repository.ListingRepository
	requests      repository.ContactRequestRepository
	notifications repository.NotificationRepository
	delivery      Delivery
}

// NewContactService wires the workflow engine to its stores and the
// delivery channel.
func NewContactService(
	users repository.UserRepository,
	listings repository.ListingRepository,
	requests repository.ContactRequestRepository,
	notifications repository.NotificationRepository,
	delivery Delivery,
) *ContactService {
	return &ContactService{
		users:         users,
		listings:      listings,
		requests:      requests,
		notifications: notifications,
		delivery:      delivery,
	}
}

// RequestContact creates a pending contact request from requesterID to
// the landowner of listingID, plus the landowner's actionable
// notification, and pushes it to the landowner's open connections.
func (cs *ContactService) RequestContact(listingID, requesterID uint) (*models.ContactRequest, *models.Notification, error) {
	listing, err := cs.listings.FindByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if listing.Landowner.ID == 0 {
		return nil, nil, fmt.Errorf("listing %d has no landowner configured", listingID)
	}

	// Self-contact makes no sense
	if listing.LandownerID == requesterID {
		return nil, nil, ErrInvalidOperation
	}

	if !listing.AcceptsContactRequests() {
		return nil, nil, ErrInvalidOperation
	}

	// Fast-path duplicate check; the unique index below is the
	// authoritative guard under concurrency.
	if _, err := cs.requests.FindByListingAndRequester(listingID, requesterID); err == nil {
		return nil, nil, ErrDuplicateRequest
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	requester, err := cs.users.FindByID(requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	request := &models.ContactRequest{
		ListingID:  listing.ID,
		FromUserID: requester.ID,
		ToUserID:   listing.LandownerID,
		Status:     models.ContactRequestPending,
	}
	if err := cs.requests.Create(request); err != nil {
		// Two identical requests raced: the (listing, requester) unique
		// index rejected the second insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrDuplicateRequest
		}
		return nil, nil, err
	}

	notification := &models.Notification{
		RecipientID:      listing.LandownerID,
		SenderID:         &requester.ID,
		Type:             models.NotificationContactRequest,
		ListingID:        &listing.ID,
		ContactRequestID: &request.ID,
		Message:          fmt.Sprintf("%s wants to contact you about %q", requester.Name, listing.Title),
		ActionRequired:   true,
		ActionType:       models.ActionContactApproval,
	}
	if err := cs.notifications.Create(notification); err != nil {
		return nil, nil, err
	}

	cs.push(listing.LandownerID, notification)

	return request, notification, nil
}

// ApproveContact resolves a contact_request notification: the contact
// request transitions to approved, the requester gets a notification
// carrying a point-in-time snapshot of the landowner's contact details,
// and the original notification is marked read and non-actionable.
func (cs *ContactService) ApproveContact(notificationID, actingUserID uint) (*models.Notification, *models.ContactInfo, error) {
	notification, listing, requester, err := cs.loadActionable(notificationID, actingUserID)
	if err != nil {
		return nil, nil, err
	}

	rows, err := cs.requests.MarkApproved(*notification.ContactRequestID, time.Now())
	if err != nil {
		return nil, nil, err
	}
	if rows == 0 {
		// Request already reached a terminal state
		return nil, nil, ErrInvalidOperation
	}

	// Snapshot, not a live reference: the delivered notification keeps
	// these values even if the landowner's profile changes later.
	contactInfo := &models.ContactInfo{
		Name:  listing.Landowner.Name,
		Email: listing.Landowner.Email,
		Phone: listing.Landowner.Phone,
	}

	approvedNotification := &models.Notification{
		RecipientID:      requester.ID,
		SenderID:         &actingUserID,
		Type:             models.NotificationContactApproved,
		ListingID:        &listing.ID,
		ContactRequestID: notification.ContactRequestID,
		Message:          fmt.Sprintf("Your contact request for %q was approved!", listing.Title),
		ContactInfo:      contactInfo,
	}
	if err := cs.notifications.Create(approvedNotification); err != nil {
		return nil, nil, err
	}

	if err := cs.notifications.Resolve(notification); err != nil {
		return nil, nil, err
	}

	cs.push(requester.ID, approvedNotification)

	return approvedNotification, contactInfo, nil
}

// RejectContact resolves a contact_request notification by declining it.
// The contact request transitions to rejected and the requester is told.
func (cs *ContactService) RejectContact(notificationID, actingUserID uint) (*models.Notification, error) {
	notification, listing, requester, err := cs.loadActionable(notificationID, actingUserID)
	if err != nil {
		return nil, err
	}

	rows, err := cs.requests.MarkRejected(*notification.ContactRequestID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInvalidOperation
	}

	rejectedNotification := &models.Notification{
		RecipientID:      requester.ID,
		SenderID:         &actingUserID,
		Type:             models.NotificationContactResponse,
		ListingID:        &listing.ID,
		ContactRequestID: notification.ContactRequestID,
		Message:          fmt.Sprintf("Your contact request for %q was declined", listing.Title),
	}
	if err := cs.notifications.Create(rejectedNotification); err != nil {
		return nil, err
	}

	if err := cs.notifications.Resolve(notification); err != nil {
		return nil, err
	}

	cs.push(requester.ID, rejectedNotification)

	return rejectedNotification, nil
}

// MarkListingTaken transitions a listing to taken, bulk-rejects its
// pending contact requests and notifies every rejected requester. The
// state transition and the notification records are the durable part;
// push delivery is best-effort and partial delivery failure never rolls
// anything back.
func (cs *ContactService) MarkListingTaken(listingID, actingUserID uint) (*models.Listing, error) {
	listing, err := cs.listings.FindByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if listing.LandownerID != actingUserID {
		return nil, ErrForbidden
	}

	if listing.Availability == models.AvailabilityTaken {
		return nil, ErrInvalidOperation
	}

	// Load the pending requesters before the bulk reject wipes the
	// pending status out from under the query.
	pending, err := cs.requests.FindPendingByListing(listing.ID)
	if err != nil {
		return nil, err
	}

	if _, err := cs.requests.RejectPendingByListing(listing.ID); err != nil {
		return nil, err
	}

	listing.Availability = models.AvailabilityTaken
	listing.Status = models.ListingStatusTaken
	if err := cs.listings.Save(listing); err != nil {
		return nil, err
	}

	for _, request := range pending {
		requesterID := request.FromUserID
		statusNotification := &models.Notification{
			RecipientID: requesterID,
			SenderID:    &actingUserID,
			Type:        models.NotificationStatusChange,
			ListingID:   &listing.ID,
			Message:     fmt.Sprintf("The listing %q has been marked as taken", listing.Title),
		}
		if err := cs.notifications.Create(statusNotification); err != nil {
			log.Printf("❌ Failed to create status_change notification for user %d: %v", requesterID, err)
			continue
		}
		cs.push(requesterID, statusNotification)
	}

	log.Printf("🏠 Listing %d marked taken, %d pending requests rejected", listing.ID, len(pending))

	return listing, nil
}

// MarkTakenByNotification is MarkListingTaken triggered from the
// landowner's actionable notification; it additionally resolves that
// notification.
func (cs *ContactService) MarkTakenByNotification(notificationID, actingUserID uint) (*models.Listing, error) {
	notification, err := cs.notifications.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if notification.RecipientID != actingUserID {
		return nil, ErrForbidden
	}
	if notification.ListingID == nil {
		return nil, ErrNotFound
	}

	listing, err := cs.MarkListingTaken(*notification.ListingID, actingUserID)
	if err != nil {
		return nil, err
	}

	if err := cs.notifications.Resolve(notification); err != nil {
		return nil, err
	}

	return listing, nil
}

// loadActionable loads a contact_request notification and its related
// listing and requester, enforcing the recipient/type/actionable guards
// shared by approve and reject.
func (cs *ContactService) loadActionable(notificationID, actingUserID uint) (*models.Notification, *models.Listing, *models.User, error) {
	notification, err := cs.notifications.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, err
	}

	if notification.RecipientID != actingUserID {
		return nil, nil, nil, ErrForbidden
	}
	if notification.Type != models.NotificationContactRequest {
		return nil, nil, nil, ErrInvalidOperation
	}
	if !notification.ActionRequired {
		// Already actioned
		return nil, nil, nil, ErrInvalidOperation
	}
	if notification.ListingID == nil || notification.ContactRequestID == nil || notification.SenderID == nil {
		return nil, nil, nil, ErrNotFound
	}

	listing, err := cs.listings.FindByID(*notification.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, err
	}

	requester, err := cs.users.FindByID(*notification.SenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, err
	}

	return notification, listing, requester, nil
}

// push hands a notification to the delivery channel. A miss is the
// normal offline case: logged, never surfaced.
func (cs *ContactService) push(userID uint, notification *models.Notification) {
	if cs.delivery == nil {
		return
	}
	if delivered := cs.delivery.SendToUser(userID, notification); !delivered {
		log.Printf("📭 User %d offline, notification %d awaits pull", userID, notification.ID)
	}
}
