package jobs

import (
	"fmt"
	"log"
	"time"

	"rent-easy-server/database"
	"rent-easy-server/models"
	"rent-easy-server/services"
)

// How long a reservation may sit before it lapses
const reservationTTL = 7 * 24 * time.Hour

// ExpirationJob returns stale reserved listings to the market and tells
// both parties.
type ExpirationJob struct {
	email    services.EmailSender
	delivery services.Delivery
	stopChan chan bool
}

// NewExpirationJob creates a new expiration job
func NewExpirationJob(email services.EmailSender, delivery services.Delivery) *ExpirationJob {
	return &ExpirationJob{
		email:    email,
		delivery: delivery,
		stopChan: make(chan bool),
	}
}

// Start begins the expiration job
func (j *ExpirationJob) Start() {
	go j.run()
	log.Println("🚀 Reservation expiration job started")
}

// Stop stops the expiration job
func (j *ExpirationJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Reservation expiration job stopped")
}

// run executes the expiration job
func (j *ExpirationJob) run() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.checkExpiredReservations()
		case <-j.stopChan:
			return
		}
	}
}

// checkExpiredReservations finds listings whose reservation lapsed and
// releases them.
func (j *ExpirationJob) checkExpiredReservations() {
	var expired []models.Listing

	err := database.DB.Preload("Landowner").Preload("CurrentApplicant").
		Where("availability = ? AND updated_at < ?", models.AvailabilityReserved, time.Now().Add(-reservationTTL)).
		Find(&expired).Error
	if err != nil {
		log.Printf("❌ Error checking expired reservations: %v", err)
		return
	}

	for _, listing := range expired {
		j.expireReservation(listing)
	}

	if len(expired) > 0 {
		log.Printf("⏰ Processed %d expired reservations", len(expired))
	}
}

// expireReservation releases one listing and notifies both parties.
func (j *ExpirationJob) expireReservation(listing models.Listing) {
	applicant := listing.CurrentApplicant

	listing.Availability = models.AvailabilityAvailable
	listing.CurrentApplicantID = nil
	listing.CurrentApplicant = nil
	if err := database.DB.Save(&listing).Error; err != nil {
		log.Printf("❌ Failed to release listing %d: %v", listing.ID, err)
		return
	}

	j.notify(listing.LandownerID, &listing,
		fmt.Sprintf("Reservation period for %q has expired", listing.Title))
	if j.email != nil && listing.Landowner.Email != "" {
		j.email.Send(listing.Landowner.Email, "Reservation Expired",
			fmt.Sprintf("The reservation for %q has expired and the listing is available again.", listing.Title))
	}

	if applicant != nil {
		j.notify(applicant.ID, &listing,
			fmt.Sprintf("Your reservation for %q has expired", listing.Title))
		if j.email != nil && applicant.Email != "" {
			j.email.Send(applicant.Email, "Reservation Expired",
				fmt.Sprintf("Your reservation for %q has expired. The property is now available for others.", listing.Title))
		}
	}

	log.Printf("✅ Listing %d reservation expired and released", listing.ID)
}

func (j *ExpirationJob) notify(userID uint, listing *models.Listing, message string) {
	notification := &models.Notification{
		RecipientID: userID,
		Type:        models.NotificationStatusChange,
		ListingID:   &listing.ID,
		Message:     message,
	}
	if err := database.DB.Create(notification).Error; err != nil {
		log.Printf("❌ Failed to create expiry notification for user %d: %v", userID, err)
		return
	}
	if j.delivery != nil {
		j.delivery.SendToUser(userID, notification)
	}
}
