package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RegisterContactRequestRoutes registers the contact workflow routes.
// All of them require authentication.
func RegisterContactRequestRoutes(rg *gin.RouterGroup) {
	rg.POST("/listings/:id/request-contact", RequestContact)
	rg.PUT("/notifications/:id/accept", AcceptContactRequest)
	rg.PUT("/notifications/:id/reject", RejectContactRequest)
	rg.PUT("/notifications/:id/mark-taken", MarkListingTakenByNotification)
	rg.PUT("/listings/:id/mark-taken", MarkListingTaken)
}

// RequestContact lets a renter ask for a landowner's contact details.
func RequestContact(c *gin.Context) {
	userID := c.GetUint("user_id")

	listingID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	request, notification, err := contactService.RequestContact(listingID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	log.Printf("📨 Contact request %d created for listing %d by user %d", request.ID, listingID, userID)

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Contact request sent",
		"contactRequest": request,
		"notification":   notification,
	})
}

// AcceptContactRequest approves a contact request from its notification
// and shares the landowner's contact details with the requester.
func AcceptContactRequest(c *gin.Context) {
	userID := c.GetUint("user_id")

	notificationID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}

	_, contactInfo, err := contactService.ApproveContact(notificationID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Contact shared with requester",
		"contactInfo": contactInfo,
	})
}

// RejectContactRequest declines a contact request from its notification.
func RejectContactRequest(c *gin.Context) {
	userID := c.GetUint("user_id")

	notificationID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}

	if _, err := contactService.RejectContact(notificationID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Contact request declined",
	})
}

// MarkListingTakenByNotification marks a listing taken from the
// landowner's actionable notification.
func MarkListingTakenByNotification(c *gin.Context) {
	userID := c.GetUint("user_id")

	notificationID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}

	if _, err := contactService.MarkTakenByNotification(notificationID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Listing marked as taken and requesters notified",
	})
}

// MarkListingTaken marks a listing taken by its own id.
func MarkListingTaken(c *gin.Context) {
	userID := c.GetUint("user_id")

	listingID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	listing, err := contactService.MarkListingTaken(listingID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Listing marked as taken and requesters notified",
		"listing": listing,
	})
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
