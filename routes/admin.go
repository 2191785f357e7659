package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rent-easy-server/database"
	"rent-easy-server/models"
)

// RegisterAdminRoutes registers the moderation transition. Listings are
// born pending; an admin moves them to approved or rejected before they
// can accept contact requests.
func RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.PATCH("/listings/:id/status", UpdateListingStatus)
}

type updateListingStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	Comments string `json:"comments"`
}

// UpdateListingStatus transitions a pending listing to approved or
// rejected.
func UpdateListingStatus(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	var req updateListingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.ListingStatus(req.Status)
	if status != models.ListingStatusApproved && status != models.ListingStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be approved or rejected"})
		return
	}

	var listing models.Listing
	if err := database.DB.First(&listing, listingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	if listing.Status != models.ListingStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending listings can be moderated"})
		return
	}

	listing.Status = status
	listing.AdminComments = req.Comments
	if err := database.DB.Save(&listing).Error; err != nil {
		log.Printf("❌ Failed to update listing %d status: %v", listing.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		return
	}

	log.Printf("⚖️ Listing %d moderated: %s", listing.ID, status)

	c.JSON(http.StatusOK, gin.H{"success": true, "listing": listing})
}
