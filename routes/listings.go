package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rent-easy-server/database"
	"rent-easy-server/models"
)

// RegisterListingRoutes registers public browse routes on rg and the
// landowner routes on protected. The owner view lives at /my-listings
// so it cannot collide with the /listings/:id wildcard.
func RegisterListingRoutes(rg *gin.RouterGroup, protected *gin.RouterGroup) {
	rg.GET("", BrowseListings)
	rg.GET("/:id", GetListing)

	protected.POST("/listings", CreateListing)
	protected.GET("/my-listings", GetMyListings)
}

type createListingRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description" binding:"required"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	Location      string  `json:"location" binding:"required"`
	ExactLocation string  `json:"exactLocation"`
	HouseType     string  `json:"houseType"`
	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     int     `json:"bathrooms"`
	Area          float64 `json:"area"`
	Subcity       string  `json:"subcity"`
}

// CreateListing lets a landowner submit a listing. It starts in pending
// status and only accepts contact requests once approved.
func CreateListing(c *gin.Context) {
	value, _ := c.Get("user")
	user, ok := value.(models.User)
	if !ok || !user.IsLandowner() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only landowners can post listings"})
		return
	}

	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing := models.Listing{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Location:      req.Location,
		ExactLocation: req.ExactLocation,
		HouseType:     req.HouseType,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		Area:          req.Area,
		Subcity:       req.Subcity,
		Status:        models.ListingStatusPending,
		Availability:  models.AvailabilityAvailable,
		LandownerID:   user.ID,
	}
	if err := database.DB.Create(&listing).Error; err != nil {
		log.Printf("❌ Failed to create listing: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
		return
	}

	log.Printf("🏠 Listing %d submitted by landowner %d (pending review)", listing.ID, user.ID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "listing": listing})
}

// BrowseListings returns approved, available listings with optional
// equality and range filters.
func BrowseListings(c *gin.Context) {
	query := database.DB.Model(&models.Listing{}).
		Where("status = ? AND availability = ?", models.ListingStatusApproved, models.AvailabilityAvailable)

	if location := c.Query("location"); location != "" {
		query = query.Where("location = ?", location)
	}
	if subcity := c.Query("subcity"); subcity != "" {
		query = query.Where("subcity = ?", subcity)
	}
	if houseType := c.Query("houseType"); houseType != "" {
		query = query.Where("house_type = ?", houseType)
	}
	if minPrice := c.Query("minPrice"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", v)
		}
	}
	if maxPrice := c.Query("maxPrice"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", v)
		}
	}
	if bedrooms := c.Query("bedrooms"); bedrooms != "" {
		if v, err := strconv.Atoi(bedrooms); err == nil {
			query = query.Where("bedrooms >= ?", v)
		}
	}

	var listings []models.Listing
	if err := query.Order("created_at DESC").Limit(100).Find(&listings).Error; err != nil {
		log.Printf("❌ Failed to browse listings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
		return
	}

	c.JSON(http.StatusOK, listings)
}

// GetListing returns one listing by id.
func GetListing(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	var listing models.Listing
	if err := database.DB.First(&listing, listingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// GetMyListings returns the authenticated landowner's listings,
// whatever their status.
func GetMyListings(c *gin.Context) {
	userID := c.GetUint("user_id")

	var listings []models.Listing
	err := database.DB.Where("landowner_id = ?", userID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		log.Printf("❌ Failed to fetch listings for landowner %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
		return
	}

	c.JSON(http.StatusOK, listings)
}
