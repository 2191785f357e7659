package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes registers the pull path for notifications.
func RegisterNotificationRoutes(rg *gin.RouterGroup) {
	rg.GET("", GetUserNotifications)
	rg.GET("/", GetUserNotifications)
	rg.GET("/unread-count", GetUnreadCount)
	rg.PATCH("/:id/read", MarkNotificationAsRead)
	rg.POST("/mark-all-read", MarkAllNotificationsAsRead)
}

// GetUserNotifications returns the caller's notifications newest-first.
// This is the authoritative read path that reconciles anything push
// delivery missed.
func GetUserNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")

	notifications, err := notificationService.List(userID, 50)
	if err != nil {
		log.Printf("❌ Error fetching notifications for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount returns how many unread notifications the caller has.
func GetUnreadCount(c *gin.Context) {
	userID := c.GetUint("user_id")

	count, err := notificationService.UnreadCount(userID)
	if err != nil {
		log.Printf("❌ Error counting unread notifications for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "unread": count})
}

// MarkNotificationAsRead marks one of the caller's notifications read.
func MarkNotificationAsRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	notificationID, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	notification, err := notificationService.MarkRead(notificationID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}

// MarkAllNotificationsAsRead marks every unread notification read.
func MarkAllNotificationsAsRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	if err := notificationService.MarkAllRead(userID); err != nil {
		log.Printf("❌ Error marking notifications read for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
