package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rent-easy-server/services"
)

// Package-level services, wired once from main.
var (
	contactService      *services.ContactService
	notificationService *services.NotificationService
	jwtService          *services.JWTService
	emailService        services.EmailSender
)

// Init wires the route handlers to their services.
func Init(
	cs *services.ContactService,
	ns *services.NotificationService,
	js *services.JWTService,
	es services.EmailSender,
) {
	contactService = cs
	notificationService = ns
	jwtService = js
	emailService = es
}

// respondServiceError maps a workflow error onto an HTTP response.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
	case errors.Is(err, services.ErrDuplicateRequest):
		c.JSON(http.StatusConflict, gin.H{"error": "You already requested contact for this property"})
	case errors.Is(err, services.ErrInvalidOperation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Operation not valid for this resource"})
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}
