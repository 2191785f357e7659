package routes

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rent-easy-server/config"
	"rent-easy-server/database"
	"rent-easy-server/models"
)

// RegisterAuthRoutes registers signup/login/token routes (no auth
// required) on rg and the session routes that do require auth on
// protected.
func RegisterAuthRoutes(rg *gin.RouterGroup, protected *gin.RouterGroup) {
	rg.POST("/signup", Signup)
	rg.POST("/login", Login)
	rg.POST("/refresh", RefreshToken)
	rg.POST("/forgot-password", ForgotPassword)
	rg.POST("/reset-password", ResetPassword)

	protected.POST("/logout", Logout)
	protected.GET("/me", GetCurrentUser)
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// Signup registers a renter or landowner account.
func Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.UserRole(req.Role)
	if role == "" {
		role = models.RoleRenter
	}
	if role != models.RoleRenter && role != models.RoleLandowner {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be renter or landowner"})
		return
	}

	hash, err := jwtService.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		log.Printf("❌ Signup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	tokens, err := jwtService.GenerateTokenPair(user.ID, "", c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
		return
	}

	log.Printf("✅ New %s account: %s (user %d)", user.Role, user.Email, user.ID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    user,
		"tokens":  tokens,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates by email and password.
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := database.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if err != nil || !jwtService.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is deactivated"})
		return
	}

	tokens, err := jwtService.GenerateTokenPair(user.ID, "", c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
		"tokens":  tokens,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken exchanges a refresh token for a new access token.
func RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := jwtService.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "tokens": tokens})
}

// Logout revokes the presented refresh token, or every session the
// caller has when no token is sent.
func Logout(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		if err := jwtService.RevokeRefreshToken(req.RefreshToken); err != nil {
			log.Printf("⚠️ Failed to revoke refresh token: %v", err)
		}
	} else {
		if err := jwtService.RevokeAllUserTokens(userID); err != nil {
			log.Printf("⚠️ Failed to revoke all tokens for user %d: %v", userID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// GetCurrentUser returns the authenticated user.
func GetCurrentUser(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword emails a single-use reset token. The response is the
// same whether or not the address exists.
func ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := database.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if err == nil {
		tokenBytes := make([]byte, 32)
		if _, err := rand.Read(tokenBytes); err == nil {
			token := hex.EncodeToString(tokenBytes)
			hash := sha256.Sum256([]byte(token))

			reset := models.PasswordReset{
				UserID:    user.ID,
				TokenHash: hex.EncodeToString(hash[:]),
				ExpiresAt: time.Now().Add(time.Hour),
			}
			if err := database.DB.Create(&reset).Error; err == nil {
				link := fmt.Sprintf("%s/reset-password?token=%s", config.AppConfig.Client.BaseURL, token)
				emailService.Send(user.Email, "Reset your RentEasy password",
					fmt.Sprintf("Hi %s,\n\nUse the link below to reset your password. It expires in one hour.\n\n%s\n", user.Name, link))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If the address exists, a reset email is on its way",
	})
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPassword redeems a reset token and sets a new password.
func ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash := sha256.Sum256([]byte(req.Token))

	var reset models.PasswordReset
	err := database.DB.Where("token_hash = ?", hex.EncodeToString(hash[:])).
		First(&reset).Error
	if err != nil || !reset.IsUsable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		return
	}

	passwordHash, err := jwtService.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	now := time.Now()
	if err := database.DB.Model(&models.User{}).
		Where("id = ?", reset.UserID).
		Update("password_hash", passwordHash).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}
	database.DB.Model(&reset).Update("used_at", now)

	// Old sessions die with the password
	jwtService.RevokeAllUserTokens(reset.UserID)

	log.Printf("🔑 Password reset completed for user %d", reset.UserID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}
