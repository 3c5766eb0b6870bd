package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"commuter_bus/internal/config"
	"commuter_bus/internal/models"
	"commuter_bus/internal/session"
)

type profileInput struct {
	Name         *string `json:"name"`
	ProfileImage *string `json:"profile_image"`
}

type passwordResetInput struct {
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// GetRiderAccount returns the rider's account screen data. The session is
// re-validated against the directory on every mount; a session whose
// account vanished is silently cleared and the client redirected.
func GetRiderAccount(c *gin.Context) {
	email := c.GetString("email")
	device := c.GetString("device_id")

	if !resolver.Validate(c.Request.Context(), session.RoleRider, device, email) {
		c.JSON(http.StatusUnauthorized, gin.H{"target": session.TargetRiderLogin})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetDriverAccount returns the driver's account screen data.
func GetDriverAccount(c *gin.Context) {
	email := c.GetString("email")
	device := c.GetString("device_id")

	if !resolver.Validate(c.Request.Context(), session.RoleDriver, device, email) {
		c.JSON(http.StatusUnauthorized, gin.H{"target": session.TargetDriverLogin})
		return
	}

	var driver models.Driver
	if err := config.DB.Where("email = ?", email).First(&driver).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// UpdateRiderProfile applies name/profile image edits.
func UpdateRiderProfile(c *gin.Context) {
	email := c.GetString("email")

	var input profileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again"})
		}
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.ProfileImage != nil {
		user.ProfileImage = *input.ProfileImage
	}
	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully!", "user": user})
}

// UpdateDriverProfile applies name/profile image edits and rewrites the
// session record so the drawer header shows the fresh snapshot without a
// directory round-trip.
func UpdateDriverProfile(c *gin.Context) {
	email := c.GetString("email")
	device := c.GetString("device_id")

	var input profileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var driver models.Driver
	if err := config.DB.Where("email = ?", email).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again"})
		}
		return
	}

	if input.Name != nil {
		driver.Name = *input.Name
	}
	if input.ProfileImage != nil {
		driver.ProfileImage = *input.ProfileImage
	}
	if err := config.DB.Save(&driver).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	rec := session.Record{
		Email:        driver.Email,
		Name:         driver.Name,
		ProfileImage: driver.ProfileImage,
	}
	if err := sessions.Establish(c.Request.Context(), session.RoleDriver, device, rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not refresh session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully!", "driver": driver})
}

// ResetRiderPassword is the forgot-password flow for a logged-in rider.
func ResetRiderPassword(c *gin.Context) {
	email := c.GetString("email")

	var input passwordResetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.NewPassword == "" || input.ConfirmPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill out both fields."})
		return
	}
	if input.NewPassword != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match."})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while updating the password."})
		}
		return
	}

	hashed, err := hashPassword(input.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}
	if err := config.DB.Model(&user).Update("password", hashed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while updating the password."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Your password has been updated."})
}

// ResetDriverPassword is the forgot-password flow for a logged-in driver.
func ResetDriverPassword(c *gin.Context) {
	email := c.GetString("email")

	var input passwordResetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.NewPassword == "" || input.ConfirmPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill out both fields."})
		return
	}
	if input.NewPassword != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match."})
		return
	}

	var driver models.Driver
	if err := config.DB.Where("email = ?", email).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while updating the password."})
		}
		return
	}

	hashed, err := hashPassword(input.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}
	if err := config.DB.Model(&driver).Update("password", hashed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while updating the password."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Your password has been updated."})
}
