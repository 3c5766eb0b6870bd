package controllers

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"commuter_bus/internal/config"
	"commuter_bus/internal/middleware"
	"commuter_bus/internal/models"
	"commuter_bus/internal/session"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	cnicPattern  = regexp.MustCompile(`^[0-9]{13}$`)
)

type riderSignupInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Phone           string `json:"phone"` // 10 digits, without the +92 prefix
}

type driverSignupInput struct {
	riderSignupInput
	VehicleNumber string `json:"vehicle_number"`
	CnicNumber    string `json:"cnic_number"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRider creates a rider account. Validation messages match the
// client's modals and run before any database access.
func SignupRider(c *gin.Context) {
	var input riderSignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name == "" || input.Email == "" || input.Password == "" || input.ConfirmPassword == "" || input.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all fields"})
		return
	}
	if input.Password != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}
	if !phonePattern.MatchString(input.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number must be 10 digits"})
		return
	}

	var existing models.User
	err := config.DB.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again"})
		return
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Phone:    "+92" + input.Phone,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully"})
}

// SignupDriver creates a driver account with its vehicle assignment.
func SignupDriver(c *gin.Context) {
	var input driverSignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name == "" || input.Email == "" || input.Password == "" || input.ConfirmPassword == "" ||
		input.Phone == "" || input.VehicleNumber == "" || input.CnicNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all required fields"})
		return
	}
	if input.Password != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}
	if !phonePattern.MatchString(input.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number must be 10 digits"})
		return
	}
	if !cnicPattern.MatchString(input.CnicNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CNIC number must be 13 digits"})
		return
	}

	var existing models.Driver
	err := config.DB.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again"})
		return
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	driver := models.Driver{
		Name:          input.Name,
		Email:         input.Email,
		Password:      hashed,
		Phone:         "+92" + input.Phone,
		VehicleNumber: input.VehicleNumber,
		CnicNumber:    input.CnicNumber,
	}
	if err := config.DB.Create(&driver).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully"})
}

// LoginRider checks rider credentials and establishes the session. The
// session key is only written after the password check passes.
func LoginRider(c *gin.Context) {
	var body loginInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Email == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all fields"})
		return
	}

	user, err := creds.RiderByEmail(c.Request.Context(), body.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No user found with this email"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again"})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password"})
		return
	}

	device := deviceID(c)
	rec := session.Record{Email: user.Email}
	if err := sessions.Establish(c.Request.Context(), session.RoleRider, device, rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not establish session"})
		return
	}

	token, err := middleware.GenerateToken(session.RoleRider, user.Email, device)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"device_id": device,
		"target":    session.TargetRiderMain,
		"user": gin.H{
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
		},
	})
}

// LoginDriver checks driver credentials and establishes the session with
// the driver's name and profile image snapshotted into the record.
func LoginDriver(c *gin.Context) {
	var body loginInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Email == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all fields"})
		return
	}

	driver, err := creds.DriverByEmail(c.Request.Context(), body.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No user found with this email"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred. Please try again"})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(driver.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password"})
		return
	}

	device := deviceID(c)
	rec := session.Record{
		Email:        driver.Email,
		Name:         driver.Name,
		ProfileImage: driver.ProfileImage,
	}
	if err := sessions.Establish(c.Request.Context(), session.RoleDriver, device, rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not establish session"})
		return
	}

	token, err := middleware.GenerateToken(session.RoleDriver, driver.Email, device)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"device_id": device,
		"target":    session.TargetDriverMain,
		"driver": gin.H{
			"name":           driver.Name,
			"email":          driver.Email,
			"phone":          driver.Phone,
			"vehicle_number": driver.VehicleNumber,
		},
	})
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
