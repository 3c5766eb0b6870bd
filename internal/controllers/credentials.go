package controllers

import (
	"context"

	"commuter_bus/internal/config"
	"commuter_bus/internal/models"
)

// credentialSource looks up accounts for the login handlers. The seam
// keeps password checking separate from where accounts are stored.
type credentialSource interface {
	RiderByEmail(ctx context.Context, email string) (models.User, error)
	DriverByEmail(ctx context.Context, email string) (models.Driver, error)
}

// dbCredentials reads from the shared gorm handle. It resolves config.DB
// at call time so it picks up whatever InitDB connected.
type dbCredentials struct{}

func (dbCredentials) RiderByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := config.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return user, err
}

func (dbCredentials) DriverByEmail(ctx context.Context, email string) (models.Driver, error) {
	var driver models.Driver
	err := config.DB.WithContext(ctx).Where("email = ?", email).First(&driver).Error
	return driver, err
}

var creds credentialSource = dbCredentials{}
