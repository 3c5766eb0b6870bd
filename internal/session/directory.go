package session

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"commuter_bus/internal/models"
)

type gormDirectory struct {
	db *gorm.DB
}

// NewDirectory wraps the database as the account directory.
func NewDirectory(db *gorm.DB) Directory {
	return gormDirectory{db: db}
}

func (d gormDirectory) RiderByEmail(ctx context.Context, email string) (Account, error) {
	var user models.User
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Account{}, ErrNoAccount
		}
		return Account{}, err
	}
	return Account{Email: user.Email, Name: user.Name}, nil
}

func (d gormDirectory) DriverByEmail(ctx context.Context, email string) (Account, error) {
	var driver models.Driver
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Account{}, ErrNoAccount
		}
		return Account{}, err
	}
	return Account{Email: driver.Email, Name: driver.Name, VehicleNumber: driver.VehicleNumber}, nil
}
