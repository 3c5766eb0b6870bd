// internal/models/driver.go
package models

import "gorm.io/gorm"

// Driver is a bus driver account. Drivers live in their own table with
// their own email namespace; a driver is tied to exactly one vehicle by
// VehicleNumber, which is matched byte-for-byte against stop assignments.
type Driver struct {
	gorm.Model
	Name          string `json:"name"`
	Email         string `json:"email" gorm:"unique"`
	Password      string `json:"-"`
	Phone         string `json:"phone"`
	VehicleNumber string `json:"vehicle_number" gorm:"index"`
	CnicNumber    string `json:"cnic_number"` // 13-digit national ID
	ProfileImage  string `json:"profile_image"`
}
