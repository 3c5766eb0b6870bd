package models

import "gorm.io/gorm"

// User is a rider account. Looked up by email on every login and on
// session validation; the password column holds a bcrypt hash and is
// never serialized back to the client.
type User struct {
	gorm.Model
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"unique"`
	Password     string `json:"-"`
	Phone        string `json:"phone"` // stored with the +92 country prefix
	ProfileImage string `json:"profile_image"`
}
