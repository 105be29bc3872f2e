package models

import "gorm.io/gorm"

// Role values understood by the auth service. Admins manage products, plain
// users can only read them.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an authenticated actor. The product service only ever sees
// the user's ID, stamped onto products it creates or updates.
type User struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string     `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string     `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Role       string     `json:"role" gorm:"type:varchar(20);default:user" validate:"omitempty,oneof=admin user"`
	gorm.Model `json:"-"` // CreatedAt, UpdatedAt, DeletedAt
}
