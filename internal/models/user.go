// Package models contains data structures for the application's domain entities.
package models

// User roles. Registration always produces RoleUser; admins are provisioned
// by seeding or operator tooling.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered PropertyAdda account.
//
// Passwords are stored and compared as-is; the product has no credential
// hardening requirements yet, and login intentionally returns the same 401
// for an unknown username and a wrong password.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	FullName string `gorm:"not null" json:"fullName"`
	Phone    string `json:"phone"`
	Role     string `gorm:"not null;default:user" json:"role"`
}

// InsertUser is the subset of User accepted from a registering client.
// ID and Role are server-assigned.
type InsertUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

// LoginRequest carries submitted credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
