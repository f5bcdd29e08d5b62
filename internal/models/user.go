// Package models contains data structures for the application's domain models.
package models

// User is an admin account for the portfolio's management area.
// Password always holds an encoded hash, never plaintext.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"default:admin" json:"role"`
}
