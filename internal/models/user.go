// Package models contains data structures for the application's domain models.
package models

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"
)

// User is a registered account. Accounts are created at registration and
// never updated or deleted through the site.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"size:100;unique;not null"`
	Password  string `gorm:"size:100;not null"` // bcrypt hash, never plaintext
	Name      string `gorm:"size:100;not null"`
	CreatedAt time.Time
}

// AvatarURL returns the user's Gravatar image URL. Gravatar hashes the
// trimmed, lowercased email with MD5; unknown emails fall back to a
// generated "retro" avatar.
func (u *User) AvatarURL() string {
	sum := md5.Sum([]byte(strings.TrimSpace(strings.ToLower(u.Email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=100&d=retro&r=g", sum)
}
