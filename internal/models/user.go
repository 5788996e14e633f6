package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model  `json:"-"`
	ID          uint   `json:"id" gorm:"primaryKey"`
	Username    string `json:"username" gorm:"uniqueIndex"`
	Email       string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Password    string `json:"-"`                        // Hash owned by the identity provider, never read here
	FirebaseUID string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Set when the account came through Firebase
}

// UserSummary is the compact shape returned by friend/unknown listings and
// attached to feed posts. Avatar is derived from the email, never stored.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

// ToSummary builds a UserSummary; the avatar URL comes from the caller so
// models stays free of the derivation dependency.
func (u *User) ToSummary(avatar string) UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   avatar,
	}
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
