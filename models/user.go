package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                   primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Username             string             `json:"username" bson:"username"`
	Email                string             `json:"email" bson:"email"`
	Password             string             `json:"-" bson:"password"`
	Role                 string             `json:"role" bson:"role"`
	Avatar               string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	GoogleID             string             `json:"-" bson:"googleId,omitempty"`
	IsActive             bool               `json:"isActive" bson:"isActive"`
	IsEmailVerified      bool               `json:"isEmailVerified" bson:"isEmailVerified"`
	EmailVerificationOTP string             `json:"-" bson:"emailVerificationOTP,omitempty"`
	OTPExpires           *time.Time         `json:"-" bson:"otpExpires,omitempty"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PublicUser is the sanitized shape returned to clients.
type PublicUser struct {
	ID              primitive.ObjectID `json:"_id"`
	Username        string             `json:"username"`
	Email           string             `json:"email"`
	Role            string             `json:"role"`
	Avatar          string             `json:"avatar,omitempty"`
	IsEmailVerified bool               `json:"isEmailVerified"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// Public strips credential and verification fields.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Role:            u.Role,
		Avatar:          u.Avatar,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}
