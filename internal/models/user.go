package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account in the setup showroom.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName       string             `bson:"full_name" json:"full_name"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email" json:"email"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	Profession     string             `bson:"profession" json:"profession"`
	Role           string             `bson:"role" json:"role"`
	Enabled        bool               `bson:"enabled" json:"enabled"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// UserInfo is the public view of a user, embedded in responses and pushed events.
type UserInfo struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Profession string `json:"profession"`
	Enabled    bool   `json:"enabled"`
}

// ToUserInfo converts a user entity to its public view.
func (u *User) ToUserInfo() UserInfo {
	return UserInfo{
		ID:         u.ID.Hex(),
		FullName:   u.FullName,
		Email:      u.Email,
		Username:   u.Username,
		Profession: u.Profession,
		Enabled:    u.Enabled,
	}
}

// RegisterForm is the payload accepted by the registration endpoint.
type RegisterForm struct {
	FullName   string `json:"full_name"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Profession string `json:"profession"`
}

// ProfileForm carries the fields a user may change on their own profile.
type ProfileForm struct {
	FullName   string `json:"full_name"`
	Profession string `json:"profession"`
}
