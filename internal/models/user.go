// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a member of the Gather network. New registrations are born
// inactive and unapproved; an admin activates them. Deletes are hard deletes
// that cascade through everything the user authored (see repository.UserRepository).
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Email       string `gorm:"unique;not null" json:"email"`
	Password    string `gorm:"not null" json:"-"`
	DisplayName string `gorm:"not null" json:"display_name"`
	Bio         string `json:"bio"`
	// ProfilePhoto holds the file-store reference for the avatar, empty when unset.
	ProfilePhoto string     `json:"profile_photo"`
	Website      string     `json:"website"`
	Street       string     `json:"street"`
	City         string     `json:"city"`
	PostalCode   string     `json:"postal_code"`
	Country      string     `json:"country"`
	Phone        string     `json:"phone"`
	Birthdate    *time.Time `json:"birthdate"`

	IsProfilePublic bool `json:"is_profile_public"`
	IsAdmin         bool `gorm:"default:false" json:"is_admin"`
	IsApproved      bool `gorm:"default:false" json:"is_approved"`
	IsActive        bool `gorm:"default:false" json:"is_active"`

	Theme  string `json:"theme"`
	Accent string `json:"accent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Posts  []Post  `gorm:"foreignKey:UserID" json:"posts,omitempty"`
	Photos []Photo `gorm:"foreignKey:UserID" json:"photos,omitempty"`
}

// IsPending reports whether the user is awaiting admin approval.
func (u *User) IsPending() bool {
	return !u.IsApproved && !u.IsActive
}
