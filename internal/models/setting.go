package models

import "time"

// SettingType describes how a setting's string value should be coerced.
type SettingType string

const (
	SettingString SettingType = "string"
	SettingInt    SettingType = "int"
	SettingBool   SettingType = "bool"
)

// Known setting keys.
const (
	SettingSiteTitle          = "site_title"
	SettingPostsPerPage       = "posts_per_page"
	SettingAllowRegistrations = "allow_registrations"
)

// Setting is a typed site-wide key/value. Values are stored as strings and
// coerced on read; invalid values fall back to the caller's default.
type Setting struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Key       string      `gorm:"unique;not null" json:"key"`
	Value     string      `gorm:"not null" json:"value"`
	ValueType SettingType `gorm:"type:varchar(10);not null;default:'string'" json:"value_type"`
	UpdatedAt time.Time   `json:"updated_at"`
}
