package models

import (
	"time"
)

// Role is the closed set of user roles. Authorization compares exact
// membership, admin does not implicitly cover moderator routes.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         Role      `gorm:"not null"                 json:"role"`
	RefreshToken *string   `json:"-"`
	Avatar       string    `json:"avatar,omitempty"`
	IsActive     bool      `gorm:"default:true"             json:"is_active"`
	IsBlocked    bool      `gorm:"default:false"            json:"is_blocked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Photo struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	URL         string    `gorm:"not null"                 json:"url"`
	PublicID    string    `gorm:"not null"                 json:"-"`
	QRCode      string    `json:"qr_code,omitempty"`
	Description string    `json:"description"`
	OwnerID     uint      `gorm:"index;not null"           json:"owner_id"`
	Tags        []Tag     `gorm:"many2many:photo_tags"     json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

type Tag struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null"          json:"name"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Text      string    `gorm:"not null"                 json:"text"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	PhotoID   uint      `gorm:"index;not null"           json:"photo_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
