package models

import (
	"time"

	"grapebd/g2g/internal/domain"

	"github.com/google/uuid"
)

// AuthIdentity is the login record. Its ID is the profile's UserID.
type AuthIdentity struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (AuthIdentity) TableName() string {
	return "auth_identities"
}

// Profile is the application-level member record every other table points at.
type Profile struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	FullName       string    `gorm:"size:120;not null" json:"full_name"`
	Email          string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone          string    `gorm:"size:32" json:"phone"`
	CourierAddress string    `gorm:"type:text" json:"courier_address"`
	Role           string    `gorm:"size:20;not null;default:'member';index" json:"role"`     // admin | member
	Status         string    `gorm:"size:20;not null;default:'pending';index" json:"status"` // active | suspended | pending
	ProfileImage   string    `gorm:"size:512" json:"profile_image"`
	PushPermission string    `gorm:"size:20;not null;default:'default'" json:"push_permission"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) IsAdmin() bool     { return p.Role == domain.RoleAdmin }
func (p *Profile) IsSuspended() bool { return p.Status == domain.ProfileStatusSuspended }

func (p *Profile) Actor() domain.Actor {
	return domain.Actor{ID: p.ID, Role: p.Role}
}

// ProfileSummary is the public slice of a profile embedded in other payloads.
type ProfileSummary struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	ProfileImage string    `json:"profile_image"`
}

func (p *Profile) Summary() ProfileSummary {
	return ProfileSummary{ID: p.ID, FullName: p.FullName, ProfileImage: p.ProfileImage}
}
