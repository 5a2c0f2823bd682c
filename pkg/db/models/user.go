package models

import (
	"time"

	"github.com/google/uuid"
)

// User holds the profile data collected during onboarding.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Phone     string    `gorm:"column:phone"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// OnboardingComplete reports whether the profile fields onboarding collects
// are all present.
func (u User) OnboardingComplete() bool {
	return u.FirstName != "" && u.LastName != "" && u.Phone != ""
}
