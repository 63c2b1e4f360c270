package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PushSubscription holds one device's browser push subscription.
// The endpoint is the natural key: at most one row per endpoint, no matter
// how many times a device re-registers or which waiter owns it.
type PushSubscription struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Endpoint  string    `gorm:"uniqueIndex;not null" json:"endpoint"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	WaiterID  string    `gorm:"type:uuid;index;not null" json:"waiter_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// BeforeCreate assigns a row id when the caller did not provide one.
func (s *PushSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
