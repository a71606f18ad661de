package domain

import (
	"fmt"
	"time"
)

// HedgedocPasswordLength is the size of the token generated when a member is
// provisioned in the note service. An empty stored password means the member
// operates in anonymous note-access mode.
const HedgedocPasswordLength = 64

type Member struct {
	ID                       uint   `gorm:"primaryKey"`
	Username                 string `gorm:"size:150;uniqueIndex;not null"`
	Email                    string `gorm:"size:256;not null"`
	TeamID                   uint   `gorm:"not null"`
	Team                     *Team  `gorm:"foreignKey:TeamID"`
	Avatar                   string `gorm:"size:512"`
	Description              string `gorm:"type:text"`
	Country                  string `gorm:"size:64"`
	Timezone                 string `gorm:"size:16;default:UTC"`
	LastScored               *time.Time
	ShowPendingNotifications bool `gorm:"default:false"`
	LastActiveNotification   *time.Time
	HedgedocPassword         string    `gorm:"size:64"`
	CreationTime             time.Time `gorm:"autoCreateTime"`
	LastModificationTime     time.Time `gorm:"autoUpdateTime"`
}

// HedgedocUsername is the login used to register this member in the note
// service.
func (m *Member) HedgedocUsername() string {
	return fmt.Sprintf("%s@ctfpad", m.Username)
}

// IsAnonymousOnHedgedoc reports whether note-service registration failed for
// this member at provisioning time.
func (m *Member) IsAnonymousOnHedgedoc() bool {
	return m.HedgedocPassword == ""
}

func (m *Member) String() string {
	return m.Username
}
