package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID           uint    `gorm:"primaryKey"`
	SenderID     uint    `gorm:"not null"`
	Sender       *Member `gorm:"foreignKey:SenderID"`
	// A nil recipient makes the notification a broadcast to all members.
	RecipientID          *uint
	Recipient            *Member `gorm:"foreignKey:RecipientID"`
	Description          string  `gorm:"type:text;not null"`
	ChallengeID          *uuid.UUID `gorm:"type:uuid"`
	Challenge            *Challenge `gorm:"foreignKey:ChallengeID"`
	CreationTime         time.Time  `gorm:"autoCreateTime"`
	LastModificationTime time.Time  `gorm:"autoUpdateTime"`
}

func (n *Notification) IsBroadcast() bool {
	return n.RecipientID == nil
}
