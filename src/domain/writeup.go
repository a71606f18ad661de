package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChallengeWriteup struct {
	ID                   uint       `gorm:"primaryKey"`
	URL                  string     `gorm:"size:2048;not null"`
	AddedByID            uint       `gorm:"not null"`
	AddedBy              *Member    `gorm:"foreignKey:AddedByID"`
	ChallengeID          uuid.UUID  `gorm:"type:uuid;not null"`
	Challenge            *Challenge `gorm:"foreignKey:ChallengeID"`
	CreationTime         time.Time  `gorm:"autoCreateTime"`
	LastModificationTime time.Time  `gorm:"autoUpdateTime"`
}
