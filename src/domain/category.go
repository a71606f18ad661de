package domain

import (
	"time"
)

// ChallengeCategory is an open-ended category set rather than a fixed choice
// list: there is no predicting every category a CTF will invent.
type ChallengeCategory struct {
	ID                   uint      `gorm:"primaryKey"`
	Name                 string    `gorm:"size:128;uniqueIndex;not null"`
	CreationTime         time.Time `gorm:"autoCreateTime"`
	LastModificationTime time.Time `gorm:"autoUpdateTime"`
}

func (c *ChallengeCategory) String() string {
	return c.Name
}
