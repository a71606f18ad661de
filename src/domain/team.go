package domain

import (
	"time"
)

// APIKeyLength is the size of the token generated once at team creation.
// The key authenticates API calls and is never regenerated afterwards.
const APIKeyLength = 128

type Team struct {
	ID                   uint   `gorm:"primaryKey"`
	Name                 string `gorm:"size:64;not null"`
	Email                string `gorm:"size:256;uniqueIndex;not null"`
	TwitterURL           string `gorm:"size:2048"`
	GithubURL            string `gorm:"size:2048"`
	YoutubeURL           string `gorm:"size:2048"`
	BlogURL              string `gorm:"size:2048"`
	APIKey               string `gorm:"column:api_key;size:128;not null"`
	Avatar               string `gorm:"size:512"`
	CreationTime         time.Time `gorm:"autoCreateTime"`
	LastModificationTime time.Time `gorm:"autoUpdateTime"`

	Members []Member `gorm:"foreignKey:TeamID"`
}
