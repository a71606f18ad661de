package domain

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ChallengeFileMaxSize caps uploaded challenge files at 2 MiB.
const ChallengeFileMaxSize = 2 * 1024 * 1024

type ChallengeFile struct {
	ID                   uuid.UUID  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FileName             string     `gorm:"size:512;not null"`
	ChallengeID          uuid.UUID  `gorm:"type:uuid;not null"`
	Challenge            *Challenge `gorm:"foreignKey:ChallengeID"`
	Mime                 string     `gorm:"size:128"`
	Type                 string     `gorm:"size:512"`
	Hash                 string     `gorm:"size:64"` // sha256 -> 32*2
	CreationTime         time.Time  `gorm:"autoCreateTime"`
	LastModificationTime time.Time  `gorm:"autoUpdateTime"`
}

func (f *ChallengeFile) Name() string {
	return filepath.Base(f.FileName)
}

// Enriched reports whether mime/type/hash have all been computed already.
// Enrichment is one-shot: once every field is set, later saves must not
// recompute even if the blob changes on disk.
func (f *ChallengeFile) Enriched() bool {
	return f.Mime != "" && f.Type != "" && f.Hash != ""
}
