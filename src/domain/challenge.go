package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

type ChallengeStatus string

const (
	ChallengeStatusUnsolved ChallengeStatus = "unsolved"
	ChallengeStatusSolved   ChallengeStatus = "solved"
)

// Excalidraw room coordinates as handed out by the drawing service.
var (
	ExcalidrawRoomIDPattern  = regexp.MustCompile(`^[0-9a-f]{20}$`)
	ExcalidrawRoomKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{22}$`)
)

type Challenge struct {
	ID                 uuid.UUID          `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name               string             `gorm:"size:256;not null"`
	Points             int                `gorm:"default:0"`
	Description        string             `gorm:"type:text"`
	CategoryID         *uint
	Category           *ChallengeCategory `gorm:"foreignKey:CategoryID"`
	NoteID             string             `gorm:"size:80"`
	CtfID              uuid.UUID          `gorm:"type:uuid;not null"`
	Ctf                *Ctf               `gorm:"foreignKey:CtfID"`
	ExcalidrawRoomID   string             `gorm:"size:20"`
	ExcalidrawRoomKey  string             `gorm:"size:22"`
	LastUpdateByID     *uint
	LastUpdateBy       *Member         `gorm:"foreignKey:LastUpdateByID"`
	Flag               string          `gorm:"size:128"`
	Status             ChallengeStatus `gorm:"size:16;default:unsolved"`
	SolverID           *uint
	Solver             *Member `gorm:"foreignKey:SolverID"`
	SolvedTime         *time.Time
	CreationTime       time.Time `gorm:"autoCreateTime"`
	LastModificationTime time.Time `gorm:"autoUpdateTime"`
}

func (c *Challenge) Solved() bool {
	return c.Status == ChallengeStatusSolved
}

// NoteURL builds the note-service URL for this challenge's scratchpad.
func (c *Challenge) NoteURL(hedgedocURL string) string {
	noteID := c.NoteID
	if noteID == "" {
		noteID = "/"
	}
	return hedgedocURL + noteID
}

// ApplyFlagUpdate compares newFlag against the flag as last persisted and,
// on any difference, marks the challenge solved by actor at now. The
// receiver must hold the stored row, not an in-memory draft, for the
// comparison to be meaningful. Returns whether the solve transition fired.
func (c *Challenge) ApplyFlagUpdate(newFlag string, actorID uint, now time.Time) bool {
	changed := c.Flag != newFlag
	c.Flag = newFlag
	c.LastUpdateByID = &actorID
	if changed {
		c.Status = ChallengeStatusSolved
		c.SolverID = &actorID
		c.SolvedTime = &now
	}
	return changed
}
