package domain

import (
	"time"

	"github.com/google/uuid"
)

type Ctf struct {
	ID                   uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name                 string    `gorm:"size:128;not null"`
	URL                  string    `gorm:"size:2048"`
	Description          string    `gorm:"type:text"`
	StartDate            *time.Time
	EndDate              *time.Time
	FlagPrefix           string    `gorm:"size:64"`
	TeamLogin            string    `gorm:"size:128"`
	TeamPassword         string    `gorm:"size:128"`
	CreationTime         time.Time `gorm:"autoCreateTime"`
	LastModificationTime time.Time `gorm:"autoUpdateTime"`

	Challenges []Challenge `gorm:"foreignKey:CtfID"`
}

func (c *Ctf) String() string {
	return c.Name
}

// IsPermanent reports whether the competition has no time bounds at all.
func (c *Ctf) IsPermanent() bool {
	return c.StartDate == nil && c.EndDate == nil
}

// IsRunning reports whether now falls within [StartDate, EndDate). A
// competition with either bound missing is never considered running.
func (c *Ctf) IsRunning(now time.Time) bool {
	if c.StartDate == nil || c.EndDate == nil {
		return false
	}
	return !now.Before(*c.StartDate) && now.Before(*c.EndDate)
}

func (c *Ctf) Duration() time.Duration {
	if c.StartDate == nil || c.EndDate == nil {
		return 0
	}
	return c.EndDate.Sub(*c.StartDate)
}

// CtfStats aggregates challenge counts and point sums for one competition.
type CtfStats struct {
	TotalChallenges  int64
	SolvedChallenges int64
	TotalPoints      int64
	ScoredPoints     int64
}

// SolvedChallengesAsPercent returns the integer-floor percentage of solved
// challenges, 0 when the competition has none.
func (s CtfStats) SolvedChallengesAsPercent() int {
	if s.TotalChallenges == 0 {
		return 0
	}
	return int(float64(s.SolvedChallenges) / float64(s.TotalChallenges) * 100)
}

// ScoredPointsAsPercent returns the integer-floor percentage of scored
// points, 0 when no points exist.
func (s CtfStats) ScoredPointsAsPercent() int {
	if s.TotalPoints == 0 {
		return 0
	}
	return int(float64(s.ScoredPoints) / float64(s.TotalPoints) * 100)
}
