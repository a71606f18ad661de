package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCtfIsPermanent(t *testing.T) {
	start := time.Now()
	end := start.Add(48 * time.Hour)

	assert.True(t, (&Ctf{}).IsPermanent())
	assert.False(t, (&Ctf{StartDate: &start}).IsPermanent())
	assert.False(t, (&Ctf{EndDate: &end}).IsPermanent())
	assert.False(t, (&Ctf{StartDate: &start, EndDate: &end}).IsPermanent())
}

func TestCtfIsRunning(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	ctf := &Ctf{StartDate: &start, EndDate: &end}

	assert.False(t, ctf.IsRunning(start.Add(-time.Second)))
	// Start is inclusive, end is exclusive.
	assert.True(t, ctf.IsRunning(start))
	assert.True(t, ctf.IsRunning(start.Add(time.Hour)))
	assert.False(t, ctf.IsRunning(end))
	assert.False(t, ctf.IsRunning(end.Add(time.Hour)))
}

func TestCtfIsRunningWithMissingBounds(t *testing.T) {
	now := time.Now()
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)

	// A missing bound never counts as running, even mid-window.
	assert.False(t, (&Ctf{}).IsRunning(now))
	assert.False(t, (&Ctf{StartDate: &start}).IsRunning(now))
	assert.False(t, (&Ctf{EndDate: &end}).IsRunning(now))
}

func TestCtfDuration(t *testing.T) {
	start := time.Now()
	end := start.Add(36 * time.Hour)

	assert.Equal(t, time.Duration(0), (&Ctf{}).Duration())
	assert.Equal(t, time.Duration(0), (&Ctf{StartDate: &start}).Duration())
	assert.Equal(t, 36*time.Hour, (&Ctf{StartDate: &start, EndDate: &end}).Duration())
}

func TestCtfStatsPercents(t *testing.T) {
	stats := CtfStats{
		TotalChallenges:  3,
		SolvedChallenges: 1,
		TotalPoints:      400,
		ScoredPoints:     100,
	}

	// Integer floor, not rounding.
	assert.Equal(t, 33, stats.SolvedChallengesAsPercent())
	assert.Equal(t, 25, stats.ScoredPointsAsPercent())
}

func TestCtfStatsPercentsWithZeroDenominators(t *testing.T) {
	stats := CtfStats{}
	assert.Equal(t, 0, stats.SolvedChallengesAsPercent())
	assert.Equal(t, 0, stats.ScoredPointsAsPercent())
}
