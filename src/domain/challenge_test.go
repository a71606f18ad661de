package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlagUpdateMarksSolvedOnChange(t *testing.T) {
	challenge := &Challenge{Status: ChallengeStatusUnsolved}
	now := time.Now()

	changed := challenge.ApplyFlagUpdate("CTF{pwned}", 7, now)

	assert.True(t, changed)
	assert.Equal(t, "CTF{pwned}", challenge.Flag)
	assert.Equal(t, ChallengeStatusSolved, challenge.Status)
	require.NotNil(t, challenge.SolverID)
	assert.Equal(t, uint(7), *challenge.SolverID)
	require.NotNil(t, challenge.SolvedTime)
	assert.Equal(t, now, *challenge.SolvedTime)
	require.NotNil(t, challenge.LastUpdateByID)
	assert.Equal(t, uint(7), *challenge.LastUpdateByID)
}

func TestApplyFlagUpdateSameValueIsNoOp(t *testing.T) {
	solver := uint(7)
	solvedAt := time.Now().Add(-time.Hour)
	challenge := &Challenge{
		Flag:       "CTF{pwned}",
		Status:     ChallengeStatusSolved,
		SolverID:   &solver,
		SolvedTime: &solvedAt,
	}

	// Re-submitting the stored flag updates the actor but never the solve.
	changed := challenge.ApplyFlagUpdate("CTF{pwned}", 42, time.Now())

	assert.False(t, changed)
	assert.Equal(t, uint(7), *challenge.SolverID)
	assert.Equal(t, solvedAt, *challenge.SolvedTime)
	require.NotNil(t, challenge.LastUpdateByID)
	assert.Equal(t, uint(42), *challenge.LastUpdateByID)
}

func TestApplyFlagUpdateClearingFlagCountsAsChange(t *testing.T) {
	challenge := &Challenge{Flag: "CTF{old}"}

	changed := challenge.ApplyFlagUpdate("", 3, time.Now())

	assert.True(t, changed)
	assert.Equal(t, "", challenge.Flag)
	assert.Equal(t, ChallengeStatusSolved, challenge.Status)
}

func TestChallengeNoteURL(t *testing.T) {
	withNote := &Challenge{NoteID: "/abc-123"}
	assert.Equal(t, "https://pad.example.com/abc-123", withNote.NoteURL("https://pad.example.com"))

	withoutNote := &Challenge{}
	assert.Equal(t, "https://pad.example.com/", withoutNote.NoteURL("https://pad.example.com"))
}

func TestExcalidrawRoomPatterns(t *testing.T) {
	assert.True(t, ExcalidrawRoomIDPattern.MatchString("0123456789abcdef0123"))
	assert.False(t, ExcalidrawRoomIDPattern.MatchString("0123456789ABCDEF0123"))
	assert.False(t, ExcalidrawRoomIDPattern.MatchString("0123456789abcdef"))

	assert.True(t, ExcalidrawRoomKeyPattern.MatchString("abcDEF123456789_-aBcDe"))
	assert.False(t, ExcalidrawRoomKeyPattern.MatchString("too-short"))
}
