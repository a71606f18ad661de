package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/repository"
	"github.com/ctfpad/backend/src/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteupLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	challengeSvc, _, ctf, member := setupChallengeFixture(t, db)
	challenge, err := challengeSvc.CreateChallenge(ctx, ChallengeInput{
		Name: "documented", CtfID: ctf.ID,
	})
	require.NoError(t, err)

	svc := NewWriteupService(repository.NewWriteupRepository(db))

	writeup, err := svc.AddWriteup(ctx, challenge.ID, member.ID, "https://blog.example.com/post")
	require.NoError(t, err)

	writeups, err := svc.ListWriteupsByChallenge(ctx, challenge.ID)
	require.NoError(t, err)
	require.Len(t, writeups, 1)
	assert.Equal(t, writeup.ID, writeups[0].ID)

	require.NoError(t, svc.DeleteWriteup(ctx, writeup.ID))

	writeups, err = svc.ListWriteupsByChallenge(ctx, challenge.ID)
	require.NoError(t, err)
	assert.Empty(t, writeups)

	// A second delete finds nothing to remove.
	err = svc.DeleteWriteup(ctx, writeup.ID)
	var derr domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.ErrorCodeResourceNotFound, derr.Code())
}
