package service

import (
	"context"
	"testing"

	"github.com/ctfpad/backend/src/repository"
	"github.com/ctfpad/backend/src/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationsForMemberIncludeBroadcasts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	teamSvc := NewTeamService(repository.NewTeamRepository(db))
	team, err := teamSvc.CreateTeam(ctx, CreateTeamInput{Name: "Crew", Email: "crew@example.com"})
	require.NoError(t, err)

	memberSvc := NewMemberService(
		repository.NewMemberRepository(db),
		repository.NewWriteupRepository(db),
		NewHedgedocService("http://127.0.0.1:1"),
	)
	alice, err := memberSvc.CreateMember(ctx, CreateMemberInput{
		Username: "alice", Email: "alice@example.com", TeamID: team.ID,
	})
	require.NoError(t, err)
	bob, err := memberSvc.CreateMember(ctx, CreateMemberInput{
		Username: "bob", Email: "bob@example.com", TeamID: team.ID,
	})
	require.NoError(t, err)

	svc := NewNotificationService(repository.NewNotificationRepository(db))

	_, err = svc.Notify(ctx, alice.ID, &bob.ID, nil, "direct to bob")
	require.NoError(t, err)
	_, err = svc.Notify(ctx, alice.ID, nil, nil, "broadcast to everyone")
	require.NoError(t, err)
	_, err = svc.Notify(ctx, bob.ID, &alice.ID, nil, "direct to alice")
	require.NoError(t, err)

	// Bob sees his direct message plus the broadcast, nothing of alice's.
	forBob, err := svc.ListForMember(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, forBob, 2)

	descriptions := []string{forBob[0].Description, forBob[1].Description}
	assert.Contains(t, descriptions, "direct to bob")
	assert.Contains(t, descriptions, "broadcast to everyone")

	for _, n := range forBob {
		require.NotNil(t, n.Sender)
	}
}
