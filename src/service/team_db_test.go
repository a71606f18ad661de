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

func TestCreateTeamGeneratesAPIKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewTeamService(repository.NewTeamRepository(db))
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, CreateTeamInput{
		Name:  "L33t Crew",
		Email: "crew@example.com",
	})
	require.NoError(t, err)
	require.Len(t, team.APIKey, domain.APIKeyLength)

	// The key survives profile updates untouched.
	newName := "Renamed Crew"
	updated, err := svc.UpdateTeam(ctx, team.ID, UpdateTeamInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Crew", updated.Name)
	assert.Equal(t, team.APIKey, updated.APIKey)

	// And it authenticates the team.
	authed, err := svc.AuthenticateByAPIKey(ctx, team.APIKey)
	require.NoError(t, err)
	assert.Equal(t, team.ID, authed.ID)

	_, err = svc.AuthenticateByAPIKey(ctx, "bogus")
	var derr domain.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrorCodeAuthNotAuthenticated, derr.Code())
}

func TestCreateTeamDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewTeamService(repository.NewTeamRepository(db))
	ctx := context.Background()

	_, err := svc.CreateTeam(ctx, CreateTeamInput{Name: "First", Email: "same@example.com"})
	require.NoError(t, err)

	_, err = svc.CreateTeam(ctx, CreateTeamInput{Name: "Second", Email: "same@example.com"})
	var derr domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.ErrorCodeResourceConflict, derr.Code())
}

func TestDeleteTeamBlockedByMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	teamRepo := repository.NewTeamRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	writeupRepo := repository.NewWriteupRepository(db)
	teamSvc := NewTeamService(teamRepo)
	// Unreachable note service keeps the member anonymous, which is fine here.
	memberSvc := NewMemberService(memberRepo, writeupRepo, NewHedgedocService("http://127.0.0.1:1"))
	ctx := context.Background()

	team, err := teamSvc.CreateTeam(ctx, CreateTeamInput{Name: "Crew", Email: "crew@example.com"})
	require.NoError(t, err)

	member, err := memberSvc.CreateMember(ctx, CreateMemberInput{
		Username: "alice",
		Email:    "alice@example.com",
		TeamID:   team.ID,
	})
	require.NoError(t, err)

	err = teamSvc.DeleteTeam(ctx, team.ID)
	var derr domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.ErrorCodeResourceConflict, derr.Code())

	// Once the member is gone the team can go too.
	require.NoError(t, memberSvc.DeleteMember(ctx, member.ID))
	require.NoError(t, teamSvc.DeleteTeam(ctx, team.ID))
}
