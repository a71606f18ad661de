package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/repository"
	"github.com/ctfpad/backend/src/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupChallengeFixture(t *testing.T, db *gorm.DB) (*ChallengeService, *CtfService, *domain.Ctf, *domain.Member) {
	ctx := context.Background()

	teamSvc := NewTeamService(repository.NewTeamRepository(db))
	team, err := teamSvc.CreateTeam(ctx, CreateTeamInput{Name: "Crew", Email: "crew@example.com"})
	require.NoError(t, err)

	memberSvc := NewMemberService(
		repository.NewMemberRepository(db),
		repository.NewWriteupRepository(db),
		NewHedgedocService("http://127.0.0.1:1"),
	)
	member, err := memberSvc.CreateMember(ctx, CreateMemberInput{
		Username: "alice", Email: "alice@example.com", TeamID: team.ID,
	})
	require.NoError(t, err)

	ctfRepo := repository.NewCtfRepository(db)
	ctfSvc := NewCtfService(ctfRepo, repository.NewWriteupRepository(db))
	ctf, err := ctfSvc.CreateCtf(ctx, CtfInput{Name: "Test CTF"})
	require.NoError(t, err)

	challengeSvc := NewChallengeService(
		repository.NewChallengeRepository(db), ctfRepo, NewHedgedocService("http://127.0.0.1:1"))
	return challengeSvc, ctfSvc, ctf, member
}

func TestCreateChallengeAssignsNoteID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	svc, _, ctf, _ := setupChallengeFixture(t, db)

	challenge, err := svc.CreateChallenge(ctx, ChallengeInput{
		Name: "baby-rop", Points: 100, CtfID: ctf.ID,
	})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(challenge.NoteID, "/"))
	_, err = uuid.Parse(strings.TrimPrefix(challenge.NoteID, "/"))
	assert.NoError(t, err)
	assert.Equal(t, domain.ChallengeStatusUnsolved, challenge.Status)
}

func TestCreateChallengeForMissingCtf(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, _, _ := setupChallengeFixture(t, db)

	_, err := svc.CreateChallenge(context.Background(), ChallengeInput{
		Name: "orphan", CtfID: uuid.New(),
	})
	var derr domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.ErrorCodeResourceNotFound, derr.Code())
}

func TestFlagUpdateSolvesExactlyOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	svc, _, ctf, member := setupChallengeFixture(t, db)

	challenge, err := svc.CreateChallenge(ctx, ChallengeInput{
		Name: "baby-rop", Points: 100, CtfID: ctf.ID,
	})
	require.NoError(t, err)

	// First flag write flips the challenge to solved.
	updated, solved, err := svc.ApplyFlagUpdate(ctx, challenge.ID, "CTF{first}", member.ID)
	require.NoError(t, err)
	assert.True(t, solved)
	assert.Equal(t, domain.ChallengeStatusSolved, updated.Status)
	require.NotNil(t, updated.SolverID)
	assert.Equal(t, member.ID, *updated.SolverID)
	require.NotNil(t, updated.SolvedTime)
	firstSolve := *updated.SolvedTime

	// Writing the identical flag again changes nothing.
	updated, solved, err = svc.ApplyFlagUpdate(ctx, challenge.ID, "CTF{first}", member.ID)
	require.NoError(t, err)
	assert.False(t, solved)
	assert.Equal(t, member.ID, *updated.SolverID)
	assert.WithinDuration(t, firstSolve, *updated.SolvedTime, time.Second)

	// A different value is a change and re-fires the transition.
	_, solved, err = svc.ApplyFlagUpdate(ctx, challenge.ID, "CTF{corrected}", member.ID)
	require.NoError(t, err)
	assert.True(t, solved)
}

func TestMetadataUpdateNeverTouchesFlag(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	svc, _, ctf, member := setupChallengeFixture(t, db)

	challenge, err := svc.CreateChallenge(ctx, ChallengeInput{
		Name: "baby-rop", Points: 100, CtfID: ctf.ID,
	})
	require.NoError(t, err)

	_, solved, err := svc.ApplyFlagUpdate(ctx, challenge.ID, "CTF{flag}", member.ID)
	require.NoError(t, err)
	require.True(t, solved)

	updated, err := svc.UpdateChallenge(ctx, challenge.ID, ChallengeInput{
		Name: "renamed-rop", Points: 150, CtfID: ctf.ID,
	}, member.ID)
	require.NoError(t, err)

	assert.Equal(t, "renamed-rop", updated.Name)
	assert.Equal(t, "CTF{flag}", updated.Flag)
	assert.Equal(t, domain.ChallengeStatusSolved, updated.Status)
}

func TestUpdateChallengeReassignsAndClearsCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	svc, _, ctf, member := setupChallengeFixture(t, db)

	categorySvc := NewCategoryService(repository.NewCategoryRepository(db))
	pwn, err := categorySvc.CreateCategory(ctx, "pwn")
	require.NoError(t, err)
	web, err := categorySvc.CreateCategory(ctx, "web")
	require.NoError(t, err)

	challenge, err := svc.CreateChallenge(ctx, ChallengeInput{
		Name: "tagged", CtfID: ctf.ID, CategoryID: &pwn.ID,
	})
	require.NoError(t, err)

	// Reassign the category and read the row back.
	updated, err := svc.UpdateChallenge(ctx, challenge.ID, ChallengeInput{
		Name: "tagged", CtfID: ctf.ID, CategoryID: &web.ID,
	}, member.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, web.ID, *updated.CategoryID)

	reloaded, err := svc.GetChallenge(ctx, challenge.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.CategoryID)
	assert.Equal(t, web.ID, *reloaded.CategoryID)
	require.NotNil(t, reloaded.Category)
	assert.Equal(t, "web", reloaded.Category.Name)

	// Clearing must persist as well, not just reassigning.
	updated, err = svc.UpdateChallenge(ctx, challenge.ID, ChallengeInput{
		Name: "tagged", CtfID: ctf.ID,
	}, member.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)

	reloaded, err = svc.GetChallenge(ctx, challenge.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.CategoryID)
	assert.Nil(t, reloaded.Category)
}

func TestChallengeRejectsMalformedExcalidrawRoom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc, _, ctf, _ := setupChallengeFixture(t, db)

	_, err := svc.CreateChallenge(context.Background(), ChallengeInput{
		Name: "drawn", CtfID: ctf.ID, ExcalidrawRoomID: "not-a-room",
	})
	var derr domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.ErrorCodeParameterInvalid, derr.Code())
}

func TestCtfStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	challengeSvc, ctfSvc, ctf, member := setupChallengeFixture(t, db)

	first, err := challengeSvc.CreateChallenge(ctx, ChallengeInput{
		Name: "one", Points: 100, CtfID: ctf.ID,
	})
	require.NoError(t, err)
	_, err = challengeSvc.CreateChallenge(ctx, ChallengeInput{
		Name: "two", Points: 300, CtfID: ctf.ID,
	})
	require.NoError(t, err)

	_, solved, err := challengeSvc.ApplyFlagUpdate(ctx, first.ID, "CTF{one}", member.ID)
	require.NoError(t, err)
	require.True(t, solved)

	stats, err := ctfSvc.Stats(ctx, ctf.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalChallenges)
	assert.Equal(t, int64(1), stats.SolvedChallenges)
	assert.Equal(t, int64(400), stats.TotalPoints)
	assert.Equal(t, int64(100), stats.ScoredPoints)
	assert.Equal(t, 50, stats.SolvedChallengesAsPercent())
	assert.Equal(t, 25, stats.ScoredPointsAsPercent())
}

func TestDeleteCtfBlockedByWriteups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	challengeSvc, ctfSvc, ctf, member := setupChallengeFixture(t, db)

	challenge, err := challengeSvc.CreateChallenge(ctx, ChallengeInput{
		Name: "documented", CtfID: ctf.ID,
	})
	require.NoError(t, err)

	writeupSvc := NewWriteupService(repository.NewWriteupRepository(db))
	writeup, err := writeupSvc.AddWriteup(ctx, challenge.ID, member.ID, "https://blog.example.com/post")
	require.NoError(t, err)

	err = ctfSvc.DeleteCtf(ctx, ctf.ID)
	var derr domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.ErrorCodeResourceConflict, derr.Code())

	require.NoError(t, writeupSvc.DeleteWriteup(ctx, writeup.ID))
	require.NoError(t, ctfSvc.DeleteCtf(ctx, ctf.ID))
}
