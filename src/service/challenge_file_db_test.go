package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/repository"
	"github.com/ctfpad/backend/src/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachFileEnrichesMetadata(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	challengeSvc, _, ctf, _ := setupChallengeFixture(t, db)
	challenge, err := challengeSvc.CreateChallenge(ctx, ChallengeInput{
		Name: "with-files", CtfID: ctf.ID,
	})
	require.NoError(t, err)

	root := t.TempDir()
	fileSvc := NewChallengeFileService(
		repository.NewChallengeFileRepository(db),
		repository.NewChallengeRepository(db),
		root,
	)

	content := "just some plain text\n"
	file, err := fileSvc.AttachFile(ctx, challenge.ID, "hint.txt", strings.NewReader(content), int64(len(content)))
	require.NoError(t, err)

	assert.Equal(t, "text/plain", file.Mime)
	assert.Equal(t, "ASCII text", file.Type)
	sum := sha256.Sum256([]byte(content))
	assert.Equal(t, hex.EncodeToString(sum[:]), file.Hash)
	assert.True(t, file.Enriched())

	// The blob lands under the storage root, prefixed by the file id.
	_, err = os.Stat(fileSvc.FilePath(file))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(file.FileName, file.ID.String()+"_"))
}

func TestEnrichmentIsOneShot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	challengeSvc, _, ctf, _ := setupChallengeFixture(t, db)
	challenge, err := challengeSvc.CreateChallenge(ctx, ChallengeInput{
		Name: "with-files", CtfID: ctf.ID,
	})
	require.NoError(t, err)

	root := t.TempDir()
	fileSvc := NewChallengeFileService(
		repository.NewChallengeFileRepository(db),
		repository.NewChallengeRepository(db),
		root,
	)

	content := "original content\n"
	file, err := fileSvc.AttachFile(ctx, challenge.ID, "data.txt", strings.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	require.True(t, file.Enriched())
	originalHash := file.Hash

	// Rewriting the blob on disk must not change the stored metadata.
	require.NoError(t, os.WriteFile(fileSvc.FilePath(file), []byte("tampered"), 0o644))

	refreshed, err := fileSvc.RefreshFileInfo(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, originalHash, refreshed.Hash)
}

func TestRefreshLeavesFieldsUnsetWhileBlobMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	challengeSvc, _, ctf, _ := setupChallengeFixture(t, db)
	challenge, err := challengeSvc.CreateChallenge(ctx, ChallengeInput{
		Name: "with-files", CtfID: ctf.ID,
	})
	require.NoError(t, err)

	root := t.TempDir()
	fileRepo := repository.NewChallengeFileRepository(db)
	fileSvc := NewChallengeFileService(fileRepo, repository.NewChallengeRepository(db), root)

	// Row exists but the blob never made it to storage.
	file := &domain.ChallengeFile{
		ID:          uuid.New(),
		FileName:    "never-uploaded.bin",
		ChallengeID: challenge.ID,
	}
	require.NoError(t, fileRepo.CreateFile(file))

	refreshed, err := fileSvc.RefreshFileInfo(ctx, file.ID)
	require.NoError(t, err)
	assert.Empty(t, refreshed.Mime)
	assert.Empty(t, refreshed.Type)
	assert.Empty(t, refreshed.Hash)
	assert.False(t, refreshed.Enriched())

	// Once the blob appears, a refresh fills everything in.
	require.NoError(t, os.WriteFile(fileSvc.FilePath(file), []byte("late arrival\n"), 0o644))
	refreshed, err = fileSvc.RefreshFileInfo(ctx, file.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.Enriched())
}

func TestAttachFileRejectsOversizedUpload(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	challengeSvc, _, ctf, _ := setupChallengeFixture(t, db)
	challenge, err := challengeSvc.CreateChallenge(ctx, ChallengeInput{
		Name: "with-files", CtfID: ctf.ID,
	})
	require.NoError(t, err)

	fileSvc := NewChallengeFileService(
		repository.NewChallengeFileRepository(db),
		repository.NewChallengeRepository(db),
		t.TempDir(),
	)

	_, err = fileSvc.AttachFile(ctx, challenge.ID, "huge.bin", strings.NewReader(""), 3*1024*1024)
	assert.Error(t, err)
}

func TestAttachFileRejectsStreamBeyondLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	challengeSvc, _, ctf, _ := setupChallengeFixture(t, db)
	challenge, err := challengeSvc.CreateChallenge(ctx, ChallengeInput{
		Name: "with-files", CtfID: ctf.ID,
	})
	require.NoError(t, err)

	root := t.TempDir()
	fileSvc := NewChallengeFileService(
		repository.NewChallengeFileRepository(db),
		repository.NewChallengeRepository(db),
		root,
	)

	// The declared size lies; the stream itself runs past the limit.
	payload := strings.Repeat("A", int(domain.ChallengeFileMaxSize)+1)
	_, err = fileSvc.AttachFile(ctx, challenge.ID, "liar.bin", strings.NewReader(payload), 1)
	var derr domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.ErrorCodeParameterInvalid, derr.Code())

	// Neither a row nor a truncated blob survives.
	files, err := fileSvc.ListFilesByChallenge(ctx, challenge.ID)
	require.NoError(t, err)
	assert.Empty(t, files)
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteFileRemovesBlob(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	challengeSvc, _, ctf, _ := setupChallengeFixture(t, db)
	challenge, err := challengeSvc.CreateChallenge(ctx, ChallengeInput{
		Name: "with-files", CtfID: ctf.ID,
	})
	require.NoError(t, err)

	fileSvc := NewChallengeFileService(
		repository.NewChallengeFileRepository(db),
		repository.NewChallengeRepository(db),
		t.TempDir(),
	)

	content := "ephemeral\n"
	file, err := fileSvc.AttachFile(ctx, challenge.ID, "gone.txt", strings.NewReader(content), int64(len(content)))
	require.NoError(t, err)

	require.NoError(t, fileSvc.DeleteFile(ctx, file.ID))

	_, err = os.Stat(fileSvc.FilePath(file))
	assert.True(t, os.IsNotExist(err))

	files, err := fileSvc.ListFilesByChallenge(ctx, challenge.ID)
	require.NoError(t, err)
	assert.Empty(t, files)
}
