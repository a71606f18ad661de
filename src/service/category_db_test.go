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

func TestDuplicateCategoryReportsExistingRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	svc := NewCategoryService(repository.NewCategoryRepository(db))

	pwn, err := svc.CreateCategory(ctx, "pwn")
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, "pwn")
	var derr domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.ErrorCodeResourceConflict, derr.Code())

	// The conflict response carries the id of the row already there.
	require.NotNil(t, derr.Detail())
	assert.Equal(t, pwn.ID, derr.Detail()["categoryId"])
}
