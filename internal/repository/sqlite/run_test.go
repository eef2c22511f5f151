package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvasko/loom/internal/domain"
	"github.com/nvasko/loom/internal/repository"
)

func testRepo(t *testing.T) repository.RunRepository {
	t.Helper()
	repo, err := Initialize(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return repo
}

func TestCreateAndGetRun(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	run := &domain.Run{
		ChainName: "profile",
		Subject:   "amara_okafor",
		OutputDir: "output/amara_okafor",
		Status:    domain.RunProcessing,
	}
	require.NoError(t, repo.CreateRun(ctx, run))
	require.NotEqual(t, uuid.Nil, run.ID)

	got, err := repo.GetRunByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "profile", got.ChainName)
	assert.Equal(t, domain.RunProcessing, got.Status)
}

func TestGetRunByIDNotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.GetRunByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, domain.IsNoRunError(err))
}

func TestGetRunByPartialID(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	run := &domain.Run{ChainName: "profile", Subject: "x", Status: domain.RunCompleted}
	require.NoError(t, repo.CreateRun(ctx, run))

	got, err := repo.GetRunByPartialID(ctx, run.ID.String()[:8])
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)

	_, err = repo.GetRunByPartialID(ctx, "ffffffff-ffff")
	require.Error(t, err)
}

func TestStepResultsOrdered(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	run := &domain.Run{ChainName: "profile", Subject: "x", Status: domain.RunProcessing}
	require.NoError(t, repo.CreateRun(ctx, run))

	for _, name := range []string{"bio", "audience_description", "fictional_profile"} {
		require.NoError(t, repo.AddStepResult(ctx, run.ID, &domain.StepResult{
			StepName: name,
			Status:   domain.StatusSuccess,
		}))
	}

	steps, err := repo.GetStepResults(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, "bio", steps[0].StepName)
	assert.Equal(t, "fictional_profile", steps[2].StepName)

	got, err := repo.GetRunByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, got.Steps, 3)
}

func TestSetRunStatus(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	run := &domain.Run{ChainName: "profile", Subject: "x", Status: domain.RunProcessing}
	require.NoError(t, repo.CreateRun(ctx, run))

	require.NoError(t, repo.SetRunStatus(ctx, run.ID, domain.RunFailed, "rate limited"))

	got, err := repo.GetRunByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunFailed, got.Status)
	assert.Equal(t, "rate limited", got.Error)
}

func TestDeleteRunCascades(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	run := &domain.Run{ChainName: "profile", Subject: "x", Status: domain.RunCompleted}
	require.NoError(t, repo.CreateRun(ctx, run))
	require.NoError(t, repo.AddStepResult(ctx, run.ID, &domain.StepResult{StepName: "bio", Status: domain.StatusSuccess}))

	require.NoError(t, repo.DeleteRun(ctx, run.ID))

	_, err := repo.GetRunByID(ctx, run.ID)
	require.Error(t, err)
	steps, err := repo.GetStepResults(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestListAndMostRecent(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateRun(ctx, &domain.Run{
			ChainName: "profile",
			Subject:   "x",
			Status:    domain.RunCompleted,
		}))
	}

	runs, err := repo.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	all, err := repo.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = repo.GetMostRecentRun(ctx)
	require.NoError(t, err)
}

func TestGetMostRecentRunEmpty(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.GetMostRecentRun(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsNoRunError(err))
}
