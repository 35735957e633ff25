package scheduler

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devansh3212/mined-hackathon-2025/store"
)

func TestPruneRemovesStaleJobArtifacts(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "jobs.db"))
	require.NoError(t, err)
	defer st.Close()

	uploadDir := filepath.Join(dir, "uploads")
	require.NoError(t, os.MkdirAll(uploadDir, 0755))

	outputDir := filepath.Join(dir, "output", "output_stale")
	require.NoError(t, os.MkdirAll(outputDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "summary.txt"), []byte("x"), 0644))

	uploadPath := filepath.Join(uploadDir, "stale_paper.pdf")
	require.NoError(t, os.WriteFile(uploadPath, []byte("%PDF"), 0644))

	ctx := context.Background()
	require.NoError(t, st.CreateJob(ctx, store.Job{
		ID: "stale", PDFName: "paper.pdf", SummaryLength: "medium",
		OutputDir: outputDir, StartedAt: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, st.UpdateStatus(ctx, "stale", store.StatusCompleted, ""))

	s := New(st, uploadDir, 0)
	require.NoError(t, s.Prune(ctx))

	_, err = os.Stat(outputDir)
	assert.True(t, os.IsNotExist(err), "output dir should be removed")

	_, err = os.Stat(uploadPath)
	assert.True(t, os.IsNotExist(err), "upload should be removed")

	_, err = st.GetJob(ctx, "stale")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPruneKeepsUnfinishedJobs(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "jobs.db"))
	require.NoError(t, err)
	defer st.Close()

	outputDir := filepath.Join(dir, "output", "output_live")
	require.NoError(t, os.MkdirAll(outputDir, 0755))

	ctx := context.Background()
	require.NoError(t, st.CreateJob(ctx, store.Job{
		ID: "live", PDFName: "paper.pdf", SummaryLength: "medium",
		OutputDir: outputDir, StartedAt: time.Now().Add(-48 * time.Hour),
	}))

	s := New(st, dir, 0)
	require.NoError(t, s.Prune(ctx))

	_, err = os.Stat(outputDir)
	assert.NoError(t, err, "unfinished job output must survive")

	_, err = st.GetJob(ctx, "live")
	assert.NoError(t, err)
}
