package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devansh3212/mined-hackathon-2025/common"
	"github.com/Devansh3212/mined-hackathon-2025/scheduler"
	"github.com/Devansh3212/mined-hackathon-2025/store"
)

type stubGenerator struct{}

func (stubGenerator) Generate(_ context.Context, _ string, _ int) (string, error) {
	return "", nil
}

// newTestServer builds a Server with a temp store and no running workers,
// so submitted jobs stay queued and handlers can be tested in isolation.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := common.Config{
		UploadDir:  filepath.Join(dir, "uploads"),
		OutputRoot: filepath.Join(dir, "output"),
	}
	require.NoError(t, os.MkdirAll(cfg.UploadDir, 0755))

	pool := &WorkerPool{
		jobs:  make(chan *Job, 100),
		store: st,
		gen:   stubGenerator{},
	}

	return &Server{
		pool:    pool,
		store:   st,
		cfg:     cfg,
		cleaner: scheduler.New(st, cfg.UploadDir, time.Hour),
	}
}

func uploadRequest(t *testing.T, url, field, filename string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	fw.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadQueuesJob(t *testing.T) {
	s := newTestServer(t)

	req := uploadRequest(t, "/process-paper?summary_length=short", "file", "paper.pdf")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["job_id"])
	assert.Equal(t, store.StatusQueued, resp["status"])

	job, err := s.store.GetJob(context.Background(), resp["job_id"])
	require.NoError(t, err)
	assert.Equal(t, "paper.pdf", job.PDFName)
	assert.Equal(t, "short", job.SummaryLength)

	// The upload must be saved under the upload dir.
	_, err = os.Stat(filepath.Join(s.cfg.UploadDir, resp["job_id"]+"_paper.pdf"))
	assert.NoError(t, err)
}

func TestUploadLegacyFieldName(t *testing.T) {
	s := newTestServer(t)

	req := uploadRequest(t, "/process-paper", "pdf", "paper.pdf")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUploadRejectsNonPDF(t *testing.T) {
	s := newTestServer(t)

	req := uploadRequest(t, "/process-paper", "file", "notes.txt")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsBadLength(t *testing.T) {
	s := newTestServer(t)

	req := uploadRequest(t, "/process-paper?summary_length=gigantic", "file", "paper.pdf")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusUnknownJob(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/status/does-not-exist", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusCompletedIncludesArtifacts(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	outputDir := filepath.Join(s.cfg.OutputRoot, "output_done")
	require.NoError(t, os.MkdirAll(outputDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "summary.txt"), []byte("text"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "graphical_abstract.png"), []byte("png"), 0644))

	require.NoError(t, s.store.CreateJob(ctx, store.Job{
		ID: "done", PDFName: "p.pdf", SummaryLength: "medium",
		OutputDir: outputDir, StartedAt: time.Now(),
	}))
	require.NoError(t, s.store.UpdateStatus(ctx, "done", store.StatusCompleted, ""))

	req := httptest.NewRequest(http.MethodGet, "/status/done", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, store.StatusCompleted, resp.Status)
	assert.Equal(t, "/files/done/summary.txt", resp.Artifacts["summary"])
	assert.Equal(t, "/files/done/graphical_abstract.png", resp.Artifacts["graphical_abstract"])
	assert.NotContains(t, resp.Artifacts, "voiceover")
}

func TestFilesServesArtifact(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	outputDir := filepath.Join(s.cfg.OutputRoot, "output_done")
	require.NoError(t, os.MkdirAll(outputDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "summary.txt"), []byte("the summary"), 0644))

	require.NoError(t, s.store.CreateJob(ctx, store.Job{
		ID: "done", PDFName: "p.pdf", SummaryLength: "medium",
		OutputDir: outputDir, StartedAt: time.Now(),
	}))

	req := httptest.NewRequest(http.MethodGet, "/files/done/summary.txt", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "the summary", rec.Body.String())
}

func TestFilesUnknownJob(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/files/nope/summary.txt", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.EqualValues(t, 0, resp["papers_processed"])
}

func TestIndexUsage(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "AI Research Paper Workbench")
}
