package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Devansh3212/mined-hackathon-2025/common"
	"github.com/Devansh3212/mined-hackathon-2025/llm"
	"github.com/Devansh3212/mined-hackathon-2025/pipelines/paper"
	"github.com/Devansh3212/mined-hackathon-2025/scheduler"
	"github.com/Devansh3212/mined-hackathon-2025/store"
)

const maxUploadBytes = 10 << 20 // 10 MB, same cap the upload form advertises

type Job struct {
	ID     string
	Config common.PipelineConfig
}

type WorkerPool struct {
	jobs       chan *Job
	store      *store.Store
	gen        llm.Generator
	wg         sync.WaitGroup
	numWorkers int
}

func NewWorkerPool(numWorkers, bufferSize int, st *store.Store, gen llm.Generator) *WorkerPool {
	pool := &WorkerPool{
		jobs:       make(chan *Job, bufferSize),
		store:      st,
		gen:        gen,
		numWorkers: numWorkers,
	}
	pool.Start()
	return pool
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	log.Printf("Started %d workers", p.numWorkers)
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		log.Printf("[Worker %d] Processing job %s", id, job.ID)
		p.processJob(job)
	}
	log.Printf("[Worker %d] Shutting down", id)
}

func (p *WorkerPool) processJob(job *Job) {
	ctx := context.Background()
	p.updateStatus(ctx, job.ID, store.StatusProcessing, "")

	if err := paper.ProcessPaperPipeline(ctx, job.Config, p.gen); err != nil {
		p.updateStatus(ctx, job.ID, store.StatusFailed, err.Error())
		log.Printf("[Job %s] Failed: %v", job.ID, err)
	} else {
		p.updateStatus(ctx, job.ID, store.StatusCompleted, "")
		log.Printf("[Job %s] Completed successfully", job.ID)
	}
}

func (p *WorkerPool) updateStatus(ctx context.Context, jobID, status, errMsg string) {
	if err := p.store.UpdateStatus(ctx, jobID, status, errMsg); err != nil {
		log.Printf("[Job %s] Failed to persist status %s: %v", jobID, status, err)
	}
}

// Submit records the job and queues it for processing.
func (p *WorkerPool) Submit(ctx context.Context, job *Job, pdfName string) error {
	if err := p.store.CreateJob(ctx, store.Job{
		ID:            job.ID,
		PDFName:       pdfName,
		SummaryLength: job.Config.SummaryLength,
		OutputDir:     job.Config.OutputDir,
		StartedAt:     time.Now(),
	}); err != nil {
		return err
	}

	p.jobs <- job
	return nil
}

func (p *WorkerPool) Shutdown() {
	close(p.jobs)
	p.wg.Wait()
}

type Server struct {
	pool    *WorkerPool
	store   *store.Store
	cfg     common.Config
	cleaner *scheduler.Scheduler
}

func NewServer(cfg common.Config, numWorkers int) (*Server, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening job store: %w", err)
	}

	gen, err := llm.NewGenerator(cfg.LLMProvider, cfg.LLMKey(), cfg.LLMModel)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}

	return &Server{
		pool:    NewWorkerPool(numWorkers, 100, st, gen),
		store:   st,
		cfg:     cfg,
		cleaner: scheduler.New(st, cfg.UploadDir, time.Duration(cfg.RetentionHours)*time.Hour),
	}, nil
}

func (s *Server) handlePaperUpload(w http.ResponseWriter, r *http.Request) {
	length := r.URL.Query().Get("summary_length")
	if length == "" {
		length = common.LengthMedium
	}
	if !common.ValidLength(length) {
		http.Error(w, "Invalid summary_length. Use 'short', 'medium', or 'long'", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Upload too large or malformed: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// The older clients send the field as "pdf"; accept both.
		file, header, err = r.FormFile("pdf")
	}
	if err != nil {
		http.Error(w, "Failed to get PDF file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		http.Error(w, "Only PDF files are accepted", http.StatusBadRequest)
		return
	}

	jobID := uuid.NewString()
	pdfPath := filepath.Join(s.cfg.UploadDir, jobID+"_"+filepath.Base(header.Filename))
	outputDir := filepath.Join(s.cfg.OutputRoot, "output_"+jobID)

	dst, err := os.Create(pdfPath)
	if err != nil {
		http.Error(w, "Failed to save file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		http.Error(w, "Failed to save file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	job := &Job{
		ID: jobID,
		Config: common.PipelineConfig{
			PDFPath:        pdfPath,
			OutputDir:      outputDir,
			SummaryLength:  length,
			ElevenLabsKey:  s.cfg.ElevenLabsKey,
			HuggingFaceKey: s.cfg.HuggingFaceKey,
		},
	}

	if err := s.pool.Submit(r.Context(), job, header.Filename); err != nil {
		http.Error(w, "Failed to queue job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"job_id":  jobID,
		"status":  store.StatusQueued,
		"message": "PDF uploaded and queued for processing",
	})
}

type statusResponse struct {
	store.Job
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	job, err := s.store.GetJob(r.Context(), jobID)
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	resp := statusResponse{Job: *job}
	if job.Status == store.StatusCompleted {
		resp.Artifacts = s.artifactLinks(job)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// artifactLinks maps the well-known bundle artifacts to download URLs.
func (s *Server) artifactLinks(job *store.Job) map[string]string {
	known := map[string]string{
		"summary":            "summary.txt",
		"summary_pdf":        "summary.pdf",
		"graphical_abstract": "graphical_abstract.png",
		"voiceover":          "voiceover.mp3",
		"presentation":       filepath.Join("slides", "presentation.pdf"),
	}

	links := make(map[string]string)
	for name, rel := range known {
		if _, err := os.Stat(filepath.Join(job.OutputDir, rel)); err == nil {
			links[name] = fmt.Sprintf("/files/%s/%s", job.ID, filepath.ToSlash(rel))
		}
	}
	return links
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	jobID := vars["id"]
	rel := vars["path"]

	job, err := s.store.GetJob(r.Context(), jobID)
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	// Resolve inside the job's output dir only.
	full := filepath.Join(job.OutputDir, filepath.FromSlash(rel))
	cleanRoot := filepath.Clean(job.OutputDir) + string(os.PathSeparator)
	if !strings.HasPrefix(filepath.Clean(full), cleanRoot) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	http.ServeFile(w, r, full)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	processed, err := s.store.ProcessedCount(r.Context())
	if err != nil {
		log.Printf("Failed to count processed papers: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":           "ok",
		"workers":          s.pool.numWorkers,
		"goroutines":       runtime.NumGoroutine(),
		"queued_jobs":      len(s.pool.jobs),
		"papers_processed": processed,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		s.handlePaperUpload(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "AI Research Paper Workbench",
		"usage":   "POST /process-paper with 'file' form field. Query params: ?summary_length=short|medium|long",
		"status":  "GET /status/{job_id}",
		"files":   "GET /files/{job_id}/{artifact}",
		"health":  "GET /health",
	})
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/status/{id}", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/files/{id}/{path:.*}", s.handleFiles).Methods(http.MethodGet)
	r.HandleFunc("/process-paper", s.handlePaperUpload).Methods(http.MethodPost)
	r.HandleFunc("/process-paper/", s.handlePaperUpload).Methods(http.MethodPost)
	r.PathPrefix("/").HandlerFunc(s.handleIndex)
	return r
}

func (s *Server) Shutdown(ctx context.Context) {
	s.cleaner.Stop()
	s.pool.Shutdown()
	s.store.Close()
}

func StartServer(cfg common.Config, addr string, numWorkers int) {
	server, err := NewServer(cfg, numWorkers)
	if err != nil {
		log.Fatalf("Server init failed: %v", err)
	}

	if err := server.cleaner.Start(); err != nil {
		log.Fatalf("Cleanup scheduler failed to start: %v", err)
	}

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	log.Printf("Server starting on %s with %d workers", addr, numWorkers)
	log.Printf("POST /process-paper with a 'file' form field and ?summary_length=short|medium|long")

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
