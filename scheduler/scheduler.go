// Package scheduler prunes artifacts of old jobs on a cron cadence.
package scheduler

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Devansh3212/mined-hackathon-2025/store"
)

const hourlyPruneSpec = "0 * * * *"

type Scheduler struct {
	cron      *cron.Cron
	store     *store.Store
	uploadDir string
	retention time.Duration
}

func New(st *store.Store, uploadDir string, retention time.Duration) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		store:     st,
		uploadDir: uploadDir,
		retention: retention,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(hourlyPruneSpec, func() {
		if err := s.Prune(context.Background()); err != nil {
			log.Printf("Cleanup run failed: %v", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Prune removes output directories and uploads of jobs that finished before
// the retention window, then drops their records.
func (s *Scheduler) Prune(ctx context.Context) error {
	cutoff := time.Now().Add(-s.retention)

	jobs, err := s.store.StaleJobs(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, job := range jobs {
		if job.OutputDir != "" {
			if err := os.RemoveAll(job.OutputDir); err != nil {
				log.Printf("Failed to remove output dir for job %s: %v", job.ID, err)
				continue
			}
		}

		uploads, _ := filepath.Glob(filepath.Join(s.uploadDir, job.ID+"_*"))
		for _, f := range uploads {
			if err := os.Remove(f); err != nil {
				log.Printf("Failed to remove upload %s: %v", f, err)
			}
		}

		if err := s.store.DeleteJob(ctx, job.ID); err != nil {
			log.Printf("Failed to delete job %s: %v", job.ID, err)
			continue
		}
		log.Printf("Pruned job %s", job.ID)
	}

	return nil
}
