package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Job is a unit of background maintenance. An empty Schedule registers the job
// for on-demand runs only.
type Job interface {
	Name() string
	Schedule() string
	Execute(ctx context.Context) error
}

type Scheduler struct {
	cron *cron.Cron
	jobs []Job
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		jobs: make([]Job, 0),
	}
}

// Register adds the job. A job whose schedule does not parse is not kept.
func (s *Scheduler) Register(job Job) error {
	schedule := job.Schedule()
	if schedule == "" {
		s.jobs = append(s.jobs, job)
		log.Printf("📝 [%s] Registered as on-demand job (no schedule)", job.Name())
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.run(context.Background(), job) }); err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", job.Name(), err)
	}
	s.jobs = append(s.jobs, job)
	log.Printf("📅 [%s] Scheduled with cron: %s", job.Name(), schedule)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("🚀 Job scheduler started with %d registered jobs", len(s.jobs))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 Job scheduler stopped")
}

// RunByName executes a registered job immediately.
func (s *Scheduler) RunByName(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name() == name {
			return s.run(ctx, job)
		}
	}
	return fmt.Errorf("job %q is not registered", name)
}

func (s *Scheduler) run(ctx context.Context, job Job) error {
	log.Printf("[%s] Starting job...", job.Name())
	if err := job.Execute(ctx); err != nil {
		log.Printf("❌ [%s] Job failed: %v", job.Name(), err)
		return err
	}
	log.Printf("✅ [%s] Job completed successfully", job.Name())
	return nil
}
