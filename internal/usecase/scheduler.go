package usecase

import (
	"context"
	"time"

	"techvibe/internal/ports"
)

// Scheduler wires the interval driver with the generation use case.
type Scheduler struct {
	driver    ports.Scheduler
	generator *Generator
}

// NewScheduler returns a helper to start/stop recurring generations.
func NewScheduler(driver ports.Scheduler, generator *Generator) *Scheduler {
	return &Scheduler{driver: driver, generator: generator}
}

// Start registers the generator with the provided scheduler. Each trigger
// produces an independent podcast record; failures are terminal per job and
// never retried here.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.generator == nil {
		return nil
	}

	job := func(time.Time) {
		_, _ = s.generator.Generate(ctx)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
