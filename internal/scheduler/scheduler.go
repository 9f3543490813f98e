package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the daily recap on a cron spec (UTC).
type Scheduler struct {
	cron      *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc
	spec      string
	recapFunc func(ctx context.Context) error
}

// New creates a scheduler for the given cron spec. An empty spec
// disables scheduling entirely.
func New(spec string) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
		spec:   spec,
	}
}

// SetRecapFunction sets the function invoked on every tick.
func (s *Scheduler) SetRecapFunction(f func(ctx context.Context) error) {
	s.recapFunc = f
}

func (s *Scheduler) Start() error {
	if s.spec == "" || s.recapFunc == nil {
		log.Println("recap scheduler disabled")
		return nil
	}
	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.recapFunc(s.ctx); err != nil {
			log.Printf("daily recap failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("recap scheduler started (cron %q, UTC)", s.spec)
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
}
