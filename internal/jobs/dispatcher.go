package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/uisketch/uisketch/internal/models"
	"github.com/uisketch/uisketch/internal/settings"
)

// Dispatcher polls the queue and executes claimed jobs on a bounded
// worker pool. Concurrency and poll interval come from the settings
// table so operators can tune them without a restart.
type Dispatcher struct {
	queue    *Queue
	db       *gorm.DB
	handlers map[models.JobKind]Handler

	inFlight atomic.Int64

	mu      sync.Mutex
	stop    chan struct{}
	stopped chan struct{}
}

// NewDispatcher builds a dispatcher over the queue's database.
func NewDispatcher(queue *Queue) *Dispatcher {
	return &Dispatcher{
		queue:    queue,
		db:       queue.db,
		handlers: make(map[models.JobKind]Handler),
	}
}

// Register binds a handler to a job kind. Must be called before Start.
func (d *Dispatcher) Register(kind models.JobKind, h Handler) {
	d.handlers[kind] = h
}

// Start launches the polling loop. It returns immediately; Stop blocks
// until in-flight jobs finish.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return
	}
	d.stop = make(chan struct{})
	d.stopped = make(chan struct{})
	go d.loop(ctx, d.stop, d.stopped)
}

// Stop halts polling and waits for running jobs to complete.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	stop, stopped := d.stop, d.stopped
	d.stop = nil
	d.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-stopped
}

// RunOnce claims and executes a single eligible job synchronously.
// Returns false when the queue had nothing eligible.
func (d *Dispatcher) RunOnce(ctx context.Context) bool {
	job, errClaim := d.queue.claim()
	if errClaim != nil {
		if !errors.Is(errClaim, gorm.ErrRecordNotFound) {
			log.Errorf("jobs: claim: %v", errClaim)
		}
		return false
	}
	d.execute(ctx, job)
	return true
}

func (d *Dispatcher) loop(ctx context.Context, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		interval := time.Duration(settings.Int(d.db, settings.JobPollIntervalSecondsKey, settings.DefaultJobPollIntervalSeconds)) * time.Second
		if interval < time.Second {
			interval = time.Second
		}
		slots := settings.Int(d.db, settings.JobMaxConcurrencyKey, settings.DefaultJobMaxConcurrency)
		if slots < 1 {
			slots = 1
		}

		d.drain(ctx, &wg, slots)

		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// drain claims eligible jobs until the queue is empty or the number of
// jobs running across all poll cycles reaches slots. Jobs claimed in
// earlier cycles count against the ceiling until they finish.
func (d *Dispatcher) drain(ctx context.Context, wg *sync.WaitGroup, slots int) {
	for int(d.inFlight.Load()) < slots {
		job, errClaim := d.queue.claim()
		if errClaim != nil {
			if !errors.Is(errClaim, gorm.ErrRecordNotFound) {
				log.Errorf("jobs: claim: %v", errClaim)
			}
			return
		}
		d.inFlight.Add(1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer d.inFlight.Add(-1)
			d.execute(ctx, job)
		}()
	}
}

func (d *Dispatcher) execute(ctx context.Context, job *models.Job) {
	handler, ok := d.handlers[job.Kind]
	run := &Run{queue: d.queue, job: job}

	var runErr error
	if !ok {
		runErr = errors.New("jobs: no handler registered for kind " + string(job.Kind))
		job.Attempts = job.MaxAttempts
	} else {
		runErr = handler.Handle(ctx, run)
	}

	if runErr != nil {
		log.WithFields(log.Fields{
			"job":     job.ID,
			"kind":    job.Kind,
			"attempt": job.Attempts,
		}).Warnf("jobs: attempt failed: %v", runErr)
		if ok && job.Attempts >= job.MaxAttempts {
			handler.OnExhausted(ctx, run, runErr)
		}
	}
	if errFinish := d.queue.finish(job, runErr); errFinish != nil {
		log.Errorf("jobs: %v", errFinish)
	}
}
