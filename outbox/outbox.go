// Package outbox replicates local edits to the backend in the background.
//
// Edits are committed locally first and then enqueued here. A single worker
// goroutine runs the jobs in FIFO order, so a region's creation always
// reaches the backend before later updates to the same region. Failed jobs
// are retried while the error is temporary, then logged and reported through
// Options.OnStatus. Nothing is rolled back.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrClosed is returned by Enqueue after Close.
var ErrClosed = errors.New("outbox closed")

// Options configures an Outbox.
type Options struct {
	// MaxAttempts is the number of tries per job, including the first.
	MaxAttempts int

	// Backoff is the delay before the first retry. It doubles on each
	// further retry.
	Backoff time.Duration

	// Logger receives one entry per failed attempt.
	Logger logrus.FieldLogger

	// OnStatus, when set, receives a short user-facing message for every
	// job that finally failed. It is called on the worker goroutine.
	OnStatus func(msg string)
}

// DefaultOptions returns the default outbox options.
func DefaultOptions() Options {
	return Options{
		MaxAttempts: 3,
		Backoff:     200 * time.Millisecond,
		Logger:      logrus.StandardLogger(),
	}
}

// Job is a unit of replication work.
type Job struct {
	// Name identifies the operation in logs and status messages.
	Name string

	// Fields are attached to every log entry about the job.
	Fields logrus.Fields

	// Run performs the request. It must honour ctx cancellation.
	Run func(ctx context.Context) error

	// Done, if set, is called on the worker goroutine with the final
	// result. It is not called for jobs dropped by Close.
	Done func(err error)
}

// Outbox is a FIFO job queue drained by one worker goroutine.
type Outbox struct {
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	idle    *sync.Cond
	queue   []Job
	running bool
	closed  bool

	wake chan struct{}
	done chan struct{}
}

// New starts an Outbox. Call Close to stop its worker.
func New(opts Options) *Outbox {
	def := DefaultOptions()
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = def.Backoff
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Outbox{
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	o.idle = sync.NewCond(&o.mu)
	go o.loop()
	return o
}

// Enqueue appends a job to the queue.
func (o *Outbox) Enqueue(job Job) error {
	if job.Run == nil {
		return fmt.Errorf("outbox: job %q has no Run func", job.Name)
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}
	o.queue = append(o.queue, job)
	o.mu.Unlock()

	select {
	case o.wake <- struct{}{}:
	default:
	}
	return nil
}

// Len returns the number of queued jobs, including the running one.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := len(o.queue)
	if o.running {
		n++
	}
	return n
}

// Flush blocks until the queue is empty and no job is running, or the
// outbox is closed.
func (o *Outbox) Flush() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for !o.closed && (len(o.queue) > 0 || o.running) {
		o.idle.Wait()
	}
}

// Close cancels the running job, drops queued jobs and waits for the
// worker to exit. It is safe to call more than once.
func (o *Outbox) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		<-o.done
		return
	}
	o.closed = true
	dropped := len(o.queue)
	o.queue = nil
	o.idle.Broadcast()
	o.mu.Unlock()

	o.cancel()
	<-o.done

	if dropped > 0 {
		o.opts.Logger.WithField("dropped", dropped).Debug("outbox closed with queued jobs")
	}
}

func (o *Outbox) loop() {
	defer close(o.done)
	for {
		job, ok := o.next()
		if !ok {
			select {
			case <-o.wake:
				continue
			case <-o.ctx.Done():
				return
			}
		}

		err := o.run(job)
		if job.Done != nil && o.ctx.Err() == nil {
			job.Done(err)
		}

		o.mu.Lock()
		o.running = false
		o.idle.Broadcast()
		o.mu.Unlock()
	}
}

func (o *Outbox) next() (Job, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || len(o.queue) == 0 {
		return Job{}, false
	}
	job := o.queue[0]
	o.queue[0] = Job{}
	o.queue = o.queue[1:]
	o.running = true
	return job, true
}

func (o *Outbox) run(job Job) error {
	logger := o.opts.Logger.WithFields(job.Fields).WithField("op", job.Name)

	var err error
	delay := o.opts.Backoff
	for attempt := 1; attempt <= o.opts.MaxAttempts; attempt++ {
		err = job.Run(o.ctx)
		if err == nil {
			if attempt > 1 {
				logger.WithField("attempt", attempt).Debug("replication succeeded after retry")
			}
			return nil
		}
		if o.ctx.Err() != nil {
			return o.ctx.Err()
		}

		entry := logger.WithField("attempt", attempt).WithError(err)
		if attempt == o.opts.MaxAttempts || !Temporary(err) {
			entry.Error("replication failed")
			if o.opts.OnStatus != nil {
				o.opts.OnStatus(fmt.Sprintf("%s failed: %v", job.Name, err))
			}
			return err
		}
		entry.Warn("replication failed, retrying")

		select {
		case <-time.After(delay):
		case <-o.ctx.Done():
			return o.ctx.Err()
		}
		delay *= 2
	}
	return err
}

// Temporary reports whether err, or any error it wraps, says it is
// temporary. Errors without that method are treated as permanent.
func Temporary(err error) bool {
	var t interface{ Temporary() bool }
	return errors.As(err, &t) && t.Temporary()
}
