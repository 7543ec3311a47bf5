package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/verdict/oerror"
	"github.com/zeebo/xxh3"
)

// ErrClosed is returned when work is submitted to a closed pool.
var ErrClosed error = oerror.New("worker pool closed")

const laneBacklog = 64

// Pool runs work on a fixed set of lanes. Each lane is a single goroutine, and work submitted under the
// same key always runs on the same lane in submission order, so state owned by a key is never touched by
// two goroutines at once.
type Pool struct {
	log   *slog.Logger
	lanes []chan job

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

type job struct {
	key  string
	f    func()
	done chan error
}

// New starts a pool with the amount of lanes passed. A non-positive amount starts a lane per CPU.
func New(lanes int, log *slog.Logger) *Pool {
	if lanes <= 0 {
		lanes = runtime.NumCPU()
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p := &Pool{log: log, lanes: make([]chan job, lanes)}
	for i := range p.lanes {
		p.lanes[i] = make(chan job, laneBacklog)
		p.wg.Add(1)
		go p.worker(i, p.lanes[i])
	}
	return p
}

// Lanes returns the amount of lanes of the pool.
func (p *Pool) Lanes() int {
	return len(p.lanes)
}

// Lane returns the lane work submitted under the key passed runs on.
func (p *Pool) Lane(key string) int {
	return int(xxh3.HashString(key) % uint64(len(p.lanes)))
}

// Submit queues f on the lane of the key without waiting for it to run. It blocks only while the lane's
// backlog is full.
func (p *Pool) Submit(key string, f func()) error {
	return p.enqueue(context.Background(), job{key: key, f: f})
}

// Do runs f on the lane of the key and waits for it to complete. If the context is done first, Do returns
// the context's error and f may still run later, so the caller must not read anything f writes. A panic
// in f is recovered and returned as an error.
func (p *Pool) Do(ctx context.Context, key string, f func()) error {
	j := job{key: key, f: f, done: make(chan error, 1)}
	if err := p.enqueue(ctx, j); err != nil {
		return err
	}
	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) enqueue(ctx context.Context, j job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.lanes[p.Lane(j.key)] <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting work and waits for every lane to finish the work already queued.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for _, lane := range p.lanes {
		close(lane)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) worker(lane int, queue <-chan job) {
	defer p.wg.Done()
	for j := range queue {
		err := p.run(lane, j)
		if j.done != nil {
			j.done <- err
		}
	}
}

// run runs a single job, reporting a panic to sentry instead of taking the lane down.
func (p *Pool) run(lane int, j job) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = oerror.New("job for %s panicked: %v", j.key, v)
			p.log.Error("worker job panic", "lane", lane, "key", j.key, "panic", fmt.Sprint(v))

			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("lane", fmt.Sprint(lane))
				scope.SetTag("key", j.key)
			})
			hub.Recover(err)
			hub.Flush(time.Second * 5)
		}
	}()
	j.f()
	return nil
}
