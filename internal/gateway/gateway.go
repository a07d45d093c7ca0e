// Package gateway runs blocking generation calls on a bounded worker pool.
//
// Flows submit a request and wait on a result channel; the backend call itself
// executes on one of a fixed number of worker goroutines. A flow waiting here
// never holds up the poller or other users' flows, and a backend that hangs
// is cut off by the per-call timeout.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	app_errors "chat-relay/bot/internal/errors"
	"chat-relay/bot/internal/llm"
	"chat-relay/bot/internal/model"
)

const (
	DefaultWorkers   = 8
	DefaultQueueSize = 64
	DefaultTimeout   = 120 * time.Second
)

// GenerationError reports a failed backend call. It matches both its cause
// and errors.ErrGeneration.
type GenerationError struct {
	Profile string
	Cause   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation with %s failed: %v", e.Profile, e.Cause)
}

func (e *GenerationError) Unwrap() []error {
	return []error{app_errors.ErrGeneration, e.Cause}
}

// Options configures the worker pool. Zero values select the defaults.
type Options struct {
	Workers   int
	QueueSize int
	// Timeout bounds every call; zero disables it.
	Timeout time.Duration
}

type result struct {
	text string
	err  error
}

type job struct {
	ctx     context.Context
	profile llm.Profile
	req     *llm.GenerateRequest
	out     chan<- result
}

// Gateway is the offload boundary between flows and the generation backend.
type Gateway struct {
	provider llm.LLMProvider
	profiles *llm.ProfileSet
	timeout  time.Duration
	workers  int

	jobs     chan job
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	inFlight  atomic.Int64
	completed atomic.Uint64
	failed    atomic.Uint64
}

// NewGateway creates a gateway and starts its workers.
func NewGateway(provider llm.LLMProvider, profiles *llm.ProfileSet, opts Options) *Gateway {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	g := &Gateway{
		provider: provider,
		profiles: profiles,
		timeout:  opts.Timeout,
		workers:  opts.Workers,
		jobs:     make(chan job, opts.QueueSize),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for i := 0; i < opts.Workers; i++ {
		g.wg.Add(1)
		go g.worker()
	}
	return g
}

// Generate submits the request to the pool and waits for its result, the
// timeout, or the caller's cancellation, whichever comes first. Every failure
// is returned as a *GenerationError.
func (g *Gateway) Generate(ctx context.Context, req *llm.GenerateRequest) (string, error) {
	text, err := g.generate(ctx, req)
	if err != nil {
		g.failed.Add(1)
		return "", err
	}
	g.completed.Add(1)
	return text, nil
}

func (g *Gateway) generate(ctx context.Context, req *llm.GenerateRequest) (string, error) {
	profile := g.profiles.Get(req.Choice)
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	out := make(chan result, 1)
	select {
	case <-g.stop:
		return "", generationError(profile, app_errors.ErrUnavailable)
	default:
	}
	select {
	case g.jobs <- job{ctx: ctx, profile: profile, req: req, out: out}:
	case <-ctx.Done():
		return "", generationError(profile, ctx.Err())
	case <-g.stop:
		return "", generationError(profile, app_errors.ErrUnavailable)
	}

	select {
	case r := <-out:
		return r.text, r.err
	case <-ctx.Done():
		return "", generationError(profile, ctx.Err())
	case <-g.done:
		select {
		case r := <-out:
			return r.text, r.err
		default:
			return "", generationError(profile, app_errors.ErrUnavailable)
		}
	}
}

// Stats returns a snapshot of the pool's counters.
func (g *Gateway) Stats() model.GenerationStats {
	return model.GenerationStats{
		Workers:   g.workers,
		Queued:    len(g.jobs),
		InFlight:  g.inFlight.Load(),
		Completed: g.completed.Load(),
		Failed:    g.failed.Load(),
	}
}

// Stop lets running calls finish, then fails every call still queued.
func (g *Gateway) Stop() {
	g.stopOnce.Do(func() {
		close(g.stop)
		g.wg.Wait()
		for {
			select {
			case j := <-g.jobs:
				j.out <- result{err: generationError(j.profile, app_errors.ErrUnavailable)}
			default:
				close(g.done)
				return
			}
		}
	})
}

func (g *Gateway) worker() {
	defer g.wg.Done()
	for {
		select {
		case <-g.stop:
			return
		case j := <-g.jobs:
			j.out <- g.run(j)
		}
	}
}

func (g *Gateway) run(j job) (res result) {
	if err := j.ctx.Err(); err != nil {
		return result{err: generationError(j.profile, err)}
	}

	g.inFlight.Add(1)
	start := time.Now()
	defer func() {
		g.inFlight.Add(-1)
		if p := recover(); p != nil {
			slog.Error("Generation backend panicked", "profile", j.profile.Model, "panic", p)
			res = result{err: generationError(j.profile, fmt.Errorf("backend panic: %v", p))}
		}
	}()

	resp, err := g.provider.Generate(j.ctx, j.profile, j.req)
	if err != nil {
		return result{err: generationError(j.profile, err)}
	}
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return result{err: generationError(j.profile, llm.ErrEmptyResponse)}
	}

	slog.Debug("Generation finished", "profile", j.profile.Model, "duration", time.Since(start))
	return result{text: resp.Text}
}

func generationError(profile llm.Profile, cause error) error {
	var genErr *GenerationError
	if errors.As(cause, &genErr) {
		return cause
	}
	return &GenerationError{Profile: profile.Model, Cause: cause}
}
