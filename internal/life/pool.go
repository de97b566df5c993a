package life

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// Spawner starts fn on a new execution unit for the given worker index.
// A non-nil error means the worker was not started.
type Spawner func(worker int, fn func()) error

// Logger is the subset of a structured logger the pool writes to.
type Logger interface {
	Debug(msg string, args ...any)
}

// PoolOption customizes a Pool.
type PoolOption func(*Pool)

// WithSpawner replaces the default goroutine launcher.
func WithSpawner(s Spawner) PoolOption {
	return func(p *Pool) { p.spawn = s }
}

// WithLogger routes worker lifecycle messages to l.
func WithLogger(l Logger) PoolOption {
	return func(p *Pool) {
		if l != nil {
			p.log = l
		}
	}
}

// Pool advances a grid one generation at a time using a fixed set of
// persistent workers. Each worker owns one row band. A round is:
// compute band into staging, rendezvous, commit band into current,
// rendezvous. Step and Close must not be called concurrently with each
// other from different goroutines; they are serialized internally.
type Pool struct {
	cur     *Grid
	staging *Grid
	bands   []RowBand
	barrier *Barrier
	spawn   Spawner
	log     Logger
	compute func(cur, staging *Grid, band RowBand)

	wg     conc.WaitGroup
	stepMu sync.Mutex

	mu      sync.Mutex
	cond    *sync.Cond
	round   int
	pending int
	live    int
	closed  bool
	err     error
}

// NewPool partitions the rows of cur across workers and launches one
// persistent worker per band. cur and staging must have the same size.
func NewPool(cur, staging *Grid, workers int, opts ...PoolOption) (*Pool, error) {
	if cur.Size() != staging.Size() {
		return nil, fmt.Errorf("life: grid size mismatch: current %d, staging %d", cur.Size(), staging.Size())
	}
	bands, err := Partition(cur.Size(), workers)
	if err != nil {
		return nil, err
	}
	p := &Pool{
		cur:     cur,
		staging: staging,
		bands:   bands,
		barrier: NewBarrier(len(bands)),
		log:     slog.New(slog.DiscardHandler),
		compute: ComputeBand,
	}
	p.cond = sync.NewCond(&p.mu)
	p.spawn = func(_ int, fn func()) error {
		p.wg.Go(fn)
		return nil
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.start(); err != nil {
		return nil, err
	}
	return p, nil
}

// start launches the workers. If any launch fails the workers already
// running are stopped and joined before the error is returned.
func (p *Pool) start() error {
	for i, band := range p.bands {
		p.mu.Lock()
		p.live++
		p.mu.Unlock()
		if err := p.spawn(i, p.workerFunc(i, band)); err != nil {
			p.mu.Lock()
			p.live--
			p.mu.Unlock()
			_ = p.Close()
			return &WorkerLaunchError{Worker: i, Band: band, Err: err}
		}
	}
	return nil
}

// Bands returns the row bands in worker order.
func (p *Pool) Bands() []RowBand {
	out := make([]RowBand, len(p.bands))
	copy(out, p.bands)
	return out
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int { return len(p.bands) }

// Step runs one full generation round and blocks until every worker has
// committed its band. After a barrier failure the pool is unusable and every
// later call returns the same error.
func (p *Pool) Step() error {
	p.stepMu.Lock()
	defer p.stepMu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	if p.err != nil {
		return p.err
	}
	p.pending = len(p.bands)
	p.round++
	p.cond.Broadcast()
	for p.pending > 0 {
		p.cond.Wait()
	}
	return p.err
}

// Close stops all workers and waits for them to exit. It is safe to call
// more than once.
func (p *Pool) Close() error {
	p.stepMu.Lock()
	defer p.stepMu.Unlock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.cond.Broadcast()
	for p.live > 0 {
		p.cond.Wait()
	}
	p.mu.Unlock()
	p.wg.Wait()
	return nil
}

func (p *Pool) workerFunc(index int, band RowBand) func() {
	return func() {
		p.log.Debug("worker started", "worker", index, "band_start", band.Start, "band_end", band.End)
		p.workerLoop(index, band)
		p.log.Debug("worker stopped", "worker", index)
	}
}

// workerLoop waits for each new round, runs it, and reports completion.
func (p *Pool) workerLoop(index int, band RowBand) {
	lastRound := 0
	p.mu.Lock()
	defer func() {
		p.live--
		p.cond.Broadcast()
		p.mu.Unlock()
	}()
	for {
		for p.round == lastRound && !p.closed {
			p.cond.Wait()
		}
		if p.closed {
			return
		}
		lastRound = p.round
		p.mu.Unlock()

		err := p.runRound(index, band)

		p.mu.Lock()
		if err != nil && p.err == nil {
			p.err = err
		}
		p.pending--
		if p.pending == 0 {
			p.cond.Broadcast()
		}
	}
}

// runRound executes the two-phase protocol for one band. A panic breaks the
// barrier so the other workers are released instead of waiting forever.
func (p *Pool) runRound(index int, band RowBand) error {
	var err error
	var pc panics.Catcher
	pc.Try(func() {
		p.compute(p.cur, p.staging, band)
		if err = p.barrier.Wait(); err != nil {
			err = fmt.Errorf("worker %d rows %s after compute: %w", index, band, err)
			return
		}
		CommitBand(p.cur, p.staging, band)
		if err = p.barrier.Wait(); err != nil {
			err = fmt.Errorf("worker %d rows %s after commit: %w", index, band, err)
		}
	})
	if r := pc.Recovered(); r != nil {
		p.barrier.Break()
		return fmt.Errorf("worker %d rows %s: %w: %w", index, band, ErrBarrierBroken, r.AsError())
	}
	return err
}
