package life

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"
)

func randomGrid(size int, seed int64) *Grid {
	rng := rand.New(rand.NewSource(seed))
	g := NewGrid(size)
	for i := range g.Cells() {
		if rng.Intn(3) == 0 {
			g.Cells()[i] = Alive
		}
	}
	return g
}

func newTestPool(t *testing.T, cur *Grid, workers int, opts ...PoolOption) *Pool {
	t.Helper()
	p, err := NewPool(cur, NewGrid(cur.Size()), workers, opts...)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestPoolMatchesSequentialForEveryWorkerCount(t *testing.T) {
	const size = 17
	const generations = 30
	start := randomGrid(size, 42)

	for workers := 1; workers <= size; workers++ {
		cur := start.Clone()
		ref := start.Clone()
		p := newTestPool(t, cur, workers)
		for gen := 1; gen <= generations; gen++ {
			if err := p.Step(); err != nil {
				t.Fatalf("workers=%d gen=%d: Step: %v", workers, gen, err)
			}
			StepSequential(ref)
			if !cur.Equal(ref) {
				t.Fatalf("workers=%d gen=%d: grid diverged from sequential reference:\n%s\nwant:\n%s",
					workers, gen, cur, ref)
			}
		}
		if err := p.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}
}

func TestPoolDefaultSeedGlider(t *testing.T) {
	cur := NewGrid(20)
	if err := Seed(cur, DefaultSeed()); err != nil {
		t.Fatal(err)
	}
	ref := cur.Clone()
	p := newTestPool(t, cur, 4)
	for i := 0; i < 32; i++ {
		if err := p.Step(); err != nil {
			t.Fatal(err)
		}
		StepSequential(ref)
	}
	if !cur.Equal(ref) {
		t.Errorf("pool result differs from sequential:\n%s\nwant:\n%s", cur, ref)
	}
}

func TestPoolBands(t *testing.T) {
	p := newTestPool(t, NewGrid(10), 3)
	want := []RowBand{{0, 3}, {4, 6}, {7, 9}}
	got := p.Bands()
	if p.Workers() != 3 || len(got) != len(want) {
		t.Fatalf("Bands() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Bands()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNewPoolRejectsBadInput(t *testing.T) {
	if _, err := NewPool(NewGrid(4), NewGrid(5), 2); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := NewPool(NewGrid(4), NewGrid(4), 5); !errors.Is(err, ErrInvalidPartition) {
		t.Errorf("workers > rows: error = %v, want ErrInvalidPartition", err)
	}
}

func TestNewPoolLaunchFailure(t *testing.T) {
	errNoThreads := errors.New("resource temporarily unavailable")
	var running sync.WaitGroup
	spawner := func(worker int, fn func()) error {
		if worker == 2 {
			return errNoThreads
		}
		running.Add(1)
		go func() {
			defer running.Done()
			fn()
		}()
		return nil
	}

	p, err := NewPool(NewGrid(8), NewGrid(8), 4, WithSpawner(spawner))
	if p != nil {
		t.Error("NewPool returned a pool after launch failure")
	}
	var launchErr *WorkerLaunchError
	if !errors.As(err, &launchErr) {
		t.Fatalf("error = %v, want *WorkerLaunchError", err)
	}
	if launchErr.Worker != 2 || launchErr.Band != (RowBand{Start: 4, End: 5}) {
		t.Errorf("launch error = %+v", launchErr)
	}
	if !errors.Is(err, ErrWorkerLaunch) || !errors.Is(err, errNoThreads) {
		t.Errorf("error %v should wrap ErrWorkerLaunch and the cause", err)
	}

	joined := make(chan struct{})
	go func() {
		running.Wait()
		close(joined)
	}()
	select {
	case <-joined:
	case <-time.After(2 * time.Second):
		t.Fatal("workers started before the failure were not stopped")
	}
}

func TestPoolWorkerPanicBreaksBarrier(t *testing.T) {
	cur := randomGrid(12, 7)
	before := cur.Clone()
	p := newTestPool(t, cur, 4)
	p.compute = func(cur, staging *Grid, band RowBand) {
		if band.Start == 0 {
			panic("compute failed")
		}
		ComputeBand(cur, staging, band)
	}

	done := make(chan error, 1)
	go func() { done <- p.Step() }()

	var err error
	select {
	case err = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Step hung after a worker panic")
	}
	if !errors.Is(err, ErrBarrierBroken) {
		t.Fatalf("Step() = %v, want ErrBarrierBroken", err)
	}
	// No worker passed the first rendezvous, so nothing was committed.
	if !cur.Equal(before) {
		t.Error("current grid changed during a failed round")
	}
	if err2 := p.Step(); !errors.Is(err2, ErrBarrierBroken) {
		t.Errorf("second Step() = %v, want ErrBarrierBroken", err2)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestPoolStepAfterClose(t *testing.T) {
	p := newTestPool(t, NewGrid(6), 2)
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if err := p.Step(); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Step() after Close = %v, want ErrPoolClosed", err)
	}
}

type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) Debug(msg string, _ ...any) {
	l.mu.Lock()
	l.msgs = append(l.msgs, msg)
	l.mu.Unlock()
}

func TestPoolLogsWorkerLifecycle(t *testing.T) {
	log := &recordingLogger{}
	p, err := NewPool(NewGrid(6), NewGrid(6), 3, WithLogger(log))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Step(); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	counts := map[string]int{}
	for _, m := range log.msgs {
		counts[m]++
	}
	if counts["worker started"] != 3 || counts["worker stopped"] != 3 {
		t.Errorf("lifecycle messages = %v", counts)
	}
}
