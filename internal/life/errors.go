package life

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkerLaunch indicates a worker goroutine could not be started.
	ErrWorkerLaunch = errors.New("life: worker launch failed")
	// ErrBarrierBroken indicates a rendezvous was abandoned while workers waited on it.
	ErrBarrierBroken = errors.New("life: barrier broken")
	// ErrPoolClosed is returned by Step after Close.
	ErrPoolClosed = errors.New("life: worker pool closed")
	// ErrInvalidPartition indicates the rows cannot be split across the requested workers.
	ErrInvalidPartition = errors.New("life: invalid row partition")
	// ErrSeedOutOfBounds indicates a seed pattern does not fit on the grid.
	ErrSeedOutOfBounds = errors.New("life: seed pattern out of bounds")
)

// WorkerLaunchError reports which worker could not be started.
type WorkerLaunchError struct {
	Worker int
	Band   RowBand
	Err    error
}

func (e *WorkerLaunchError) Error() string {
	return fmt.Sprintf("launching worker %d for rows %s: %v", e.Worker, e.Band, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is.
func (e *WorkerLaunchError) Unwrap() []error {
	return []error{ErrWorkerLaunch, e.Err}
}
