//go:build !opencl

package gpu

import "lifegrid/internal/life"

// Stepper is unavailable without the opencl build tag.
type Stepper struct{}

// NewStepper always fails in builds without OpenCL.
func NewStepper(_ *life.Grid) (*Stepper, error) {
	return nil, ErrUnavailable
}

func (s *Stepper) Step() error { return ErrUnavailable }

func (s *Stepper) Close() error { return nil }

func (s *Stepper) DeviceName() string { return "" }
