//go:build opencl

package gpu

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"

	"lifegrid/internal/life"
)

// Stepper keeps two device buffers and advances the grid with the life_step
// kernel, reading each new generation back into the host grid.
type Stepper struct {
	grid       *life.Grid
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	kernel     *cl.Kernel
	currBuf    *cl.MemObject
	nextBuf    *cl.MemObject
	size       int
	byteLen    int
	deviceName string
	coldStart  bool
}

// NewStepper prepares an OpenCL context on the first GPU found, falling back
// to a CPU device.
func NewStepper(grid *life.Grid) (*Stepper, error) {
	device, err := pickDevice()
	if err != nil {
		return nil, err
	}

	s := &Stepper{
		grid:       grid,
		size:       grid.Size(),
		byteLen:    len(grid.Cells()) * int(unsafe.Sizeof(life.Dead)),
		deviceName: device.Name(),
		coldStart:  true,
	}
	if err := s.init(device); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func pickDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

func (s *Stepper) init(device *cl.Device) error {
	var err error
	if s.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return fmt.Errorf("creating OpenCL context: %w", err)
	}
	if s.queue, err = s.context.CreateCommandQueue(device, 0); err != nil {
		return fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if s.program, err = s.context.CreateProgramWithSource([]string{lifeKernelSource}); err != nil {
		return fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := s.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		if buildErr, ok := err.(cl.BuildError); ok {
			return fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return fmt.Errorf("building OpenCL program: %w", err)
	}
	if s.kernel, err = s.program.CreateKernel("life_step"); err != nil {
		return fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	if s.currBuf, err = s.context.CreateEmptyBuffer(cl.MemReadWrite, s.byteLen); err != nil {
		return fmt.Errorf("allocating current buffer: %w", err)
	}
	if s.nextBuf, err = s.context.CreateEmptyBuffer(cl.MemReadWrite, s.byteLen); err != nil {
		return fmt.Errorf("allocating next buffer: %w", err)
	}
	if err := s.kernel.SetArgs(int32(s.size), s.currBuf, s.nextBuf); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	return nil
}

// Step advances the grid one generation on the device and copies the result
// back into the host grid.
func (s *Stepper) Step() error {
	cells := s.grid.Cells()
	ptr := unsafe.Pointer(&cells[0])
	// The host only reads the grid between steps, so one upload is enough.
	if s.coldStart {
		if _, err := s.queue.EnqueueWriteBuffer(s.currBuf, false, 0, s.byteLen, ptr, nil); err != nil {
			return fmt.Errorf("writing current buffer: %w", err)
		}
		s.coldStart = false
	}
	if err := s.kernel.SetArgBuffer(1, s.currBuf); err != nil {
		return fmt.Errorf("binding current buffer: %w", err)
	}
	if err := s.kernel.SetArgBuffer(2, s.nextBuf); err != nil {
		return fmt.Errorf("binding next buffer: %w", err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.kernel, nil, []int{len(cells)}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	s.currBuf, s.nextBuf = s.nextBuf, s.currBuf
	if _, err := s.queue.EnqueueReadBuffer(s.currBuf, true, 0, s.byteLen, ptr, nil); err != nil {
		return fmt.Errorf("reading current buffer: %w", err)
	}
	return nil
}

// Close releases every device object. It is safe on a partially built Stepper.
func (s *Stepper) Close() error {
	if s.nextBuf != nil {
		s.nextBuf.Release()
		s.nextBuf = nil
	}
	if s.currBuf != nil {
		s.currBuf.Release()
		s.currBuf = nil
	}
	if s.kernel != nil {
		s.kernel.Release()
		s.kernel = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
	return nil
}

// DeviceName reports the OpenCL device in use.
func (s *Stepper) DeviceName() string {
	return s.deviceName
}
