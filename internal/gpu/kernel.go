// Package gpu advances a grid on an OpenCL device. Build with -tags opencl
// to enable it; otherwise NewStepper reports that support is missing.
package gpu

import "errors"

// ErrUnavailable is returned by NewStepper when no OpenCL backend was built in.
var ErrUnavailable = errors.New("OpenCL support is not enabled; rebuild with -tags opencl")

// lifeKernelSource computes one generation for every cell. Neighborhoods are
// clipped at the grid edges.
const lifeKernelSource = `__kernel void life_step(
    const int size,
    __global const uchar* curr,
    __global uchar* next_buffer)
{
    int idx = get_global_id(0);
    if (idx >= size * size) {
        return;
    }
    int row = idx / size;
    int col = idx % size;
    int r0 = max(row - 1, 0);
    int r1 = min(row + 1, size - 1);
    int c0 = max(col - 1, 0);
    int c1 = min(col + 1, size - 1);
    int alive = 0;
    for (int r = r0; r <= r1; r++) {
        for (int c = c0; c <= c1; c++) {
            if (r == row && c == col) {
                continue;
            }
            alive += curr[r * size + c];
        }
    }
    uchar self = curr[idx];
    next_buffer[idx] = (alive == 3 || (self && alive == 2)) ? 1 : 0;
}`
