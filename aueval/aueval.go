// Package aueval evaluates the aurora shell shader over batches of fragments,
// either on the CPU with goroutines or on the GPU with an OpenGL compute program.
package aueval

import (
	"errors"
	"runtime"

	"github.com/soypat/aurora"
	"github.com/soypat/geometry/ms3"
	"golang.org/x/sync/errgroup"
)

// Evaluator shades batches of fragments.
type Evaluator interface {
	// Evaluate shades every fragment in frags as seen from camera with sh and stores
	// the resulting colours in dst. frags and dst must be of equal length.
	// sh is read only for the duration of the call.
	Evaluate(sh *aurora.Shader, camera ms3.Vec, frags []ms3.Vec, dst []aurora.RGBA) error
}

var (
	errEmptyBuffers         = errors.New("empty buffers")
	errMismatchBufferLength = errors.New("fragment and colour buffer length mismatch")
	errNilShader            = errors.New("nil shader or density field")
)

func checkBuffers(sh *aurora.Shader, frags []ms3.Vec, dst []aurora.RGBA) error {
	if sh == nil || sh.Density == nil {
		return errNilShader
	} else if len(frags) != len(dst) {
		return errMismatchBufferLength
	} else if len(frags) == 0 {
		return errEmptyBuffers
	}
	return nil
}

// minChunk is the smallest number of fragments handed to a single goroutine.
const minChunk = 256

// CPUEvaluator shades fragments on the CPU. Each fragment is independent so the batch
// is split into contiguous chunks shaded concurrently. The zero value is ready for use.
type CPUEvaluator struct {
	// Workers is the maximum number of concurrent goroutines. Zero or negative uses runtime.NumCPU.
	Workers int
}

var _ Evaluator = (*CPUEvaluator)(nil)

// Evaluate implements [Evaluator].
func (e *CPUEvaluator) Evaluate(sh *aurora.Shader, camera ms3.Vec, frags []ms3.Vec, dst []aurora.RGBA) error {
	err := checkBuffers(sh, frags, dst)
	if err != nil {
		return err
	}
	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	chunk := max(minChunk, (len(frags)+workers-1)/workers)
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < len(frags); lo += chunk {
		hi := min(lo+chunk, len(frags))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				dst[i] = sh.Shade(camera, frags[i])
			}
			return nil
		})
	}
	return g.Wait()
}
