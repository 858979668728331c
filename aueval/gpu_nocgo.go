//go:build tinygo || !cgo

package aueval

import (
	"errors"

	"github.com/soypat/aurora"
	"github.com/soypat/geometry/ms3"
)

var errNoCGO = errors.New("GPU evaluation requires CGo and is not supported on TinyGo")

// Init1x1GLFW is not supported without CGo.
func Init1x1GLFW() (terminate func(), err error) {
	return nil, errNoCGO
}

// GPUEvaluator is not supported without CGo.
type GPUEvaluator struct{}

var _ Evaluator = (*GPUEvaluator)(nil)

// NewGPUEvaluator is not supported without CGo.
func NewGPUEvaluator() (*GPUEvaluator, error) {
	return nil, errNoCGO
}

func (g *GPUEvaluator) Close() error { return errNoCGO }

func (g *GPUEvaluator) Evaluate(sh *aurora.Shader, camera ms3.Vec, frags []ms3.Vec, dst []aurora.RGBA) error {
	return errNoCGO
}
