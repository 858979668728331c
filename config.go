package aurora

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/soypat/geometry/ms1"
)

// ShellMode selects the marching strategy of the volumetric shader. It is also
// the result of [Classify], which reports the branch a given ray falls into.
type ShellMode uint8

const (
	_ ShellMode = iota
	// ShellTangent: ray tangent to the outer sphere. Classification result only.
	ShellTangent
	// ShellSingleSegment marches the whole outer chord as one segment.
	ShellSingleSegment
	// ShellHollowSplit marches the shell as up to two segments, skipping the inner core.
	ShellHollowSplit
	// ShellFixedStepFalloff marches the full sphere with fixed steps and silhouette falloff.
	ShellFixedStepFalloff
)

var shellModeNames = [...]string{
	ShellTangent:          "tangent",
	ShellSingleSegment:    "single",
	ShellHollowSplit:      "hollow",
	ShellFixedStepFalloff: "falloff",
}

func (m ShellMode) String() string {
	if int(m) < len(shellModeNames) && shellModeNames[m] != "" {
		return shellModeNames[m]
	}
	return "ShellMode(" + strconv.Itoa(int(m)) + ")"
}

// MarshalText implements [encoding.TextMarshaler].
func (m ShellMode) MarshalText() ([]byte, error) {
	if int(m) >= len(shellModeNames) || shellModeNames[m] == "" {
		return nil, fmt.Errorf("invalid shell mode %d", m)
	}
	return []byte(shellModeNames[m]), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (m *ShellMode) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for i, name := range shellModeNames {
		if name != "" && name == s {
			*m = ShellMode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown shell mode %q", s)
}

// RGB is a linear colour with components in [0,1].
type RGB struct {
	R, G, B float32
}

// ParseHexColor parses "#rgb", "rgb", "#rrggbb" or "rrggbb".
func ParseHexColor(s string) (RGB, error) {
	x := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(x) {
	case 3:
		x = string([]byte{x[0], x[0], x[1], x[1], x[2], x[2]})
	case 6:
	default:
		return RGB{}, fmt.Errorf("invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(x, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return RGB{
		R: float32(uint8(v>>16)) / 255,
		G: float32(uint8(v>>8)) / 255,
		B: float32(uint8(v)) / 255,
	}, nil
}

// Hex returns the colour formatted as "#rrggbb".
func (c RGB) Hex() string {
	u8 := func(f float32) uint8 { return uint8(ms1.Clamp(f, 0, 1)*255 + 0.5) }
	return fmt.Sprintf("#%02x%02x%02x", u8(c.R), u8(c.G), u8(c.B))
}

// MarshalText implements [encoding.TextMarshaler] as a hex string.
func (c RGB) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler] from a hex string.
func (c *RGB) UnmarshalText(b []byte) (err error) {
	*c, err = ParseHexColor(string(b))
	return err
}

// Harness ranges for live configuration.
const (
	MinIterations   = 10
	MaxIterations   = 150
	MaxDisplacement = 0.3
)

// Config is a live configuration snapshot. It is read-only for the duration of a frame.
type Config struct {
	// Roughness belongs to the host surface material. It is carried
	// with the snapshot and exposed as a uniform but does not affect the volume.
	Roughness float32 `json:"roughness"`
	// Iterations is the number of march steps per unit of ray length.
	Iterations int `json:"iterations"`
	// Depth is the shell thickness. The inner sphere has radius 1-Depth.
	Depth float32 `json:"depth"`
	// Smoothing is the silhouette falloff width of [ShellFixedStepFalloff].
	Smoothing float32 `json:"smoothing"`
	// Displacement scales the displacement field perturbation.
	Displacement float32 `json:"displacement"`
	// ColorA is the gradient colour at zero volume (alpha 0).
	ColorA RGB `json:"colorA"`
	// ColorB is the gradient colour at full volume (alpha 1).
	ColorB RGB `json:"colorB"`
	// Mode selects the marching strategy.
	Mode ShellMode `json:"mode"`
	// Speed is the factor applied to wall time when advancing the scroll clock.
	Speed float32 `json:"speed"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		Roughness:    0.5,
		Iterations:   50,
		Depth:        0.3,
		Smoothing:    0.5,
		Displacement: 0.05,
		ColorA:       RGB{},
		ColorB:       RGB{R: 1, G: 1, B: 1},
		Mode:         ShellHollowSplit,
		Speed:        0.02,
	}
}

var errTangentMode = errors.New("tangent is a classification result and not a valid marching mode")

// Validate checks the configuration against the harness ranges and returns all violations joined.
func (cfg Config) Validate() error {
	var errs []error
	in01 := func(name string, v float32) {
		if !(v >= 0 && v <= 1) {
			errs = append(errs, fmt.Errorf("%s must be in [0,1], got %g", name, v))
		}
	}
	if cfg.Iterations < MinIterations || cfg.Iterations > MaxIterations {
		errs = append(errs, fmt.Errorf("iterations must be in [%d,%d], got %d", MinIterations, MaxIterations, cfg.Iterations))
	}
	in01("depth", cfg.Depth)
	if cfg.Depth >= OuterRadius {
		errs = append(errs, fmt.Errorf("depth %g leaves no inner sphere (radius-depth must be > 0)", cfg.Depth))
	}
	in01("smoothing", cfg.Smoothing)
	in01("roughness", cfg.Roughness)
	if !(cfg.Displacement >= 0 && cfg.Displacement <= MaxDisplacement) {
		errs = append(errs, fmt.Errorf("displacement must be in [0,%g], got %g", MaxDisplacement, cfg.Displacement))
	}
	switch cfg.Mode {
	case ShellSingleSegment, ShellHollowSplit, ShellFixedStepFalloff:
	case ShellTangent:
		errs = append(errs, errTangentMode)
	default:
		errs = append(errs, fmt.Errorf("invalid shell mode %d", cfg.Mode))
	}
	if cfg.Speed < 0 {
		errs = append(errs, fmt.Errorf("speed must be non-negative, got %g", cfg.Speed))
	}
	return errors.Join(errs...)
}

// Patch decodes a partial JSON configuration over a copy of cfg. Fields absent in
// the JSON keep their current value. The result is not validated.
func (cfg Config) Patch(data []byte) (Config, error) {
	next := cfg
	err := json.Unmarshal(data, &next)
	if err != nil {
		return cfg, err
	}
	return next, nil
}
