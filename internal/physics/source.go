package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/fieldsim/internal/field"
)

// ErrUnknownSource is returned for a source kind that has no generator.
var ErrUnknownSource = errors.New("physics: unknown source kind")

const (
	SourceNone     = "none"
	SourceGaussian = "gaussian"
	SourceImpulse  = "impulse"
)

// Source is the static forcing term added at every step. The set of
// implementations is closed: NoSource, Gaussian and Impulse.
type Source interface {
	Kind() string
	Build(ny, nx int) *field.Grid
	isSource()
}

type NoSource struct{}

func (NoSource) Kind() string                 { return SourceNone }
func (NoSource) Build(ny, nx int) *field.Grid { return field.NewGrid(ny, nx) }
func (NoSource) isSource()                    {}

// Gaussian is a radially symmetric bump centred on the grid midpoint,
// measured in grid-index units.
type Gaussian struct {
	Amplitude, Sigma float64
}

func (Gaussian) Kind() string { return SourceGaussian }
func (Gaussian) isSource()    {}

func (s Gaussian) Build(ny, nx int) *field.Grid {
	g := field.NewGrid(ny, nx)
	cy, cx := float64(ny)/2.0, float64(nx)/2.0
	denom := 2 * s.Sigma * s.Sigma
	for y := 0; y < ny; y++ {
		dy := float64(y) - cy
		for x := 0; x < nx; x++ {
			dx := float64(x) - cx
			g.Data[y*nx+x] = s.Amplitude * math.Exp(-(dx*dx+dy*dy)/denom)
		}
	}
	return g
}

// Impulse drives a single cell at the grid midpoint.
type Impulse struct {
	Amplitude float64
}

func (Impulse) Kind() string { return SourceImpulse }
func (Impulse) isSource()    {}

func (s Impulse) Build(ny, nx int) *field.Grid {
	g := field.NewGrid(ny, nx)
	g.Set(ny/2, nx/2, s.Amplitude)
	return g
}

// ParseSource resolves a kind string into a concrete source.
func ParseSource(kind string, amplitude, sigma float64) (Source, error) {
	switch kind {
	case SourceNone:
		return NoSource{}, nil
	case SourceGaussian:
		return Gaussian{Amplitude: amplitude, Sigma: sigma}, nil
	case SourceImpulse:
		return Impulse{Amplitude: amplitude}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want %s|%s|%s)", ErrUnknownSource, kind, SourceGaussian, SourceNone, SourceImpulse)
	}
}

// SourceKinds lists the accepted kind strings.
func SourceKinds() []string {
	return []string{SourceGaussian, SourceNone, SourceImpulse}
}
