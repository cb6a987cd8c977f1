package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/fieldsim/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultNX       = 128
	DefaultNY       = 128
	DefaultSteps    = 1000
	DefaultDt       = 1e-3
	DefaultDx       = 1.0
	DefaultC        = 1.0
	DefaultK        = 0.02
	DefaultSource   = physics.SourceGaussian
	DefaultSrcAmp   = 1.0
	DefaultSrcSigma = 3.0
	DefaultOut      = "run"
)

var ErrInvalidParams = errors.New("invalid parameters")

// Params configures one simulation run.
type Params struct {
	NX       int     `yaml:"nx" json:"nx" env:"NX"`
	NY       int     `yaml:"ny" json:"ny" env:"NY"`
	Steps    int     `yaml:"steps" json:"steps" env:"STEPS"`
	Dt       float64 `yaml:"dt" json:"dt" env:"DT"`
	Dx       float64 `yaml:"dx" json:"dx" env:"DX"`
	C        float64 `yaml:"c" json:"c" env:"C"`
	K        float64 `yaml:"k" json:"k" env:"K"`
	Source   string  `yaml:"source" json:"source" env:"SOURCE"`
	SrcAmp   float64 `yaml:"src_amp" json:"src_amp" env:"SRC_AMP"`
	SrcSigma float64 `yaml:"src_sigma" json:"src_sigma" env:"SRC_SIGMA"`
	Out      string  `yaml:"out" json:"out" env:"OUT"`
	Strict   bool    `yaml:"strict,omitempty" json:"strict,omitempty" env:"STRICT"`
}

func DefaultParams() *Params {
	return &Params{
		NX:       DefaultNX,
		NY:       DefaultNY,
		Steps:    DefaultSteps,
		Dt:       DefaultDt,
		Dx:       DefaultDx,
		C:        DefaultC,
		K:        DefaultK,
		Source:   DefaultSource,
		SrcAmp:   DefaultSrcAmp,
		SrcSigma: DefaultSrcSigma,
		Out:      DefaultOut,
	}
}

func (p *Params) Clone() *Params {
	c := *p
	return &c
}

// Validate rejects parameter sets the simulator cannot run. In strict mode it
// also rejects sets whose Courant number exceeds the stability bound.
func (p *Params) Validate() error {
	switch {
	case p.NX < 1 || p.NY < 1:
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalidParams, p.NY, p.NX)
	case p.Steps < 1:
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidParams, p.Steps)
	case !(p.Dt > 0) || math.IsInf(p.Dt, 0):
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidParams, p.Dt)
	case !(p.Dx > 0) || math.IsInf(p.Dx, 0):
		return fmt.Errorf("%w: dx must be positive, got %g", ErrInvalidParams, p.Dx)
	case !finite(p.C) || !finite(p.K) || !finite(p.SrcAmp):
		return fmt.Errorf("%w: c, k and src_amp must be finite", ErrInvalidParams)
	case p.Out == "":
		return fmt.Errorf("%w: output name is empty", ErrInvalidParams)
	}

	if _, err := physics.ParseSource(p.Source, p.SrcAmp, p.SrcSigma); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	if p.Source == physics.SourceGaussian && !(p.SrcSigma > 0) {
		return fmt.Errorf("%w: src_sigma must be positive for a gaussian source, got %g", ErrInvalidParams, p.SrcSigma)
	}

	if p.Strict {
		if cfl := physics.Courant(p.C, p.Dt, p.Dx); cfl > physics.MaxCourant {
			return fmt.Errorf("%w: courant number %.4f exceeds %.4f", ErrInvalidParams, cfl, physics.MaxCourant)
		}
	}
	return nil
}

// SourceField resolves the configured source variant.
func (p *Params) SourceField() (physics.Source, error) {
	return physics.ParseSource(p.Source, p.SrcAmp, p.SrcSigma)
}

// Load reads a YAML parameter file over the defaults.
func Load(path string) (*Params, error) {
	p := DefaultParams()
	if err := Merge(path, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Merge overwrites the fields of p that are present in the YAML file.
func Merge(path string, p *Params) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, p *Params) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
