package main

import (
	"fmt"

	"github.com/san-kum/fieldsim/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagParams = config.DefaultParams()
	configFile string
	preset     string
)

// bindParamFlags registers the simulation flags shared by run, watch and
// compare.
func bindParamFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&flagParams.NX, "nx", config.DefaultNX, "grid columns")
	f.IntVar(&flagParams.NY, "ny", config.DefaultNY, "grid rows")
	f.IntVar(&flagParams.Steps, "steps", config.DefaultSteps, "number of time steps")
	f.Float64Var(&flagParams.Dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&flagParams.Dx, "dx", config.DefaultDx, "grid spacing")
	f.Float64Var(&flagParams.C, "c", config.DefaultC, "wave speed")
	f.Float64Var(&flagParams.K, "k", config.DefaultK, "damping coefficient")
	f.StringVar(&flagParams.Source, "source", config.DefaultSource, "source kind (gaussian|none|impulse)")
	f.Float64Var(&flagParams.SrcAmp, "src-amp", config.DefaultSrcAmp, "source amplitude")
	f.Float64Var(&flagParams.SrcSigma, "src-sigma", config.DefaultSrcSigma, "gaussian source width in grid cells")
	f.StringVar(&flagParams.Out, "out", config.DefaultOut, "output stem")
	f.BoolVar(&flagParams.Strict, "strict", false, "reject unstable parameters and abort on divergence")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveParams layers defaults, preset, FIELDSIM_* environment, config file
// and explicitly set flags, in that order.
func resolveParams(cmd *cobra.Command) (*config.Params, error) {
	p := config.DefaultParams()
	if preset != "" {
		p = config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.ApplyEnv(p); err != nil {
		return nil, err
	}
	if configFile != "" {
		if err := config.Merge(configFile, p); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	f := cmd.Flags()
	overrides := []struct {
		name  string
		apply func()
	}{
		{"nx", func() { p.NX = flagParams.NX }},
		{"ny", func() { p.NY = flagParams.NY }},
		{"steps", func() { p.Steps = flagParams.Steps }},
		{"dt", func() { p.Dt = flagParams.Dt }},
		{"dx", func() { p.Dx = flagParams.Dx }},
		{"c", func() { p.C = flagParams.C }},
		{"k", func() { p.K = flagParams.K }},
		{"source", func() { p.Source = flagParams.Source }},
		{"src-amp", func() { p.SrcAmp = flagParams.SrcAmp }},
		{"src-sigma", func() { p.SrcSigma = flagParams.SrcSigma }},
		{"out", func() { p.Out = flagParams.Out }},
		{"strict", func() { p.Strict = flagParams.Strict }},
	}
	for _, o := range overrides {
		if f.Changed(o.name) {
			o.apply()
		}
	}
	return p, p.Validate()
}
