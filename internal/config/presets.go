package config

import "sort"

var Presets = map[string]*Params{
	"small": with(func(p *Params) {
		p.NX, p.NY, p.Steps = 32, 32, 200
	}),
	"quiescent": with(func(p *Params) {
		p.NX, p.NY, p.Steps, p.Dt, p.K = 8, 8, 10, 0.01, 0
		p.Source = "none"
	}),
	"ringing": with(func(p *Params) {
		p.NX, p.NY, p.Steps, p.Dt, p.K = 64, 64, 4000, 0.05, 0
		p.Source, p.SrcAmp = "impulse", 10
	}),
	"damped": with(func(p *Params) {
		p.NX, p.NY, p.Steps, p.Dt, p.K = 64, 64, 4000, 0.05, 0.5
		p.SrcSigma = 4
	}),
}

func with(fn func(p *Params)) *Params {
	p := DefaultParams()
	fn(p)
	return p
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Params {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
