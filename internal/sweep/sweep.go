package sweep

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/physics"
	"github.com/san-kum/fieldsim/internal/sim"
	"github.com/san-kum/fieldsim/internal/storage"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const SummaryFile = "sweep_summary.csv"

var SummaryHeader = []string{"out", "k", "sigma", "final_energy", "final_coh"}

// Plan is a cross product of damping values and source widths run against a
// shared base parameter set.
type Plan struct {
	Base   config.Params `yaml:"base"`
	Ks     []float64     `yaml:"ks"`
	Sigmas []float64     `yaml:"sigmas"`
	Dir    string        `yaml:"dir"`
	Jobs   int           `yaml:"jobs"`
}

func DefaultPlan() *Plan {
	base := config.DefaultParams()
	base.NX, base.NY = 128, 128
	base.Steps = 500
	base.Dt, base.Dx, base.C = 1e-3, 1.0, 1.0
	base.Source = physics.SourceGaussian
	return &Plan{
		Base:   *base,
		Ks:     []float64{0.0, 0.01, 0.05},
		Sigmas: []float64{2.0, 4.0, 8.0},
		Dir:    ".",
		Jobs:   1,
	}
}

// LoadPlan reads a YAML plan. Keys absent from the file keep the default
// plan's values.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	plan := DefaultPlan()
	if err := yaml.Unmarshal(data, plan); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return plan, nil
}

// Case is one point of the plan.
type Case struct {
	Index  int
	K      float64
	Sigma  float64
	Params *config.Params
}

func Stem(k, sigma float64) string {
	return fmt.Sprintf("sweep_k%.3f_sg%.1f", k, sigma)
}

// Cases expands the plan with k as the outer loop and sigma as the inner.
func (p *Plan) Cases() []Case {
	cases := make([]Case, 0, len(p.Ks)*len(p.Sigmas))
	for _, k := range p.Ks {
		for _, sg := range p.Sigmas {
			params := p.Base.Clone()
			params.K = k
			params.SrcSigma = sg
			params.Source = physics.SourceGaussian
			params.Out = Stem(k, sg)
			cases = append(cases, Case{Index: len(cases), K: k, Sigma: sg, Params: params})
		}
	}
	return cases
}

// checkStems rejects plans where two cases would write the same files.
func checkStems(cases []Case) error {
	seen := make(map[string]Case, len(cases))
	for _, c := range cases {
		if prev, ok := seen[c.Params.Out]; ok {
			return fmt.Errorf("%w: cases k=%g sigma=%g and k=%g sigma=%g both write %s",
				config.ErrInvalidParams, prev.K, prev.Sigma, c.K, c.Sigma, c.Params.Out)
		}
		seen[c.Params.Out] = c
	}
	return nil
}

type Entry struct {
	Out         string  `json:"out"`
	K           float64 `json:"k"`
	Sigma       float64 `json:"sigma"`
	FinalEnergy float64 `json:"final_energy"`
	FinalCoh    float64 `json:"final_coh"`
}

type Summary struct {
	Path    string
	Entries []Entry
}

// Run executes every case, then writes the summary CSV into the plan
// directory. Up to Jobs cases run at once; entries keep plan order either way.
// The first failing case cancels the rest.
func Run(ctx context.Context, plan *Plan) (*Summary, error) {
	if len(plan.Ks) == 0 || len(plan.Sigmas) == 0 {
		return nil, fmt.Errorf("%w: sweep needs at least one k and one sigma", config.ErrInvalidParams)
	}
	cases := plan.Cases()
	if err := checkStems(cases); err != nil {
		return nil, err
	}
	store := storage.New(plan.Dir)
	if err := store.Init(); err != nil {
		return nil, err
	}
	entries := make([]Entry, len(cases))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, plan.Jobs))
	for _, c := range cases {
		c := c
		g.Go(func() error {
			entry, err := runCase(ctx, store, c)
			if err != nil {
				return fmt.Errorf("case %s: %w", c.Params.Out, err)
			}
			entries[c.Index] = entry
			log.Printf("sweep %d/%d: %s energy=%.6g coh=%.6g", c.Index+1, len(cases), entry.Out, entry.FinalEnergy, entry.FinalCoh)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	path := filepath.Join(plan.Dir, SummaryFile)
	if err := WriteSummary(path, entries); err != nil {
		return nil, err
	}
	return &Summary{Path: path, Entries: entries}, nil
}

func runCase(ctx context.Context, store *storage.Store, c Case) (Entry, error) {
	s, err := sim.New(c.Params)
	if err != nil {
		return Entry{}, err
	}
	result, err := s.Run(ctx)
	if err != nil {
		return Entry{}, err
	}
	paths, err := store.Save(result)
	if err != nil {
		return Entry{}, err
	}

	last, err := storage.LastMetricsRow(paths.Metrics)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Out:         c.Params.Out,
		K:           c.K,
		Sigma:       c.Sigma,
		FinalEnergy: last.Energy,
		FinalCoh:    last.Coherence,
	}, nil
}

func WriteSummary(path string, entries []Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(SummaryHeader); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			e.Out,
			storage.FormatFloat(e.K),
			storage.FormatFloat(e.Sigma),
			storage.FormatFloat(e.FinalEnergy),
			storage.FormatFloat(e.FinalCoh),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return file.Close()
}
