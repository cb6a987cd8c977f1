package sweep_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/storage"
	"github.com/san-kum/fieldsim/internal/sweep"
)

func smallPlan(dir string, jobs int) *sweep.Plan {
	plan := sweep.DefaultPlan()
	plan.Base.NX, plan.Base.NY = 8, 8
	plan.Base.Steps = 30
	plan.Base.Dt = 1e-2
	plan.Ks = []float64{0, 0.05}
	plan.Sigmas = []float64{1, 2, 4}
	plan.Dir = dir
	plan.Jobs = jobs
	return plan
}

func readSummary(path string) [][]string {
	f, err := os.Open(path)
	Expect(err).NotTo(HaveOccurred())
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	Expect(err).NotTo(HaveOccurred())
	return records
}

var _ = Describe("Plan", func() {
	It("matches the reference sweep by default", func() {
		plan := sweep.DefaultPlan()
		Expect(plan.Base.NX).To(Equal(128))
		Expect(plan.Base.NY).To(Equal(128))
		Expect(plan.Base.Steps).To(Equal(500))
		Expect(plan.Base.Dt).To(Equal(1e-3))
		Expect(plan.Ks).To(Equal([]float64{0, 0.01, 0.05}))
		Expect(plan.Sigmas).To(Equal([]float64{2, 4, 8}))
		Expect(plan.Jobs).To(Equal(1))
	})

	It("expands k in the outer loop", func() {
		cases := smallPlan("", 1).Cases()
		Expect(cases).To(HaveLen(6))
		Expect(cases[0].Params.Out).To(Equal("sweep_k0.000_sg1.0"))
		Expect(cases[1].Params.Out).To(Equal("sweep_k0.000_sg2.0"))
		Expect(cases[3].Params.Out).To(Equal("sweep_k0.050_sg1.0"))
		Expect(cases[5].Params.K).To(Equal(0.05))
		Expect(cases[5].Params.SrcSigma).To(Equal(4.0))
	})

	It("does not mutate the base parameters", func() {
		plan := smallPlan("", 1)
		plan.Cases()
		Expect(plan.Base.Out).To(Equal(config.DefaultOut))
	})

	It("loads overrides from YAML", func() {
		path := filepath.Join(GinkgoT().TempDir(), "plan.yaml")
		data := "ks: [0.1]\nsigmas: [3, 5]\njobs: 4\nbase:\n  nx: 16\n  steps: 40\n"
		Expect(os.WriteFile(path, []byte(data), 0644)).To(Succeed())

		plan, err := sweep.LoadPlan(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(plan.Ks).To(Equal([]float64{0.1}))
		Expect(plan.Sigmas).To(Equal([]float64{3, 5}))
		Expect(plan.Jobs).To(Equal(4))
		Expect(plan.Base.NX).To(Equal(16))
		Expect(plan.Base.NY).To(Equal(128))
		Expect(plan.Base.Steps).To(Equal(40))
	})
})

var _ = Describe("Run", func() {
	DescribeTable("writes one summary row per case in plan order",
		func(jobs int) {
			dir := GinkgoT().TempDir()
			summary, err := sweep.Run(context.Background(), smallPlan(dir, jobs))
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Path).To(Equal(filepath.Join(dir, sweep.SummaryFile)))

			records := readSummary(summary.Path)
			Expect(records).To(HaveLen(7))
			Expect(records[0]).To(Equal(sweep.SummaryHeader))

			for i, e := range summary.Entries {
				rec := records[i+1]
				Expect(rec[0]).To(Equal(e.Out))

				last, err := storage.LastMetricsRow(filepath.Join(dir, e.Out+"_metrics.csv"))
				Expect(err).NotTo(HaveOccurred())
				Expect(e.FinalEnergy).To(Equal(last.Energy))
				Expect(e.FinalCoh).To(Equal(last.Coherence))

				energy, err := strconv.ParseFloat(rec[3], 64)
				Expect(err).NotTo(HaveOccurred())
				Expect(energy).To(Equal(last.Energy))

				Expect(filepath.Join(dir, e.Out+".npz")).To(BeARegularFile())
			}
			Expect(summary.Entries[2].Out).To(Equal("sweep_k0.000_sg4.0"))
		},
		Entry("sequentially", 1),
		Entry("concurrently", 3),
	)

	It("gives the same results regardless of concurrency", func() {
		seq, err := sweep.Run(context.Background(), smallPlan(GinkgoT().TempDir(), 1))
		Expect(err).NotTo(HaveOccurred())
		par, err := sweep.Run(context.Background(), smallPlan(GinkgoT().TempDir(), 4))
		Expect(err).NotTo(HaveOccurred())
		Expect(par.Entries).To(Equal(seq.Entries))
	})

	It("rejects cases that share an output stem", func() {
		plan := smallPlan(GinkgoT().TempDir(), 2)
		plan.Ks = []float64{0}
		plan.Sigmas = []float64{2.01, 2.04}

		_, err := sweep.Run(context.Background(), plan)
		Expect(err).To(MatchError(config.ErrInvalidParams))
		Expect(err.Error()).To(ContainSubstring("sweep_k0.000_sg2.0"))

		entries, err := os.ReadDir(plan.Dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("writes whole-number floats with a trailing .0", func() {
		plan := smallPlan(GinkgoT().TempDir(), 1)
		plan.Ks = []float64{0}
		plan.Sigmas = []float64{2}
		summary, err := sweep.Run(context.Background(), plan)
		Expect(err).NotTo(HaveOccurred())

		records := readSummary(summary.Path)
		Expect(records[1][:3]).To(Equal([]string{"sweep_k0.000_sg2.0", "0.0", "2.0"}))
	})

	It("rejects an empty plan", func() {
		plan := smallPlan(GinkgoT().TempDir(), 1)
		plan.Sigmas = nil
		_, err := sweep.Run(context.Background(), plan)
		Expect(err).To(MatchError(config.ErrInvalidParams))
	})

	It("aborts on an invalid case", func() {
		plan := smallPlan(GinkgoT().TempDir(), 2)
		plan.Base.Dt = 0
		_, err := sweep.Run(context.Background(), plan)
		Expect(err).To(MatchError(config.ErrInvalidParams))
		Expect(filepath.Join(plan.Dir, sweep.SummaryFile)).NotTo(BeAnExistingFile())
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := sweep.Run(ctx, smallPlan(GinkgoT().TempDir(), 1))
		Expect(err).To(MatchError(context.Canceled))
	})
})
