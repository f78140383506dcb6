// Command nttcheck cross-checks the NTT backends, measures how close each
// stage of the portable transform gets to its declared bound, prints a
// digest of a deterministic run per backend and optionally runs a timing
// leakage test.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"mlkem-ring/pkg/ctcheck"
	"mlkem-ring/pkg/field"
	"mlkem-ring/pkg/kat"
	"mlkem-ring/pkg/ntt"
)

type stageResult struct {
	Name     string
	Bound    int16
	Observed int32
}

func randomPoly(rng *rand.Rand, bound int16) [field.N]int16 {
	var p [field.N]int16
	for i := range p {
		p[i] = int16(rng.Intn(2*int(bound)+1) - int(bound))
	}
	return p
}

func canonical(p *[field.N]int16) [field.N]int16 {
	var out [field.N]int16
	for i, c := range p {
		out[i] = field.Mod(int64(c))
	}
	return out
}

// conformance compares b against the portable backend on trials random
// inputs and returns the number of mismatching outputs.
func conformance(b ntt.Backend, rng *rand.Rand, trials int) int {
	bad := 0
	for i := 0; i < trials; i++ {
		p := randomPoly(rng, ntt.Bound1)
		ref, got := p, p
		ntt.Portable.NTT(&ref)
		b.NTT(&got)
		if canonical(&ref) != canonical(&got) || ntt.AbsMax(got[:]) > int32(b.NTTBound()) {
			bad++
		}

		x := randomPoly(rng, 32767)
		ref, got = x, x
		ntt.Portable.InvNTT(&ref)
		b.InvNTT(&got)
		if canonical(&ref) != canonical(&got) || ntt.AbsMax(got[:]) > int32(b.InvNTTBound()) {
			bad++
		}
	}
	return bad
}

// stageMaxima runs stages on trials inputs bounded by inBound and records
// the largest coefficient seen after each stage.
func stageMaxima(stages []ntt.Stage, rng *rand.Rand, trials int, inBound int16) []stageResult {
	out := make([]stageResult, len(stages))
	for i, s := range stages {
		out[i] = stageResult{Name: s.Name, Bound: s.Bound}
	}
	for t := 0; t < trials; t++ {
		p := randomPoly(rng, inBound)
		if t%8 == 0 {
			for i := range p {
				p[i] = inBound
				if rng.Intn(2) == 0 {
					p[i] = -inBound
				}
			}
		}
		for i, s := range stages {
			s.Apply(&p)
			out[i].Observed = max(out[i].Observed, ntt.AbsMax(p[:]))
		}
	}
	return out
}

func logStages(kind string, results []stageResult) bool {
	ok := true
	for _, r := range results {
		status := "ok"
		if r.Observed > int32(r.Bound) {
			status = "VIOLATED"
			ok = false
		}
		log.Printf("%s %-12s observed %5d bound %5d (%.1f%%) %s",
			kind, r.Name, r.Observed, r.Bound, 100*float64(r.Observed)/float64(r.Bound), status)
	}
	return ok
}

func newStageChart(title string, results []stageResult) *charts.Bar {
	names := make([]string, len(results))
	observed := make([]opts.BarData, len(results))
	bounds := make([]opts.BarData, len(results))
	for i, r := range results {
		names[i] = r.Name
		observed[i] = opts.BarData{Value: r.Observed}
		bounds[i] = opts.BarData{Value: r.Bound}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("Q=%d", field.Q)}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1000px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).
		AddSeries("observed", observed).
		AddSeries("bound", bounds)
	return bar
}

func newTimingChart(results []ctcheck.Result) *charts.Bar {
	names := make([]string, len(results))
	ts := make([]opts.BarData, len(results))
	for i, r := range results {
		names[i] = r.Name
		ts[i] = opts.BarData{Value: r.T}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Welch t (fixed vs random)",
			Subtitle: fmt.Sprintf("|t| > %.1f is reported as leaky", ctcheck.DefaultThreshold),
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).AddSeries("t", ts)
	return bar
}

func writeReport(path string, fwd, inv []stageResult, timing []ctcheck.Result) error {
	page := components.NewPage()
	page.AddCharts(
		newStageChart("Forward NTT stage bounds", fwd),
		newStageChart("Inverse NTT stage bounds", inv),
	)
	if len(timing) > 0 {
		page.AddCharts(newTimingChart(timing))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}

func main() {
	backendName := flag.String("backend", "", "backend to check (default: selected by CPU features)")
	trials := flag.Int("trials", 1000, "random inputs per check")
	seed := flag.Int64("seed", 1, "seed for random inputs")
	katKey := flag.String("kat-key", "mlkem-ring kat", "PRNG key for the digest run")
	vectors := flag.String("vectors", "", "JSON known-answer vectors to check")
	report := flag.String("report", "", "write an HTML report to this path")
	runCT := flag.Bool("ct", false, "run the timing leakage test")
	ctSamples := flag.Int("ct-samples", ctcheck.DefaultConfig().Samples, "measurements per timing target")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall time limit")
	flag.Parse()

	b := ntt.Default()
	if *backendName != "" {
		var err error
		if b, err = ntt.ByName(*backendName); err != nil {
			log.Fatalf("backend: %v", err)
		}
	}
	log.Printf("backend %s (NTT bound %d, InvNTT bound %d)", b.Name(), b.NTTBound(), b.InvNTTBound())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	failed := false
	rng := rand.New(rand.NewSource(*seed))

	if bad := conformance(b, rng, *trials); bad > 0 {
		log.Printf("conformance: %d of %d outputs differ from portable", bad, 2*(*trials))
		failed = true
	} else {
		log.Printf("conformance: %d inputs agree with portable", 2*(*trials))
	}

	fwd := stageMaxima(ntt.ForwardStages(), rng, *trials, ntt.Bound1)
	inv := stageMaxima(ntt.InverseStages(), rng, *trials, 32767)
	if !logStages("forward", fwd) || !logStages("inverse", inv) {
		failed = true
	}

	digests := make(map[string]string)
	for _, be := range ntt.Backends() {
		d, err := kat.Digest(be, []byte(*katKey), *trials)
		if err != nil {
			log.Fatalf("digest %s: %v", be.Name(), err)
		}
		digests[be.Name()] = hex.EncodeToString(d[:])
		fmt.Printf("%-8s %s\n", be.Name(), digests[be.Name()])
	}
	if digests[b.Name()] != digests[ntt.Portable.Name()] {
		log.Printf("digest of %s differs from portable", b.Name())
		failed = true
	}

	if *vectors != "" {
		vs, err := kat.LoadVectors(*vectors)
		if err != nil {
			log.Fatalf("vectors: %v", err)
		}
		for i, v := range vs {
			if err := kat.Check(b, v); err != nil {
				log.Printf("vector %d: %v", i, err)
				failed = true
			}
		}
		log.Printf("checked %d vectors", len(vs))
	}

	var timing []ctcheck.Result
	if *runCT {
		cfg := ctcheck.DefaultConfig()
		cfg.Samples = *ctSamples
		for _, target := range ctcheck.Targets(b) {
			res, err := ctcheck.Run(ctx, cfg, target)
			if err != nil {
				log.Fatalf("ctcheck %s: %v", target.Name, err)
			}
			timing = append(timing, res)
			log.Print(res)
			if res.Leaky(ctcheck.DefaultThreshold) {
				log.Printf("%s: timing depends on input", target.Name)
				failed = true
			}
		}
	}

	if *report != "" {
		if err := writeReport(*report, fwd, inv, timing); err != nil {
			log.Fatalf("report: %v", err)
		}
		log.Printf("report written to %s", *report)
	}

	if failed {
		os.Exit(1)
	}
}
