// Package ctcheck provides a dudect-style timing leakage test.
//
// A target is run on inputs from two classes, a fixed input and fresh
// random inputs, interleaved in random order. If the execution time
// distributions of the two classes differ, Welch's t statistic grows with
// the number of samples; a large |t| indicates that timing depends on the
// data.
package ctcheck

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/montanaflynn/stats"
	"github.com/tuneinsight/lattigo/v6/utils/sampling"
)

// DefaultThreshold is the |t| above which a target is reported as leaky.
const DefaultThreshold = 10.0

var (
	// ErrNoSamples is returned when a class ends up with fewer than two
	// measurements.
	ErrNoSamples = errors.New("ctcheck: not enough samples")

	// ErrBadTarget is returned for targets without a Run function or with a
	// fixed input of the wrong size.
	ErrBadTarget = errors.New("ctcheck: invalid target")
)

// Target is one function under test.
type Target struct {
	Name string

	// InputSize is the length of every input passed to Run.
	InputSize int

	// Fixed is the input of the fixed class. A nil Fixed means all zeros.
	Fixed []byte

	// Prepare optionally maps raw PRNG bytes to a valid input in place. It
	// runs outside the timed region.
	Prepare func(input []byte)

	// Run is the timed operation.
	Run func(input []byte)
}

// Config controls a measurement run.
type Config struct {
	// Samples is the total number of measurements.
	Samples int

	// Batch is how many measurements run between context checks.
	Batch int

	// Key seeds the PRNG that draws classes and random inputs.
	Key []byte

	// CropPercentile discards measurements above this percentile of all
	// measurements, removing interrupts and context switches.
	CropPercentile float64
}

// DefaultConfig returns a configuration suitable for a quick check.
func DefaultConfig() Config {
	return Config{
		Samples:        20000,
		Batch:          1000,
		Key:            []byte("mlkem-ring ctcheck"),
		CropPercentile: 95,
	}
}

// Result summarizes one run.
type Result struct {
	Name         string
	FixedCount   int
	RandomCount  int
	FixedMean    float64 // nanoseconds
	RandomMean   float64 // nanoseconds
	T            float64
	CropCutoffNs float64
}

// Leaky reports whether |T| exceeds threshold.
func (r Result) Leaky(threshold float64) bool {
	return math.Abs(r.T) > threshold
}

func (r Result) String() string {
	return fmt.Sprintf("%s: t=%.2f fixed=%.1fns (n=%d) random=%.1fns (n=%d)",
		r.Name, r.T, r.FixedMean, r.FixedCount, r.RandomMean, r.RandomCount)
}

// Run measures target according to cfg. It stops early with ctx.Err() if
// ctx is cancelled.
func Run(ctx context.Context, cfg Config, target Target) (Result, error) {
	if target.Run == nil || target.InputSize <= 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrBadTarget, target.Name)
	}
	if target.Fixed != nil && len(target.Fixed) != target.InputSize {
		return Result{}, fmt.Errorf("%w: %q: fixed input has %d bytes, want %d",
			ErrBadTarget, target.Name, len(target.Fixed), target.InputSize)
	}
	if cfg.Batch <= 0 {
		cfg.Batch = cfg.Samples
	}

	prng, err := sampling.NewKeyedPRNG(cfg.Key)
	if err != nil {
		return Result{}, fmt.Errorf("ctcheck: seeding prng: %w", err)
	}

	n := cfg.Samples
	classes, inputs, err := prepare(prng, n, target)
	if err != nil {
		return Result{}, err
	}

	times := make([]float64, n)
	for start := 0; start < n; start += cfg.Batch {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		end := min(start+cfg.Batch, n)
		for i := start; i < end; i++ {
			in := inputs[i*target.InputSize : (i+1)*target.InputSize]
			t0 := time.Now()
			target.Run(in)
			times[i] = float64(time.Since(t0).Nanoseconds())
		}
	}

	return summarize(target.Name, classes, times, cfg.CropPercentile)
}

// prepare draws the class of every measurement and lays out all inputs
// before timing starts. Bit i of classes is set for the random class.
func prepare(prng *sampling.KeyedPRNG, n int, target Target) (*bitset.BitSet, []byte, error) {
	coins := make([]byte, (n+7)/8)
	if _, err := prng.Read(coins); err != nil {
		return nil, nil, fmt.Errorf("ctcheck: drawing classes: %w", err)
	}
	classes := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		if coins[i/8]>>(i%8)&1 == 1 {
			classes.Set(uint(i))
		}
	}

	inputs := make([]byte, n*target.InputSize)
	for i := 0; i < n; i++ {
		in := inputs[i*target.InputSize : (i+1)*target.InputSize]
		if !classes.Test(uint(i)) {
			if target.Fixed != nil {
				copy(in, target.Fixed)
			}
			continue
		}
		if _, err := prng.Read(in); err != nil {
			return nil, nil, fmt.Errorf("ctcheck: drawing inputs: %w", err)
		}
	}
	if target.Prepare != nil {
		for i := 0; i < n; i++ {
			target.Prepare(inputs[i*target.InputSize : (i+1)*target.InputSize])
		}
	}
	return classes, inputs, nil
}

func summarize(name string, classes *bitset.BitSet, times []float64, crop float64) (Result, error) {
	cutoff := math.Inf(1)
	if crop > 0 && crop < 100 {
		c, err := stats.Percentile(times, crop)
		if err != nil {
			return Result{}, fmt.Errorf("ctcheck: cropping: %w", err)
		}
		cutoff = c
	}

	var fixed, random []float64
	for i, t := range times {
		if t > cutoff {
			continue
		}
		if classes.Test(uint(i)) {
			random = append(random, t)
		} else {
			fixed = append(fixed, t)
		}
	}

	t, err := WelchT(fixed, random)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", err, name)
	}
	fixedMean, _ := stats.Mean(fixed)
	randomMean, _ := stats.Mean(random)

	return Result{
		Name:         name,
		FixedCount:   len(fixed),
		RandomCount:  len(random),
		FixedMean:    fixedMean,
		RandomMean:   randomMean,
		T:            t,
		CropCutoffNs: cutoff,
	}, nil
}

// WelchT returns Welch's t statistic for the difference of the means of a
// and b.
func WelchT(a, b []float64) (float64, error) {
	if len(a) < 2 || len(b) < 2 {
		return 0, ErrNoSamples
	}
	ma, err := stats.Mean(a)
	if err != nil {
		return 0, err
	}
	mb, err := stats.Mean(b)
	if err != nil {
		return 0, err
	}
	va, err := stats.SampleVariance(a)
	if err != nil {
		return 0, err
	}
	vb, err := stats.SampleVariance(b)
	if err != nil {
		return 0, err
	}
	se := math.Sqrt(va/float64(len(a)) + vb/float64(len(b)))
	if se == 0 {
		if ma == mb {
			return 0, nil
		}
		return math.Copysign(math.Inf(1), ma-mb), nil
	}
	return (ma - mb) / se, nil
}
