package ctcheck

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v6/utils/sampling"

	"mlkem-ring/pkg/ntt"
)

var sink uint64

func smallConfig(samples int) Config {
	cfg := DefaultConfig()
	cfg.Samples = samples
	cfg.Batch = 100
	return cfg
}

func TestWelchT(t *testing.T) {
	got, err := WelchT([]float64{1, 2, 3, 4}, []float64{4, 3, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	got, err = WelchT([]float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)
	assert.InDelta(t, -3.6742, got, 1e-4)

	got, err = WelchT([]float64{1, 1}, []float64{2, 2})
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, -1))

	_, err = WelchT([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestBadTarget(t *testing.T) {
	_, err := Run(context.Background(), smallConfig(10), Target{Name: "none", InputSize: 1})
	assert.ErrorIs(t, err, ErrBadTarget)

	_, err = Run(context.Background(), smallConfig(10), Target{
		Name:      "short-fixed",
		InputSize: 4,
		Fixed:     []byte{1},
		Run:       func([]byte) {},
	})
	assert.ErrorIs(t, err, ErrBadTarget)
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, smallConfig(1000), Target{
		Name:      "noop",
		InputSize: 1,
		Run:       func([]byte) {},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

// A target that does extra work for odd first bytes must be flagged.
func TestDetectsLeak(t *testing.T) {
	leaky := Target{
		Name:      "branchy",
		InputSize: 8,
		Run: func(in []byte) {
			if in[0]&1 == 1 {
				for i := 0; i < 20000; i++ {
					sink += uint64(i) * uint64(in[1])
				}
			}
		},
	}
	res, err := Run(context.Background(), smallConfig(4000), leaky)
	require.NoError(t, err)
	assert.True(t, res.Leaky(DefaultThreshold), "t = %.2f", res.T)
	assert.Greater(t, res.RandomMean, res.FixedMean)
}

func TestPrepareIsDeterministic(t *testing.T) {
	target := Target{Name: "noop", InputSize: 16, Fixed: make([]byte, 16), Run: func([]byte) {}}
	key := DefaultConfig().Key

	prngA, err := sampling.NewKeyedPRNG(key)
	require.NoError(t, err)
	prngB, err := sampling.NewKeyedPRNG(key)
	require.NoError(t, err)

	classesA, inputsA, err := prepare(prngA, 1000, target)
	require.NoError(t, err)
	classesB, inputsB, err := prepare(prngB, 1000, target)
	require.NoError(t, err)

	assert.True(t, classesA.Equal(classesB))
	assert.Equal(t, inputsA, inputsB)

	// Roughly half of the measurements land in each class.
	assert.InDelta(t, 500, int(classesA.Count()), 100)
	for i := uint(0); i < 1000; i++ {
		if !classesA.Test(i) {
			assert.Equal(t, target.Fixed, inputsA[i*16:(i+1)*16])
		}
	}
}

func TestRingTargetsRun(t *testing.T) {
	for _, b := range ntt.Backends() {
		for _, target := range Targets(b) {
			res, err := Run(context.Background(), smallConfig(400), target)
			require.NoError(t, err, target.Name)
			assert.Positive(t, res.FixedCount, target.Name)
			assert.Positive(t, res.RandomCount, target.Name)
			assert.LessOrEqual(t, res.FixedCount+res.RandomCount, 400, target.Name)
		}
	}
}
