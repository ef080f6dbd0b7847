package workload

import (
	"fmt"
	"math"
	"math/rand"
)

// LengthSampler generates burst lengths.
type LengthSampler interface {
	// Sample returns a length within the sampler's [min, max] range.
	Sample(rng *rand.Rand) int64
}

// UniformSampler draws lengths uniformly from [min, max].
type UniformSampler struct {
	min, max int64
}

func (s *UniformSampler) Sample(rng *rand.Rand) int64 {
	return s.min + rng.Int63n(s.max-s.min+1)
}

// GaussianSampler produces clamped Gaussian lengths.
type GaussianSampler struct {
	mean, stdDev float64
	min, max     int64
}

func (s *GaussianSampler) Sample(rng *rand.Rand) int64 {
	if s.min == s.max {
		return s.min
	}
	return clampLength(rng.NormFloat64()*s.stdDev+s.mean, s.min, s.max)
}

// ExponentialSampler produces exponentially-distributed lengths: many short
// bursts with a long tail, truncated at max.
type ExponentialSampler struct {
	mean     float64
	min, max int64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) int64 {
	return clampLength(float64(s.min)+rng.ExpFloat64()*s.mean, s.min, s.max)
}

// ConstantSampler always returns the same fixed value.
type ConstantSampler struct {
	value int64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) int64 {
	return s.value
}

func clampLength(val float64, min, max int64) int64 {
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return max
	}
	result := int64(math.Round(val))
	if result < min {
		return min
	}
	if result > max {
		return max
	}
	return result
}

// Length distributions accepted by NewLengthSampler.
const (
	DistUniform     = "uniform"
	DistGaussian    = "gaussian"
	DistExponential = "exponential"
	DistConstant    = "constant"
)

// NewLengthSampler creates a LengthSampler over [min, max]. Gaussian is centred
// on the midpoint with a quarter of the range as std dev; exponential has mean
// half the range above min; constant always yields max.
func NewLengthSampler(dist string, min, max int64) (LengthSampler, error) {
	if max < min {
		return nil, fmt.Errorf("length range [%d, %d] is empty", min, max)
	}
	switch dist {
	case "", DistUniform:
		return &UniformSampler{min: min, max: max}, nil
	case DistGaussian:
		return &GaussianSampler{
			mean:   float64(min+max) / 2.0,
			stdDev: float64(max-min) / 4.0,
			min:    min,
			max:    max,
		}, nil
	case DistExponential:
		return &ExponentialSampler{mean: float64(max-min) / 2.0, min: min, max: max}, nil
	case DistConstant:
		return &ConstantSampler{value: max}, nil
	default:
		return nil, fmt.Errorf("unknown distribution type %q; valid: uniform, gaussian, exponential, constant", dist)
	}
}
