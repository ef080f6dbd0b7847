package workload

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// ArrivalSampler generates gaps between consecutive process arrivals.
type ArrivalSampler interface {
	// SampleGap returns the next inter-arrival gap in ticks, always within [0, max].
	SampleGap(rng *rand.Rand) int64
}

// UniformGapSampler draws gaps uniformly from [0, max].
type UniformGapSampler struct {
	max int64
}

func (s *UniformGapSampler) SampleGap(rng *rand.Rand) int64 {
	return rng.Int63n(s.max + 1)
}

// PoissonSampler generates exponentially-distributed gaps (CV=1).
type PoissonSampler struct {
	mean float64
	max  int64
}

func (s *PoissonSampler) SampleGap(rng *rand.Rand) int64 {
	return clampGap(rng.ExpFloat64()*s.mean, s.max)
}

// GammaSampler generates Gamma-distributed gaps. CV > 1 produces bursty arrivals.
// Implemented using Marsaglia-Tsang's method for shape >= 1,
// with transformation for shape < 1.
type GammaSampler struct {
	shape float64 // 1/CV² (alpha parameter)
	scale float64 // mean*CV² (beta parameter)
	max   int64
}

func (s *GammaSampler) SampleGap(rng *rand.Rand) int64 {
	return clampGap(gammaRand(rng, s.shape, s.scale), s.max)
}

// gammaRand samples from Gamma(shape, scale) using Marsaglia-Tsang's method.
// For shape < 1: Gamma(shape) = Gamma(shape+1) * U^(1/shape).
func gammaRand(rng *rand.Rand, shape, scale float64) float64 {
	if shape < 1.0 {
		u := rng.Float64()
		return gammaRand(rng, shape+1.0, scale) * math.Pow(u, 1.0/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1.0 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()

		// Squeeze test
		if u < 1.0-0.0331*(x*x)*(x*x) {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// WeibullSampler generates Weibull-distributed gaps.
type WeibullSampler struct {
	shape float64 // Weibull k parameter
	scale float64 // Weibull λ parameter, in ticks
	max   int64
}

func (s *WeibullSampler) SampleGap(rng *rand.Rand) int64 {
	u := rng.Float64()
	if u == 0 {
		u = math.SmallestNonzeroFloat64 // -ln(0) = +Inf
	}
	return clampGap(s.scale*math.Pow(-math.Log(u), 1.0/s.shape), s.max)
}

func clampGap(sample float64, max int64) int64 {
	gap := int64(math.Round(sample))
	if gap < 0 {
		return 0
	}
	if gap > max {
		return max
	}
	return gap
}

// Arrival processes accepted by NewArrivalSampler.
const (
	ArrivalUniform = "uniform"
	ArrivalPoisson = "poisson"
	ArrivalGamma   = "gamma"
	ArrivalWeibull = "weibull"
)

// NewArrivalSampler builds the sampler for process. Gaps are capped at maxGap;
// the non-uniform processes target a mean gap of maxGap/2 so their load matches
// the uniform default. cv is used by gamma and weibull (values <= 0 mean 1).
func NewArrivalSampler(process string, maxGap int64, cv float64) (ArrivalSampler, error) {
	mean := float64(maxGap) / 2.0
	if cv <= 0 {
		cv = 1.0
	}
	switch process {
	case "", ArrivalUniform:
		return &UniformGapSampler{max: maxGap}, nil
	case ArrivalPoisson:
		return &PoissonSampler{mean: mean, max: maxGap}, nil
	case ArrivalGamma:
		shape := 1.0 / (cv * cv)
		if shape < 0.01 {
			logrus.Warnf("Gamma shape %.4f (CV=%.1f) is very small; falling back to Poisson", shape, cv)
			return &PoissonSampler{mean: mean, max: maxGap}, nil
		}
		return &GammaSampler{shape: shape, scale: mean * cv * cv, max: maxGap}, nil
	case ArrivalWeibull:
		k := weibullShapeFromCV(cv)
		// scale = mean / Γ(1 + 1/k)
		return &WeibullSampler{shape: k, scale: mean / math.Gamma(1.0+1.0/k), max: maxGap}, nil
	default:
		return nil, fmt.Errorf("unknown arrival process %q; valid: uniform, poisson, gamma, weibull", process)
	}
}

// weibullShapeFromCV finds Weibull shape parameter k such that
// CV² = Γ(1+2/k)/Γ(1+1/k)² - 1, using bisection over k ∈ [0.1, 100].
func weibullShapeFromCV(targetCV float64) float64 {
	lo, hi := 0.1, 100.0
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2.0
		cv := weibullCV(mid)
		if math.Abs(cv-targetCV) < 0.001 {
			return mid
		}
		// CV is monotonically decreasing in k
		if cv > targetCV {
			lo = mid
		} else {
			hi = mid
		}
	}
	logrus.Warnf("weibullShapeFromCV: bisection did not converge for CV=%.3f; using k=%.3f", targetCV, (lo+hi)/2.0)
	return (lo + hi) / 2.0
}

// weibullCV computes the coefficient of variation for Weibull(k).
func weibullCV(k float64) float64 {
	g1 := math.Gamma(1.0 + 1.0/k)
	g2 := math.Gamma(1.0 + 2.0/k)
	return math.Sqrt(g2/(g1*g1) - 1.0)
}
