package sim

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/randstream/collection"
)

// Config describes one Monte Carlo run.
type Config struct {
	Samples      int     // samples per cell
	Distribution string  // uniform, weibull, exponential, normal
	K            float64 // weibull shape
	Lambda       float64 // weibull scale / exponential rate
	Mu           float64 // normal mean
	Sigma        float64 // normal stddev
	Logger       *log.Logger
}

// Runner draws samples from an Auto (scalar generator or collection) and
// summarises them. The draw order is deterministic, so a run is exactly
// reproducible from the source's seeds.
type Runner struct {
	config Config
}

// New creates a runner with the given configuration.
func New(config Config) *Runner {
	return &Runner{config: config}
}

// Run draws config.Samples values per cell and returns the pooled summary.
func (r *Runner) Run(src *collection.Auto) (*Summary, error) {
	if r.config.Samples <= 0 {
		return nil, fmt.Errorf("sim: samples must be positive, got %d", r.config.Samples)
	}

	if r.config.Logger != nil {
		r.config.Logger.Debug("starting run",
			"distribution", r.config.Distribution,
			"samples", r.config.Samples,
			"cells", src.Size())
	}

	out, err := r.draw(src)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	summary.AddAll(out)

	if r.config.Logger != nil {
		r.config.Logger.Info("run complete",
			"n", summary.Count,
			"mean", summary.Mean(),
			"stddev", summary.StdDev())
	}
	return summary, nil
}

func (r *Runner) draw(src *collection.Auto) ([]float64, error) {
	n := r.config.Samples
	switch r.config.Distribution {
	case "", "uniform":
		return src.Random(n).Data(), nil
	case "weibull":
		out, err := src.Weibull(r.config.K, r.config.Lambda, n)
		if err != nil {
			return nil, err
		}
		return out.Data(), nil
	case "exponential":
		out, err := src.Exponential(r.config.Lambda, n)
		if err != nil {
			return nil, err
		}
		return out.Data(), nil
	case "normal":
		out, err := src.Normal(r.config.Mu, r.config.Sigma, n)
		if err != nil {
			return nil, err
		}
		return out.Data(), nil
	default:
		return nil, fmt.Errorf("sim: unknown distribution %q", r.config.Distribution)
	}
}
