// Package automation runs scripted scenarios, parameter sweeps and
// randomized trials on top of experiments.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/storage"
	"gopkg.in/yaml.v3"
)

var ErrEmptyScenario = errors.New("scenario has no steps")

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Config takes precedence over Preset;
// with neither the default configuration is used.
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Config   string             `yaml:"config"`
	Seed     *int64             `yaml:"seed"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Params   map[string]float64 `yaml:"params"`
	Metrics  []string           `yaml:"metrics"`
	SaveAs   string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyScenario)
	}
	return &scenario, nil
}

// resolve builds the configuration a step runs with.
func (step ScenarioStep) resolve() (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case step.Config != "":
		cfg, err = config.Load(step.Config)
	case step.Preset != "":
		cfg, err = config.Preset(step.Preset)
	default:
		cfg = config.DefaultConfig()
	}
	if err != nil {
		return nil, err
	}

	if step.Seed != nil {
		cfg.Seed = *step.Seed
	}
	if step.Duration > 0 {
		cfg.Run.Duration = step.Duration
	}
	if step.Dt > 0 {
		cfg.Run.Dt = step.Dt
	}
	for k, v := range step.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	if step.SaveAs != "" {
		cfg.Name = step.SaveAs
	}
	return cfg, nil
}

// Runner executes scenarios and sweeps, logging progress. A nil store
// means nothing is saved.
type Runner struct {
	store *storage.Store
	log   *log.Logger
}

func NewRunner(store *storage.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{store: store, log: logger}
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Step   int
	Name   string
	RunID  string
	Result *sim.Result
}

// RunScenario executes all steps in a scenario
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		r.log.Info("running step", "step", i+1, "of", len(scenario.Steps), "config", cfg.Name, "seed", cfg.Seed)

		exp, err := experiment.New(cfg, step.Metrics...)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Name: cfg.Name, Result: result}
		if step.SaveAs != "" && r.store != nil {
			id, err := r.store.Save(cfg, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
			r.log.Info("saved", "run", id)
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs simulations across a range of parameter values
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Metrics   []string
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Stats      sim.Stats
	MaxEnergy  float64
	MinEnergy  float64
	Escaped    int
}

// RunSweep executes a parameter sweep
func (r *Runner) RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		exp, err := experiment.New(cfg, sweep.Metrics...)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		sr := SweepResult{
			ParamValue: paramVal,
			Metrics:    result.Metrics,
			Stats:      result.Stats,
			Escaped:    exp.Simulation().Escaped(),
		}
		if len(result.Samples) > 0 {
			sr.MinEnergy, sr.MaxEnergy = result.Samples[0].Total, result.Samples[0].Total
			for _, s := range result.Samples {
				sr.MinEnergy = min(sr.MinEnergy, s.Total)
				sr.MaxEnergy = max(sr.MaxEnergy, s.Total)
			}
		}
		results = append(results, sr)

		r.log.Info("sweep", "step", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// MonteCarloConfig defines randomized trials around a base configuration.
// Every trial draws a fresh seed and scales each named parameter by a
// factor in [1-Perturbation, 1+Perturbation].
type MonteCarloConfig struct {
	Base         *config.Config
	Params       []string
	Perturbation float64
	NumTrials    int
	Seed         int64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID int
	Seed    int64
	Params  map[string]float64
	Escaped int
	Stable  bool
}

// RunMonteCarlo executes multiple trials with random perturbations. A trial
// is stable when no ball left the arena and every ball stayed finite and
// below the temperature cap.
func (r *Runner) RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, mc.NumTrials)
	rng := rand.New(rand.NewSource(mc.Seed))
	baseParams := mc.Base.GetParams()

	for trial := 0; trial < mc.NumTrials; trial++ {
		cfg := mc.Base.Clone()
		cfg.Seed = rng.Int63()
		params := make(map[string]float64, len(mc.Params))
		for _, name := range mc.Params {
			base, ok := baseParams[name]
			if !ok {
				return nil, fmt.Errorf("%w: %s", sim.ErrUnknownParam, name)
			}
			v := base * (1 + (rng.Float64()-0.5)*2*mc.Perturbation)
			if err := cfg.SetParam(name, v); err != nil {
				return nil, err
			}
			params[name] = v
		}

		exp, err := experiment.New(cfg, "stability")
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		escaped := exp.Simulation().Escaped()
		results = append(results, MonteCarloResult{
			TrialID: trial,
			Seed:    cfg.Seed,
			Params:  params,
			Escaped: escaped,
			Stable:  escaped == 0 && result.Metrics["stability"] == 1,
		})

		if (trial+1)%10 == 0 {
			r.log.Info("monte carlo", "done", trial+1, "of", mc.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
