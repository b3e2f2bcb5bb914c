package main

import (
	"math"
	"sync"
	"time"

	"github.com/pthm-cable/lumen/config"
	"github.com/pthm-cable/lumen/frame"
	"github.com/pthm-cable/lumen/game"
	"github.com/pthm-cable/lumen/systems"
)

// Response thresholds, as fractions of the step or of the velocity peak.
const (
	riseFraction  = 0.9
	decayFraction = 0.1
)

// evalParticles keeps each evaluation cheap; all particles see the same step.
const evalParticles = 64

// Response describes how the field reacts to a black to white step.
type Response struct {
	RiseSec   float64 // mean value first reaches riseFraction of the step
	DecaySec  float64 // mean velocity falls below decayFraction of its peak
	PeakVel   float64
	Overshoot float64 // how far mean value went past the step, 0 if never
}

// Targets are the desired response times.
type Targets struct {
	RiseSec  float64
	DecaySec float64
}

// stepClock is a wall clock advanced explicitly by the evaluation loop.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time { return c.t }

// FitnessEvaluator runs headless games against a step source and scores
// the measured response.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	targets    Targets
	fps        float64
	horizonSec float64

	mu           sync.Mutex
	lastResponse Response
}

// NewFitnessEvaluator creates a new evaluator. fps is the loop rate the
// response is measured at; horizonSec caps each run.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, targets Targets, fps, horizonSec float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
		targets:    targets,
		fps:        fps,
		horizonSec: horizonSec,
	}
}

// LastResponse returns the response measured by the most recent Evaluate call.
func (fe *FitnessEvaluator) LastResponse() Response {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResponse
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Fitness is the sum of squared relative errors against the targets plus
// an overshoot penalty.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	resp, err := fe.Measure(x)
	if err != nil {
		return math.Inf(1)
	}

	fe.mu.Lock()
	fe.lastResponse = resp
	fe.mu.Unlock()

	return fe.score(resp)
}

func (fe *FitnessEvaluator) score(r Response) float64 {
	rise := (r.RiseSec - fe.targets.RiseSec) / fe.targets.RiseSec
	decay := (r.DecaySec - fe.targets.DecaySec) / fe.targets.DecaySec
	return rise*rise + decay*decay + 10*r.Overshoot*r.Overshoot
}

// Measure runs one headless game with the parameters applied and records
// the step response. Times that never occur within the horizon are
// reported as the horizon.
func (fe *FitnessEvaluator) Measure(x []float64) (Response, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Field.ParticleCount = evalParticles
	cfg.Field.DragJitter = 0
	cfg.Field.Workers = 1
	cfg.Capture.Source = config.SourceSolid
	cfg.Capture.Width, cfg.Capture.Height = 8, 8

	if err := cfg.Finalize(); err != nil {
		return Response{}, err
	}

	clock := &stepClock{t: time.Unix(0, 0)}
	g, err := game.NewGameWithOptions(game.Options{
		Config:   cfg,
		Seed:     1,
		Headless: true,
		Source:   frame.NewSolid(8, 8, 0, 255, 255, 255),
		Now:      clock.Now,
	})
	if err != nil {
		return Response{}, err
	}
	defer g.Unload()

	interval := time.Duration(float64(time.Second) / fe.fps)
	ticks := int(fe.horizonSec * fe.fps)

	resp := Response{RiseSec: fe.horizonSec, DecaySec: fe.horizonSec}
	var risen, decayed bool
	peakTick := 0

	// Tick 0 adopts the frame; the step starts there
	g.UpdateHeadless()
	for i := 1; i <= ticks; i++ {
		clock.t = clock.t.Add(interval)
		g.UpdateHeadless()

		value, vel := meanState(g.Field())
		sec := float64(i) / fe.fps

		if value-1 > resp.Overshoot {
			resp.Overshoot = value - 1
		}
		if !risen && value >= riseFraction {
			resp.RiseSec = sec
			risen = true
		}
		if vel > resp.PeakVel {
			resp.PeakVel = vel
			peakTick = i
		}
		if !decayed && i > peakTick && vel < decayFraction*resp.PeakVel {
			resp.DecaySec = sec
			decayed = true
		}
		if risen && decayed {
			break
		}
	}

	return resp, nil
}

// meanState averages value and velocity over the field.
func meanState(f *systems.Field) (value, velocity float64) {
	particles := f.Particles()
	if len(particles) == 0 {
		return 0, 0
	}
	for i := range particles {
		value += float64(particles[i].Value())
		velocity += float64(particles[i].Velocity())
	}
	n := float64(len(particles))
	return value / n, velocity / n
}

// copyConfig creates a copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
