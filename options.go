package grubix

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bebora/grubix/internal/mesh"
	"github.com/bebora/grubix/internal/solver"
)

// Default animation speeds in degrees per step.
const (
	DefaultScrambleSpeed = 5.0
	DefaultSolveSpeed    = 1.0
	DefaultReleaseSpeed  = 5.0
	DefaultStepInterval  = 4 * time.Millisecond
)

// maxCatchUpSteps bounds how many steps a single Advance may run.
const maxCatchUpSteps = 64

// BoundsSource supplies the home bounding box of every piece.
type BoundsSource interface {
	PieceBounds() ([NumPieces]Box, error)
}

// Option configures Engine behavior.
type Option func(*config)

type config struct {
	solver        Solver
	randSource    rand.Source
	scrambleMin   int
	scrambleMax   int
	scrambleSpeed float64
	solveSpeed    float64
	releaseSpeed  float64
	stepInterval  time.Duration
	bounds        BoundsSource
	logger        *logrus.Logger
	clock         func() time.Time
}

func defaultConfig() *config {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &config{
		solver:        solver.History{},
		scrambleSpeed: DefaultScrambleSpeed,
		solveSpeed:    DefaultSolveSpeed,
		releaseSpeed:  DefaultReleaseSpeed,
		stepInterval:  DefaultStepInterval,
		bounds:        mesh.SDFSource{Round: mesh.DefaultRound},
		logger:        logger,
		clock:         time.Now,
	}
}

// WithSolver sets the solver used by Solve.
// If the solver also implements SolverInitializer, Init runs once before
// the first solve.
func WithSolver(s Solver) Option {
	return func(c *config) {
		c.solver = s
	}
}

// WithRandSource sets the random source for scrambles.
func WithRandSource(src rand.Source) Option {
	return func(c *config) {
		c.randSource = src
	}
}

// WithSeed makes scrambles deterministic.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.randSource = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	}
}

// WithScrambleLength sets the inclusive scramble length range.
func WithScrambleLength(lo, hi int) Option {
	return func(c *config) {
		c.scrambleMin, c.scrambleMax = lo, hi
	}
}

// WithScrambleSpeed sets the degrees per step used while scrambling.
func WithScrambleSpeed(deg float64) Option {
	return func(c *config) {
		c.scrambleSpeed = deg
	}
}

// WithSolveSpeed sets the degrees per step used while solving.
func WithSolveSpeed(deg float64) Option {
	return func(c *config) {
		c.solveSpeed = deg
	}
}

// WithReleaseSpeed sets the degrees per step used when a drag is released.
func WithReleaseSpeed(deg float64) Option {
	return func(c *config) {
		c.releaseSpeed = deg
	}
}

// WithStepInterval sets how much time Advance consumes per animation step.
func WithStepInterval(d time.Duration) Option {
	return func(c *config) {
		c.stepInterval = d
	}
}

// WithBounds sets where piece bounds come from.
// The default computes them from the built-in piece solids.
func WithBounds(src BoundsSource) Option {
	return func(c *config) {
		c.bounds = src
	}
}

// WithMeshDir loads piece bounds from piece<N>.obj files in dir.
func WithMeshDir(dir string) Option {
	return func(c *config) {
		c.bounds = mesh.OBJSource{Dir: dir}
	}
}

// WithLogger sets the logger. By default the engine logs nowhere.
func WithLogger(l *logrus.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithClock sets the time source for move timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.clock = now
	}
}
