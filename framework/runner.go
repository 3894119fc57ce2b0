package framework

import (
	"context"
	"math/rand"
	"os"
	"time"
)

// DefaultTimeout is how long a spec may run when RunConfig does not say otherwise.
const DefaultTimeout = time.Second * 5

const (
	reasonFiltered = "excluded by filter parameters"
	reasonStopped  = "run stopped after a spec failure"
)

// RunConfig controls how Execute runs specs.
type RunConfig struct {
	// Filter excludes specs for which it returns false. Nil runs everything.
	Filter Filter
	// Random shuffles the children of every suite using Seed.
	Random bool
	Seed   int64
	// StopSpecOnExpectationFailure makes every failed expectation behave like FailNow.
	StopSpecOnExpectationFailure bool
	// StopOnSpecFailure excludes all remaining specs once one has failed.
	StopOnSpecFailure bool
	// DefaultTimeout bounds every spec; zero means DefaultTimeout.
	DefaultTimeout time.Duration
}

// Env runs suites and delivers their lifecycle events to reporters.
type Env struct {
	config    RunConfig
	reporters reporterList
	logger    Logger
}

// NewEnv creates an Env with a DotReporter writing to stdout already registered.
func NewEnv(config RunConfig, logger Logger) *Env {
	if logger == nil {
		logger = NullLogger()
	}
	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = DefaultTimeout
	}
	return &Env{
		config:    config,
		reporters: reporterList{NewDotReporter(os.Stdout)},
		logger:    logger,
	}
}

// ClearReporters removes every registered reporter, including the default one.
func (e *Env) ClearReporters() {
	e.reporters = nil
}

func (e *Env) AddReporter(r Reporter) {
	if r != nil {
		e.reporters = append(e.reporters, r)
	}
}

type runState struct {
	env     *Env
	rng     *rand.Rand
	stopped bool
	result  RunResult
}

// Execute runs every spec declared in root and returns the combined result. Reporter callbacks
// are made from the calling goroutine, one at a time.
func (e *Env) Execute(root *Suite) RunResult {
	started := time.Now()
	order := Order{Random: e.config.Random}
	run := &runState{env: e}
	if e.config.Random {
		order.Seed = e.config.Seed
		run.rng = rand.New(rand.NewSource(e.config.Seed))
	}
	run.result.Order = order

	total := root.SpecCount()
	e.logger.Printf("Starting run of %d specs (random: %t, seed: %d)", total, order.Random, order.Seed)
	e.reporters.RunStarted(RunInfo{TotalSpecsDefined: total, Order: order})

	run.runChildren(root)

	result := run.result
	result.Duration = time.Since(started)
	ran := 0
	for _, s := range result.Specs {
		if s.Status == StatusPassed || s.Status == StatusFailed {
			ran++
		}
	}
	switch {
	case len(result.Failures) != 0:
		result.OverallStatus = OverallFailed
	case run.stopped:
		result.OverallStatus, result.IncompleteReason = OverallIncomplete, reasonStopped
	case ran == 0:
		result.OverallStatus, result.IncompleteReason = OverallIncomplete, "no specs found"
	default:
		result.OverallStatus = OverallPassed
	}
	e.logger.Printf("Run finished with status %s in %s", result.OverallStatus, result.Duration)
	e.reporters.RunFinished(result)
	return result
}

func (r *runState) runChildren(s *Suite) {
	children := s.children
	if r.rng != nil && len(children) > 1 {
		children = append([]suiteChild(nil), children...)
		r.rng.Shuffle(len(children), func(i, j int) { children[i], children[j] = children[j], children[i] })
	}
	for _, c := range children {
		if c.spec != nil {
			r.runSpec(s, c.spec)
		} else {
			r.runSuite(c.suite)
		}
	}
}

func (r *runState) runSuite(s *Suite) {
	r.env.reporters.SuiteStarted(newSuiteInfo(s.id))
	failuresBefore := len(r.result.Failures)

	r.runChildren(s)

	status := StatusPassed
	if len(r.result.Failures) > failuresBefore {
		status = StatusFailed
	}
	r.env.reporters.SuiteFinished(SuiteResult{
		ID:          s.id,
		Description: s.id.Description(),
		FullName:    s.id.FullName(),
		Status:      status,
	})
}

func (r *runState) runSpec(parent *Suite, spec *specDef) {
	result := newSpecResult(spec.id)
	r.env.reporters.SpecStarted(result)

	switch {
	case r.stopped:
		result.Status, result.PendingReason = StatusExcluded, reasonStopped
	case r.env.config.Filter != nil && !r.env.config.Filter(spec.id):
		result.Status, result.PendingReason = StatusExcluded, reasonFiltered
	case spec.pendingReason != "":
		result.Status, result.PendingReason = StatusPending, spec.pendingReason
	default:
		r.execute(parent, spec, &result)
	}

	r.result.Specs = append(r.result.Specs, result)
	if result.Failed() {
		r.result.Failures = append(r.result.Failures, result)
		if r.env.config.StopOnSpecFailure {
			r.stopped = true
		}
	}
	r.env.reporters.SpecFinished(result)
}

func (r *runState) execute(parent *Suite, spec *specDef, result *SpecResult) {
	timeout := r.env.config.DefaultTimeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	t := newT(ctx, spec.id, timeout, r.env.config.StopSpecOnExpectationFailure)
	before, after := parent.hooks()
	finished := make(chan struct{})
	started := time.Now()
	r.env.logger.Printf("Starting spec %s", spec.id)

	go func() {
		defer close(finished)
		ok := true
		for _, h := range before {
			if ok = t.run(h); !ok {
				break
			}
		}
		if ok {
			t.run(spec.action)
		}
		for _, h := range after {
			t.run(h)
		}
	}()

	select {
	case <-finished:
	case <-ctx.Done():
		select {
		case <-finished:
		default:
			r.env.logger.Printf("Spec %s timed out after %s", spec.id, timeout)
			t.timedOut()
		}
	}

	result.Duration = time.Since(started)
	result.Status, result.PendingReason, result.FailedExpectations = t.finish()
	result.DebugOutput = t.debugLogger.Output()
}
