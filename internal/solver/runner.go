package solver

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/san-kum/astarviz/internal/trace"
)

var (
	ErrRetriesExhausted = errors.New("solver: too many failed runs")
	ErrNoRuns           = errors.New("solver: runs must be positive")
)

// RetryPolicy bounds how failed solver executions are retried.
type RetryPolicy struct {
	// MaxFailures is the number of failed executions tolerated per
	// measurement. Zero retries forever.
	MaxFailures int
	// PerSecond caps how many executions are started per second. Zero
	// means no pacing.
	PerSecond float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxFailures: 20}
}

// Executor runs a command and returns its standard output.
type Executor func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecCommand runs name as a child process.
func ExecCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

type Runner struct {
	Runs   int
	Policy RetryPolicy
	Exec   Executor
	Logger *log.Logger

	limiter *rate.Limiter
}

func NewRunner(runs int, policy RetryPolicy) *Runner {
	limit := rate.Inf
	burst := 0
	if policy.PerSecond > 0 {
		limit = rate.Limit(policy.PerSecond)
		burst = 1
	}
	return &Runner{
		Runs:    runs,
		Policy:  policy,
		Exec:    ExecCommand,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}

// Best executes m until Runs executions succeed and returns the trace with
// the smallest execution time. A failed execution, either a non-zero exit
// or output that is not a trace, is logged and does not count as a run.
func (r *Runner) Best(ctx context.Context, m Measurement) (*trace.Trace, error) {
	if r.Runs < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrNoRuns, r.Runs)
	}
	if r.limiter == nil {
		r.limiter = rate.NewLimiter(rate.Inf, 0)
	}
	execute := r.Exec
	if execute == nil {
		execute = ExecCommand
	}
	logger := r.logger()
	cmd := m.Command()

	var best *trace.Trace
	failures := 0
	for run := 0; run < r.Runs; {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		logger.Debug("running solver", "run", run+1, "of", r.Runs, "cmd", cmd)
		tr, err := r.once(ctx, execute, m)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failures++
			logger.Error("solver run failed", "cmd", cmd, "err", err, "failures", failures)
			if r.Policy.MaxFailures > 0 && failures >= r.Policy.MaxFailures {
				return nil, fmt.Errorf("%w: %s: %d failures, last: %v", ErrRetriesExhausted, cmd, failures, err)
			}
			continue
		}

		run++
		if best == nil || tr.ExecutionTime < best.ExecutionTime {
			best = tr
		}
	}

	logger.Debug("best run", "measurement", m, "execution_time", best.ExecutionTime, "events", len(best.Events))
	return best, nil
}

func (r *Runner) once(ctx context.Context, execute Executor, m Measurement) (*trace.Trace, error) {
	out, err := execute(ctx, m.Binary(), m.Args()...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, exitErr.Stderr)
		}
		return nil, err
	}
	return trace.Parse(out)
}

// Collect measures every selected algorithm in lane order. Sequential runs
// ignore threads.
func (r *Runner) Collect(ctx context.Context, problem, instance string, algos []trace.Algorithm, threads int) (trace.Set, error) {
	var set trace.Set
	for _, a := range algos {
		if !a.Valid() {
			return set, fmt.Errorf("%w: %d", trace.ErrUnknownAlgorithm, int(a))
		}
		m := Measurement{Problem: problem, Instance: instance, Algorithm: a, Threads: threads}
		if a == trace.Sequential {
			m.Threads = 0
		}
		tr, err := r.Best(ctx, m)
		if err != nil {
			return set, err
		}
		set[a] = tr
	}
	return set, nil
}
