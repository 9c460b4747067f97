package search

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Defaults used by the tree-of-thought method.
const (
	DefaultBudget   = 200 * time.Second
	DefaultMaxDepth = 10
)

// ErrOracleUnavailable wraps any infrastructure error returned by the
// oracle. The search stops instead of treating the failure as a dead end.
var ErrOracleUnavailable = errors.New("oracle unavailable")

// Outcome is how a search run ended.
type Outcome int

const (
	Timeout Outcome = iota
	Reached
	Exhausted
	DepthExceeded
)

func (o Outcome) String() string {
	switch o {
	case Reached:
		return "reached"
	case Exhausted:
		return "exhausted"
	case DepthExceeded:
		return "depth_exceeded"
	default:
		return "timeout"
	}
}

// Result is the terminal state of a search run. Plan is empty unless
// Outcome is Reached.
type Result struct {
	Outcome     Outcome
	Plan        Plan
	Expansions  int
	Evaluations int
	Elapsed     time.Duration
}

// Options tunes a Controller.
type Options struct {
	// PruneOnDepth drops a popped plan deeper than maxDepth and keeps
	// searching. When false, the first such plan ends the whole search
	// with DepthExceeded, which is how the reference experiments behaved.
	PruneOnDepth bool

	// Now is the clock used for the time budget. Defaults to time.Now.
	Now func() time.Time

	// OnExpand is called for every plan popped from the frontier.
	OnExpand func(priority float64, plan Plan)

	// OnEvaluate is called for every classified successor.
	OnEvaluate func(plan Plan, verdict Verdict)
}

// Controller runs best-first search over partial plans. A Controller holds
// no per-run state; every Search call owns its own frontier.
type Controller struct {
	oracle Oracle
	opts   Options
}

// NewController creates a controller backed by oracle.
func NewController(oracle Oracle, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{oracle: oracle, opts: opts}
}

// Search expands plans for problem until the oracle reports one as reached,
// the frontier empties, the budget is spent, or a popped plan exceeds
// maxDepth. Oracle failures and context cancellation are returned as errors.
func (c *Controller) Search(ctx context.Context, problem Problem, budget time.Duration, maxDepth int) (Result, error) {
	start := c.opts.Now()
	elapsed := func() time.Duration { return c.opts.Now().Sub(start) }

	var res Result
	done := func(outcome Outcome, plan Plan) (Result, error) {
		res.Outcome = outcome
		res.Plan = plan
		res.Elapsed = elapsed()
		return res, nil
	}

	f := &frontier{}
	f.push(0, Plan{})

	for elapsed() < budget && f.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		current := f.pop()
		if current.plan.Len() > maxDepth {
			if c.opts.PruneOnDepth {
				continue
			}
			return done(DepthExceeded, Plan{})
		}

		res.Expansions++
		if c.opts.OnExpand != nil {
			c.opts.OnExpand(current.priority, current.plan)
		}

		candidates, err := c.oracle.ProposeSteps(ctx, problem, current.plan)
		if err != nil {
			return res, fmt.Errorf("%w: propose steps: %w", ErrOracleUnavailable, err)
		}

		for _, raw := range candidates {
			if elapsed() >= budget {
				break
			}
			line, ok := ParseStep(raw)
			if !ok {
				continue
			}
			if err := ctx.Err(); err != nil {
				return res, err
			}

			next := current.plan.Extend(line)
			answer, err := c.oracle.Classify(ctx, problem, next)
			if err != nil {
				return res, fmt.Errorf("%w: classify: %w", ErrOracleUnavailable, err)
			}
			res.Evaluations++

			verdict := ParseVerdict(answer)
			if c.opts.OnEvaluate != nil {
				c.opts.OnEvaluate(next, verdict)
			}

			switch verdict.Kind {
			case VerdictReached:
				return done(Reached, next)
			case VerdictScore:
				if verdict.Score > 0 {
					f.push(current.priority+1/verdict.Score, next)
				}
			}
		}
	}

	if f.Len() == 0 {
		return done(Exhausted, Plan{})
	}
	return done(Timeout, Plan{})
}
