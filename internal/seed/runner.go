package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopseed/shopseed/internal/customer/repository"
	"github.com/shopseed/shopseed/internal/lock"
	"github.com/shopseed/shopseed/pkg/logger"
	"github.com/shopseed/shopseed/pkg/metrics"
)

// ReportSink receives every finished report.
type ReportSink interface {
	Store(ctx context.Context, r *Report) error
}

// Runner applies plans to a customers store.
type Runner struct {
	store           repository.Writer
	database        string
	collection      string
	locker          lock.Locker
	lockName        string
	lockTTL         time.Duration
	sinks           []ReportSink
	continueOnError bool
}

type Option func(*Runner)

// WithTarget names the database and collection in reports.
func WithTarget(database, collection string) Option {
	return func(r *Runner) {
		r.database = database
		r.collection = collection
	}
}

// WithLocker serializes runs through a named lock held for the whole run.
func WithLocker(l lock.Locker, name string, ttl time.Duration) Option {
	return func(r *Runner) {
		r.locker = l
		r.lockName = name
		r.lockTTL = ttl
	}
}

// WithSinks adds destinations for finished reports. Nil sinks are ignored.
func WithSinks(sinks ...ReportSink) Option {
	return func(r *Runner) {
		for _, s := range sinks {
			if s != nil {
				r.sinks = append(r.sinks, s)
			}
		}
	}
}

// WithContinueOnError makes the runner record a failed step and go on with
// the next one instead of halting.
func WithContinueOnError(v bool) Option {
	return func(r *Runner) { r.continueOnError = v }
}

func NewRunner(store repository.Writer, opts ...Option) *Runner {
	r := &Runner{store: store}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Apply issues the plan steps in order, each awaited before the next. The
// first failing step halts the run unless WithContinueOnError is set; steps
// after a halt are reported as skipped. The returned error joins every
// *StepError. A report is returned whenever the plan was started.
func (r *Runner) Apply(ctx context.Context, plan Plan) (*Report, error) {
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	if r.locker != nil {
		release, err := r.locker.Acquire(ctx, r.lockName, r.lockTTL)
		if err != nil {
			metrics.SeedRuns.WithLabelValues("locked").Inc()
			return nil, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logger.Warnf("seed: %v", err)
			}
		}()
	}

	rep := &Report{
		RunID:      uuid.NewString(),
		Database:   r.database,
		Collection: r.collection,
		StartedAt:  time.Now().UTC(),
		Steps:      make([]StepResult, 0, len(plan)),
	}
	log := logger.With("run", rep.RunID)
	log.Infof("applying %d steps to %s.%s", len(plan), r.database, r.collection)

	var errs []error
	for i, m := range plan {
		res := StepResult{Index: i + 1, Op: m.Kind, Target: m.Target()}
		if rep.Halted {
			res.Skipped = true
			rep.Steps = append(rep.Steps, res)
			metrics.SeedMutations.WithLabelValues(string(m.Kind), "skipped").Inc()
			continue
		}

		start := time.Now()
		err := ctx.Err()
		if err == nil {
			err = r.apply(ctx, m, &res)
		}
		res.Duration = time.Since(start)

		if err != nil {
			res.Error = err.Error()
			errs = append(errs, &StepError{Index: res.Index, Op: m.Kind, Err: err})
			metrics.SeedMutations.WithLabelValues(string(m.Kind), "error").Inc()
			log.Errorf("step %d %s failed: %v", res.Index, m, err)
			if !r.continueOnError || ctx.Err() != nil {
				rep.Halted = true
			}
		} else {
			metrics.SeedMutations.WithLabelValues(string(m.Kind), "ok").Inc()
			log.Infof("step %d %s", res.Index, m)
		}
		rep.Steps = append(rep.Steps, res)
	}
	rep.FinishedAt = time.Now().UTC()

	err := errors.Join(errs...)
	outcome := "ok"
	if err != nil {
		rep.Error = err.Error()
		outcome = "failed"
	}
	metrics.SeedRuns.WithLabelValues(outcome).Inc()
	log.Infof("run finished: %d/%d steps applied, halted=%v", rep.Applied(), len(plan), rep.Halted)

	r.deliver(context.WithoutCancel(ctx), rep)
	return rep, err
}

func (r *Runner) apply(ctx context.Context, m Mutation, res *StepResult) error {
	switch m.Kind {
	case KindInsertOne:
		if err := r.store.InsertOne(ctx, m.Documents[0]); err != nil {
			return err
		}
		res.Inserted = 1
	case KindInsertMany:
		n, err := r.store.InsertMany(ctx, m.Documents)
		res.Inserted = n
		if err != nil {
			return err
		}
	case KindUpdateOne:
		ur, err := r.store.UpdateByID(ctx, m.ID, m.Patch)
		if err != nil {
			return err
		}
		res.Matched, res.Modified = ur.Matched, ur.Modified
	case KindDeleteOne:
		n, err := r.store.DeleteByID(ctx, m.ID)
		if err != nil {
			return err
		}
		res.Deleted = n
	default:
		return fmt.Errorf("unknown mutation kind %q", m.Kind)
	}
	return nil
}

// deliver hands the report to every sink. Sink failures are logged only.
func (r *Runner) deliver(ctx context.Context, rep *Report) {
	for _, s := range r.sinks {
		if err := s.Store(ctx, rep); err != nil {
			logger.Warnf("seed: report %s not stored: %v", rep.RunID, err)
		}
	}
}
