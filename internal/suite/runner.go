// Package suite runs every configured check of a set of tables once and
// collects the outcomes into a report.
package suite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderjulianmartinez/columnwatch/internal/checks"
	"github.com/alexanderjulianmartinez/columnwatch/internal/config"
	"github.com/alexanderjulianmartinez/columnwatch/internal/entitylink"
	"github.com/alexanderjulianmartinez/columnwatch/internal/source"
	"github.com/alexanderjulianmartinez/columnwatch/internal/telemetry"
)

type Runner struct {
	registry     *checks.Registry
	introspector source.SchemaIntrospector
	dispatcher   source.QueryDispatcher
	metrics      *telemetry.Metrics
	logger       *zap.Logger
	concurrency  int
	now          func() time.Time
}

type Option func(*Runner)

func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithConcurrency bounds how many checks run at once. Values below 1 mean 1.
func WithConcurrency(n int) Option {
	return func(r *Runner) { r.concurrency = n }
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

func NewRunner(registry *checks.Registry, introspector source.SchemaIntrospector, dispatcher source.QueryDispatcher, opts ...Option) *Runner {
	r := &Runner{
		registry:     registry,
		introspector: introspector,
		dispatcher:   dispatcher,
		logger:       zap.NewNop(),
		concurrency:  1,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.concurrency < 1 {
		r.concurrency = 1
	}
	return r
}

type job struct {
	table string
	def   checks.Definition
}

// Run evaluates every check of every table. Results keep configuration order.
// A configuration error in any check stops the run and is returned.
func (r *Runner) Run(ctx context.Context, tables []config.TableConfig) (*Report, error) {
	started := r.now().UTC()
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: started,
	}
	log := r.logger.With(zap.String("run_id", report.RunID))

	var jobs []job
	for _, t := range tables {
		summary := TableSummary{Name: t.Name, Checks: len(t.Checks)}
		if inspector, ok := r.introspector.(source.TableInspector); ok {
			if info, err := inspector.InspectTable(ctx, t.Name); err != nil {
				log.Warn("table inspection failed", zap.String("table", t.Name), zap.Error(err))
			} else {
				summary = summarize(info, len(t.Checks))
			}
		}
		report.Tables = append(report.Tables, summary)

		for _, c := range t.Checks {
			jobs = append(jobs, job{
				table: t.Name,
				def: checks.Definition{
					Name:       c.Name,
					EntityLink: c.EntityLink,
					Kind:       c.Type,
					Parameters: c.Parameters,
				},
			})
		}
	}

	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			ec := checks.ExecutionContext{
				Table:         j.table,
				Introspector:  r.introspector,
				Dispatcher:    r.dispatcher,
				ExecutionDate: started,
			}
			begin := time.Now()
			out, err := r.registry.Evaluate(gctx, j.def, ec)
			if err != nil {
				return fmt.Errorf("table %s: %w", j.table, err)
			}
			r.metrics.Observe(j.def.Kind, out.Status, time.Since(begin))
			log.Info("check evaluated",
				zap.String("table", j.table),
				zap.String("check", j.def.Name),
				zap.String("status", string(out.Status)))

			results[i] = Result{
				Table:   j.table,
				Check:   j.def.Name,
				Kind:    j.def.Kind,
				Column:  entitylink.ColumnName(j.def.EntityLink),
				Outcome: out,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Results = results
	report.Duration = r.now().UTC().Sub(started)
	return report, nil
}
