package bench

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/hrtime"
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/xlog"
)

// Runner measures every (kind, op) series over the doubling sets of
// elements. The series run on a worker pool, a container never crosses
// workers.
type Runner struct {
	cfg    *config
	logger xlog.XLogger
	pool   *ants.Pool
}

func NewRunner(opts ...Option) (*Runner, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = xlog.NewXLogger(xlog.WithXLoggerLevel(xlog.LogLevelWarn))
	}
	workers := cfg.workers
	if workers == 0 {
		workers = defaultConfig().workers
	}
	pool, err := ants.NewPool(workers,
		ants.WithPreAlloc(true),
		ants.WithLogger(xlog.NewAntsXLogger(logger)),
	)
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	return &Runner{
		cfg:    cfg,
		logger: logger.Named("Bench"),
		pool:   pool,
	}, nil
}

// Run blocks until every series is measured or ctx is done. The series are
// returned in the (kind, op) order of the options, even on failure.
func (r *Runner) Run(ctx context.Context, runID string) (*Report, error) {
	ctx = context.WithValue(ctx, xlog.ContextKey("runID"), runID)
	begin := time.Now()

	report := &Report{RunID: runID}
	for _, kind := range r.cfg.kinds {
		for _, op := range r.cfg.ops {
			report.Series = append(report.Series, &Series{Kind: kind, Op: op, Repeat: r.cfg.repeat})
		}
	}
	r.logger.InfoContext(ctx, "run started",
		zap.Int("series", len(report.Series)),
		zap.Ints("sizes", r.cfg.sizes()),
		zap.Int("repeat", r.cfg.repeat),
		zap.Int("workers", r.pool.Cap()),
	)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		merr error
	)
	collect := func(err error) {
		mu.Lock()
		merr = multierr.Append(merr, err)
		mu.Unlock()
	}
	for _, s := range report.Series {
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			collect(r.runSeries(ctx, s))
		})
		if err != nil {
			wg.Done()
			collect(infra.WrapErrorStack(err))
		}
	}
	wg.Wait()
	if merr != nil {
		r.logger.ErrorStack(merr, "run failed")
		return report, merr
	}

	if err := r.publish(ctx, report); err != nil {
		r.logger.ErrorStack(err, "publish failed")
		return report, err
	}
	r.logger.InfoContext(ctx, "run finished",
		zap.Duration("in", time.Since(begin)),
		zap.Strings("files", report.Files),
	)
	return report, nil
}

func (r *Runner) runSeries(ctx context.Context, s *Series) error {
	sw := hrtime.NewStopwatch(nil)
	for _, n := range r.cfg.sizes() {
		if err := ctx.Err(); err != nil {
			return infra.WrapErrorStackWithMessage(err, "[bench] "+s.Filename()+" interrupted")
		}
		keys := genKeys(n, r.cfg.shuffle)
		if err := measure(s.Kind, s.Op, keys, s.Repeat, sw); err != nil {
			return infra.WrapErrorStackWithMessage(err, "[bench] "+s.Filename())
		}
		p := Point{
			Elements:  n,
			AvgMicros: sw.Microseconds(),
		}
		if r.cfg.memProbe != nil {
			if rss, err := r.cfg.memProbe(); err == nil {
				p.RSS = rss
			} else {
				r.logger.WarnContext(ctx, "memory sample failed", zap.Error(err))
			}
		}
		s.Points = append(s.Points, p)
		r.cfg.stats.Record(ctx, s.Kind.String(), string(s.Op), n, s.Repeat, p.AvgMicros, p.RSS)
		r.logger.DebugContext(ctx, "elements measured",
			zap.String("kind", s.Kind.String()),
			zap.String("op", string(s.Op)),
			zap.String("elements", humanize.Comma(int64(n))),
			zap.Float64("avgMicros", p.AvgMicros),
			zap.String("rss", humanize.IBytes(p.RSS)),
		)
	}
	return nil
}

func (r *Runner) publish(ctx context.Context, report *Report) error {
	var merr error
	if dir := r.cfg.outDir; dir != "" {
		files, err := writeDataFiles(dir, report.Series)
		merr = multierr.Append(merr, err)
		report.Files = files
		if r.cfg.archive != "" && err == nil {
			if err = archiveFiles(dir, r.cfg.archive, files); err == nil {
				report.Files = append(report.Files, r.cfg.archive)
				r.logger.InfoContext(ctx, "data files archived", zap.String("archive", filepath.Join(dir, r.cfg.archive)))
			}
			merr = multierr.Append(merr, err)
		}
	}
	if r.cfg.store != nil {
		merr = multierr.Append(merr, r.cfg.store.Save(ctx, report.RunID, report.Series...))
	}
	return merr
}

func (r *Runner) Close() error {
	r.pool.Release()
	return nil
}

// Kinds and Ops report what the runner measures.
func (r *Runner) Kinds() []tree.Kind { return r.cfg.kinds }
func (r *Runner) Ops() []Op          { return r.cfg.ops }
