package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xtree/bench"
	"github.com/benz9527/xtree/lib/id"
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

type flags struct {
	start       int
	max         int
	repeat      int
	workers     int
	shuffle     bool
	kinds       []string
	ops         []string
	outDir      string
	archive     string
	dbPath      string
	metrics     string
	metricsAddr string
	logLevel    string
	logDir      string
	logJSON     bool
}

type banner struct{}

func (banner) JSON() string {
	return `{"app":"xtree-bench","desc":"ordered container benchmarks"}`
}

func (banner) PlainText() string {
	return "xtree-bench: ordered container benchmarks"
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:          "xtree-bench",
		Short:        "Times insert, search, remove, sort, getitem and iteration of the ordered containers.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, f)
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&f.start, "start", 1<<10, "Smallest set of elements, doubled up to --max.")
	fs.IntVar(&f.max, "max", 1<<20, "Largest set of elements.")
	fs.IntVar(&f.repeat, "repeat", 10, "Trials per set of elements.")
	fs.IntVar(&f.workers, "workers", 0, "Series measured concurrently, 0 means GOMAXPROCS.")
	fs.BoolVar(&f.shuffle, "shuffle", false, "Insert the keys in random order.")
	fs.StringSliceVar(&f.kinds, "kinds", []string{"avl", "rbtree", "splay"}, "Trees to measure: bst, avl, rbtree, splay.")
	fs.StringSliceVar(&f.ops, "ops", nil, "Operations to measure, all of them if empty.")
	fs.StringVar(&f.outDir, "out-dir", "bench-data", "Directory of the gnuplot data files, empty disables them.")
	fs.StringVar(&f.archive, "archive", "", "Zip the data files into this archive under --out-dir.")
	fs.StringVar(&f.dbPath, "db", "", "Sqlite database keeping the results of every run.")
	fs.StringVar(&f.metrics, "metrics", "none", "Metrics exporter: none, stdout or prometheus.")
	fs.StringVar(&f.metricsAddr, "metrics-addr", ":9464", "Listen address of the prometheus handler.")
	fs.StringVar(&f.logLevel, "log-level", os.Getenv("XLOG_LVL"), "Log level, XLOG_LVL by default.")
	fs.StringVar(&f.logDir, "log-dir", "", "Also log into xtree-bench.log under this directory.")
	fs.BoolVar(&f.logJSON, "log-json", false, "Log as JSON instead of plain text.")
	return cmd
}

func (f *flags) options() ([]bench.Option, error) {
	kinds := make([]tree.Kind, 0, len(f.kinds))
	for _, name := range f.kinds {
		k, err := bench.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	opts := []bench.Option{
		bench.WithSizes(f.start, f.max),
		bench.WithRepeat(f.repeat),
		bench.WithWorkers(f.workers),
		bench.WithKinds(kinds...),
		bench.WithOutDir(f.outDir),
		bench.WithArchive(f.archive),
	}
	if len(f.ops) > 0 {
		ops := make([]bench.Op, 0, len(f.ops))
		for _, op := range f.ops {
			ops = append(ops, bench.Op(strings.TrimSpace(op)))
		}
		opts = append(opts, bench.WithOps(ops...))
	}
	if f.shuffle {
		opts = append(opts, bench.WithShuffle())
	}
	return opts, nil
}

func newLogger(lc fx.Lifecycle, f *flags) xlog.XLogger {
	opts := []xlog.XLoggerOption{
		xlog.WithXLoggerStdOutWriter(),
		xlog.WithXLoggerContextFieldExtract("runID"),
		xlog.WithXLoggerEncoder(xlog.PlainText),
	}
	if f.logJSON {
		opts = append(opts, xlog.WithXLoggerEncoder(xlog.JSON))
	}
	if lvl := strings.TrimSpace(f.logLevel); lvl != "" {
		opts = append(opts, xlog.WithXLoggerLevelName(lvl))
	}
	if f.logDir != "" {
		opts = append(opts, xlog.WithXLoggerFileWriter(&xlog.FileCoreConfig{
			FilePath: f.logDir,
			Filename: "xtree-bench.log",
		}))
	}
	logger := xlog.NewXLogger(opts...)
	lc.Append(fx.StopHook(func() error {
		return xlog.CloseXLogger(logger)
	}))
	return logger
}

func newStats(lc fx.Lifecycle, f *flags, logger xlog.XLogger) (*observability.BenchStats, error) {
	var (
		shutdown observability.ShutdownFunc
		err      error
	)
	switch f.metrics {
	case "", "none":
		return nil, nil
	case "stdout":
		shutdown, err = observability.NewConsoleMetricsExporter(os.Stdout, time.Minute)
	case "prometheus":
		if shutdown, err = observability.NewPrometheusMetricsExporter(); err == nil {
			serveMetrics(lc, f.metricsAddr, logger)
		}
	default:
		err = infra.NewErrorStack("unknown metrics exporter: " + f.metrics)
	}
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(shutdown))
	observability.InitAppStats(context.Background(), "app", nil)
	return observability.NewBenchStats(nil)
}

func serveMetrics(lc fx.Lifecycle, addr string, logger xlog.XLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.ErrorStack(infra.WrapErrorStack(err), "metrics server failed")
				}
			}()
			return nil
		},
		OnStop: srv.Shutdown,
	})
}

func newStore(lc fx.Lifecycle, f *flags, logger xlog.XLogger) (*bench.ResultStore, error) {
	if f.dbPath == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(f.dbPath), 0o755); err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	store, err := bench.OpenResultStore(f.dbPath, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(store.Close))
	return store, nil
}

func newRunner(
	lc fx.Lifecycle,
	f *flags,
	logger xlog.XLogger,
	stats *observability.BenchStats,
	store *bench.ResultStore,
) (*bench.Runner, error) {
	opts, err := f.options()
	if err != nil {
		return nil, err
	}
	opts = append(opts,
		bench.WithLogger(logger),
		bench.WithStats(stats),
	)
	if store != nil {
		opts = append(opts, bench.WithResultStore(store))
	}
	r, err := bench.NewRunner(opts...)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(r.Close))
	return r, nil
}

func newRunIDGen() (id.RunIDGen, error) {
	return id.NewRunIDGen(8, nil)
}

func run(ctx context.Context, f *flags) (err error) {
	var (
		logger xlog.XLogger
		runner *bench.Runner
		nextID id.RunIDGen
	)
	app := fx.New(
		fx.Supply(f),
		fx.Provide(newLogger, newStats, newStore, newRunner, newRunIDGen),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Populate(&logger, &runner, &nextID),
	)
	if err = app.Err(); err != nil {
		return err
	}
	if err = app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err = multierr.Append(err, app.Stop(stopCtx))
	}()

	logger.Banner(banner{})
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Logf(zapcore.InfoLevel, format, args...)
	})); err != nil {
		logger.Warn("unable to set GOMAXPROCS", zap.Error(err))
	}

	runID := nextID()
	report, err := runner.Run(ctx, runID)
	if err != nil {
		return err
	}
	points := 0
	for _, s := range report.Series {
		points += len(s.Points)
	}
	logger.Info("benchmark done",
		zap.String("runID", runID),
		zap.Int("series", len(report.Series)),
		zap.String("points", humanize.Comma(int64(points))),
		zap.Strings("files", report.Files),
	)
	return nil
}
