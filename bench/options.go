package bench

import (
	"runtime"

	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

const (
	defaultStart  = 1 << 10
	defaultMax    = 1 << 20
	defaultRepeat = 10
)

type config struct {
	start    int
	max      int
	repeat   int
	workers  int
	shuffle  bool
	outDir   string
	archive  string
	kinds    []tree.Kind
	ops      []Op
	logger   xlog.XLogger
	stats    *observability.BenchStats
	store    *ResultStore
	memProbe func() (uint64, error)
}

func (cfg *config) validate() error {
	if cfg.start <= 0 || cfg.max < cfg.start {
		return infra.NewErrorStack("[bench] sizes must satisfy 0 < start <= max")
	}
	if cfg.repeat <= 0 {
		return infra.NewErrorStack("[bench] repeat must be positive")
	}
	if len(cfg.kinds) == 0 || len(cfg.ops) == 0 {
		return infra.NewErrorStack("[bench] nothing to run")
	}
	if cfg.archive != "" && cfg.outDir == "" {
		return infra.NewErrorStack("[bench] the archive is built from the output dir")
	}
	return nil
}

// sizes doubles from start while the size does not exceed max.
func (cfg *config) sizes() []int {
	sizes := make([]int, 0, 16)
	for n := cfg.start; n <= cfg.max; n *= 2 {
		sizes = append(sizes, n)
	}
	return sizes
}

type Option func(*config) error

func WithSizes(start, limit int) Option {
	return func(cfg *config) error {
		cfg.start, cfg.max = start, limit
		return nil
	}
}

func WithRepeat(repeat int) Option {
	return func(cfg *config) error {
		cfg.repeat = repeat
		return nil
	}
}

// WithWorkers bounds the series measured concurrently, each series owns its
// containers. Zero means GOMAXPROCS.
func WithWorkers(workers int) Option {
	return func(cfg *config) error {
		if workers < 0 {
			return infra.NewErrorStack("[bench] negative workers")
		}
		cfg.workers = workers
		return nil
	}
}

// WithShuffle inserts the keys in random order instead of ascending order.
func WithShuffle() Option {
	return func(cfg *config) error {
		cfg.shuffle = true
		return nil
	}
}

// WithOutDir writes one gnuplot data file per series into dir.
func WithOutDir(dir string) Option {
	return func(cfg *config) error {
		cfg.outDir = dir
		return nil
	}
}

// WithArchive packs the data files into the zip named name, under the
// output dir.
func WithArchive(name string) Option {
	return func(cfg *config) error {
		cfg.archive = name
		return nil
	}
}

func WithKinds(kinds ...tree.Kind) Option {
	return func(cfg *config) error {
		cfg.kinds = lo.Uniq(kinds)
		return nil
	}
}

func WithOps(ops ...Op) Option {
	return func(cfg *config) error {
		for _, op := range ops {
			if !op.valid() {
				return infra.NewErrorStack("[bench] unknown op: " + string(op))
			}
		}
		cfg.ops = lo.Uniq(ops)
		return nil
	}
}

func WithLogger(logger xlog.XLogger) Option {
	return func(cfg *config) error {
		cfg.logger = logger
		return nil
	}
}

func WithStats(stats *observability.BenchStats) Option {
	return func(cfg *config) error {
		cfg.stats = stats
		return nil
	}
}

func WithResultStore(store *ResultStore) Option {
	return func(cfg *config) error {
		cfg.store = store
		return nil
	}
}

func withMemProbe(probe func() (uint64, error)) Option {
	return func(cfg *config) error {
		cfg.memProbe = probe
		return nil
	}
}

func defaultConfig() *config {
	return &config{
		start:    defaultStart,
		max:      defaultMax,
		repeat:   defaultRepeat,
		workers:  runtime.GOMAXPROCS(0),
		kinds:    []tree.Kind{tree.KindAVL, tree.KindRB, tree.KindSplay},
		ops:      AllOps(),
		memProbe: processRSS,
	}
}
