package bench

import (
	"context"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/xlog"
)

// Result is one persisted point of a series.
type Result struct {
	ID        uint   `gorm:"primaryKey"`
	RunID     string `gorm:"index;size:64"`
	Kind      string `gorm:"size:16"`
	Op        string `gorm:"size:16"`
	Elements  int
	Repeat    int
	AvgMicros float64
	RSSBytes  uint64
	CreatedAt time.Time
}

func (Result) TableName() string {
	return "bench_results"
}

// ResultStore keeps the points of every run in a sqlite database, so that
// runs on different revisions can be compared.
type ResultStore struct {
	db *gorm.DB
}

// OpenResultStore opens the sqlite database at dsn, ":memory:" keeps it in
// memory.
func OpenResultStore(dsn string, logger xlog.XLogger) (*ResultStore, error) {
	cfg := &gorm.Config{}
	if logger != nil {
		cfg.Logger = xlog.NewGormXLogger(logger, xlog.WithGormXLoggerIgnoreRecord404Err())
	}
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[bench] unable to open result store")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	// Single writer, and the in-memory database lives in its one connection.
	sqlDB.SetMaxOpenConns(1)
	if err = db.AutoMigrate(&Result{}); err != nil {
		_ = sqlDB.Close()
		return nil, infra.WrapErrorStackWithMessage(err, "[bench] unable to migrate result store")
	}
	return &ResultStore{db: db}, nil
}

func (s *ResultStore) Save(ctx context.Context, runID string, series ...*Series) error {
	rows := make([]Result, 0, 32)
	for _, ss := range series {
		for _, p := range ss.Points {
			rows = append(rows, Result{
				RunID:     runID,
				Kind:      ss.Kind.String(),
				Op:        string(ss.Op),
				Elements:  p.Elements,
				Repeat:    ss.Repeat,
				AvgMicros: p.AvgMicros,
				RSSBytes:  p.RSS,
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return infra.WrapErrorStack(s.db.WithContext(ctx).CreateInBatches(rows, 100).Error)
}

// Query returns the points of a run ordered by kind, op and elements.
func (s *ResultStore) Query(ctx context.Context, runID string) ([]Result, error) {
	var rows []Result
	err := s.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("kind").Order("op").Order("elements").
		Find(&rows).Error
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	return rows, nil
}

// Runs lists the run ids, the most recent first.
func (s *ResultStore) Runs(ctx context.Context) ([]string, error) {
	var runIDs []string
	err := s.db.WithContext(ctx).
		Model(&Result{}).
		Group("run_id").
		Order("MAX(created_at) DESC").
		Pluck("run_id", &runIDs).Error
	if err != nil {
		return nil, infra.WrapErrorStack(err)
	}
	return runIDs, nil
}

func (s *ResultStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return infra.WrapErrorStack(err)
	}
	return sqlDB.Close()
}
