// Package service wires ingestion, scoring, classification and the snapshot
// store, and answers the queries of the HTTP API, the CLI and the MCP tools.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/abcboard/internal/adapters/ingest"
	"github.com/okian/abcboard/internal/adapters/repository"
	"github.com/okian/abcboard/internal/config"
	"github.com/okian/abcboard/internal/domain/category"
	"github.com/okian/abcboard/internal/domain/model"
	"github.com/okian/abcboard/internal/domain/pipeline"
	"github.com/okian/abcboard/internal/domain/scoring"
	"github.com/okian/abcboard/internal/domain/stats"
	"github.com/okian/abcboard/internal/domain/types"
	"github.com/okian/abcboard/pkg/logger"
	"github.com/okian/abcboard/pkg/metrics"
)

// engine holds the scoring artifacts built from a validated configuration.
type engine struct {
	scorer     *scoring.WeightedScorer
	classifier *category.Classifier
	bucketer   *pipeline.Bucketer
}

func newEngine(cfg *config.Config) (*engine, error) {
	scorer, err := scoring.NewWeightedScorer(cfg.WeightConfig())
	if err != nil {
		return nil, err
	}
	bands := cfg.BandList()
	classifier, err := category.NewClassifier(bands)
	if err != nil {
		return nil, err
	}
	bucketer, err := pipeline.NewBucketer(cfg.Buckets, bands)
	if err != nil {
		return nil, err
	}
	return &engine{scorer: scorer, classifier: classifier, bucketer: bucketer}, nil
}

// classify scores and classifies one employee.
func (e *engine) classify(emp model.Employee) (model.ClassifiedEmployee, error) {
	r := e.scorer.Score(emp.Scores)
	band, err := e.classifier.Classify(r.Total)
	if err != nil {
		return model.ClassifiedEmployee{}, fmt.Errorf("employee %s: %w", emp.ID, err)
	}
	return model.ClassifiedEmployee{Employee: emp, TotalScore: r.Total, HasAnyData: r.HasAnyData, Category: band}, nil
}

// Service implements the read model of the talent dashboard.
type Service struct {
	mu sync.Mutex
	// reloadMu serializes loads from Start, Reload and the reload loop.
	reloadMu sync.Mutex

	cfg    *config.Config
	source ingest.Source
	store  repository.Store
	engine atomic.Pointer[engine]

	lastReport atomic.Pointer[ingest.Report]

	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg:    config.New(),
		store:  repository.NewSnapshotStore(),
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the scoring engine, loads the first snapshot and, when
// configured, starts the periodic reload loop. A configuration error aborts
// startup.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.logger.Info(ctx, "starting talent service...")

	eng, err := newEngine(s.cfg)
	if err != nil {
		s.logger.Error(ctx, "invalid scoring configuration", logger.Error(err))
		return err
	}
	s.engine.Store(eng)

	if s.source == nil {
		format, err := ingest.ParseFormat(s.cfg.DataFormat)
		if err != nil {
			return err
		}
		src, err := ingest.NewFileSource(s.cfg.DataPath, format,
			ingest.WithLegacyScale(s.cfg.LegacyScale),
			ingest.WithLogger(s.logger.Named("ingest")),
		)
		if err != nil {
			return err
		}
		s.source = src
	}

	if _, err := s.reload(ctx); err != nil {
		return err
	}

	if s.cfg.ReloadIntervalSec > 0 {
		interval := time.Duration(s.cfg.ReloadIntervalSec) * time.Second
		s.wg.Add(1)
		go s.reloadLoop(ctx, interval)
	}

	s.started = true
	s.logger.Info(ctx, "talent service started",
		logger.Int("employees", s.store.Count(ctx)),
		logger.Int("reloadIntervalSec", s.cfg.ReloadIntervalSec),
	)
	return nil
}

// Stop ends the reload loop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping talent service...")

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	s.wg.Wait()

	s.started = false
	s.logger.Info(context.Background(), "talent service stopped")
}

func (s *Service) reloadLoop(ctx context.Context, interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if _, err := s.reload(ctx); err != nil {
				s.logger.Warn(ctx, "periodic reload failed, keeping previous snapshot", logger.Error(err))
			}
		}
	}
}

// Reload re-reads the data source and publishes a new snapshot. On failure
// the previous snapshot stays in place.
func (s *Service) Reload(ctx context.Context) (ingest.Report, error) {
	if s.engine.Load() == nil {
		return ingest.Report{}, ErrNotStarted
	}
	return s.reload(ctx)
}

func (s *Service) reload(ctx context.Context) (ingest.Report, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	begin := time.Now()
	rep, err := s.load(ctx)
	metrics.RecordReload(err == nil, float64(time.Since(begin).Milliseconds()))
	if err != nil {
		s.logger.Error(ctx, "reload failed", logger.Error(err))
		return rep, err
	}
	s.logger.Info(ctx, "snapshot published",
		logger.String("source", rep.Source),
		logger.Int("accepted", rep.Accepted),
		logger.Int("rejected", len(rep.Rejected)),
		logger.Duration("took", time.Since(begin)),
	)
	return rep, nil
}

func (s *Service) load(ctx context.Context) (ingest.Report, error) {
	if s.source == nil {
		return ingest.Report{}, ErrNoSource
	}
	eng := s.engine.Load()

	emps, rep, err := s.source.Load(ctx)
	if err != nil {
		return rep, err
	}
	for _, r := range rep.Rejected {
		metrics.RecordRejected(r.Reason)
	}

	classified := make([]model.ClassifiedEmployee, 0, len(emps))
	for _, emp := range emps {
		ce, err := eng.classify(emp)
		if err != nil {
			metrics.RecordConfigurationError()
			return rep, err
		}
		classified = append(classified, ce)
	}
	if err := s.store.Replace(ctx, classified); err != nil {
		return rep, err
	}

	s.lastReport.Store(&rep)
	metrics.UpdateEmployeesLoaded(len(classified))
	metrics.UpdateCategoryDistribution(stats.Distribution(classified))
	return rep, nil
}

// Status reports the loaded snapshot.
func (s *Service) Status(ctx context.Context) types.Status {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	st := types.Status{
		Started:   started,
		Employees: s.store.Count(ctx),
		Version:   s.store.Version(ctx),
		LoadedAt:  s.store.LoadedAt(ctx),
	}
	if rep := s.lastReport.Load(); rep != nil {
		st.Rejected = len(rep.Rejected)
		st.Source = rep.Source
	}
	return st
}

// LastReport returns the ingestion report of the current snapshot.
func (s *Service) LastReport() (ingest.Report, bool) {
	rep := s.lastReport.Load()
	if rep == nil {
		return ingest.Report{}, false
	}
	return *rep, true
}

// Config returns the active configuration.
func (s *Service) Config() *config.Config { return s.cfg }

func (s *Service) ready() (*engine, error) {
	eng := s.engine.Load()
	if eng == nil {
		return nil, ErrNotStarted
	}
	return eng, nil
}

// Employees lists employees matching f. The limit is capped at max_list_limit.
func (s *Service) Employees(ctx context.Context, f repository.Filter) ([]model.ClassifiedEmployee, int, error) {
	eng, err := s.ready()
	if err != nil {
		return nil, 0, err
	}
	if f.Category != "" {
		if _, ok := eng.classifier.Lookup(f.Category); !ok {
			return nil, 0, fmt.Errorf("%w: %q", ErrUnknownCategory, f.Category)
		}
	}
	if f.Limit == 0 || f.Limit > s.cfg.MaxListLimit {
		f.Limit = s.cfg.MaxListLimit
	}
	return s.store.Find(ctx, f)
}

// Departments lists the distinct department names of the snapshot, sorted.
func (s *Service) Departments(ctx context.Context) ([]string, error) {
	if _, err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.Departments(ctx), nil
}

// Employee resolves one employee by ID, employee code or email.
func (s *Service) Employee(ctx context.Context, key string) (repository.Entry, error) {
	if _, err := s.ready(); err != nil {
		return repository.Entry{}, err
	}
	return s.store.Get(ctx, key)
}

// Pipeline buckets the population into the talent pipeline.
func (s *Service) Pipeline(ctx context.Context) (pipeline.Result, []string, error) {
	eng, err := s.ready()
	if err != nil {
		return nil, nil, err
	}
	return eng.bucketer.Bucket(s.store.All(ctx)), eng.bucketer.Names(), nil
}

// DepartmentStats summarizes the population per department.
func (s *Service) DepartmentStats(ctx context.Context) ([]stats.GroupSummary, error) {
	return s.summarize(ctx, stats.ByDepartment)
}

// CategoryStats summarizes the population per talent category.
func (s *Service) CategoryStats(ctx context.Context) ([]stats.GroupSummary, error) {
	return s.summarize(ctx, stats.ByCategory)
}

// PositionStats summarizes the population per position.
func (s *Service) PositionStats(ctx context.Context) ([]stats.GroupSummary, error) {
	return s.summarize(ctx, stats.ByPosition)
}

func (s *Service) summarize(ctx context.Context, key stats.KeyFunc) ([]stats.GroupSummary, error) {
	if _, err := s.ready(); err != nil {
		return nil, err
	}
	return stats.Summarize(s.store.All(ctx), key), nil
}

// Overview returns the headline figures.
func (s *Service) Overview(ctx context.Context) (stats.Overview, error) {
	if _, err := s.ready(); err != nil {
		return stats.Overview{}, err
	}
	return stats.Summary(s.store.All(ctx), s.cfg.TopPerformerMin, s.cfg.RiskCategory), nil
}

// Top returns the best scoring employees.
func (s *Service) Top(ctx context.Context, limit int) ([]model.ClassifiedEmployee, error) {
	if _, err := s.ready(); err != nil {
		return nil, err
	}
	return stats.TopPerformers(s.store.All(ctx), s.capLimit(limit)), nil
}

// Risk returns the employees of the risk category, lowest total first.
func (s *Service) Risk(ctx context.Context, limit int) ([]model.ClassifiedEmployee, error) {
	if _, err := s.ready(); err != nil {
		return nil, err
	}
	return stats.AtRisk(s.store.All(ctx), s.cfg.RiskCategory, s.capLimit(limit)), nil
}

func (s *Service) capLimit(limit int) int {
	if limit <= 0 || limit > s.cfg.MaxListLimit {
		return s.cfg.MaxListLimit
	}
	return limit
}

// Alerts evaluates the dashboard alerts.
func (s *Service) Alerts(ctx context.Context) ([]stats.Alert, error) {
	if _, err := s.ready(); err != nil {
		return nil, err
	}
	all := s.store.All(ctx)
	depts := stats.Summarize(all, stats.ByDepartment)
	risk := stats.Summary(all, s.cfg.TopPerformerMin, s.cfg.RiskCategory).RiskEmployees
	return stats.Alerts(depts, risk, s.cfg.AlertThresholds()), nil
}

// Bands returns the talent categories, highest first.
func (s *Service) Bands() ([]model.Band, error) {
	eng, err := s.ready()
	if err != nil {
		return nil, err
	}
	return eng.classifier.Bands(), nil
}

// Classify scores and classifies an ad-hoc score set. Scores outside the
// scale are an InputDataError.
func (s *Service) Classify(_ context.Context, scores model.ScoreSet) (types.ClassifyResult, error) {
	eng, err := s.ready()
	if err != nil {
		return types.ClassifyResult{}, err
	}
	if err := scoring.ValidateScoreSet("request", scores); err != nil {
		return types.ClassifyResult{}, err
	}
	r := eng.scorer.Score(scores)
	band, err := eng.classifier.Classify(r.Total)
	if err != nil {
		metrics.RecordConfigurationError()
		return types.ClassifyResult{}, err
	}
	metrics.RecordClassification()
	return types.ClassifyResult{TotalScore: r.Total, HasData: r.HasAnyData, Category: band}, nil
}
