package study

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/eventstudy/internal/car"
	"github.com/wonny/eventstudy/internal/contracts"
	"github.com/wonny/eventstudy/internal/returns"
	"github.com/wonny/eventstudy/internal/stattest"
	"github.com/wonny/eventstudy/internal/studyconfig"
	"github.com/wonny/eventstudy/pkg/logger"
)

// EventResult is the outcome of one configured event.
// Window is nil when WindowErr is set.
type EventResult struct {
	Event     contracts.EventSpec
	Window    *contracts.CARWindow
	WindowErr error
	Test      contracts.TestResult
	TestErr   error
}

// Err returns the first failure for the event
func (r EventResult) Err() error {
	if r.WindowErr != nil {
		return r.WindowErr
	}
	return r.TestErr
}

// Outcome returns the stable reason code ("ok" on success)
func (r EventResult) Outcome() string {
	return contracts.OutcomeReason(r.Err())
}

// Report collects every event result in configured order
type Report struct {
	StudyName   string
	ConfigHash  string
	HalfWidth   int
	Results     []EventResult
	AssetErrors map[string]error
	Duration    time.Duration
}

// Failed counts events whose outcome is not ok
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err() != nil {
			n++
		}
	}
	return n
}

// Options configures a Runner
type Options struct {
	Concurrency int // parallel asset loads, <1 means 1
}

// Runner loads assets and evaluates every event
// ⭐ SSOT: 이벤트 스터디 실행 오케스트레이션은 여기서만
type Runner struct {
	sources map[string]contracts.PriceSource
	logger  *logger.Logger
	opts    Options
}

// NewRunner creates a runner over per-asset price sources
func NewRunner(sources map[string]contracts.PriceSource, log *logger.Logger, opts Options) *Runner {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Runner{
		sources: sources,
		logger:  log.WithField("module", "study"),
		opts:    opts,
	}
}

// assetResult is the preprocessed series or the reason it is unavailable
type assetResult struct {
	series *contracts.ReturnSeries
	err    error
}

// Run executes the study. Per-asset and per-event failures are recorded in
// the report; only context cancellation and config errors are returned.
func (r *Runner) Run(ctx context.Context, cfg *studyconfig.Config) (*Report, error) {
	start := time.Now()

	events, err := cfg.EventSpecs()
	if err != nil {
		return nil, err
	}
	hash, err := studyconfig.Hash(cfg)
	if err != nil {
		return nil, fmt.Errorf("hash study config: %w", err)
	}

	halfWidth := cfg.HalfWidth()
	r.logger.WithFields(map[string]interface{}{
		"study":      cfg.Study.Name,
		"assets":     len(cfg.Assets),
		"events":     len(events),
		"half_width": halfWidth,
	}).Info("Starting event study")

	// 1. 자산별 로드 + 전처리 (asset당 1회)
	assets, err := r.loadAssets(ctx, cfg.AssetNames())
	if err != nil {
		return nil, err
	}

	report := &Report{
		StudyName:   cfg.Study.Name,
		ConfigHash:  hash,
		HalfWidth:   halfWidth,
		Results:     make([]EventResult, 0, len(events)),
		AssetErrors: make(map[string]error),
	}
	for name, a := range assets {
		if a.err != nil {
			report.AssetErrors[name] = a.err
		}
	}

	// 2. 이벤트별 윈도우 추출 + 검정 (설정 순서 유지)
	for _, ev := range events {
		res := Evaluate(assets[ev.Asset].series, assets[ev.Asset].err, ev, halfWidth)
		r.logResult(res)
		report.Results = append(report.Results, res)
	}

	report.Duration = time.Since(start)
	r.logger.WithFields(map[string]interface{}{
		"study":    cfg.Study.Name,
		"success":  len(report.Results) - report.Failed(),
		"failed":   report.Failed(),
		"duration": report.Duration.String(),
	}).Info("Event study completed")

	return report, nil
}

func (r *Runner) loadAssets(ctx context.Context, names []string) (map[string]assetResult, error) {
	results := make([]assetResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.loadAsset(gctx, name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}

	out := make(map[string]assetResult, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out, nil
}

func (r *Runner) loadAsset(ctx context.Context, name string) assetResult {
	log := r.logger.WithField("asset", name)

	src, ok := r.sources[name]
	if !ok {
		err := fmt.Errorf("no price source for asset %s", name)
		log.WithError(err).Error("Failed to load prices")
		return assetResult{err: err}
	}

	prices, err := src.Load(ctx, name)
	if err != nil {
		log.WithOutcome(err).Error("Failed to load prices")
		return assetResult{err: err}
	}

	series, err := returns.Compute(prices)
	if err != nil {
		log.WithOutcome(err).Error("Failed to preprocess prices")
		return assetResult{err: err}
	}

	log.WithFields(map[string]interface{}{
		"rows":  series.Len(),
		"first": series.FirstDate().Format("2006-01-02"),
		"last":  series.LastDate().Format("2006-01-02"),
	}).Debug("Loaded returns")
	return assetResult{series: series}
}

// Evaluate extracts the window for one event and tests it.
// assetErr short-circuits to an undefined result carrying that error.
func Evaluate(series *contracts.ReturnSeries, assetErr error, ev contracts.EventSpec, halfWidth int) EventResult {
	res := EventResult{Event: ev, Test: contracts.Undefined()}

	switch {
	case assetErr != nil:
		res.WindowErr = assetErr
		return res
	case series == nil:
		res.WindowErr = fmt.Errorf("asset %s: no return series", ev.Asset)
		return res
	}

	window, err := car.Extract(series, ev, halfWidth)
	if err != nil {
		res.WindowErr = err
		return res
	}
	res.Window = window
	res.Test, res.TestErr = stattest.Test(window)
	return res
}

func (r *Runner) logResult(res EventResult) {
	log := r.logger.WithEvent(res.Event)
	if err := res.Err(); err != nil {
		log.WithOutcome(err).Warn("Event not evaluated")
		return
	}
	log.WithFields(map[string]interface{}{
		"n":          res.Test.N,
		"t_stat":     res.Test.TStat.Value,
		"t_p":        res.Test.TPValue.Value,
		"wilcoxon_p": res.Test.SignedRankPValue.Value,
		"final_car":  res.Window.FinalCAR().Value,
	}).Info("Event evaluated")
}
