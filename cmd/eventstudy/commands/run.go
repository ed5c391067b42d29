package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wonny/eventstudy/internal/pricedata"
	"github.com/wonny/eventstudy/internal/report"
	"github.com/wonny/eventstudy/internal/study"
	"github.com/wonny/eventstudy/internal/studyconfig"
	"github.com/wonny/eventstudy/pkg/config"
	"github.com/wonny/eventstudy/pkg/database"
	"github.com/wonny/eventstudy/pkg/httputil"
	"github.com/wonny/eventstudy/pkg/logger"
)

const (
	naverUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
	naverReferer   = "https://finance.naver.com/"
)

var (
	runHalfWidth int
	runEvents    []string
	runChart     bool
	runFormat    string
	runStrict    bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "이벤트 스터디 실행",
	Long: `설정 파일의 모든 이벤트에 대해 CAR 윈도우를 추출하고 검정합니다.

단계:
- 자산별 가격 로드 (csv | postgres | naver)
- 단순 수익률 계산
- 이벤트 윈도우 (±w 거래일) + CAR
- t-검정 / Wilcoxon 부호순위 검정

Example:
  go run ./cmd/eventstudy run
  go run ./cmd/eventstudy run --half-width 10 --event TSLA_illegal --chart
  go run ./cmd/eventstudy run --format json`,
	RunE: runStudy,
}

func init() {
	runCmd.Flags().IntVar(&runHalfWidth, "half-width", 0, "override window half width w (window = 2w+1 days)")
	runCmd.Flags().StringSliceVar(&runEvents, "event", nil, "only run the named events (repeatable)")
	runCmd.Flags().BoolVar(&runChart, "chart", false, "draw an ASCII CAR chart per event")
	runCmd.Flags().StringVar(&runFormat, "format", "text", "output format (text|json)")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "exit non-zero when any event is not evaluated")
	rootCmd.AddCommand(runCmd)
}

func runStudy(cmd *cobra.Command, args []string) error {
	if runFormat != "text" && runFormat != "json" {
		return fmt.Errorf("unknown format %q (text|json)", runFormat)
	}
	if runHalfWidth < 0 {
		return fmt.Errorf("--half-width must be >= 1")
	}

	// 1. Load config
	cfg, err := loadRuntime()
	if err != nil {
		return err
	}
	log := newLogger(cfg, cmd.ErrOrStderr())

	studyCfg, _, err := loadStudy(cfg)
	if err != nil {
		return err
	}
	studyCfg, err = studyCfg.Select(runEvents)
	if err != nil {
		return err
	}
	if runHalfWidth > 0 {
		studyCfg.Study.WindowHalfWidth = runHalfWidth
	}

	ctx := cmd.Context()

	// 2. Build price sources
	deps, cleanup, err := buildDeps(ctx, cfg, log, studyCfg)
	if err != nil {
		return err
	}
	defer cleanup()

	sources, err := pricedata.NewSources(studyCfg, deps)
	if err != nil {
		return err
	}

	// 3. Run
	runner := study.NewRunner(sources, log, study.Options{Concurrency: cfg.LoadConcurrency})
	rep, err := runner.Run(ctx, studyCfg)
	if err != nil {
		return fmt.Errorf("run study: %w", err)
	}

	// 4. Output
	if err := writeReport(cmd.OutOrStdout(), rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if runStrict && rep.Failed() > 0 {
		return fmt.Errorf("%d of %d events not evaluated", rep.Failed(), len(rep.Results))
	}
	return nil
}

// buildDeps opens only the connections the study needs
func buildDeps(ctx context.Context, cfg *config.Config, log *logger.Logger, studyCfg *studyconfig.Config) (pricedata.Deps, func(), error) {
	deps := pricedata.Deps{Config: cfg, Logger: log}
	cleanup := func() {}

	if studyCfg.UsesSource(studyconfig.SourcePostgres) {
		db, err := database.New(ctx, cfg)
		if err != nil {
			return deps, cleanup, fmt.Errorf("connect to database: %w", err)
		}
		deps.DB = db.Pool
		cleanup = db.Close
	}

	if studyCfg.UsesSource(studyconfig.SourceNaver) {
		deps.HTTP = httputil.New(cfg, log).
			WithHeader("User-Agent", naverUserAgent).
			WithHeader("Referer", naverReferer)
	}

	return deps, cleanup, nil
}

func writeReport(w io.Writer, rep *study.Report) error {
	if runFormat == "json" {
		return report.WriteJSON(w, rep)
	}
	return report.Write(w, rep, report.Options{Chart: runChart})
}
