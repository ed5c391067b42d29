package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	studyFile string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "eventstudy",
	Short: "Event study - 이벤트 전후 누적수익률(CAR) 분석",
	Long: `Event Study CLI

일별 종가로 단순 수익률을 계산하고, 이벤트일 전후 ±w 거래일 윈도우의
누적수익률(CAR)을 구한 뒤 t-검정과 Wilcoxon 부호순위 검정을 수행합니다.

Usage:
  go run ./cmd/eventstudy [command]

Examples:
  go run ./cmd/eventstudy run
  go run ./cmd/eventstudy run --config config/study.yaml --chart
  go run ./cmd/eventstudy validate
  go run ./cmd/eventstudy db-check`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Ctrl-C cancels the running study.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&studyFile, "config", "", "study file (default is $STUDY_CONFIG or config/study.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
