package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/eventstudy/internal/studyconfig"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "스터디 설정 파일 검증",
	Long: `설정 파일을 읽고 검증만 수행합니다 (가격 데이터는 로드하지 않음).

Example:
  go run ./cmd/eventstudy validate
  go run ./cmd/eventstudy validate --config config/study.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuntime()
	if err != nil {
		return err
	}

	studyCfg, hash, err := loadStudy(cfg)
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ %s is valid\n", cfg.StudyConfigPath)
	fmt.Fprintf(out, "   Study      : %s\n", studyCfg.Study.Name)
	fmt.Fprintf(out, "   Half width : %d\n", studyCfg.HalfWidth())
	fmt.Fprintf(out, "   Hash       : %s\n", hash)

	fmt.Fprintf(out, "\n📋 Assets (%d)\n", len(studyCfg.Assets))
	for _, name := range studyCfg.AssetNames() {
		a := studyCfg.Assets[name]
		switch a.Source {
		case studyconfig.SourceCSV:
			fmt.Fprintf(out, "   %-8s csv       %s\n", name, cfg.ResolveDataPath(a.Path))
		default:
			fmt.Fprintf(out, "   %-8s %-9s %s\n", name, a.Source, a.SourceCode(name))
		}
	}

	fmt.Fprintf(out, "\n📅 Events (%d)\n", len(studyCfg.Events))
	for _, ev := range studyCfg.Events {
		fmt.Fprintf(out, "   %-14s %-8s %s\n", ev.Name, ev.Asset, ev.Date)
	}
	return nil
}
