package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/eventstudy/internal/pricedata"
	"github.com/wonny/eventstudy/internal/studyconfig"
	"github.com/wonny/eventstudy/pkg/database"
)

// dbCheckCmd represents the db-check command
var dbCheckCmd = &cobra.Command{
	Use:   "db-check",
	Short: "PostgreSQL 연결 및 가격 데이터 확인",
	Long: `DATABASE_URL로 연결한 뒤 postgres 소스 자산의 가격 데이터 범위를 확인합니다.

확인 항목:
- 연결 / Ping
- 자산별 data.daily_prices 행 수와 기간
- 이벤트일이 가격 데이터 안에 있는지

Example:
  go run ./cmd/eventstudy db-check`,
	RunE: runDBCheck,
}

func init() {
	rootCmd.AddCommand(dbCheckCmd)
}

func runDBCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Event Study Database Check ===")

	// 1. Load config
	cfg, err := loadRuntime()
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}
	fmt.Fprintf(out, "✅ Config loaded (ENV: %s)\n", cfg.Env)
	fmt.Fprintf(out, "   Database URL: %s\n\n", maskPassword(cfg.Database.URL))

	studyCfg, _, err := loadStudy(cfg)
	if err != nil {
		return fmt.Errorf("❌ %w", err)
	}

	// 2. Connect to database
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()
	fmt.Fprintln(out, "✅ Ping successful")

	stat := db.Pool.Stat()
	fmt.Fprintf(out, "   Pool: total=%d idle=%d max=%d\n\n", stat.TotalConns(), stat.IdleConns(), stat.MaxConns())

	// 3. Per-asset coverage
	repo := pricedata.NewPriceRepository(db.Pool)
	fmt.Fprintln(out, "📊 data.daily_prices")
	checked := 0
	for _, name := range studyCfg.AssetNames() {
		asset := studyCfg.Assets[name]
		if asset.Source != studyconfig.SourcePostgres {
			continue
		}
		checked++

		code := asset.SourceCode(name)
		bars, err := repo.GetClosesByCode(ctx, code)
		if err != nil {
			fmt.Fprintf(out, "   ❌ %-8s %s: %v\n", name, code, err)
			continue
		}
		if len(bars) == 0 {
			fmt.Fprintf(out, "   ⚠️  %-8s %s: no rows\n", name, code)
			continue
		}

		first, last := bars[0].Date, bars[len(bars)-1].Date
		fmt.Fprintf(out, "   ✅ %-8s %s: %d rows (%s ~ %s)\n",
			name, code, len(bars), first.Format("2006-01-02"), last.Format("2006-01-02"))

		for _, ev := range studyCfg.Events {
			if ev.Asset != name {
				continue
			}
			date, _ := time.Parse("2006-01-02", ev.Date)
			if date.Before(first) || date.After(last) {
				fmt.Fprintf(out, "      ⚠️  %s (%s) outside stored range\n", ev.Name, ev.Date)
			}
		}
	}

	if checked == 0 {
		fmt.Fprintln(out, "   (no postgres assets in study)")
	}
	return nil
}
