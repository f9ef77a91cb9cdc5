package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/compass/backend/internal/brain"
	"github.com/wonny/compass/backend/pkg/config"
	"github.com/wonny/compass/backend/pkg/database"
	"github.com/wonny/compass/backend/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "분석 파이프라인 1회 실행",
	Long: `전체 분석 파이프라인을 한 번 실행하고 리포트를 출력합니다.

A1 → A2 → A3 → A4 → A5 → A6

각 단계:
- A1: 제품/판매 이력 로드 (+경쟁사 가격)
- A2: 재고 보충 추천
- A3: 가격 조정 추천
- A4: 마케팅 추천
- A5: 교차판매 추천
- A6: 비즈니스 인사이트

Example:
  go run ./cmd/compass analyze
  go run ./cmd/compass analyze --orders-days 30 --json`,
	RunE: runAnalyze,
}

var (
	analyzeOrderDays int
	analyzeSalesDays int
	analyzeJSON      bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Flags
	analyzeCmd.Flags().IntVar(&analyzeOrderDays, "orders-days", 90, "교차판매 분석 주문 조회 기간(일)")
	analyzeCmd.Flags().IntVar(&analyzeSalesDays, "sales-days", 30, "인사이트 일별 매출 조회 기간(일)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "리포트를 JSON으로 출력")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Compass Analysis Run ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	orchestrator := buildOrchestrator(cfg, log, db)

	runConfig := brain.DefaultRunConfig()
	runConfig.OrderWindowDays = analyzeOrderDays
	runConfig.SalesDays = analyzeSalesDays

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	result, err := orchestrator.Run(ctx, runConfig)
	if err != nil {
		return fmt.Errorf("analysis run failed: %w", err)
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Report)
	}

	report := result.Report
	fmt.Printf("\n✅ Run %s finished in %.2fs\n\n", result.RunID, result.Duration.Seconds())
	fmt.Printf("  Restock recommendations:    %d\n", len(report.Restock))
	fmt.Printf("  Pricing recommendations:    %d\n", len(report.Pricing))
	fmt.Printf("  Marketing recommendations:  %d\n", len(report.Marketing))
	fmt.Printf("  Cross-sell recommendations: %d\n", len(report.CrossSell))
	fmt.Printf("  Business insights:          %d\n", len(report.Insights))

	for _, rec := range report.Restock {
		if rec.Urgency == "critical" {
			fmt.Printf("\n  ⚠️  %s (%s): order %d units\n", rec.ProductName, rec.SKU, rec.RecommendedQuantity)
		}
	}

	return nil
}
