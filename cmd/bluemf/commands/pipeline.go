package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/bluemf/backend/internal/brain"
	"github.com/wonny/bluemf/backend/internal/contracts"
)

// stageCommand builds a command that runs one pipeline stage
func stageCommand(use, short, long string, needDB bool, run func(*brain.Orchestrator, context.Context) contracts.StageResult) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx, needDB)
			if err != nil {
				return err
			}
			defer a.Close()

			PrintHeader(short)
			res := run(a.orchestrator, ctx)
			PrintStageResult(res)
			return stageError(res)
		},
	}
}

var (
	fetchCmd = stageCommand("fetch", "S0 회사 데이터 수집",
		`company_id.xlsx의 모든 회사를 외부 API에서 조회해
all_companies_financial_data.json에 저장합니다.

Example:
  go run ./cmd/bluemf fetch
  go run ./cmd/bluemf fetch --data-dir ./data`,
		false, (*brain.Orchestrator).Fetch)

	preprocessCmd = stageCommand("preprocess", "S1 데이터 전처리",
		`원본 아티팩트를 정규화/변환/검증/정제해
processed_financial_data.json에 저장합니다.

Example:
  go run ./cmd/bluemf preprocess`,
		false, (*brain.Orchestrator).Preprocess)

	analyzeCmd = stageCommand("analyze", "S2 지표 및 장단점 분석",
		`정제된 데이터로 CAGR/ROE/부채/배당 지표와 장단점을 계산해
analysis_data.json에 저장합니다.

Example:
  go run ./cmd/bluemf analyze`,
		false, (*brain.Orchestrator).Analyze)

	storeCmd = stageCommand("store", "S2+S3 분석 후 DB 저장",
		`분석을 실행하고 결과를 하나의 트랜잭션으로 PostgreSQL에 저장합니다.
DATABASE_URL이 필요합니다.

Example:
  go run ./cmd/bluemf store`,
		true, (*brain.Orchestrator).AnalyzeAndStore)
)

// refreshCmd runs every stage in order
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "전체 파이프라인 실행 (S0 → S3)",
	Long: `Fetch → Preprocess → Analyze → Store를 순서대로 실행합니다.
첫 번째 실패한 단계에서 중단합니다.

Example:
  go run ./cmd/bluemf refresh`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(fetchCmd, preprocessCmd, analyzeCmd, storeCmd, refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	PrintHeader("Pipeline Refresh")
	result := a.orchestrator.Refresh(ctx)
	PrintKeyValue("Run ID", result.RunID, 8)
	PrintSeparator()
	for _, res := range result.Stages {
		PrintStageResult(res)
	}
	PrintSeparator()

	if !result.OK() {
		return fmt.Errorf("refresh %s failed", result.RunID)
	}
	PrintSuccess(fmt.Sprintf("Refresh completed in %.2fs", result.Duration.Seconds()))
	return nil
}
