package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/bluemf/backend/internal/artifact"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "파이프라인 상태 조회",
	Long: `아티팩트 존재 여부와 저장된 회사 수를 표시합니다.

표시 정보:
- all_companies_financial_data.json (S0 결과)
- processed_financial_data.json (S1 결과)
- analysis_data.json (S2 결과)
- companies 테이블 행 수 (DATABASE_URL 설정 시)

Example:
  go run ./cmd/bluemf status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	PrintHeader("Pipeline Status")
	PrintKeyValue("Data dir", a.cfg.Pipeline.DataDir, 34)
	PrintKeyValue("Rules", rulesLabel(a.cfg.Pipeline.RulesFile), 34)
	PrintSeparator()

	present := a.orchestrator.Describe()
	for _, name := range []string{artifact.RawFile, artifact.ProcessedFile, artifact.AnalysisFile} {
		mark := "❌ missing"
		if present[name] {
			mark = "✅ present"
		}
		PrintKeyValue(name, mark, 34)
	}

	PrintSeparator()
	if a.db == nil {
		PrintInfo("DATABASE_URL not set, skipping database status")
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	companies, err := a.orchestrator.ListCompanies(ctx)
	if err != nil {
		PrintError(fmt.Sprintf("Database read failed: %v", err))
		return nil
	}
	PrintKeyValue("Stored companies", fmt.Sprintf("%d", len(companies)), 34)
	return nil
}

func rulesLabel(path string) string {
	if path == "" {
		return "built-in defaults"
	}
	return path
}
