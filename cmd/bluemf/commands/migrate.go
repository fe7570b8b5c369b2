package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "DB 스키마 생성",
	Long: `companies, analysis, prosandcons 테이블과 인덱스를 생성합니다.
이미 존재하는 테이블은 그대로 둡니다 (IF NOT EXISTS).

Example:
  go run ./cmd/bluemf migrate`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	PrintHeader("Database Migration")
	if err := a.repository.Migrate(cmd.Context()); err != nil {
		PrintError("Migration failed")
		return fmt.Errorf("migrate: %w", err)
	}

	PrintSuccess("Schema is up to date")
	return nil
}
