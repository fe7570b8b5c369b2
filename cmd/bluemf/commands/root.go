package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/bluemf/backend/pkg/config"
)

var (
	// Global flags
	env     string
	dataDir string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bluemf",
	Short: "BlueMF - 재무 데이터 분석 파이프라인",
	Long: `BlueMF Unified CLI

회사별 재무제표를 수집하고 정제한 뒤 장단점을 분석해 저장합니다.
4단계 파이프라인: Fetch → Preprocess → Analyze → Store

Usage:
  go run ./cmd/bluemf [command]

Examples:
  go run ./cmd/bluemf api
  go run ./cmd/bluemf fetch
  go run ./cmd/bluemf store
  go run ./cmd/bluemf scheduler start`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "artifact directory override (default DATA_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
}

// loadConfig loads configuration and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if env != "" {
		cfg.Env = env
	}
	if dataDir != "" {
		cfg.Pipeline.DataDir = dataDir
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}
