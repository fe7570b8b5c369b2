package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/bluemf/backend/internal/api"
	"github.com/wonny/bluemf/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                       - Health check
  POST /api/fetch-companies          - S0 수집
  POST /api/preprocess-data          - S1 전처리
  POST /api/analyze-data             - S2 분석
  POST /api/analyze-and-store        - S2 분석 + S3 저장
  GET  /api/companies                - 저장된 회사 목록
  GET  /api/companies/{id}/analysis  - 회사별 분석 결과

Example:
  go run ./cmd/bluemf api
  go run ./cmd/bluemf api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== BlueMF API Server ===")

	// 1. Wire pipeline (database optional for the HTTP surface)
	a, err := buildApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	log := a.log
	log.WithFields(map[string]interface{}{
		"port":     a.cfg.Port,
		"env":      a.cfg.Env,
		"database": a.db != nil,
		"redis":    a.redis.Enabled(),
	}).Info("Initializing API server")

	// 2. Create handlers and router
	pipelineHandler := handlers.NewPipelineHandler(a.orchestrator, log)
	companyHandler := handlers.NewCompanyHandler(a.orchestrator, log)
	router := api.NewRouter(pipelineHandler, companyHandler, log)

	// 3. Create server
	server := api.New(a.cfg, log, router)

	// 4. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost%s\n", server.Addr())
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
