package commands

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/bluemf/backend/internal/scheduler"
	"github.com/wonny/bluemf/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행 (완료까지 대기)

Example:
  go run ./cmd/bluemf scheduler start
  go run ./cmd/bluemf scheduler list
  go run ./cmd/bluemf scheduler run pipeline_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- pipeline_refresh: REFRESH_SCHEDULE (기본 매일 02:00, 초 단위 포함 cron)

실패한 실행은 재시도하지 않고 다음 스케줄을 기다립니다.
스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== BlueMF Scheduler ===")

	a, sched, err := initScheduler(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	printJobStats(sched)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	printJobStats(sched)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	a, sched, err := initScheduler(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("Running job: %s\n", jobName)

	result, err := sched.RunJob(cmd.Context(), jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if !result.Success {
		PrintError(fmt.Sprintf("%s failed after %.2fs: %s", jobName, result.Duration.Seconds(), result.Error))
		return fmt.Errorf("job %s failed", jobName)
	}

	PrintSuccess(fmt.Sprintf("%s completed in %.2fs", jobName, result.Duration.Seconds()))
	return nil
}

func printJobStats(sched *scheduler.Scheduler) {
	stats := sched.GetJobStats()

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nRegistered jobs:")
	for _, name := range names {
		stat := stats[name]
		fmt.Printf("  - %s (%s)\n", name, stat.Schedule)
		if stat.NextRun != nil {
			fmt.Printf("    Next Run: %s\n", stat.NextRun.Format("2006-01-02 15:04:05"))
		}
	}
}

func initScheduler(cmd *cobra.Command) (*app, *scheduler.Scheduler, error) {
	// 1. Wire pipeline (refresh ends with a database write)
	a, err := buildApp(cmd.Context(), true)
	if err != nil {
		return nil, nil, err
	}

	// 2. Create scheduler
	sched := scheduler.New(a.log)

	// 3. Register jobs
	refresh := jobs.NewRefreshJob(a.orchestrator, a.cfg.Pipeline.RefreshSchedule, a.log)
	if err := sched.AddJob(refresh); err != nil {
		a.Close()
		return nil, nil, fmt.Errorf("init scheduler: %w", err)
	}

	return a, sched, nil
}
